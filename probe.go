package hwid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darkit/hwid/internal/logging"
)

// Identifier names a hardware value read through a probe chain.
type Identifier string

const (
	IdentifierCPU   Identifier = "cpu"
	IdentifierDisk  Identifier = "disk"
	IdentifierBoard Identifier = "board"
)

var (
	// ErrEmptyValue is recorded when a probe succeeded but produced nothing.
	ErrEmptyValue = errors.New("empty value returned")
	// ErrNoProbes is returned when an identifier has no probe configured.
	ErrNoProbes = errors.New("no probes configured")
)

// Probe is one strategy for reading an identifier.
type Probe interface {
	Name() string
	Probe(ctx context.Context) (string, error)
}

type funcProbe struct {
	name string
	fn   func(ctx context.Context) (string, error)
}

// NewProbe wraps fn as a named Probe.
func NewProbe(name string, fn func(ctx context.Context) (string, error)) Probe {
	return &funcProbe{name: name, fn: fn}
}

func (p *funcProbe) Name() string { return p.name }

func (p *funcProbe) Probe(ctx context.Context) (string, error) { return p.fn(ctx) }

// commandProbe runs an external utility and extracts the value from its stdout.
type commandProbe struct {
	name     string
	executor CommandExecutor
	command  string
	args     []string
	parse    func(string) (string, error)
}

func (p *commandProbe) Name() string { return p.name }

func (p *commandProbe) Probe(ctx context.Context) (string, error) {
	out, err := p.executor.Execute(ctx, p.command, p.args...)
	if err != nil {
		return "", err
	}
	return p.parse(out)
}

// runProbes tries probes in order; the first non-empty success wins.
// Each probe gets its own timeout when timeout > 0. When every probe fails
// the returned error joins each probe's failure. Failures are logged at debug
// level through the logger carried by ctx.
func runProbes(ctx context.Context, probes []Probe, timeout time.Duration) (string, error) {
	if len(probes) == 0 {
		return "", ErrNoProbes
	}

	log := logging.FromContext(ctx)
	var errs []error
	for _, p := range probes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		value, err := runProbe(ctx, p, timeout)
		if err == nil {
			value = strings.TrimSpace(value)
			if value == "" {
				err = ErrEmptyValue
			}
		}
		if err != nil {
			log.DebugContext(ctx, "probe failed", logging.KeyProbe, p.Name(), logging.KeyError, err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		log.DebugContext(ctx, "probe succeeded", logging.KeyProbe, p.Name())
		return value, nil
	}
	return "", errors.Join(errs...)
}

func runProbe(ctx context.Context, p Probe, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.Probe(ctx)
}

// cimQuery describes the WMI class/property behind an identifier.
type cimQuery struct {
	class    string
	property string
	wmic     string // wmic alias
	first    bool   // only the first instance
}

var cimQueries = map[Identifier]cimQuery{
	IdentifierCPU:   {class: "Win32_Processor", property: "ProcessorId", wmic: "cpu"},
	IdentifierDisk:  {class: "Win32_DiskDrive", property: "SerialNumber", wmic: "diskdrive", first: true},
	IdentifierBoard: {class: "Win32_BaseBoard", property: "SerialNumber", wmic: "baseboard"},
}

func (q cimQuery) powershellScript() string {
	script := "Get-CimInstance -ClassName " + q.class + " | Select-Object"
	if q.first {
		script += " -First 1"
	}
	return script + " -ExpandProperty " + q.property
}

// defaultProbes builds the chain for id: native WMI (optional), PowerShell CIM, then wmic.
func defaultProbes(id Identifier, executor CommandExecutor, nativeWMI bool) []Probe {
	q, ok := cimQueries[id]
	if !ok {
		return nil
	}

	var probes []Probe
	if nativeWMI {
		if p := nativeWMIProbe(q); p != nil {
			probes = append(probes, p)
		}
	}
	probes = append(probes,
		&commandProbe{
			name:     "powershell",
			executor: executor,
			command:  "powershell",
			args:     powershellArgs(q.powershellScript()),
			parse:    parsePowerShellValue,
		},
		&commandProbe{
			name:     "wmic",
			executor: executor,
			command:  "wmic",
			args:     []string{q.wmic, "get", q.property},
			parse:    parseWMICColumn,
		},
	)
	return probes
}

func powershellArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// psQuote renders s as a single-quoted PowerShell literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
