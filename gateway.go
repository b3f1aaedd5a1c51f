package hwid

import (
	"context"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/darkit/hwid/internal/logging"
)

// DefaultRestartDelay is the pause between disabling and re-enabling an adapter.
const DefaultRestartDelay = 2 * time.Second

// Gateway issues read and write operations against the OS identifiers.
// It only carries collaborators; every call queries the OS again.
type Gateway struct {
	executor     CommandExecutor
	registry     Registry
	elevated     func() bool
	relaunch     func() error
	exit         func(int)
	interfaces   func() ([]net.Interface, error)
	hostInfo     func(ctx context.Context) HostInfo
	probes       map[Identifier][]Probe
	nativeWMI    bool
	probeTimeout time.Duration
	restartDelay time.Duration
	tempDir      string
	log          *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithExecutor replaces the subprocess runner.
func WithExecutor(e CommandExecutor) Option {
	return func(g *Gateway) { g.executor = e }
}

// WithRegistry replaces the HKLM registry.
func WithRegistry(r Registry) Option {
	return func(g *Gateway) { g.registry = r }
}

// WithElevation replaces the privilege check.
func WithElevation(fn func() bool) Option {
	return func(g *Gateway) { g.elevated = fn }
}

// WithRelauncher replaces the elevated relaunch request.
func WithRelauncher(fn func() error) Option {
	return func(g *Gateway) { g.relaunch = fn }
}

// WithExit replaces os.Exit, called after a successful elevated relaunch.
func WithExit(fn func(int)) Option {
	return func(g *Gateway) { g.exit = fn }
}

// WithInterfaces replaces net.Interfaces for MAC selection.
func WithInterfaces(fn func() ([]net.Interface, error)) Option {
	return func(g *Gateway) { g.interfaces = fn }
}

// WithHostInfo replaces the platform/host name source.
func WithHostInfo(fn func(ctx context.Context) HostInfo) Option {
	return func(g *Gateway) { g.hostInfo = fn }
}

// WithProbes sets the ordered probe chain for one identifier.
func WithProbes(id Identifier, probes ...Probe) Option {
	return func(g *Gateway) { g.probes[id] = probes }
}

// WithNativeWMI puts a COM based WMI probe in front of the default chains.
// It has no effect outside Windows.
func WithNativeWMI(enabled bool) Option {
	return func(g *Gateway) { g.nativeWMI = enabled }
}

// WithProbeTimeout bounds each probe and each spawned utility.
func WithProbeTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.probeTimeout = d }
}

// WithRestartDelay sets the adapter disable/enable pause.
func WithRestartDelay(d time.Duration) Option {
	return func(g *Gateway) { g.restartDelay = d }
}

// WithTempDir sets where registry exports are staged during backup.
func WithTempDir(dir string) Option {
	return func(g *Gateway) { g.tempDir = dir }
}

// WithLogger sets the gateway logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// New returns a Gateway wired to the live OS unless overridden by opts.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		registry:     SystemRegistry(),
		elevated:     isElevated,
		relaunch:     relaunchElevated,
		exit:         os.Exit,
		interfaces:   net.Interfaces,
		hostInfo:     systemHostInfo,
		probes:       make(map[Identifier][]Probe),
		probeTimeout: DefaultCommandTimeout,
		restartDelay: DefaultRestartDelay,
		log:          logging.L("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.executor == nil {
		g.executor = NewCommandExecutor(g.probeTimeout)
	}
	for id := range cimQueries {
		if _, ok := g.probes[id]; !ok {
			g.probes[id] = defaultProbes(id, g.executor, g.nativeWMI)
		}
	}
	return g
}

// IsElevated reports whether the process may write HKLM and restart adapters.
func (g *Gateway) IsElevated() bool {
	return g.elevated()
}

// RelaunchElevated starts a new elevated instance and exits the current one.
// It is a no-op when already elevated.
func (g *Gateway) RelaunchElevated(ctx context.Context) error {
	const op = "RelaunchElevated"
	if g.elevated() {
		return nil
	}
	if err := g.relaunch(); err != nil {
		if KindOf(err) == KindUnsupported {
			return newError(KindUnsupported, op, "cannot request elevation on this platform", err)
		}
		return newError(KindExternalTool, op, "elevation request failed", err)
	}
	logging.WithOp(g.log, op).InfoContext(ctx, "elevated instance started, exiting")
	g.exit(0)
	return nil
}

func (g *Gateway) requireElevation(op string) error {
	if g.elevated() {
		return nil
	}
	return newError(KindPermissionDenied, op, "administrator privileges required", nil)
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
