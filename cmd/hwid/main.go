package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darkit/hwid"
	"github.com/darkit/hwid/internal/config"
	"github.com/darkit/hwid/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds what the persistent pre-run builds for every subcommand.
type app struct {
	configFile string
	logLevel   string
	logFormat  string
	output     string

	cfg        *config.Config
	gw         *hwid.Gateway
	logFile    io.Closer
	gatewayFor func(cfg *config.Config) *hwid.Gateway
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{gatewayFor: newGateway}
	rootCmd := a.rootCmd()
	err := rootCmd.ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hwid",
		Short: "Windows hardware identifier viewer and editor",
		Long: "hwid shows the machine GUID, product ID, CPU/disk/board serials and MAC address,\n" +
			"computes a composite fingerprint, and can change the GUID, the product ID\n" +
			"and an adapter MAC address. Without a subcommand it opens the interactive menu.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runMenu,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default: hwid.yaml in "+config.Dir()+" or .)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.StringVarP(&a.output, "output", "o", "", "output format: text, json or yaml")

	rootCmd.AddCommand(
		a.createShowCmd(),
		a.createFingerprintCmd(),
		a.createSetGuidCmd(),
		a.createSetProductIDCmd(),
		a.createAdaptersCmd(),
		a.createSetMacCmd(),
		a.createBackupCmd(),
		a.createRestoreCmd(),
		a.createElevateCmd(),
		a.createMenuCmd(),
		createVersionCmd(),
	)
	return rootCmd
}

// setup loads config, applies flag overrides, starts logging and builds the gateway.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if a.output != "" {
		cfg.Output = strings.ToLower(a.output)
	}
	cfg.Validate()

	var w io.Writer = cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		rw, err := logging.NewRotatingWriter(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = rw
		w = logging.TeeWriter(w, rw)
	}
	logging.Init(cfg.LogFormat, cfg.LogLevel, w)

	a.cfg = cfg
	a.gw = a.gatewayFor(cfg)
	logging.L("cli").Debug("gateway ready", "command", cmd.Name(), "elevated", a.gw.IsElevated())
	return nil
}

func newGateway(cfg *config.Config) *hwid.Gateway {
	return hwid.New(
		hwid.WithProbeTimeout(cfg.ProbeTimeout),
		hwid.WithRestartDelay(cfg.RestartDelay),
		hwid.WithNativeWMI(cfg.NativeWMI),
		hwid.WithLogger(logging.L("gateway")),
	)
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}
