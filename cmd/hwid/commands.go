package main

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/darkit/hwid"
	"github.com/darkit/hwid/internal/console"
)

func (a *app) createShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show all hardware identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set := a.gw.CollectAll(cmd.Context())
			return render(cmd.OutOrStdout(), a.cfg.Output, set, func(w io.Writer) {
				console.WriteFields(w, set)
			})
		},
	}
}

func (a *app) createFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Compute the composite HWID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fp := a.gw.CompositeFingerprint(cmd.Context())
			return render(cmd.OutOrStdout(), a.cfg.Output, map[string]string{"fingerprint": fp}, func(w io.Writer) {
				fmt.Fprintln(w, fp)
			})
		},
	}
}

func (a *app) createSetGuidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-guid [value]",
		Short: "Change the machine GUID (random when no value is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := a.gw.WriteMachineGuid(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Output, map[string]string{"machine_guid": written}, func(w io.Writer) {
				fmt.Fprintf(w, "Machine GUID changed to: %s\n", written)
			})
		},
	}
}

func (a *app) createSetProductIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-product-id [value]",
		Short: "Change the Windows product ID (random when no value is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := a.gw.WriteProductID(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Output, map[string]string{"product_id": written}, func(w io.Writer) {
				fmt.Fprintf(w, "Product ID changed to: %s\n", written)
			})
		},
	}
}

func (a *app) createAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List active network adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapters, err := a.gw.EnumerateActiveAdapters(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Output, adapters, func(w io.Writer) {
				writeAdapters(w, adapters)
			})
		},
	}
}

func writeAdapters(w io.Writer, adapters []hwid.NetworkAdapter) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMAC\tDESCRIPTION\tGUID")
	for _, ad := range adapters {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ad.Name, ad.MacAddress, ad.InterfaceDescription, ad.InterfaceGuid)
	}
	tw.Flush()
}

func (a *app) createSetMacCmd() *cobra.Command {
	var adapter string
	var yes bool
	cmd := &cobra.Command{
		Use:   "set-mac [mac]",
		Short: "Override an adapter MAC address and restart the adapter",
		Long: "set-mac writes the NetworkAddress override for the adapter and restarts it.\n" +
			"Without a MAC a random locally administered address is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mac := firstArg(args)
			if mac != "" {
				if _, err := hwid.NormalizeMAC(mac); err != nil {
					return err
				}
			}
			ok, err := a.confirmer(cmd, yes).Confirm(cmd.Context(),
				fmt.Sprintf("The adapter %q will be restarted and briefly disconnected.", adapter))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "MAC change cancelled.")
				return nil
			}
			written, err := a.gw.WriteAdapterMac(cmd.Context(), adapter, mac)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Output,
				map[string]string{"adapter": adapter, "mac_address": hwid.FormatMAC(written)},
				func(w io.Writer) {
					fmt.Fprintf(w, "MAC address of %s changed to: %s\n", adapter, hwid.FormatMAC(written))
				})
		},
	}
	cmd.Flags().StringVarP(&adapter, "adapter", "a", "", "adapter name as listed by 'hwid adapters'")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("adapter")
	return cmd
}

func (a *app) createBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file]",
		Short: "Export the identifier registry keys to a .reg file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := a.backupFile(args)
			if err := a.gw.BackupRegistryKeys(cmd.Context(), file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", file)
			return nil
		},
	}
}

func (a *app) createRestoreCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Import a backup created by 'hwid backup'",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := a.backupFile(args)
			if err := a.gw.RestoreRegistryKeys(cmd.Context(), file, a.confirmer(cmd, yes)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored from: %s\nA reboot is recommended to apply the changes.\n", file)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (a *app) createElevateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "elevate",
		Short: "Relaunch hwid as administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.gw.IsElevated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Already running as administrator.")
				return nil
			}
			return a.gw.RelaunchElevated(cmd.Context())
		},
	}
}

func (a *app) createMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  a.runMenu,
	}
}

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	return console.New(a.gw, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.BackupFile).Run(cmd.Context())
}

func createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hwid %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (a *app) confirmer(cmd *cobra.Command, yes bool) hwid.Confirmer {
	if yes {
		return hwid.AutoConfirm
	}
	return console.New(a.gw, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.BackupFile)
}

func (a *app) backupFile(args []string) string {
	if f := firstArg(args); f != "" {
		return f
	}
	return a.cfg.BackupFile
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
