// Package console implements the interactive numbered menu over a hwid.Gateway.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/darkit/hwid"
	"github.com/darkit/hwid/internal/logging"
)

// Gateway is the part of *hwid.Gateway the menu drives.
type Gateway interface {
	IsElevated() bool
	CollectAll(ctx context.Context) *hwid.IdentifierSet
	CompositeFingerprint(ctx context.Context) string
	WriteMachineGuid(ctx context.Context, value string) (string, error)
	WriteProductID(ctx context.Context, value string) (string, error)
	EnumerateActiveAdapters(ctx context.Context) ([]hwid.NetworkAdapter, error)
	WriteAdapterMac(ctx context.Context, adapterName, mac string) (string, error)
	BackupRegistryKeys(ctx context.Context, path string) error
	RestoreRegistryKeys(ctx context.Context, path string, confirmer hwid.Confirmer) error
	RelaunchElevated(ctx context.Context) error
}

const banner = `
+=============================================================+
|                        HWID MANAGER                         |
|          Hardware ID Information & Modification             |
|                                                             |
|  WARNING: for educational use only. Changing hardware IDs   |
|  may violate the terms of service of installed software.    |
+=============================================================+
`

var menuItems = []string{
	"1. Show all hardware identifiers",
	"2. Change Machine GUID",
	"3. Change Product ID",
	"4. Change adapter MAC address",
	"5. Back up registry keys",
	"6. Restore registry keys from a backup",
	"7. Compute composite HWID",
	"8. Relaunch as administrator",
	"0. Exit",
}

// Menu is one interactive session.
type Menu struct {
	gw         Gateway
	in         *bufio.Reader
	out        io.Writer
	backupFile string
	log        *slog.Logger
}

// New returns a menu reading answers from in and writing to out.
// backupFile is offered as the default for backup and restore.
func New(gw Gateway, in io.Reader, out io.Writer, backupFile string) *Menu {
	if backupFile == "" {
		backupFile = "hwid_backup.reg"
	}
	return &Menu{
		gw:         gw,
		in:         bufio.NewReader(in),
		out:        out,
		backupFile: backupFile,
		log:        logging.L("console"),
	}
}

// Run shows the menu until the user picks 0, input ends or ctx is cancelled.
// A failed action is reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprint(m.out, banner)
	if !m.gw.IsElevated() {
		fmt.Fprintln(m.out, "Not running as administrator: changes, backup and restore are disabled (option 8 relaunches elevated).")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printMenu()
		choice, err := m.prompt("\nYour choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if choice == "0" {
			fmt.Fprintln(m.out, "\nGoodbye!")
			return nil
		}
		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			m.log.Warn("menu action failed", logging.KeyOperation, choice, logging.KeyError, err)
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) printMenu() {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(m.out, "\n"+line)
	fmt.Fprintln(m.out, "MAIN MENU")
	fmt.Fprintln(m.out, line)
	for _, item := range menuItems {
		fmt.Fprintln(m.out, item)
	}
	fmt.Fprintln(m.out, line)
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.showAll(ctx)
	case "2":
		return m.setValue(ctx, "MACHINE GUID", m.gw.WriteMachineGuid)
	case "3":
		return m.setValue(ctx, "PRODUCT ID", m.gw.WriteProductID)
	case "4":
		return m.setMAC(ctx)
	case "5":
		return m.backup(ctx)
	case "6":
		return m.restore(ctx)
	case "7":
		fmt.Fprintln(m.out, "\nCOMPOSITE HWID:")
		fmt.Fprintf(m.out, "HWID: %s\n", m.gw.CompositeFingerprint(ctx))
		return nil
	case "8":
		fmt.Fprintln(m.out, "\nRelaunching as administrator...")
		if err := m.gw.RelaunchElevated(ctx); err != nil {
			return err
		}
		if m.gw.IsElevated() {
			fmt.Fprintln(m.out, "Already running as administrator.")
		}
		return nil
	default:
		fmt.Fprintln(m.out, "\nInvalid choice!")
		return nil
	}
}

func (m *Menu) showAll(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nCURRENT HARDWARE IDENTIFIERS:")
	fmt.Fprintln(m.out, strings.Repeat("-", 60))
	WriteFields(m.out, m.gw.CollectAll(ctx))
	return nil
}

// WriteFields prints the identifier set as a dotted two column panel.
func WriteFields(w io.Writer, set *hwid.IdentifierSet) {
	for _, f := range set.Fields() {
		fmt.Fprintf(w, "%s %s\n", padDots(f.Label, 30), f.Value)
	}
}

func padDots(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(".", width-len(s))
}

func (m *Menu) setValue(ctx context.Context, title string, write func(context.Context, string) (string, error)) error {
	fmt.Fprintf(m.out, "\nCHANGE %s\n", title)
	value, err := m.prompt("Enter a custom value (or press Enter to generate one): ")
	if err != nil {
		return err
	}
	written, err := write(ctx, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "%s changed to: %s\n", title, written)
	return nil
}

func (m *Menu) setMAC(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nCHANGE MAC ADDRESS")
	adapters, err := m.gw.EnumerateActiveAdapters(ctx)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		fmt.Fprintln(m.out, "No active network adapter found.")
		return nil
	}
	for i, a := range adapters {
		fmt.Fprintf(m.out, "%d. %s - %s [%s]\n", i+1, a.Name, a.InterfaceDescription, a.MacAddress)
	}
	answer, err := m.prompt("Adapter number: ")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(adapters) {
		fmt.Fprintln(m.out, "Invalid adapter number.")
		return nil
	}
	adapter := adapters[n-1]

	mac, err := m.prompt("Enter a MAC address (or press Enter for a random one): ")
	if err != nil {
		return err
	}
	if mac != "" {
		// reject before asking for confirmation
		if _, err := hwid.NormalizeMAC(mac); err != nil {
			return err
		}
	}
	ok, err := m.Confirm(ctx, fmt.Sprintf("The adapter %q will be restarted and briefly disconnected.", adapter.Name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, "MAC change cancelled.")
		return nil
	}
	written, err := m.gw.WriteAdapterMac(ctx, adapter.Name, mac)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "MAC address of %s changed to: %s\n", adapter.Name, hwid.FormatMAC(written))
	return nil
}

func (m *Menu) askFile() (string, error) {
	name, err := m.prompt(fmt.Sprintf("Backup file name (%s): ", m.backupFile))
	if err != nil {
		return "", err
	}
	if name == "" {
		name = m.backupFile
	}
	return name, nil
}

func (m *Menu) backup(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nBACK UP REGISTRY KEYS")
	file, err := m.askFile()
	if err != nil {
		return err
	}
	if err := m.gw.BackupRegistryKeys(ctx, file); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Backup created: %s\n", file)
	return nil
}

func (m *Menu) restore(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nRESTORE REGISTRY KEYS")
	file, err := m.askFile()
	if err != nil {
		return err
	}
	if err := m.gw.RestoreRegistryKeys(ctx, file, m); err != nil {
		if errors.Is(err, hwid.ErrCancelled) {
			fmt.Fprintln(m.out, "Restore cancelled.")
			return nil
		}
		return err
	}
	fmt.Fprintf(m.out, "Restored from: %s\nA reboot is recommended to apply the changes.\n", file)
	return nil
}

// Confirm prints prompt and reads a yes/no answer. It implements hwid.Confirmer.
func (m *Menu) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(m.out, "WARNING: %s\n", prompt)
	answer, err := m.prompt("Continue? (yes/no): ")
	if err != nil {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// IsAffirmative accepts yes/y and the French oui/o, case-insensitively.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y", "oui", "o":
		return true
	}
	return false
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
