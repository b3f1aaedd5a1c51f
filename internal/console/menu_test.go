package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/darkit/hwid"
)

type fakeGateway struct {
	elevated   bool
	calls      []string
	adapters   []hwid.NetworkAdapter
	confirmed  *bool
	restoreErr error
}

func (f *fakeGateway) record(s string) { f.calls = append(f.calls, s) }

func (f *fakeGateway) IsElevated() bool { return f.elevated }

func (f *fakeGateway) CollectAll(context.Context) *hwid.IdentifierSet {
	f.record("CollectAll")
	return &hwid.IdentifierSet{
		MachineGUID: "guid", CPUID: "cpu", DiskSerial: hwid.Unavailable, BoardSerial: "board",
		MACAddress: "aa:bb:cc:dd:ee:ff", ProductID: "pid", Fingerprint: "fp", Platform: "Windows", Hostname: "pc",
	}
}

func (f *fakeGateway) CompositeFingerprint(context.Context) string {
	f.record("CompositeFingerprint")
	return "deadbeef"
}

func (f *fakeGateway) WriteMachineGuid(_ context.Context, v string) (string, error) {
	f.record("WriteMachineGuid(" + v + ")")
	if v == "" {
		v = "generated"
	}
	return v, nil
}

func (f *fakeGateway) WriteProductID(_ context.Context, v string) (string, error) {
	f.record("WriteProductID(" + v + ")")
	if !f.elevated {
		return "", &hwid.Error{Kind: hwid.KindPermissionDenied, Op: "WriteProductID", Message: "administrator privileges required"}
	}
	return v, nil
}

func (f *fakeGateway) EnumerateActiveAdapters(context.Context) ([]hwid.NetworkAdapter, error) {
	f.record("EnumerateActiveAdapters")
	return f.adapters, nil
}

func (f *fakeGateway) WriteAdapterMac(_ context.Context, name, mac string) (string, error) {
	f.record("WriteAdapterMac(" + name + "," + mac + ")")
	return "020000000001", nil
}

func (f *fakeGateway) BackupRegistryKeys(_ context.Context, path string) error {
	f.record("Backup(" + path + ")")
	return nil
}

func (f *fakeGateway) RestoreRegistryKeys(ctx context.Context, path string, c hwid.Confirmer) error {
	f.record("Restore(" + path + ")")
	if f.restoreErr != nil {
		return f.restoreErr
	}
	ok, err := c.Confirm(ctx, "restore "+path)
	f.confirmed = &ok
	if err != nil || !ok {
		return &hwid.Error{Kind: hwid.KindCancelled}
	}
	return nil
}

func (f *fakeGateway) RelaunchElevated(context.Context) error {
	f.record("RelaunchElevated")
	return nil
}

func runMenu(t *testing.T, gw *fakeGateway, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := New(gw, strings.NewReader(input), &out, "default.reg").Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestMenuDispatch(t *testing.T) {
	gw := &fakeGateway{elevated: true}
	out := runMenu(t, gw, "1\n2\n\n2\n{abc}\n5\n\n7\n8\n0\n")

	want := []string{
		"CollectAll",
		"WriteMachineGuid()",
		"WriteMachineGuid({abc})",
		"Backup(default.reg)",
		"CompositeFingerprint",
		"RelaunchElevated",
	}
	if strings.Join(gw.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", gw.calls, want)
	}
	for _, s := range []string{
		"HWID MANAGER",
		"Disk Serial................... unavailable",
		"Composite HWID................ fp",
		"MACHINE GUID changed to: generated",
		"HWID: deadbeef",
		"Goodbye!",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q", s)
		}
	}
}

func TestMenuErrorKeepsLoopRunning(t *testing.T) {
	gw := &fakeGateway{elevated: false}
	out := runMenu(t, gw, "3\n\n9\n7\n")

	if !strings.Contains(out, "Not running as administrator") {
		t.Error("missing elevation notice")
	}
	if !strings.Contains(out, "Error: hwid: WriteProductID: [permission denied]") {
		t.Errorf("error not reported:\n%s", out)
	}
	if !strings.Contains(out, "Invalid choice!") {
		t.Error("invalid choice not reported")
	}
	if gw.calls[len(gw.calls)-1] != "CompositeFingerprint" {
		t.Fatalf("loop stopped early: %v", gw.calls)
	}
}

func TestMenuRestoreConfirmation(t *testing.T) {
	gw := &fakeGateway{elevated: true}
	out := runMenu(t, gw, "6\nmy.reg\nno\n0\n")
	if gw.confirmed == nil || *gw.confirmed {
		t.Fatal("restore should have been declined")
	}
	if !strings.Contains(out, "Restore cancelled.") {
		t.Errorf("output:\n%s", out)
	}

	gw = &fakeGateway{elevated: true}
	out = runMenu(t, gw, "6\n\noui\n0\n")
	if gw.confirmed == nil || !*gw.confirmed {
		t.Fatal("restore should have been confirmed")
	}
	if !strings.Contains(out, "Restored from: default.reg") {
		t.Errorf("output:\n%s", out)
	}
}

func TestMenuSetMAC(t *testing.T) {
	gw := &fakeGateway{elevated: true, adapters: []hwid.NetworkAdapter{
		{Name: "Ethernet", InterfaceDescription: "Intel", MacAddress: "AA-BB-CC-DD-EE-FF"},
		{Name: "Wi-Fi", InterfaceDescription: "Realtek", MacAddress: "11-22-33-44-55-66"},
	}}
	out := runMenu(t, gw, "4\n2\n\ny\n4\n1\nAA:BB\n4\n1\n\nn\n0\n")

	want := []string{
		"EnumerateActiveAdapters",
		"WriteAdapterMac(Wi-Fi,)",
		"EnumerateActiveAdapters",
		"EnumerateActiveAdapters",
	}
	if strings.Join(gw.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", gw.calls, want)
	}
	for _, s := range []string{
		"2. Wi-Fi - Realtek [11-22-33-44-55-66]",
		"MAC address of Wi-Fi changed to: 02:00:00:00:00:01",
		"[invalid format]",
		"MAC change cancelled.",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q", s)
		}
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, s := range []string{"yes", "Y", " oui ", "O"} {
		if !IsAffirmative(s) {
			t.Errorf("IsAffirmative(%q) = false", s)
		}
	}
	for _, s := range []string{"", "no", "non", "yep"} {
		if IsAffirmative(s) {
			t.Errorf("IsAffirmative(%q) = true", s)
		}
	}
}
