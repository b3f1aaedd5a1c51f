package hwid

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"regexp"
	"testing"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestComputeCompositeFingerprint(t *testing.T) {
	sum := sha256.Sum256([]byte("G1C1D1B1M1"))
	want := hex.EncodeToString(sum[:])

	got := ComputeCompositeFingerprint("G1", "C1", "D1", "B1", "M1")
	if got != want {
		t.Fatalf("fingerprint = %s, want %s", got, want)
	}
	if !hexDigest.MatchString(got) {
		t.Fatalf("fingerprint %q is not 64 lowercase hex chars", got)
	}
	if again := ComputeCompositeFingerprint("G1", "C1", "D1", "B1", "M1"); again != got {
		t.Fatalf("fingerprint not deterministic: %s != %s", again, got)
	}
}

func TestComputeCompositeFingerprintSingleCharChange(t *testing.T) {
	base := [5]string{"G1", "C1", "D1", "B1", "M1"}
	ref := ComputeCompositeFingerprint(base[0], base[1], base[2], base[3], base[4])

	for i := range base {
		changed := base
		changed[i] = changed[i][:1] + "2"
		got := ComputeCompositeFingerprint(changed[0], changed[1], changed[2], changed[3], changed[4])
		if got == ref {
			t.Errorf("changing component %d did not change the fingerprint", i)
		}
	}
}

func TestCompositeFingerprintUsesPlaceholders(t *testing.T) {
	g, _, reg := newTestGateway(t, false,
		WithProbes(IdentifierCPU, staticProbe("p", "CPU", nil)),
		WithProbes(IdentifierDisk),
		WithProbes(IdentifierBoard, staticProbe("p", "BOARD", nil)),
		WithInterfaces(func() ([]net.Interface, error) {
			return []net.Interface{{Name: "eth0", Flags: net.FlagUp, HardwareAddr: mustMAC(t, "00:11:22:33:44:55")}}, nil
		}),
	)
	reg.set(CryptographyKey, MachineGuidValue, "GUID")

	got := g.CompositeFingerprint(context.Background())
	want := ComputeCompositeFingerprint("GUID", "CPU", Unavailable, "BOARD", "00:11:22:33:44:55")
	if got != want {
		t.Fatalf("fingerprint = %s, want %s", got, want)
	}
}

func TestIdentifierSetCompositeHashesComponents(t *testing.T) {
	set := &IdentifierSet{
		MachineGUID: "G1", CPUID: "C1", DiskSerial: "D1", BoardSerial: "B1", MACAddress: "M1",
		ProductID: "ignored", Platform: "ignored", Hostname: "ignored",
	}
	if got := set.Components(); got != [5]string{"G1", "C1", "D1", "B1", "M1"} {
		t.Fatalf("Components() = %v", got)
	}
	if got, want := set.composite(), ComputeCompositeFingerprint("G1", "C1", "D1", "B1", "M1"); got != want {
		t.Fatalf("composite() = %s, want %s", got, want)
	}
}
