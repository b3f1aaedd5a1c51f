package hwid

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
)

// ignoredInterfacePrefixes are virtual adapters never treated as the primary NIC.
var ignoredInterfacePrefixes = []string{"docker", "veth", "br-", "vmnet", "zt", "tailscale", "vethernet", "virtualbox"}

// primaryMAC picks the lexicographically smallest address among up,
// non-loopback, physical looking interfaces.
func primaryMAC(ifaces []net.Interface) (string, error) {
	var best string
	for _, iface := range ifaces {
		if !isInterfaceCandidate(iface) {
			continue
		}
		mac := strings.ToLower(iface.HardwareAddr.String())
		if best == "" || strings.ReplaceAll(mac, ":", "") < strings.ReplaceAll(best, ":", "") {
			best = mac
		}
	}
	if best == "" {
		return "", errors.New("no suitable MAC address found")
	}
	return best, nil
}

func isInterfaceCandidate(iface net.Interface) bool {
	if len(iface.HardwareAddr) != 6 {
		return false
	}
	if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
		return false
	}
	name := strings.ToLower(iface.Name)
	for _, prefix := range ignoredInterfacePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// NormalizeMAC strips ':' and '-' separators and uppercases s.
// The result must be exactly 12 hex digits.
func NormalizeMAC(s string) (string, error) {
	mac := strings.ToUpper(strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(s)))
	if len(mac) != 12 {
		return "", newError(KindInvalidFormat, "NormalizeMAC",
			fmt.Sprintf("MAC %q must have 12 hex digits, got %d", s, len(mac)), nil)
	}
	for _, c := range mac {
		if !isHexDigit(c) {
			return "", newError(KindInvalidFormat, "NormalizeMAC",
				fmt.Sprintf("MAC %q contains non-hex character %q", s, c), nil)
		}
	}
	return mac, nil
}

func isHexDigit(c rune) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// FormatMAC renders a 12 digit MAC as colon separated uppercase octets.
// Invalid input is returned unchanged.
func FormatMAC(s string) string {
	mac, err := NormalizeMAC(s)
	if err != nil {
		return s
	}
	parts := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		parts = append(parts, mac[i:i+2])
	}
	return strings.Join(parts, ":")
}

// RandomMAC returns a random unicast, locally administered MAC as 12
// uppercase hex digits.
func RandomMAC() string {
	id := uuid.New()
	b := id[:6]
	b[0] = (b[0] | 0x02) &^ 0x01
	return strings.ToUpper(fmt.Sprintf("%02x%02x%02x%02x%02x%02x", b[0], b[1], b[2], b[3], b[4], b[5]))
}
