package hwid

import (
	"fmt"
	"strings"
)

// parsePowerShellValue returns the first non-empty line of PowerShell output.
func parsePowerShellValue(output string) (string, error) {
	for _, line := range splitNonEmptyLines(output) {
		if v := cleanWMIValue(line); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("powershell: %w", ErrEmptyValue)
}

// parseWMICColumn parses single-column wmic output ("Header\r\r\nValue\r\r\n").
// The first line is the header; the first non-empty row after it wins.
func parseWMICColumn(output string) (string, error) {
	lines := splitNonEmptyLines(output)
	if len(lines) < 2 {
		return "", fmt.Errorf("wmic: %w", ErrEmptyValue)
	}
	for _, line := range lines[1:] {
		if v := cleanWMIValue(line); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("wmic: %w", ErrEmptyValue)
}

func splitNonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	var out []string
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// wmic prints "No Instance(s) Available." when the class is empty
		if strings.Contains(strings.ToLower(line), "no instance") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func cleanWMIValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\u0000")
	return strings.TrimSpace(s)
}
