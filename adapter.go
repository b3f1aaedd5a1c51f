package hwid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/darkit/hwid/internal/logging"
)

// NetworkAdapter describes one active adapter as reported by Get-NetAdapter.
type NetworkAdapter struct {
	Name                 string `json:"Name" yaml:"name"`
	InterfaceDescription string `json:"InterfaceDescription" yaml:"interface_description"`
	MacAddress           string `json:"MacAddress" yaml:"mac_address"`
	InterfaceGuid        string `json:"InterfaceGuid" yaml:"interface_guid"`
	Status               string `json:"Status" yaml:"status"`
}

const listAdaptersScript = "Get-NetAdapter | Where-Object Status -eq 'Up' | " +
	"Select-Object Name, InterfaceDescription, MacAddress, InterfaceGuid, Status | ConvertTo-Json"

// parseAdapters accepts ConvertTo-Json output, which is a bare object for a
// single adapter and an array otherwise.
func parseAdapters(output string) ([]NetworkAdapter, error) {
	data := bytes.TrimSpace([]byte(output))
	if len(data) == 0 {
		return []NetworkAdapter{}, nil
	}
	if data[0] == '{' {
		var a NetworkAdapter
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		return []NetworkAdapter{a}, nil
	}
	var list []NetworkAdapter
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []NetworkAdapter{}
	}
	return list, nil
}

// EnumerateActiveAdapters lists adapters whose status is Up.
func (g *Gateway) EnumerateActiveAdapters(ctx context.Context) ([]NetworkAdapter, error) {
	const op = "EnumerateActiveAdapters"
	out, err := g.executor.Execute(ctx, "powershell", powershellArgs(listAdaptersScript)...)
	if err != nil {
		return nil, newError(KindExternalTool, op, diagnostic(err), err)
	}
	adapters, err := parseAdapters(out)
	if err != nil {
		return nil, newError(KindExternalTool, op, "unexpected Get-NetAdapter output", err)
	}
	return adapters, nil
}

// WriteAdapterMac sets the NetworkAddress override of adapterName and restarts
// the adapter so it takes effect. An empty mac writes a random locally
// administered address. Returns the 12 digit MAC written.
func (g *Gateway) WriteAdapterMac(ctx context.Context, adapterName, mac string) (string, error) {
	const op = "WriteAdapterMac"
	if strings.TrimSpace(mac) == "" {
		mac = RandomMAC()
	}
	normalized, err := NormalizeMAC(mac)
	if err != nil {
		return "", newError(KindInvalidFormat, op, "invalid MAC address", err)
	}
	if err := g.requireElevation(op); err != nil {
		return "", err
	}
	adapterName = strings.TrimSpace(adapterName)
	if adapterName == "" {
		return "", newError(KindAdapterNotFound, op, "adapter name is empty", nil)
	}

	log := logging.WithOp(g.log, op).With("adapter", adapterName)

	guid, err := g.adapterInterfaceGuid(ctx, adapterName)
	if err != nil {
		return "", newError(KindAdapterNotFound, op, fmt.Sprintf("adapter %q not found", adapterName), err)
	}
	subkey, err := g.findAdapterSubkey(guid)
	if err != nil {
		return "", newError(KindAdapterNotFound, op, fmt.Sprintf("no registry entry for adapter %q", adapterName), err)
	}
	if err := g.registry.WriteString(subkey, NetworkAddressValue, normalized); err != nil {
		return "", newError(KindRegistryWrite, op, "cannot write "+NetworkAddressValue, err)
	}
	log.InfoContext(ctx, "MAC override written", "subkey", subkey)

	if err := g.restartAdapter(ctx, adapterName); err != nil {
		log.ErrorContext(ctx, "adapter restart failed", logging.KeyError, err)
		return normalized, newError(KindExternalTool, op,
			"override saved but adapter restart failed, restart it manually: "+diagnostic(err), err)
	}
	log.InfoContext(ctx, "adapter restarted")
	return normalized, nil
}

func (g *Gateway) adapterInterfaceGuid(ctx context.Context, name string) (string, error) {
	script := "Get-NetAdapter -Name " + psQuote(name) + " | Select-Object -ExpandProperty InterfaceGuid"
	out, err := g.executor.Execute(ctx, "powershell", powershellArgs(script)...)
	if err != nil {
		return "", err
	}
	guid, err := parsePowerShellValue(out)
	if err != nil {
		return "", err
	}
	return guid, nil
}

// findAdapterSubkey returns the class subkey whose NetCfgInstanceId equals guid.
func (g *Gateway) findAdapterSubkey(guid string) (string, error) {
	names, err := g.registry.SubKeyNames(NetworkClassKey)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		path := NetworkClassKey + `\` + name
		id, err := g.registry.ReadString(path, NetCfgInstanceIDValue)
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(id), guid) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s %s not found under %d subkeys", NetCfgInstanceIDValue, guid, len(names))
}

func (g *Gateway) restartAdapter(ctx context.Context, name string) error {
	quoted := psQuote(name)
	if _, err := g.executor.Execute(ctx, "powershell",
		powershellArgs("Disable-NetAdapter -Name "+quoted+" -Confirm:$false")...); err != nil {
		return err
	}
	waitErr := sleep(ctx, g.restartDelay)
	// the adapter is down at this point; bring it back even if ctx is done
	enableCtx := ctx
	if waitErr != nil {
		enableCtx = context.WithoutCancel(ctx)
	}
	if _, err := g.executor.Execute(enableCtx, "powershell",
		powershellArgs("Enable-NetAdapter -Name "+quoted+" -Confirm:$false")...); err != nil {
		return err
	}
	return waitErr
}
