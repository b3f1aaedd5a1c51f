//go:build windows

package hwid

import (
	"errors"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// systemRegistry reads and writes HKEY_LOCAL_MACHINE through the Win32 API.
type systemRegistry struct{}

// SystemRegistry returns the live HKLM registry.
func SystemRegistry() Registry {
	return systemRegistry{}
}

func (systemRegistry) ReadString(path, name string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", registryError(path, err)
	}
	defer k.Close()

	s, _, err := k.GetStringValue(name)
	if err != nil {
		return "", registryError(path+`\`+name, err)
	}
	return strings.TrimSpace(s), nil
}

func (systemRegistry) WriteString(path, name, value string) error {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.SET_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return registryError(path, err)
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return registryError(path+`\`+name, err)
	}
	return nil
}

func (systemRegistry) SubKeyNames(path string) ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.ENUMERATE_SUB_KEYS|registry.WOW64_64KEY)
	if err != nil {
		return nil, registryError(path, err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, registryError(path, err)
	}
	return names, nil
}

func registryError(path string, err error) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return &Error{Kind: KindKeyNotFound, Message: `HKLM\` + path, Err: err}
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return &Error{Kind: KindPermissionDenied, Message: `HKLM\` + path, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Message: `HKLM\` + path, Err: err}
	}
}
