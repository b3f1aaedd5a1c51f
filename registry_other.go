//go:build !windows

package hwid

type unsupportedRegistry struct{}

// SystemRegistry returns a registry that fails every call outside Windows.
func SystemRegistry() Registry {
	return unsupportedRegistry{}
}

func (unsupportedRegistry) ReadString(string, string) (string, error) {
	return "", &Error{Kind: KindUnsupported, Message: "registry not available on this platform"}
}

func (unsupportedRegistry) WriteString(string, string, string) error {
	return &Error{Kind: KindUnsupported, Message: "registry not available on this platform"}
}

func (unsupportedRegistry) SubKeyNames(string) ([]string, error) {
	return nil, &Error{Kind: KindUnsupported, Message: "registry not available on this platform"}
}
