package hwid

// Registry locations under HKEY_LOCAL_MACHINE. Always opened in the 64-bit view.
const (
	CryptographyKey   = `SOFTWARE\Microsoft\Cryptography`
	MachineGuidValue  = "MachineGuid"
	CurrentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`
	ProductIDValue    = "ProductId"

	// NetworkClassKey is the device class of network adapters; each numbered
	// subkey carries NetCfgInstanceId and, when overridden, NetworkAddress.
	NetworkClassKey       = `SYSTEM\CurrentControlSet\Control\Class\{4D36E972-E325-11CE-BFC1-08002BE10318}`
	NetCfgInstanceIDValue = "NetCfgInstanceId"
	NetworkAddressValue   = "NetworkAddress"
)

// BackupKeys are the subtrees exported by BackupRegistryKeys, in file order.
var BackupKeys = []string{
	`HKEY_LOCAL_MACHINE\` + CryptographyKey,
	`HKEY_LOCAL_MACHINE\` + CurrentVersionKey,
}

// Registry is the subset of HKLM access the gateway needs.
// Implementations return *Error with KindKeyNotFound for absent keys or values.
type Registry interface {
	ReadString(path, name string) (string, error)
	WriteString(path, name, value string) error
	SubKeyNames(path string) ([]string, error)
}
