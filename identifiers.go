package hwid

// Unavailable replaces any value that no mechanism could read.
// It still participates in the composite fingerprint.
const Unavailable = "unavailable"

// IdentifierSet is one snapshot of every identifier shown to the user.
type IdentifierSet struct {
	MachineGUID string `json:"machine_guid" yaml:"machine_guid"`
	CPUID       string `json:"cpu_id" yaml:"cpu_id"`
	DiskSerial  string `json:"disk_serial" yaml:"disk_serial"`
	BoardSerial string `json:"board_serial" yaml:"board_serial"`
	MACAddress  string `json:"mac_address" yaml:"mac_address"`
	ProductID   string `json:"product_id" yaml:"product_id"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Platform    string `json:"platform" yaml:"platform"`
	Hostname    string `json:"hostname" yaml:"hostname"`
}

// Field is one labelled display row.
type Field struct {
	Label string
	Value string
}

// Fields returns the display rows in their fixed order.
func (s *IdentifierSet) Fields() []Field {
	return []Field{
		{"Machine GUID", s.MachineGUID},
		{"CPU ID", s.CPUID},
		{"Disk Serial", s.DiskSerial},
		{"Motherboard Serial", s.BoardSerial},
		{"MAC Address", s.MACAddress},
		{"Windows Product ID", s.ProductID},
		{"Composite HWID", s.Fingerprint},
		{"Platform", s.Platform},
		{"Computer Name", s.Hostname},
	}
}

// Components returns the fingerprint inputs in hashing order.
func (s *IdentifierSet) Components() [5]string {
	return [5]string{s.MachineGUID, s.CPUID, s.DiskSerial, s.BoardSerial, s.MACAddress}
}
