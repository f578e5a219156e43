package models

// Direction tells which side of a call a generated file serves
type Direction int

const (
	// Export files register local handlers with the runtime
	Export Direction = iota
	// Import files hold proxies calling operations implemented elsewhere
	Import
)

func (d Direction) String() string {
	if d == Import {
		return "import"
	}
	return "export"
}

// GeneratedFile is one emitted source file
type GeneratedFile struct {
	Namespace string // namespace the file was generated from
	FileName  string // base name of the file
	Content   []byte // formatted Go source
}
