package diag

// Severity ranks diagnostics. The Bag treats SevError and above as
// build-failing; lower severities never suppress code generation.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "info"
	}
}
