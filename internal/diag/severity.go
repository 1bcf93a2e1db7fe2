package diag

// Severity orders diagnostics from informational to fatal. The numeric
// order matters: Bag.HasErrors and Bag.HasWarnings compare with >=.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
