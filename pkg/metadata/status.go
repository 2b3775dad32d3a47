package metadata

import "fmt"

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
	StatusMissing     Status = "missing"
	StatusDamaged     Status = "damaged"
)

// NewStatus validates a raw value against the closed status set. The remote
// store validates again server-side; this is only the fast-fail at the input
// boundary.
func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance, StatusRetired, StatusMissing, StatusDamaged:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
