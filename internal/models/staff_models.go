package models

// Technician statuses. Status is informational only.
const (
	TechnicianAvailable = "available"
	TechnicianBusy      = "busy"
	TechnicianOffline   = "offline"
)

// Technician represents a repair technician that can be scheduled on repair orders.
type Technician struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
	Status string   `json:"status"`
}

// Clone returns a deep copy of the technician.
func (t Technician) Clone() Technician {
	cp := t
	if t.Skills != nil {
		cp.Skills = append(make([]string, 0, len(t.Skills)), t.Skills...)
	}
	return cp
}

// IsValidTechnicianStatus reports whether status is a known technician status.
func IsValidTechnicianStatus(status string) bool {
	switch status {
	case TechnicianAvailable, TechnicianBusy, TechnicianOffline:
		return true
	}
	return false
}
