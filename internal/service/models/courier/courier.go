package courier

import "strings"

type Status string

const (
	StatusActive    Status = "Activo"
	StatusInactive  Status = "Inactivo"
	StatusSuspended Status = "Suspendido"
)

// Courier ("repartidor") delivers route orders.
type Courier struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	License       string `json:"license,omitempty"`
	LicenseExpiry string `json:"licenseExpiry,omitempty"`
	Status        Status `json:"status"`
}

func (c Courier) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// IsActive reports whether the courier may be assigned to a route delivery.
func (c Courier) IsActive() bool {
	return strings.EqualFold(string(c.Status), string(StatusActive))
}
