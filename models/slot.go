package models

// Slot is one concrete bookable interval on a specific date. Generated, never
// stored: the slot list is always derived from settings, rules, overrides and
// current reservations.
type Slot struct {
	Date      string `json:"date"`       // "YYYY-MM-DD"
	StartTime string `json:"start_time"` // "HH:MM"
	EndTime   string `json:"end_time"`   // "HH:MM", exclusive
}

// SlotList is the generator output for one provider and date. Reason is set
// when the list is empty for a structural cause (day off, no weekly rule) so
// clients can explain the gap instead of showing a bare empty calendar.
type SlotList struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
	Slots      []Slot `json:"slots"`
	Reason     string `json:"reason,omitempty"`
}
