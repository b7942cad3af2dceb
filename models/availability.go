package models

import "time"

// Weekday is the symbolic day-of-week value stored on availability rules.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayFromTime maps a time.Weekday to the stored symbolic value.
func WeekdayFromTime(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Valid reports whether d is one of the seven known weekday values.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// AvailabilitySettings holds a provider's slot sizing and timezone. Exactly one
// document per provider; it must exist before any rule can be created.
type AvailabilitySettings struct {
	ProviderID          string    `bson:"provider_id" json:"provider_id"`
	SlotDurationMinutes int       `bson:"slot_duration_minutes" json:"slot_duration_minutes"` // 15..480
	BreakMinutes        int       `bson:"break_minutes" json:"break_minutes"`                 // 0..60
	Timezone            string    `bson:"timezone" json:"timezone"`                           // IANA name, e.g. "Europe/Berlin"
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// AvailabilityRule is one recurring weekly working window. Active rules for the
// same provider and day must not overlap.
type AvailabilityRule struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	DayOfWeek  Weekday   `bson:"day_of_week" json:"day_of_week"`
	StartTime  string    `bson:"start_time" json:"start_time"` // "HH:MM", provider-local
	EndTime    string    `bson:"end_time" json:"end_time"`     // "HH:MM", exclusive
	IsActive   bool      `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// OverrideType selects how a date override replaces the weekly rule.
type OverrideType string

const (
	// OverrideOff closes the whole date regardless of weekly rules.
	OverrideOff OverrideType = "OFF"
	// OverrideCustom replaces the weekly hours with the override's own window.
	OverrideCustom OverrideType = "CUSTOM"
)

// AvailabilityOverride is a date-specific exception. At most one per provider
// per calendar date; it takes full precedence over the weekly rule.
type AvailabilityOverride struct {
	ID         string       `bson:"id" json:"id"`
	ProviderID string       `bson:"provider_id" json:"provider_id"`
	Date       string       `bson:"date" json:"date"` // "YYYY-MM-DD"
	Type       OverrideType `bson:"type" json:"type"`
	StartTime  string       `bson:"start_time,omitempty" json:"start_time,omitempty"` // CUSTOM only
	EndTime    string       `bson:"end_time,omitempty" json:"end_time,omitempty"`     // CUSTOM only
	Reason     string       `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updated_at"`
}
