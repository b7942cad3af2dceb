package slots

import (
	"sort"

	"slotline/models"
	"slotline/utils"
)

// SourceKind tags where a date's working hours come from.
type SourceKind string

const (
	// SourceNone: no override and no active weekly rule for the weekday.
	SourceNone SourceKind = "NONE"
	// SourceRuleHours: the weekday's active rule window(s) apply.
	SourceRuleHours SourceKind = "RULE_HOURS"
	// SourceOverrideOff: a date override closes the whole day.
	SourceOverrideOff SourceKind = "OVERRIDE_OFF"
	// SourceOverrideCustom: a date override replaces the weekly hours.
	SourceOverrideCustom SourceKind = "OVERRIDE_CUSTOM"
)

// Window is one opening interval, in minutes from midnight, end exclusive.
type Window struct {
	Start int
	End   int
}

// DaySource is the resolved source of hours for one date. An override always
// wins over weekly rules; rule hours may span several non-overlapping
// windows when the provider split the day.
type DaySource struct {
	Kind    SourceKind
	Windows []Window
	Reason  string // override reason, when an override decided the day
}

// Open reports whether the source yields any bookable hours at all.
func (s DaySource) Open() bool {
	return s.Kind == SourceRuleHours || s.Kind == SourceOverrideCustom
}

// EmptyReason is the client-facing explanation for a structurally empty day.
func (s DaySource) EmptyReason() string {
	switch s.Kind {
	case SourceOverrideOff:
		if s.Reason != "" {
			return s.Reason
		}
		return "provider is unavailable on this date"
	case SourceNone:
		return "no working hours configured for this day"
	}
	return ""
}

// ResolveDaySource reduces the weekly rules and the (optional) date override
// to the single source of hours the generator consumes. Rules are assumed
// pre-filtered to the date's weekday and active; the store query guarantees
// that.
func ResolveDaySource(rules []models.AvailabilityRule, override *models.AvailabilityOverride) (DaySource, error) {
	if override != nil {
		if override.Type == models.OverrideOff {
			return DaySource{Kind: SourceOverrideOff, Reason: override.Reason}, nil
		}
		w, err := parseWindow(override.StartTime, override.EndTime)
		if err != nil {
			return DaySource{}, err
		}
		return DaySource{Kind: SourceOverrideCustom, Windows: []Window{w}, Reason: override.Reason}, nil
	}

	if len(rules) == 0 {
		return DaySource{Kind: SourceNone}, nil
	}

	windows := make([]Window, 0, len(rules))
	for _, rule := range rules {
		w, err := parseWindow(rule.StartTime, rule.EndTime)
		if err != nil {
			return DaySource{}, err
		}
		windows = append(windows, w)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return DaySource{Kind: SourceRuleHours, Windows: windows}, nil
}

func parseWindow(start, end string) (Window, error) {
	s, err := utils.ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := utils.ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e}, nil
}
