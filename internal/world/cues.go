package world

import (
	"strings"
	"time"
)

// TimeOfDay is a coarse temporal label kept on WorldState.
type TimeOfDay string

const (
	TimeEarlyMorning TimeOfDay = "early_morning" // 3am-6am
	TimeMorning      TimeOfDay = "morning"       // 6am-12pm
	TimeAfternoon    TimeOfDay = "afternoon"     // 12pm-5pm
	TimeEvening      TimeOfDay = "evening"       // 5pm-9pm
	TimeNight        TimeOfDay = "night"         // 9pm-12am
	TimeLateNight    TimeOfDay = "late_night"    // 12am-3am
	TimeUnknown      TimeOfDay = "unknown"
)

var TimesOfDay = []TimeOfDay{
	TimeEarlyMorning, TimeMorning, TimeAfternoon,
	TimeEvening, TimeNight, TimeLateNight, TimeUnknown,
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, t := range TimesOfDay {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errInvalid("time of day", s)
}

// TimeOfDayAt maps a wall-clock time to its label.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 3 && h < 6:
		return TimeEarlyMorning
	case h >= 6 && h < 12:
		return TimeMorning
	case h >= 12 && h < 17:
		return TimeAfternoon
	case h >= 17 && h < 21:
		return TimeEvening
	case h >= 21:
		return TimeNight
	default:
		return TimeLateNight
	}
}

// Cues carry perception hints into UpdateWorld. Empty string fields and a
// nil Entities slice mean "no change"; an empty non-nil Entities slice
// clears the entity set.
type Cues struct {
	Entities    []string `json:"entities,omitempty"`
	Environment string   `json:"environment,omitempty"`
	Threat      string   `json:"threat_level,omitempty"`
	TimeOfDay   string   `json:"time_of_day,omitempty"`
}

// IsZero reports whether the cues carry nothing to merge.
func (c Cues) IsZero() bool {
	return c.Entities == nil && c.Environment == "" && c.Threat == "" && c.TimeOfDay == ""
}

// Merge overlays other on top of c, field by field.
func (c Cues) Merge(other Cues) Cues {
	if other.Entities != nil {
		c.Entities = other.Entities
	}
	if other.Environment != "" {
		c.Environment = other.Environment
	}
	if other.Threat != "" {
		c.Threat = other.Threat
	}
	if other.TimeOfDay != "" {
		c.TimeOfDay = other.TimeOfDay
	}
	return c
}

var (
	darkWords       = []string{"dark", "dim", "can't see", "cant see"}
	brightWords     = []string{"bright", "too much light", "blinding"}
	highThreatWords = []string{"intruder", "threat", "danger", "help", "attack"}
	medThreatWords  = []string{"suspicious", "watch out", "careful"}
	allClearWords   = []string{"safe", "all clear", "relax"}
)

// AnalyzeMessageCues extracts environment and threat hints from raw user
// text. Keyword heuristics only; the perception collaborator supplies
// richer cues when available.
func AnalyzeMessageCues(message string) Cues {
	lower := strings.ToLower(message)
	var c Cues

	if containsAny(lower, darkWords) {
		c.Environment = string(EnvironmentDark)
	} else if containsAny(lower, brightWords) {
		c.Environment = string(EnvironmentBright)
	}

	if containsAny(lower, highThreatWords) {
		c.Threat = string(ThreatHigh)
	} else if containsAny(lower, medThreatWords) {
		c.Threat = string(ThreatMedium)
	} else if containsAny(lower, allClearWords) {
		c.Threat = string(ThreatNone)
	}

	return c
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
