package specs

import "strings"

// MatchType selects how a property matching rule compares values.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchRange    MatchType = "range"
	MatchMin      MatchType = "min"
	MatchMax      MatchType = "max"
	MatchEnum     MatchType = "enum"
	MatchContains MatchType = "contains"
)

func (m MatchType) Valid() bool {
	switch m {
	case MatchExact, MatchRange, MatchMin, MatchMax, MatchEnum, MatchContains:
		return true
	default:
		return false
	}
}

// PropertyMatchingRule tells the engine how to compare one required property.
// Value is a scalar, a list (enum) or an object with "min"/"max" (range).
// When Value is nil the required property's value is the comparison target.
type PropertyMatchingRule struct {
	PropertyKey string    `json:"property_key"`
	MatchType   MatchType `json:"match_type"`
	Value       any       `json:"value,omitempty"`
	Normalize   bool      `json:"normalize"`
}

// Bounds returns the min/max of a range value. Missing bounds are nil.
func (r PropertyMatchingRule) Bounds() (min any, max any) {
	obj, ok := r.Value.(map[string]any)
	if !ok {
		return nil, nil
	}
	return obj["min"], obj["max"]
}

type TemperatureRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether t is inside the range. Missing bounds are open.
func (r *TemperatureRange) Contains(t float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && t < *r.Min {
		return false
	}
	if r.Max != nil && t > *r.Max {
		return false
	}
	return true
}

// Conditions narrow where a specification applies. Empty fields mean "any".
type Conditions struct {
	PipeTypes   []string          `json:"pipe_types,omitempty"`
	MinDiameter string            `json:"min_diameter,omitempty"`
	MaxDiameter string            `json:"max_diameter,omitempty"`
	Temperature *TemperatureRange `json:"temperature,omitempty"`
}

func (c Conditions) RestrictsPipeType() bool { return len(c.PipeTypes) > 0 }

// AllowsPipeType is a case-insensitive membership test.
func (c Conditions) AllowsPipeType(pipeType string) bool {
	want := strings.ToLower(strings.TrimSpace(pipeType))
	for _, pt := range c.PipeTypes {
		if strings.ToLower(strings.TrimSpace(pt)) == want {
			return true
		}
	}
	return false
}

func (c Conditions) HasMinDiameter() bool { return strings.TrimSpace(c.MinDiameter) != "" }
func (c Conditions) HasMaxDiameter() bool { return strings.TrimSpace(c.MaxDiameter) != "" }

func (c Conditions) IsEmpty() bool {
	return !c.RestrictsPipeType() && !c.HasMinDiameter() && !c.HasMaxDiameter() && c.Temperature == nil
}
