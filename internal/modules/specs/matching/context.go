package matching

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/specs"
	"github.com/yungbote/sitework-backend/internal/modules/specs/units"
)

// ErrInvalidContext is returned when a matching context has no job.
var ErrInvalidContext = errors.New("invalid context: job id is required")

// Context describes where a product is going to be used.
// Empty strings and nil pointers mean "not supplied".
type Context struct {
	JobID       uuid.UUID  `json:"job_id"`
	SystemID    *uuid.UUID `json:"system_id,omitempty"`
	AreaID      *uuid.UUID `json:"area_id,omitempty"`
	PipeType    string     `json:"pipe_type,omitempty"`
	Diameter    string     `json:"diameter,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
}

func (c Context) Validate() error {
	if c.JobID == uuid.Nil {
		return ErrInvalidContext
	}
	return nil
}

// HasJob reports whether the context is bound to a job.
func (c Context) HasJob() bool { return c.JobID != uuid.Nil }

func (c Context) hasPipeType() bool { return strings.TrimSpace(c.PipeType) != "" }

func (c Context) hasDiameter() bool { return strings.TrimSpace(c.Diameter) != "" }

// InMatchingScope is the wildcard-or-exact scope test used when listing
// specifications: the system must equal the context's system or the
// specification must be system-wide, and independently the same for area.
func InMatchingScope(spec *specs.Specification, systemID, areaID *uuid.UUID) bool {
	return scopeMatches(spec.SystemID, spec.SystemWide(), systemID) &&
		scopeMatches(spec.AreaID, spec.AreaWide(), areaID)
}

func scopeMatches(specRef *uuid.UUID, wide bool, want *uuid.UUID) bool {
	if wide {
		return true
	}
	return specRef != nil && want != nil && *specRef == *want
}

// ConditionsAllow applies a specification's pipe-type, diameter and
// temperature conditions to the context. Conditions the context gives no
// value for are skipped.
func ConditionsAllow(spec *specs.Specification, c Context) bool {
	cond := spec.Conditions
	if c.hasPipeType() && cond.RestrictsPipeType() && !cond.AllowsPipeType(c.PipeType) {
		return false
	}
	if c.hasDiameter() && (cond.HasMinDiameter() || cond.HasMaxDiameter()) {
		if !diameterWithin(c.Diameter, cond) {
			return false
		}
	}
	if c.Temperature != nil && cond.Temperature != nil && !cond.Temperature.Contains(*c.Temperature) {
		return false
	}
	return true
}

func diameterWithin(diameter string, cond specs.Conditions) bool {
	d, ok := units.ParseInches(diameter)
	if !ok {
		return false
	}
	if cond.HasMinDiameter() {
		lo, ok := units.ParseInches(cond.MinDiameter)
		if !ok || d < lo {
			return false
		}
	}
	if cond.HasMaxDiameter() {
		hi, ok := units.ParseInches(cond.MaxDiameter)
		if !ok || d > hi {
			return false
		}
	}
	return true
}
