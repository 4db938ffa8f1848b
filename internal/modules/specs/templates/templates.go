// Package templates turns a specification template into job specifications.
package templates

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/domain/specs"
)

var (
	ErrMissingJob      = errors.New("template instantiation requires a job id")
	ErrInactive        = errors.New("template is inactive")
	ErrInvalidTemplate = errors.New("template name is required")
)

// Scope references a system or an area by id, name or both.
type Scope struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Name string     `json:"name,omitempty"`
}

func (s Scope) empty() bool { return s.ID == nil && strings.TrimSpace(s.Name) == "" }

type Request struct {
	JobID   uuid.UUID `json:"job_id"`
	Systems []Scope   `json:"systems,omitempty"`
	Areas   []Scope   `json:"areas,omitempty"`
}

// Validate checks the fields a template needs before it is stored.
func Validate(tpl *specs.SpecificationTemplate) error {
	if tpl == nil || strings.TrimSpace(tpl.Name) == "" {
		return ErrInvalidTemplate
	}
	return nil
}

// Instantiate builds one specification per requested system and area pair.
// With no systems (or no areas) that dimension is left unscoped, so an empty
// request yields a single job-wide specification. Nothing is persisted.
func Instantiate(tpl *specs.SpecificationTemplate, req Request) ([]*specs.Specification, error) {
	if err := Validate(tpl); err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, ErrInactive
	}
	if req.JobID == uuid.Nil {
		return nil, ErrMissingJob
	}

	systems := scopesOrWide(req.Systems)
	areas := scopesOrWide(req.Areas)
	out := make([]*specs.Specification, 0, len(systems)*len(areas))
	for _, sys := range systems {
		for _, area := range areas {
			out = append(out, build(tpl, req.JobID, sys, area))
		}
	}
	return out, nil
}

func scopesOrWide(in []Scope) []Scope {
	out := make([]Scope, 0, len(in))
	for _, s := range in {
		if !s.empty() {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []Scope{{}}
	}
	return out
}

func build(tpl *specs.SpecificationTemplate, jobID uuid.UUID, sys, area Scope) *specs.Specification {
	templateID := tpl.ID
	return &specs.Specification{
		JobID:                 jobID,
		SystemID:              copyID(sys.ID),
		SystemName:            strings.TrimSpace(sys.Name),
		AreaID:                copyID(area.ID),
		AreaName:              strings.TrimSpace(area.Name),
		Name:                  tpl.Name,
		Description:           tpl.Description,
		Conditions:            cloneConditions(tpl.Conditions),
		ProductTypeID:         copyID(tpl.ProductTypeID),
		RequiredProperties:    tpl.RequiredProperties.Clone(),
		PropertyMatchingRules: append([]specs.PropertyMatchingRule(nil), tpl.PropertyMatchingRules...),
		PreferredSupplierID:   copyID(tpl.PreferredSupplierID),
		AllowOtherSuppliers:   tpl.AllowOtherSuppliers,
		Priority:              tpl.Priority,
		TemplateID:            &templateID,
		IsActive:              true,
	}
}

func cloneConditions(c specs.Conditions) specs.Conditions {
	out := c
	out.PipeTypes = append([]string(nil), c.PipeTypes...)
	if c.Temperature != nil {
		t := *c.Temperature
		out.Temperature = &t
	}
	return out
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
