package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/http/response"
	"github.com/yungbote/sitework-backend/internal/modules/specs/matching"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/services"
)

type SpecificationHandler struct {
	specs   services.SpecificationService
	catalog services.CatalogService
}

func NewSpecificationHandler(specs services.SpecificationService, catalog services.CatalogService) *SpecificationHandler {
	return &SpecificationHandler{specs: specs, catalog: catalog}
}

type createSpecificationRequest struct {
	types.Specification
	IsActive *bool `json:"is_active"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

type complianceRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	matching.Context
}

type filterRequest struct {
	ProductTypeID *uuid.UUID `json:"product_type_id"`
	VariantLevel  bool       `json:"variant_level"`
	matching.Context
}

// POST /api/specifications
func (h *SpecificationHandler) Create(c *gin.Context) {
	var req createSpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	spec := req.Specification
	spec.IsActive = req.IsActive == nil || *req.IsActive
	created, err := h.specs.Create(dbctx.FromContext(c.Request.Context()), &spec)
	if err != nil {
		response.RespondServiceError(c, "create_specification_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"specification": created})
}

// GET /api/specifications/:id
func (h *SpecificationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "invalid_specification_id")
	if !ok {
		return
	}
	spec, err := h.specs.Get(dbctx.FromContext(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, "get_specification_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"specification": spec})
}

// GET /api/jobs/:id/specifications
func (h *SpecificationHandler) ListByJob(c *gin.Context) {
	jobID, ok := pathID(c, "invalid_job_id")
	if !ok {
		return
	}
	activeOnly := c.Query("active") == "true"
	list, err := h.specs.ListByJob(dbctx.FromContext(c.Request.Context()), jobID, activeOnly)
	if err != nil {
		response.RespondServiceError(c, "list_specifications_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"specifications": list})
}

// PATCH /api/specifications/:id
func (h *SpecificationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "invalid_specification_id")
	if !ok {
		return
	}
	var patch services.SpecificationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	spec, err := h.specs.Update(dbctx.FromContext(c.Request.Context()), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_specification_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"specification": spec})
}

// POST /api/specifications/:id/active
func (h *SpecificationHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "invalid_specification_id")
	if !ok {
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		if err == nil {
			err = errors.New("is_active is required")
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	spec, err := h.specs.SetActive(dbctx.FromContext(c.Request.Context()), id, *req.IsActive)
	if err != nil {
		response.RespondServiceError(c, "set_active_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"specification": spec})
}

// DELETE /api/specifications/:id
func (h *SpecificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "invalid_specification_id")
	if !ok {
		return
	}
	if err := h.specs.Delete(dbctx.FromContext(c.Request.Context()), id); err != nil {
		response.RespondServiceError(c, "delete_specification_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/specifications/match
func (h *SpecificationHandler) Match(c *gin.Context) {
	var mc matching.Context
	if err := c.ShouldBindJSON(&mc); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	list, err := h.specs.FindMatching(dbctx.FromContext(c.Request.Context()), mc)
	if err != nil {
		response.RespondServiceError(c, "match_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"specifications": list})
}

// POST /api/specifications/recommend
func (h *SpecificationHandler) Recommend(c *gin.Context) {
	var mc matching.Context
	if err := c.ShouldBindJSON(&mc); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec, err := h.specs.Recommend(dbctx.FromContext(c.Request.Context()), mc)
	if err != nil {
		response.RespondServiceError(c, "recommend_failed", err)
		return
	}
	if rec == nil {
		response.RespondError(c, http.StatusNotFound, "no_recommendation", errors.New("no product satisfies the applicable specifications"))
		return
	}
	response.RespondOK(c, gin.H{"recommendation": rec})
}

// POST /api/specifications/compliance
func (h *SpecificationHandler) Compliance(c *gin.Context) {
	var req complianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.ProductID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("product_id is required"))
		return
	}
	res, err := h.specs.CheckCompliance(dbctx.FromContext(c.Request.Context()), services.ComplianceRequest{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Context:   req.Context,
	})
	if err != nil {
		response.RespondServiceError(c, "compliance_failed", err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/specifications/filter
func (h *SpecificationHandler) Filter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.catalog.Filter(dbctx.FromContext(c.Request.Context()), services.FilterRequest{
		ProductTypeID: req.ProductTypeID,
		Context:       req.Context,
		VariantLevel:  req.VariantLevel,
	})
	if err != nil {
		response.RespondServiceError(c, "filter_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"products": out})
}

// POST /api/properties/normalize
func (h *SpecificationHandler) NormalizeProperties(c *gin.Context) {
	var props map[string]any
	if err := c.ShouldBindJSON(&props); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, gin.H{"properties": h.specs.NormalizeProperties(props)})
}

func pathID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}
