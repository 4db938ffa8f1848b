package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/sitework-backend/internal/domain"
	"github.com/yungbote/sitework-backend/internal/http/response"
	"github.com/yungbote/sitework-backend/internal/modules/specs/templates"
	"github.com/yungbote/sitework-backend/internal/platform/dbctx"
	"github.com/yungbote/sitework-backend/internal/services"
)

type TemplateHandler struct {
	templates services.SpecificationTemplateService
}

func NewTemplateHandler(templates services.SpecificationTemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// GET /api/specification-templates
func (h *TemplateHandler) List(c *gin.Context) {
	list, err := h.templates.List(dbctx.FromContext(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, "list_templates_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"templates": list})
}

// POST /api/specification-templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var tpl types.SpecificationTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.templates.Create(dbctx.FromContext(c.Request.Context()), &tpl)
	if err != nil {
		response.RespondServiceError(c, "create_template_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"template": created})
}

// POST /api/specification-templates/:id/instantiate
func (h *TemplateHandler) Instantiate(c *gin.Context) {
	id, ok := pathID(c, "invalid_template_id")
	if !ok {
		return
	}
	var req templates.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.templates.Instantiate(dbctx.FromContext(c.Request.Context()), id, req)
	if err != nil {
		response.RespondServiceError(c, "instantiate_template_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"specifications": created})
}
