package handlers

import (
	"github.com/collabhub/collabhub-api/internal/dto"
	apierrors "github.com/collabhub/collabhub-api/internal/errors"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SkillHandler serves the skill catalog.
type SkillHandler struct {
	skillService *services.SkillService
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// ListSkills returns the catalog grouped by category, or flat with ?flat=true
func (h *SkillHandler) ListSkills(c *gin.Context) {
	if c.Query("flat") == "true" {
		skills, err := h.skillService.ListSkills(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		apierrors.Success(c, dto.ToSkillDTOs(skills))
		return
	}

	grouped, err := h.skillService.ListGrouped(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	apierrors.Success(c, dto.ToGroupedSkillDTOs(grouped))
}
