package handlers

import (
	"errors"
	"strconv"

	"cso-scholarhub/internal/core/domain"
	"cso-scholarhub/internal/core/services"
	"cso-scholarhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScholarshipHandler handles scholarship master data endpoints
type ScholarshipHandler struct {
	scholarshipService *services.ScholarshipService
}

// NewScholarshipHandler creates a new scholarship handler
func NewScholarshipHandler(scholarshipService *services.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipService: scholarshipService}
}

// List lists scholarship programs
// @Summary List scholarships
// @Description List all active scholarship programs
// @Tags Scholarships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /scholarships [get]
func (h *ScholarshipHandler) List(c *fiber.Ctx) error {
	scholarships, err := h.scholarshipService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list scholarships")
	}

	return response.Success(c, "Scholarships retrieved", fiber.Map{
		"scholarships": scholarships,
	})
}

// GetByID gets a scholarship with its contract history
// @Summary Get scholarship
// @Description Get a scholarship program with its published contracts
// @Tags Scholarships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /scholarships/{id} [get]
func (h *ScholarshipHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	scholarship, err := h.scholarshipService.GetWithContracts(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrScholarshipNotFound) {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to get scholarship")
	}

	return response.Success(c, "Scholarship retrieved", fiber.Map{
		"scholarship": scholarship,
	})
}
