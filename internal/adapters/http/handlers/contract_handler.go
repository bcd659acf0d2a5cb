package handlers

import (
	"errors"
	"io"
	"strconv"

	"cso-scholarhub/internal/core/domain"
	"cso-scholarhub/internal/core/services"
	"cso-scholarhub/internal/pkg/pagination"
	"cso-scholarhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ContractHandler handles contract endpoints
type ContractHandler struct {
	contractService *services.ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// Publish handles contract publication
// @Summary Publish contract
// @Description Upload a contract file and publish it to scholarship recipients
// @Tags Contracts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Contract file"
// @Param scholarship formData int true "Scholarship ID"
// @Param deadline formData string true "Response deadline (YYYY-MM-DD)"
// @Param comment formData string false "Optional comment"
// @Param recipients formData []string true "Recipient emails or 'everyone'"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contracts [post]
func (h *ContractHandler) Publish(c *fiber.Ctx) error {
	var fileName string
	var fileContent []byte

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return response.InternalServerError(c, "Failed to open uploaded file")
		}
		defer file.Close()

		fileContent, err = io.ReadAll(file)
		if err != nil {
			return response.InternalServerError(c, "Failed to read uploaded file")
		}
		fileName = fileHeader.Filename
	}

	scholarshipID, _ := strconv.ParseUint(c.FormValue("scholarship"), 10, 32)

	var recipients []string
	if form, err := c.MultipartForm(); err == nil {
		recipients = form.Value["recipients"]
	}

	// Publisher identity comes from the session; the form value is a
	// fallback for trusted internal callers
	publishedBy, _ := c.Locals("email").(string)
	if publishedBy == "" {
		publishedBy = c.FormValue("published_by")
	}

	input := &services.PublishContractInput{
		FileName:      fileName,
		FileContent:   fileContent,
		ScholarshipID: uint(scholarshipID),
		Deadline:      c.FormValue("deadline"),
		Comment:       c.FormValue("comment"),
		Recipients:    recipients,
		PublishedBy:   publishedBy,
	}

	result, err := h.contractService.Publish(c.Context(), input)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return response.BadRequest(c, ve.Reason)
		case errors.Is(err, domain.ErrScholarshipNotFound):
			return response.NotFound(c, "Scholarship not found")
		default:
			return response.InternalServerError(c, "Upload failed")
		}
	}

	return response.Created(c, "Contract published successfully", result)
}

// List lists contracts
// @Summary List contracts
// @Description List published contracts, newest first
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param scholarship query int false "Filter by scholarship ID"
// @Success 200 {object} response.Response
// @Router /contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
	if scholarshipID, err := strconv.ParseUint(c.Query("scholarship"), 10, 32); err == nil {
		contracts, err := h.contractService.ListByScholarship(c.Context(), uint(scholarshipID))
		if err != nil {
			return response.InternalServerError(c, "Failed to list contracts")
		}
		return response.Success(c, "Contracts retrieved", fiber.Map{
			"contracts": contracts,
		})
	}

	params := pagination.GetParams(c)

	contracts, total, err := h.contractService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list contracts")
	}

	return response.Success(c, "Contracts retrieved", fiber.Map{
		"contracts": contracts,
		"meta":      pagination.GetMeta(params, total),
	})
}

// GetByID gets a contract
// @Summary Get contract
// @Description Get a contract by ID
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetByID(c *fiber.Ctx) error {
	contract, err := h.contractService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrContractNotFound) {
			return response.NotFound(c, "Contract not found")
		}
		return response.InternalServerError(c, "Failed to get contract")
	}

	return response.Success(c, "Contract retrieved", fiber.Map{
		"contract": contract,
	})
}

// Download streams the stored contract file
// @Summary Download contract file
// @Description Download the stored file of a contract
// @Tags Contracts
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /contracts/{id}/file [get]
func (h *ContractHandler) Download(c *fiber.Ctx) error {
	contract, content, err := h.contractService.OpenFile(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrContractNotFound) {
			return response.NotFound(c, "Contract not found")
		}
		return response.InternalServerError(c, "Failed to read contract file")
	}

	fileName := contract.FileName
	if fileName == "" {
		fileName = contract.ID + ".pdf"
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(content)
}
