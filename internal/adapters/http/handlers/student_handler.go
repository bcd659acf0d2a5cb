package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"cso-scholarhub/internal/core/domain"
	"cso-scholarhub/internal/core/services"
	"cso-scholarhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// StudentHandler handles scholar endpoints
type StudentHandler struct {
	studentService *services.StudentService
	streamService  *services.StreamService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *services.StudentService, streamService *services.StreamService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		streamService:  streamService,
	}
}

// List lists students with derived statuses
// @Summary List students
// @Description List scholars with search and category filters; revoked last
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param q query string false "Comma-separated search terms"
// @Param category query string false "Scholarship type filter"
// @Success 200 {object} response.Response
// @Router /students [get]
func (h *StudentHandler) List(c *fiber.Ctx) error {
	filter := &services.StudentFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	students, err := h.studentService.List(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list students")
	}

	return response.Success(c, "Students retrieved", fiber.Map{
		"students": students,
	})
}

// GetByID gets a student
// @Summary Get student
// @Description Get a scholar with derived status
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /students/{id} [get]
func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	student, err := h.studentService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to get student")
	}

	return response.Success(c, "Student retrieved", fiber.Map{
		"student": student,
	})
}

// Verify records a verification
// @Summary Verify student
// @Description Record a successful eligibility check for a scholar
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param body body services.VerifyStudentInput true "Verification data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /students/{id}/verify [post]
func (h *StudentHandler) Verify(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	var input services.VerifyStudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	student, err := h.studentService.Verify(c.Context(), uint(id), &input)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return response.BadRequest(c, ve.Reason)
		case errors.Is(err, domain.ErrStudentNotFound):
			return response.NotFound(c, "Student not found")
		case errors.Is(err, domain.ErrStudentRevoked):
			return response.Conflict(c, "Scholarship is revoked")
		default:
			return response.InternalServerError(c, "Failed to verify student")
		}
	}

	return response.Success(c, "Student verified successfully", fiber.Map{
		"student": student,
	})
}

// Revoke revokes a scholarship
// @Summary Revoke scholarship
// @Description Revoke a scholar's award. Irreversible.
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /students/{id}/revoke [put]
func (h *StudentHandler) Revoke(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	student, err := h.studentService.Revoke(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrStudentNotFound):
			return response.NotFound(c, "Student not found")
		case errors.Is(err, domain.ErrStudentRevoked):
			return response.Conflict(c, "Scholarship is already revoked")
		default:
			return response.InternalServerError(c, "Failed to revoke scholarship")
		}
	}

	return response.Success(c, "Scholarship revoked", fiber.Map{
		"student": student,
	})
}

// SetContractStatusRequest represents a sign/reject action
type SetContractStatusRequest struct {
	Status string `json:"status"`
}

// SetContractStatus records a sign or reject action
// @Summary Set contract status
// @Description Record a scholar's sign or reject action on a contract
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param contract_id path string true "Contract ID"
// @Param body body SetContractStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /students/{id}/contracts/{contract_id} [put]
func (h *StudentHandler) SetContractStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	var req SetContractStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.studentService.SetContractStatus(c.Context(), uint(id), c.Params("contract_id"), req.Status); err != nil {
		if errors.Is(err, services.ErrInvalidSignStatus) {
			return response.BadRequest(c, "Status must be signed or rejected")
		}
		return response.InternalServerError(c, "Failed to update contract status")
	}

	return response.Success(c, "Contract status updated", nil)
}

// ExportCSV exports verified students
// @Summary Export verified students
// @Description Export verified, non-revoked scholars as CSV
// @Tags Students
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /students/export [get]
func (h *StudentHandler) ExportCSV(c *fiber.Ctx) error {
	content, err := h.studentService.ExportVerifiedCSV(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to export students")
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="verified_students.csv"`)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(content)
}

// Stream pushes live student snapshots over SSE
// @Summary Student stream
// @Description Server-sent events stream of full student snapshots
// @Tags Students
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Router /students/stream [get]
func (h *StudentHandler) Stream(c *fiber.Ctx) error {
	clientID := "dash-" + uuid.New().String()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &services.SSEClient{
			ID:      clientID,
			Channel: make(chan services.SSEEvent, 50),
		}

		hub := h.streamService.Hub()
		hub.Register(client)
		defer hub.Unregister(clientID)

		// Initial full snapshot so new dashboards render immediately
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		snapshot, err := h.streamService.Snapshot(ctx)
		cancel()
		if err == nil {
			writeSSEEvent(w, services.SSEEvent{Event: "students", Data: snapshot})
		}
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				writeSSEEvent(w, event)
				if err := w.Flush(); err != nil {
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 SSE client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// writeSSEEvent writes a formatted SSE event to the writer
func writeSSEEvent(w *bufio.Writer, event services.SSEEvent) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
}

// Note: Fiber's c.Context().SetBodyStreamWriter() expects a
// fasthttp.StreamWriter = func(w *bufio.Writer)
var _ fasthttp.StreamWriter = func(w *bufio.Writer) {}
