package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-center/internal/aggregate"
	"github.com/spec-kit/incident-center/internal/api/dto"
	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/internal/service"
	apperrors "github.com/spec-kit/incident-center/pkg/util/errorutil"
)

// HeaderActor names the acting user for ledger entries.
const HeaderActor = "X-Actor"

// RecordsHandler exposes the command surface of one record variant.
type RecordsHandler struct {
	service   *service.RecordService
	dashboard *service.DashboardService
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler(recordService *service.RecordService, dashboardService *service.DashboardService) *RecordsHandler {
	return &RecordsHandler{service: recordService, dashboard: dashboardService}
}

// Create POST /.
func (h *RecordsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	rec, err := h.service.Create(c.UserContext(), actor(c), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRecordResponse(rec)})
}

// List GET /?search=&status=.
func (h *RecordsHandler) List(c *fiber.Ctx) error {
	records := h.service.List(c.UserContext(), listFilter(c))
	items := make([]dto.RecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.NewRecordResponse(rec))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Dashboard GET /dashboard.
func (h *RecordsHandler) Dashboard(c *fiber.Ctx) error {
	view, err := h.dashboard.Dashboard(c.UserContext(), listFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(view)})
}

// Get GET /:id.
func (h *RecordsHandler) Get(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordResponse(rec)})
}

// Update PATCH /:id.
func (h *RecordsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	id := c.Params("id")
	current, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	rec, err := h.service.Update(c.UserContext(), actor(c), id, req.Commands(current)...)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordResponse(rec)})
}

// ChangeStatus POST /:id/status.
func (h *RecordsHandler) ChangeStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	rec, act, err := h.service.ChangeStatus(c.UserContext(), actor(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return transitionResponse(c, rec, act)
}

// ChangeSeverity POST /:id/severity.
func (h *RecordsHandler) ChangeSeverity(c *fiber.Ctx) error {
	var req dto.SeverityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	rec, act, err := h.service.ChangeSeverity(c.UserContext(), actor(c), c.Params("id"), req.Value())
	if err != nil {
		return err
	}
	return transitionResponse(c, rec, act)
}

// Reassign POST /:id/assignee.
func (h *RecordsHandler) Reassign(c *fiber.Ctx) error {
	var req dto.AssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	rec, act, err := h.service.Reassign(c.UserContext(), actor(c), c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return transitionResponse(c, rec, act)
}

// AppendActivity POST /:id/activities.
func (h *RecordsHandler) AppendActivity(c *fiber.Ctx) error {
	var req dto.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	act, err := h.service.AppendActivity(c.UserContext(), actor(c), c.Params("id"), req.Text, req.Kind)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewActivityResponse(act)})
}

// AppendAttachment POST /:id/attachments. Accepts a multipart "file" upload or a JSON
// descriptor of bytes stored elsewhere.
func (h *RecordsHandler) AppendAttachment(c *fiber.Ctx) error {
	id := c.Params("id")
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return apperrors.NewValidationError("invalid upload", map[string]any{"file": "required"})
		}
		f, err := fh.Open()
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		att, err := h.service.UploadAttachment(c.UserContext(), actor(c), id, fh.Filename, fh.Header.Get(fiber.HeaderContentType), data)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAttachmentResponse(att)})
	}

	var req dto.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(err)
	}
	att, err := h.service.AppendAttachment(c.UserContext(), actor(c), id, req.ToDescriptor())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAttachmentResponse(att)})
}

func transitionResponse(c *fiber.Ctx, rec domain.Record, act domain.Activity) error {
	return c.JSON(fiber.Map{
		"data":     dto.NewRecordResponse(rec),
		"activity": dto.NewActivityResponse(act),
	})
}

func listFilter(c *fiber.Ctx) aggregate.Filter {
	return aggregate.Filter{
		SearchText:   c.Query("search"),
		StatusFilter: c.Query("status", aggregate.StatusAll),
	}
}

func actor(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get(HeaderActor))
}

func invalidPayload(err error) error {
	return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
}
