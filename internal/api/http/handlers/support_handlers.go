package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-center/internal/api/dto"
	"github.com/spec-kit/incident-center/internal/observability"
	"github.com/spec-kit/incident-center/internal/repository"
	"github.com/spec-kit/incident-center/internal/service"
	apperrors "github.com/spec-kit/incident-center/pkg/util/errorutil"
)

// RosterHandler lists assignable team members.
type RosterHandler struct {
	dashboard *service.DashboardService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(dashboardService *service.DashboardService) *RosterHandler {
	return &RosterHandler{dashboard: dashboardService}
}

// List GET /api/v1/roster.
func (h *RosterHandler) List(c *fiber.Ctx) error {
	members, err := h.dashboard.Team(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.RosterMemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, dto.NewRosterMemberResponse(m))
	}
	return c.JSON(fiber.Map{"data": items})
}

// BlobsHandler serves attachment bytes by locator.
type BlobsHandler struct {
	blobs repository.BlobStore
}

// NewBlobsHandler constructs handler.
func NewBlobsHandler(blobs repository.BlobStore) *BlobsHandler {
	return &BlobsHandler{blobs: blobs}
}

// Get GET /api/v1/blobs/:locator.
func (h *BlobsHandler) Get(c *fiber.Ctx) error {
	locator, err := url.PathUnescape(c.Params("locator"))
	if err != nil || !repository.ValidLocator(locator) {
		return apperrors.NewValidationError("invalid locator", map[string]any{"locator": "malformed"})
	}
	blob, err := h.blobs.Get(c.UserContext(), locator)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("blob", map[string]any{"locator": locator})
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	mimeType := blob.MimeType
	if mimeType == "" {
		mimeType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, mimeType)
	if blob.Filename != "" {
		c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(blob.Filename))
	}
	return c.Send(blob.Data)
}

// MetricsHandler exposes the in-memory counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Get GET /metrics.
func (h *MetricsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
