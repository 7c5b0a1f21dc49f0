package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/service"
	"github.com/bidflow/bidflow-api/internal/utils"
)

// ComplianceHandler wires compliance checklist HTTP routes.
type ComplianceHandler struct {
	service service.ComplianceService
	logger  zerolog.Logger
}

// NewComplianceHandler constructs the handler.
func NewComplianceHandler(service service.ComplianceService, logger zerolog.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		service: service,
		logger:  logger.With().Str("component", "compliance_handler").Logger(),
	}
}

// Register attaches compliance endpoints. Listing and creation are nested
// under the owning opportunity; status changes address the item directly.
func (h *ComplianceHandler) Register(opportunities fiber.Router, compliance fiber.Router) {
	opportunities.Get("/:id/compliance", h.list)
	opportunities.Post("/:id/compliance", h.create)
	compliance.Patch("/:id/status", h.setStatus)
	compliance.Delete("/:id", h.delete)
}

func (h *ComplianceHandler) list(c *fiber.Ctx) error {
	opportunityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, err := h.service.List(c.Context(), opportunityID)
	if err != nil {
		if errors.Is(err, service.ErrOpportunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "compliance items retrieved", items)
}

func (h *ComplianceHandler) create(c *fiber.Ctx) error {
	opportunityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ComplianceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.Create(c.Context(), opportunityID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOpportunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "compliance item added", item)
}

func (h *ComplianceHandler) setStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ComplianceStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.SetStatus(c.Context(), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComplianceNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "compliance item not found")
		case errors.Is(err, service.ErrVerifierRequired):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccess(c, "compliance status updated", item)
}

func (h *ComplianceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrComplianceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "compliance item not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "compliance item deleted", fiber.Map{"id": id})
}

func (h *ComplianceHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
