package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/service"
	"github.com/bidflow/bidflow-api/internal/utils"
)

// OpportunityHandler wires pipeline HTTP routes.
type OpportunityHandler struct {
	service service.OpportunityService
	logger  zerolog.Logger
}

// NewOpportunityHandler constructs the handler.
func NewOpportunityHandler(service service.OpportunityService, logger zerolog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		service: service,
		logger:  logger.With().Str("component", "opportunity_handler").Logger(),
	}
}

// Register attaches opportunity endpoints to the router group.
func (h *OpportunityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id/status", h.transition)
	router.Delete("/:id", h.delete)
}

func (h *OpportunityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.OpportunityListRequest{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	if raw := strings.TrimSpace(c.Query("assignedTo")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid assignee")
		}
		assignee := uint(parsed)
		req.AssignedTo = &assignee
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "opportunities retrieved", result)
}

func (h *OpportunityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	opportunity, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOpportunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "opportunity retrieved", opportunity)
}

func (h *OpportunityHandler) create(c *fiber.Ctx) error {
	var payload dto.OpportunityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	opportunity, err := h.service.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenderNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "tender not found")
		case errors.Is(err, service.ErrQualificationNotFound):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateOpportunity):
			return utils.SendError(c, fiber.StatusConflict, "tender already has an active opportunity")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "opportunity created", opportunity)
}

func (h *OpportunityHandler) transition(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.OpportunityTransitionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	opportunity, err := h.service.Transition(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOpportunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		case errors.Is(err, service.ErrUnknownStage):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrIllegalTransition):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrIncompleteTasks):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrQualificationRequired):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccess(c, "opportunity transitioned", opportunity)
}

func (h *OpportunityHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrOpportunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "opportunity deleted", fiber.Map{"id": id})
}

func (h *OpportunityHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
