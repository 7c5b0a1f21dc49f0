package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/etenders"
	"github.com/bidflow/bidflow-api/internal/scoring"
	"github.com/bidflow/bidflow-api/internal/service"
	"github.com/bidflow/bidflow-api/internal/utils"
)

// TenderHandler wires tender and qualification HTTP routes.
type TenderHandler struct {
	tenders        service.TenderService
	qualifications service.QualificationService
	logger         zerolog.Logger
}

// NewTenderHandler constructs the handler.
func NewTenderHandler(tenders service.TenderService, qualifications service.QualificationService, logger zerolog.Logger) *TenderHandler {
	return &TenderHandler{
		tenders:        tenders,
		qualifications: qualifications,
		logger:         logger.With().Str("component", "tender_handler").Logger(),
	}
}

// Register attaches tender endpoints to the router group.
func (h *TenderHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/search/etenders", h.searchExternal)
	router.Post("/import", h.importExternal)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
	router.Post("/:id/qualify", h.qualify)
	router.Get("/:id/qualification", h.latestQualification)
	router.Get("/:id/qualifications", h.qualificationHistory)
}

func (h *TenderHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	req := dto.TenderListRequest{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	}

	if raw := strings.TrimSpace(c.Query("minValue")); raw != "" {
		minValue, err := strconv.ParseFloat(raw, 64)
		if err != nil || minValue < 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid minimum value")
		}
		req.MinValue = &minValue
	}

	result, err := h.tenders.List(c.Context(), req)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "tenders retrieved", result)
}

func (h *TenderHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	tender, err := h.tenders.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTenderNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "tender not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "tender retrieved", tender)
}

func (h *TenderHandler) create(c *fiber.Ctx) error {
	var payload dto.TenderCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tender, err := h.tenders.Create(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateTenderReference):
			return utils.SendError(c, fiber.StatusConflict, "tender reference already registered")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tender registered", tender)
}

func (h *TenderHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.tenders.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrTenderNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "tender not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "tender deleted", fiber.Map{"id": id})
}

func (h *TenderHandler) qualify(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	qualification, err := h.qualifications.Qualify(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenderNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "tender not found")
		case errors.Is(err, scoring.ErrInvalidTender):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tender qualified", qualification)
}

func (h *TenderHandler) latestQualification(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	qualification, err := h.qualifications.Latest(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQualificationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no qualification for tender")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "qualification retrieved", qualification)
}

func (h *TenderHandler) qualificationHistory(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	history, err := h.qualifications.History(c.Context(), id)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "qualification history retrieved", history)
}

func (h *TenderHandler) searchExternal(c *fiber.Ctx) error {
	query := etenders.Query{
		Search:   c.Query("search"),
		Province: c.Query("province"),
		Category: c.Query("category"),
	}

	results, err := h.tenders.SearchExternal(c.Context(), query)
	if err != nil {
		h.logger.Warn().Err(err).Msg("external tender search failed")
		return utils.SendError(c, fiber.StatusBadGateway, "external tender search failed")
	}

	return utils.SendSuccess(c, "external tenders retrieved", results)
}

func (h *TenderHandler) importExternal(c *fiber.Ctx) error {
	var payload etenders.Result
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	tender, err := h.tenders.Import(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateTenderReference):
			return utils.SendError(c, fiber.StatusConflict, "tender reference already registered")
		default:
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tender imported", tender)
}

func (h *TenderHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
