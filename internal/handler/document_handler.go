package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bidflow/bidflow-api/internal/service"
	"github.com/bidflow/bidflow-api/internal/utils"
)

// DocumentHandler wires document HTTP routes.
type DocumentHandler struct {
	service service.DocumentService
	logger  zerolog.Logger
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(service service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register attaches document endpoints. Listing and upload are nested under
// the owning opportunity; removal addresses the document directly.
func (h *DocumentHandler) Register(opportunities fiber.Router, documents fiber.Router) {
	opportunities.Get("/:id/documents", h.list)
	opportunities.Post("/:id/documents", h.upload)
	documents.Delete("/:id", h.delete)
}

func (h *DocumentHandler) list(c *fiber.Ctx) error {
	opportunityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	documents, err := h.service.List(c.Context(), opportunityID)
	if err != nil {
		if errors.Is(err, service.ErrOpportunityNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "documents retrieved", documents)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	opportunityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	document, err := h.service.Upload(c.Context(), opportunityID, file, userIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOpportunityNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
		case errors.Is(err, service.ErrDocumentTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, service.ErrDocumentTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		default:
			return h.internalError(c, err)
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document uploaded", document)
}

func (h *DocumentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "document not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "document deleted", fiber.Map{"id": id})
}

func (h *DocumentHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
