package feedback

import (
	"errors"

	"peer-feedback/core/logger"
	"peer-feedback/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubmitAnswerInput is the body of an answer submission.
type SubmitAnswerInput struct {
	AuthorID string `json:"author_id"`
	Answer   string `json:"answer"`
}

// Handler handles HTTP requests for feedback.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the feedback routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/feedback")
	group.Post("/requests", h.HandleCreateRequest)
	group.Get("/requests", h.HandleListOwned)
	group.Get("/items", h.HandleListAuthored)
	group.Put("/items/:id", h.HandleSubmitAnswer)
}

// HandleCreateRequest creates a feedback request.
// @Summary Create Feedback Request
// @Description Create a request addressed to authors by email. Unknown emails become unclaimed users.
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body CreateRequestInput true "Request"
// @Success 201 {object} models.FeedbackRequest "Created"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /feedback/requests [post]
func (h *Handler) HandleCreateRequest(c *fiber.Ctx) error {
	var in CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	req, err := h.service.CreateRequest(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// HandleListOwned lists the requests of an owner.
// @Summary List Owned Requests
// @Tags feedback
// @Produce json
// @Param owner_id query string true "Owner user id"
// @Success 200 {array} models.FeedbackRequest "Requests"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /feedback/requests [get]
func (h *Handler) HandleListOwned(c *fiber.Ctx) error {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "owner_id query parameter is required"})
	}

	reqs, err := h.service.ListOwned(c.UserContext(), ownerID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(reqs)
}

// HandleListAuthored lists the items an author has to answer.
// @Summary List Authored Items
// @Tags feedback
// @Produce json
// @Param author_id query string true "Author user id"
// @Param pending query bool false "Only unanswered items"
// @Success 200 {array} models.FeedbackItem "Items"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /feedback/items [get]
func (h *Handler) HandleListAuthored(c *fiber.Ctx) error {
	authorID := c.Query("author_id")
	if authorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "author_id query parameter is required"})
	}

	items, err := h.service.ListAuthored(c.UserContext(), authorID, utils.ToBool(c.Query("pending")))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(items)
}

// HandleSubmitAnswer records an answer.
// @Summary Submit Answer
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Item id"
// @Param answer body SubmitAnswerInput true "Answer"
// @Success 200 {object} models.FeedbackItem "Item"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Already submitted"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /feedback/items/{id} [put]
func (h *Handler) HandleSubmitAnswer(c *fiber.Ctx) error {
	var in SubmitAnswerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	item, err := h.service.SubmitAnswer(c.UserContext(), c.Params("id"), in.AuthorID, in.Answer)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(item)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrNotAuthor):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrItemNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrAlreadySubmitted):
		status = fiber.StatusConflict
	default:
		logger.WithRayID(h.service.logger, c).Error("Feedback request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
