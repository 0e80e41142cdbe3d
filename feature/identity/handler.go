package identity

import (
	"errors"

	"peer-feedback/core/logger"
	"peer-feedback/feature/identity/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookResponse is returned for an accepted delivery.
type WebhookResponse struct {
	Status       string               `json:"status"`
	Action       reconcile.ActionType `json:"action"`
	UserID       string               `json:"user_id,omitempty"`
	MergedUserID string               `json:"merged_user_id,omitempty"`
}

// Handler handles HTTP requests for identities.
type Handler struct {
	service  *Service
	verifier *Verifier
}

// NewHandler creates a new HTTP handler. A nil verifier accepts unsigned webhooks.
func NewHandler(service *Service, verifier *Verifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

// RegisterRoutes registers the webhook and user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/webhooks/identity", SignatureMiddleware(h.verifier), h.HandleWebhook)

	users := app.Group("/users")
	users.Get("/", h.HandleFindUser)
	users.Get("/:id", h.HandleGetUser)
}

// HandleWebhook reconciles one identity provider lifecycle event.
// @Summary Identity Webhook
// @Description Receives user.created and user.updated events from the identity provider. Other event types are acknowledged and ignored.
// @Tags identity
// @Accept json
// @Produce json
// @Param svix-id header string false "Delivery id"
// @Param svix-timestamp header string false "Delivery timestamp (unix seconds)"
// @Param svix-signature header string false "Delivery signature"
// @Param payload body WebhookPayload true "Webhook payload"
// @Success 200 {object} WebhookResponse "Reconciled"
// @Failure 400 {object} map[string]string "Invalid payload"
// @Failure 401 {object} map[string]string "Invalid signature"
// @Failure 404 {object} map[string]string "Unknown provider user"
// @Failure 409 {object} map[string]interface{} "Identity conflict"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /webhooks/identity [post]
func (h *Handler) HandleWebhook(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	deliveryID := c.Get(HeaderWebhookID)
	if deliveryID == "" {
		if rid, ok := c.Locals(logger.RayIDKey).(string); ok {
			deliveryID = rid
		}
	}

	out, err := h.service.Ingest(c.UserContext(), deliveryID, c.Body())
	if err != nil {
		return h.writeError(c, l.With(zap.String("delivery_id", deliveryID)), err)
	}

	return c.JSON(WebhookResponse{
		Status:       "ok",
		Action:       out.Action,
		UserID:       out.UserID,
		MergedUserID: out.MergedUserID,
	})
}

func (h *Handler) writeError(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, reconcile.ErrInvalidEvent):
		l.Warn("Rejected identity webhook", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, reconcile.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, reconcile.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     err.Error(),
			"retryable": reconcile.IsRetryable(err),
		})
	default:
		l.Error("Identity webhook failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleGetUser returns a local user by id.
// @Summary Get User
// @Description Get a local user by id.
// @Tags identity
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} models.User "User"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *Handler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	return h.writeUser(c, user, err)
}

// HandleFindUser returns the local user holding an email.
// @Summary Find User
// @Description Find a local user by email.
// @Tags identity
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} models.User "User"
// @Failure 400 {object} map[string]string "Missing email"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) HandleFindUser(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email query parameter is required"})
	}

	user, err := h.service.FindUserByEmail(c.UserContext(), email)
	return h.writeUser(c, user, err)
}

func (h *Handler) writeUser(c *fiber.Ctx, user any, err error) error {
	if errors.Is(err, ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("User lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}
