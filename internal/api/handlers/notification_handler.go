package handlers

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/internal/api/presenters"
	"PayGuard-Backend/pkg/notification"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type (
	NotificationHandler interface {
		SendPushNotification(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
		validator           *validator.Validate
	}
)

func NewNotificationHandler(notificationService notification.NotificationService, validator *validator.Validate) NotificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
		validator:           validator,
	}
}

// SendPushNotification reports partial delivery with 207 rather than failing
// the request; only validation problems and a fully failed dispatch map to
// error statuses.
func (h *notificationHandler) SendPushNotification(c *fiber.Ctx) error {
	requestID := uuid.New().String()

	if !c.Is("json") {
		return presenters.ErrorResponse(c, fiber.StatusUnsupportedMediaType, domain.MessageFailedBodyRequest, nil)
	}

	req := new(domain.SendNotificationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendNotification, err)
	}

	result, err := h.notificationService.SendPushNotification(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendNotification, err)
	}

	status := fiber.StatusOK
	if !result.Success {
		if len(result.Tickets) == 0 {
			status = fiber.StatusBadGateway
		} else {
			status = fiber.StatusMultiStatus
		}
	}

	return c.Status(status).JSON(domain.SendNotificationResponse{
		RequestID: requestID,
		Success:   result.Success,
		Priority:  result.Priority,
		Tickets:   result.Tickets,
		Failures:  result.Failures,
	})
}
