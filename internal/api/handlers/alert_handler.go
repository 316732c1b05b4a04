package handlers

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/internal/api/presenters"
	"PayGuard-Backend/pkg/alert"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AlertHandler interface {
		GetAlerts(c *fiber.Ctx) error
		UpdateAlertStatus(c *fiber.Ctx) error
	}

	alertHandler struct {
		alertService alert.AlertService
		validator    *validator.Validate
	}
)

func NewAlertHandler(alertService alert.AlertService, validator *validator.Validate) AlertHandler {
	return &alertHandler{
		alertService: alertService,
		validator:    validator,
	}
}

func (h *alertHandler) GetAlerts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	status := c.Query("status", "all")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	alerts, count, err := h.alertService.GetAlerts(c.Context(), userID, status, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAlerts, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"alerts": alerts,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetAlerts)
}

func (h *alertHandler) UpdateAlertStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	alertID := c.Params("id")
	req := new(domain.UpdateAlertStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateAlert, err)
	}

	if err := h.alertService.UpdateAlertStatus(c.Context(), alertID, *req, userID); err != nil {
		if errors.Is(err, domain.ErrAlertNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateAlert, err)
		}
		if errors.Is(err, domain.ErrUnauthorizedAccess) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedUpdateAlert, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateAlert, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateAlert)
}
