package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"gameshelf/internal/domain"
	"gameshelf/internal/middleware"
	"gameshelf/internal/service/device"
)

type DeviceHandler struct {
	deviceService device.Service
}

func NewDeviceHandler(deviceService device.Service) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

func (h *DeviceHandler) Register(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.RegisterDeviceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	d, err := h.deviceService.Register(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *DeviceHandler) Remove(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	token, err := url.PathUnescape(c.Params("token"))
	if err != nil || token == "" {
		return middleware.BadRequest("Invalid device token")
	}

	if err := h.deviceService.Remove(c.Context(), userID, token); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
