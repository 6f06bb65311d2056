package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"gameshelf/internal/domain"
	"gameshelf/internal/middleware"
	"gameshelf/internal/service/preference"
)

type SettingsHandler struct {
	prefService preference.Service
}

func NewSettingsHandler(prefService preference.Service) *SettingsHandler {
	return &SettingsHandler{prefService: prefService}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	settings, err := h.prefService.Settings(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(settings)
}

func (h *SettingsHandler) UpdateType(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notifType := domain.NotificationType(c.Params("type"))
	if !notifType.IsValid() {
		return middleware.BadRequest("Invalid notification type")
	}

	var input domain.UpdatePreferenceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	pref, err := h.prefService.Update(c.Context(), userID, notifType, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(pref)
}

// BulkUpdate drops items that fail validation and applies the rest.
func (h *SettingsHandler) BulkUpdate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.BulkUpdatePreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if len(input.Preferences) == 0 {
		return middleware.UnprocessableEntity("preferences must not be empty")
	}

	items := make([]domain.BulkPreferenceItem, 0, len(input.Preferences))
	for _, item := range input.Preferences {
		if !item.Type.IsValid() {
			slog.DebugContext(c.UserContext(), "bulk preference item dropped", slog.String("type", string(item.Type)))
			continue
		}
		if err := validate.Struct(item); err != nil {
			slog.DebugContext(c.UserContext(), "bulk preference item dropped",
				slog.String("type", string(item.Type)),
				slog.Any("error", err),
			)
			continue
		}
		items = append(items, item)
	}

	updated := h.prefService.BulkUpdate(c.Context(), userID, items)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"preferences": updated,
		"count":       len(updated),
	})
}

func (h *SettingsHandler) UpdateMaster(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdateMasterTogglesInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	toggles, err := h.prefService.UpdateMasterToggles(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toggles)
}
