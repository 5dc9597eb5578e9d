package controllers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fleetops/controllers/helpers"
	"fleetops/dto"
	"fleetops/models"
	"fleetops/notify"
	"fleetops/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

type EventController struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Notifier notify.Notifier
	now      func() time.Time
}

func NewEventController(db *gorm.DB, log *zap.Logger, notifier notify.Notifier) *EventController {
	return &EventController{
		DB:       db,
		Log:      log,
		Notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type eventInput struct {
	TripID   uint       `json:"tripId" validate:"required"`
	Type     string     `json:"type" validate:"required,max=64"`
	At       *time.Time `json:"at"`
	Location *string    `json:"location" validate:"omitempty,max=255"`
	Notes    *string    `json:"notes"`
}

// GetAll lists events newest first, each with its trip.
func (c *EventController) GetAll(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", defaultEventLimit)
	if limit < 1 {
		details := helpers.NewValidationDetails()
		details.AddField("limit", "Must be at least 1")
		return helpers.ValidationFailed(ctx, details)
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := repositories.NewEventRepository(c.DB).ListRecent(ctx.UserContext(), limit)
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to list events", err)
	}

	out := make([]dto.Object, len(events))
	for i, e := range events {
		out[i] = dto.EventDTO(e)
	}
	return ctx.JSON(fiber.Map{"ok": true, "events": out})
}

func (c *EventController) Create(ctx *fiber.Ctx) error {
	var input eventInput
	if err := ctx.BodyParser(&input); err != nil {
		return helpers.InvalidBody(ctx, err)
	}
	input.Type = strings.TrimSpace(input.Type)
	input.Location = trimOptional(input.Location)
	input.Notes = trimOptional(input.Notes)
	if details := helpers.Validate(input); details != nil {
		return helpers.ValidationFailed(ctx, details)
	}

	if !models.IsKnownEventType(input.Type) {
		c.Log.Warn("Unknown event type",
			zap.String("type", input.Type),
			zap.Uint("trip_id", input.TripID),
		)
	}

	exists, err := repositories.NewTripRepository(c.DB).Exists(ctx.UserContext(), input.TripID)
	if err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to load trip", err)
	}
	if !exists {
		return helpers.NotFound(ctx, "Trip")
	}

	at := c.now()
	if input.At != nil {
		at = input.At.UTC()
	}
	event := models.Event{
		TripID:    input.TripID,
		Type:      input.Type,
		At:        at,
		Location:  input.Location,
		Notes:     input.Notes,
		CreatedBy: helpers.CurrentUserID(ctx),
	}
	if err := repositories.NewEventRepository(c.DB).Create(ctx.UserContext(), &event); err != nil {
		return helpers.ServerError(ctx, c.Log, "Failed to create event", err)
	}

	c.announce(event)
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "id": event.ID})
}

// announce publishes the event on the trip topic; a finished delivery also
// goes to the dispatch chat and mailbox.
func (c *EventController) announce(event models.Event) {
	if c.Notifier == nil {
		return
	}
	payload, err := json.Marshal(dto.EventDTO(event))
	if err != nil {
		c.Log.Warn("Failed to encode event for publishing", zap.Error(err))
		return
	}
	n := notify.Notification{
		Topic:   notify.TripEventsTopic(event.TripID),
		Payload: payload,
	}
	if event.Type == models.EventFinishedDelivery {
		n.Subject = fmt.Sprintf("Trip %d delivered", event.TripID)
		n.Text = fmt.Sprintf("Trip %d finished delivery at %s", event.TripID, dto.FormatTime(event.At))
	}
	notify.Async(c.Log, c.Notifier, n)
}
