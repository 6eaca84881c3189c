package core

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const icsProductId = "-//event-calendar//EN"

type Handlers interface {
	PostEvents(gctx *gin.Context)
	ListEvents(gctx *gin.Context)
	GetEvent(gctx *gin.Context)
	PatchEvent(gctx *gin.Context)
	DeleteEvent(gctx *gin.Context)
	PostDrop(gctx *gin.Context)
	GetUpcoming(gctx *gin.Context)
	GetView(gctx *gin.Context)
	GetICS(gctx *gin.Context)
}

type handlers struct {
	store         *EventStore
	projector     *Projector
	upcomingLimit int
}

func NewHandlers(store *EventStore, projector *Projector, upcomingLimit int) Handlers {
	return &handlers{store: store, projector: projector, upcomingLimit: upcomingLimit}
}

func RegisterRoutes(router gin.IRouter, h Handlers) {
	router.POST("/events", h.PostEvents)
	router.GET("/events", h.ListEvents)
	router.GET("/events/:id", h.GetEvent)
	router.PATCH("/events/:id", h.PatchEvent)
	router.DELETE("/events/:id", h.DeleteEvent)
	router.POST("/drops", h.PostDrop)
	router.GET("/upcoming", h.GetUpcoming)
	router.GET("/views/:kind", h.GetView)
	router.GET("/calendar.ics", h.GetICS)
}

func (h *handlers) PostEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	// Accepts a JSON payload with title, date, startTime, endTime, type and description.
	var newEvent NewEvent

	err := gctx.ShouldBindJSON(&newEvent)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	// Validates and stores the event in canonical form, generating its id.
	event, err := h.store.Add(ctx, newEvent)
	if err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			log.Ctx(ctx).Error().Err(err).Msg("event validation failed")
			gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("event validation failed", err))

			return
		}

		log.Ctx(ctx).Error().Err(err).Msg("saving event failed")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("saving event failed", err))

		return
	}

	// Returns the created event as JSON with HTTP 201 status.
	gctx.JSON(http.StatusCreated, event)
}

func (h *handlers) ListEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	events := h.store.Events()

	rawDate := gctx.Query("date")
	if rawDate == "" {
		gctx.JSON(http.StatusOK, events)
		return
	}

	date, err := ParseDate(rawDate)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid date parameter")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid date parameter", err))

		return
	}

	// Narrows the day down to one hour slot when asked to
	rawHour := gctx.Query("hour")
	if rawHour == "" {
		gctx.JSON(http.StatusOK, EventsOnDate(events, date))
		return
	}

	hour, err := strconv.Atoi(rawHour)
	if err != nil || hour < 0 || hour > 23 {
		log.Ctx(ctx).Error().Err(err).Str("hour", rawHour).Msg("invalid hour parameter")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("hour must be between 0 and 23", err))

		return
	}

	gctx.JSON(http.StatusOK, EventsInHour(events, date, hour))
}

func (h *handlers) GetEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	// Checks that id param is there
	id := gctx.Param("id")
	if len(id) == 0 {
		log.Ctx(ctx).Error().Msg("parameter 'id' is required")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("parameter 'id' is required"))

		return
	}

	event, ok := h.store.Get(id)
	if !ok {
		log.Ctx(ctx).Info().Str("id", id).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", ErrEventNotFound))

		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) PatchEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id := gctx.Param("id")

	var patch EventPatch

	err := gctx.ShouldBindJSON(&patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	err = ValidatePatch(patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("patch validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("patch validation failed", err))

		return
	}

	event, outcome, err := h.store.Update(ctx, id, patch)
	if err != nil {
		h.abortOnStoreError(gctx, "updating event failed", err)
		return
	}

	if outcome == OutcomeNotFound {
		log.Ctx(ctx).Info().Str("id", id).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", ErrEventNotFound))

		return
	}

	// Returns the merged event as it was stored
	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) DeleteEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id := gctx.Param("id")

	outcome, err := h.store.Delete(ctx, id)
	if err != nil {
		h.abortOnStoreError(gctx, "deleting event failed", err)
		return
	}

	if outcome == OutcomeNotFound {
		log.Ctx(ctx).Info().Str("id", id).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", ErrEventNotFound))

		return
	}

	gctx.Status(http.StatusNoContent)
}

func (h *handlers) PostDrop(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	date, err := ParseDate(gctx.Query("date"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid date parameter")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid date parameter", err))

		return
	}

	// The body is the dragged event, as the drag source serialized it
	payload, err := io.ReadAll(gctx.Request.Body)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to read request body")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to read request body", err))

		return
	}

	moved, outcome, err := h.store.Drop(ctx, payload, date)
	if err != nil {
		h.abortOnStoreError(gctx, "moving event failed", err)
		return
	}

	switch outcome {
	case OutcomeParseFailed:
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("dropped event data is malformed"))
	case OutcomeNotFound:
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", ErrEventNotFound))
	case OutcomeUnchanged:
		gctx.Status(http.StatusNoContent)
	default:
		gctx.JSON(http.StatusOK, moved)
	}
}

func (h *handlers) GetUpcoming(gctx *gin.Context) {
	limit := h.upcomingLimit

	rawLimit := gctx.Query("limit")
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err == nil && n > 0 {
			limit = n
		}
	}

	gctx.JSON(http.StatusOK, Upcoming(h.store.Events(), h.store.Today(), limit))
}

func (h *handlers) GetView(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	view, err := ParseViewKind(gctx.Param("kind"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid view kind")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid view kind", err))

		return
	}

	today := h.store.Today()
	anchor := today

	// Anchor defaults to today
	rawAnchor := gctx.Query("anchor")
	if rawAnchor != "" {
		anchor, err = ParseDate(rawAnchor)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("invalid anchor parameter")
			gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid anchor parameter", err))

			return
		}
	}

	result, err := BuildView(h.projector, view, anchor, today, h.store.Events())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("building view failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("building view failed", err))

		return
	}

	gctx.JSON(http.StatusOK, result)
}

func (h *handlers) GetICS(gctx *gin.Context) {
	body := ExportICS(h.store.Events(), icsProductId, h.store.Now())

	gctx.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	gctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *handlers) abortOnStoreError(gctx *gin.Context, message string, err error) {
	log.Ctx(gctx.Request.Context()).Error().Err(err).Msg(message)

	if errors.Is(err, ErrInvalidEvent) {
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(message, err))
		return
	}

	gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError(message, err))
}
