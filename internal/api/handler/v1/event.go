package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/api/handler/v1/request"
	"github.com/uniexpo/symposium-api/internal/api/handler/v1/response"
	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository"
	"github.com/uniexpo/symposium-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, input service.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateEventInstance(ctx context.Context, input service.CreateEventInstanceInput) (domain.EventInstance, error)
	GetEventInstance(ctx context.Context, id string) (domain.EventInstance, error)
	ListEventInstances(ctx context.Context) ([]domain.EventInstance, error)
	CreateTrack(ctx context.Context, input service.CreateTrackInput) (domain.Track, error)
	ListTracks(ctx context.Context, eventInstanceID string) ([]domain.Track, error)
	CreateFacet(ctx context.Context, input service.CreateFacetInput) (domain.Facet, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// requireAdmin renders a 403 unless the caller is an admin. It returns the
// session and whether handling may continue.
func requireAdmin(ctx *gin.Context) (domain.Session, bool) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return domain.Session{}, false
	}

	if !session.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("person %v is not an admin", session.PersonID)))
		return domain.Session{}, false
	}

	return session, true
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), service.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		HostOrg:     req.HostOrg,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleCreateEventInstance godoc
// @Summary      Create an event instance
// @Description  Creates a scheduled occurrence of an event. Its status is derived from the schedule windows.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventInstanceRequest  true  "request body"
// @Success      201      {object}  domain.EventInstance
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /event-instances [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEventInstance(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	var req request.CreateEventInstanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	instance, err := h.svc.CreateEventInstance(ctx.Request.Context(), service.CreateEventInstanceInput{
		EventID:           req.EventID,
		Name:              req.Name,
		Location:          req.Location,
		Timezone:          req.Timezone,
		StartAt:           req.StartAt,
		EndAt:             req.EndAt,
		PreScoringStartAt: req.PreScoringStartAt,
		PreScoringEndAt:   req.PreScoringEndAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidScheduleWindow) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEventInstance -> h.svc.CreateEventInstance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, instance)
}

// HandleListEventInstances godoc
// @Summary      List event instances
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.EventInstance
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEventInstances(ctx *gin.Context) {
	instances, err := h.svc.ListEventInstances(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEventInstances -> h.svc.ListEventInstances -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, instances)
}

// HandleGetEventInstance godoc
// @Summary      Get one event instance
// @Tags         events
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Success      200  {object}  domain.EventInstance
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances/{instanceID} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEventInstance(ctx *gin.Context) {
	instanceID := ctx.Param("instanceID")

	instance, err := h.svc.GetEventInstance(ctx.Request.Context(), instanceID)
	if err != nil {
		if errors.Is(err, repository.ErrEventInstanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event instance", "ID", instanceID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEventInstance -> h.svc.GetEventInstance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, instance)
}

// HandleCreateTrack godoc
// @Summary      Create a track in an event instance
// @Tags         events,tracks
// @Accept       json
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Param        request  body      request.CreateTrackRequest  true  "request body"
// @Success      201      {object}  domain.Track
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /event-instances/{instanceID}/tracks [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateTrack(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	var req request.CreateTrackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	instanceID := ctx.Param("instanceID")

	track, err := h.svc.CreateTrack(ctx.Request.Context(), service.CreateTrackInput{
		EventInstanceID:   instanceID,
		Name:              req.Name,
		Description:       req.Description,
		DisplayOrder:      req.DisplayOrder,
		SubmissionOpenAt:  req.SubmissionOpenAt,
		SubmissionCloseAt: req.SubmissionCloseAt,
		ScoringOpenAt:     req.ScoringOpenAt,
		ScoringCloseAt:    req.ScoringCloseAt,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEventInstanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event instance", "ID", instanceID))
			return
		}
		if errors.Is(err, service.ErrInvalidScheduleWindow) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateTrack -> h.svc.CreateTrack -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, track)
}

// HandleListTracks godoc
// @Summary      List the tracks of an event instance
// @Tags         events,tracks
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Success      200  {array}   domain.Track
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances/{instanceID}/tracks [get]
// @Security BearerAuth
func (h *EventHandler) HandleListTracks(ctx *gin.Context) {
	tracks, err := h.svc.ListTracks(ctx.Request.Context(), ctx.Param("instanceID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListTracks -> h.svc.ListTracks -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tracks)
}

// HandleCreateFacet godoc
// @Summary      Create a facet
// @Description  Defines a classification dimension with optional hierarchical options.
// @Tags         facets
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateFacetRequest  true  "request body"
// @Success      201      {object}  domain.Facet
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /facets [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateFacet(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	var req request.CreateFacetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	options := make([]service.FacetOptionInput, 0, len(req.Options))
	for _, option := range req.Options {
		options = append(options, service.FacetOptionInput{
			Value:          option.Value,
			Label:          option.Label,
			ParentOptionID: option.ParentOptionID,
		})
	}

	facet, err := h.svc.CreateFacet(ctx.Request.Context(), service.CreateFacetInput{
		Code:             req.Code,
		Name:             req.Name,
		ValueKind:        domain.FacetValueKind(req.ValueKind),
		DependsOnFacetID: req.DependsOnFacetID,
		Options:          options,
	})
	if err != nil {
		if errors.Is(err, service.ErrOptionValueRequired) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateFacet -> h.svc.CreateFacet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, facet)
}
