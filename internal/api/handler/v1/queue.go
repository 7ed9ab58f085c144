package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/api/handler/v1/response"
	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository"
	"github.com/uniexpo/symposium-api/internal/service"
)

type QueueService interface {
	GetEligibleQueue(ctx context.Context, session domain.Session, eventInstanceID string) (domain.QueueResult, error)
	PullNext(ctx context.Context, session domain.Session, eventInstanceID string) (domain.QueueSubmission, error)
}

type QueueHandler struct {
	svc QueueService
}

func NewQueueHandler(svc QueueService) *QueueHandler {
	return &QueueHandler{
		svc: svc,
	}
}

// HandleGetQueue godoc
// @Summary      Get the caller's judging queue for an event instance
// @Description  Lists eligible submissions with filter facets. The caller's judge profile values are applied as the default filter selection.
// @Tags         queue
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Success      200  {object}  domain.QueueResult
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances/{instanceID}/queue [get]
// @Security BearerAuth
func (h *QueueHandler) HandleGetQueue(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	instanceID := ctx.Param("instanceID")

	result, err := h.svc.GetEligibleQueue(ctx.Request.Context(), session, instanceID)
	if err != nil {
		if errors.Is(err, repository.ErrEventInstanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event instance", "ID", instanceID))
			return
		}

		err = fmt.Errorf("v1.HandleGetQueue -> h.svc.GetEligibleQueue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandlePullNext godoc
// @Summary      Pull the next submission to score
// @Description  Returns the oldest submission from the caller's filtered queue. 404 when the queue is empty.
// @Tags         queue
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Success      200  {object}  domain.QueueSubmission
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances/{instanceID}/queue/next [get]
// @Security BearerAuth
func (h *QueueHandler) HandlePullNext(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	instanceID := ctx.Param("instanceID")

	submission, err := h.svc.PullNext(ctx.Request.Context(), session, instanceID)
	if err != nil {
		if errors.Is(err, service.ErrQueueEmpty) {
			response.RenderErr(ctx, response.ErrNotFound("eligible submission", "event instance", instanceID))
			return
		}
		if errors.Is(err, repository.ErrEventInstanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event instance", "ID", instanceID))
			return
		}

		err = fmt.Errorf("v1.HandlePullNext -> h.svc.PullNext -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, submission)
}
