package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/api/handler/v1/response"
)

type ScheduleService interface {
	Sync(ctx context.Context) error
}

type ScheduleHandler struct {
	svc ScheduleService
}

func NewScheduleHandler(svc ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		svc: svc,
	}
}

// HandleSync godoc
// @Summary      Run a status sync pass
// @Description  Recomputes event instance statuses from their schedule windows and cascades submission status transitions. The same pass runs periodically in the background; this endpoint forces one immediately.
// @Tags         schedule
// @Produce      json
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /schedule/sync [post]
// @Security BearerAuth
func (h *ScheduleHandler) HandleSync(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	if err := h.svc.Sync(ctx.Request.Context()); err != nil {
		err = fmt.Errorf("v1.HandleSync -> h.svc.Sync -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "synced"})
}
