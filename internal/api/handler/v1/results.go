package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/api/handler/v1/request"
	"github.com/uniexpo/symposium-api/internal/api/handler/v1/response"
	"github.com/uniexpo/symposium-api/internal/domain"
)

type ResultsService interface {
	GetTrackResultsReport(ctx context.Context, trackID string) (domain.TrackResultsReport, error)
	FilterTrackResults(rows []domain.TrackResultRow, selectedTokensByFacetID map[string][]string) []domain.TrackResultRow
}

type ResultsHandler struct {
	svc ResultsService
}

func NewResultsHandler(svc ResultsService) *ResultsHandler {
	return &ResultsHandler{
		svc: svc,
	}
}

// HandleGetTrackResults godoc
// @Summary      Get a track's aggregated results
// @Description  Averages all submitted score sheets into overall and per-category rankings with facet filter metadata.
// @Tags         results
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Success      200  {object}  domain.TrackResultsReport
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tracks/{trackID}/results [get]
// @Security BearerAuth
func (h *ResultsHandler) HandleGetTrackResults(ctx *gin.Context) {
	report, err := h.svc.GetTrackResultsReport(ctx.Request.Context(), ctx.Param("trackID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTrackResults -> h.svc.GetTrackResultsReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// HandleFilterTrackResults godoc
// @Summary      Filter a track's results by facet selection
// @Description  Applies the posted facet token selection to the track's result rows. Tokens are ORed within a facet and ANDed across facets; an empty selection keeps everything.
// @Tags         results
// @Accept       json
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Param        request  body      request.FilterRequest  true  "request body"
// @Success      200  {array}   domain.TrackResultRow
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tracks/{trackID}/results/filter [post]
// @Security BearerAuth
func (h *ResultsHandler) HandleFilterTrackResults(ctx *gin.Context) {
	var req request.FilterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	report, err := h.svc.GetTrackResultsReport(ctx.Request.Context(), ctx.Param("trackID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleFilterTrackResults -> h.svc.GetTrackResultsReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	filtered := h.svc.FilterTrackResults(report.Submissions, req.SelectedTokensByFacetID)

	ctx.JSON(http.StatusOK, filtered)
}
