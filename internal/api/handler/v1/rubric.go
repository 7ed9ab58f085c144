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
	"github.com/uniexpo/symposium-api/internal/service"
)

type RubricService interface {
	ListTrackRubrics(ctx context.Context, trackID string) ([]service.TrackRubricView, error)
	CreateRubricForTrack(ctx context.Context, input service.RubricInput) (service.RubricAssignment, error)
	UpdateRubricForTrack(ctx context.Context, input service.RubricInput) (service.RubricAssignment, error)
}

type RubricHandler struct {
	svc RubricService
}

func NewRubricHandler(svc RubricService) *RubricHandler {
	return &RubricHandler{
		svc: svc,
	}
}

func rubricInputFromRequest(trackID, rubricID string, req request.SaveRubricRequest) service.RubricInput {
	criteria := make([]domain.Criterion, 0, len(req.Criteria))
	for i := range req.Criteria {
		criteria = append(criteria, req.Criteria[i].ToDomain())
	}

	return service.RubricInput{
		TrackID:     trackID,
		RubricID:    rubricID,
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
		IsDefault:   req.IsDefault,
		Criteria:    criteria,
	}
}

func renderRubricValidationErr(ctx *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrRubricNoCriteria),
		errors.Is(err, service.ErrDropdownNoOptions),
		errors.Is(err, service.ErrInvalidScoreRange),
		errors.Is(err, service.ErrCriterionNameRequired):
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return true
	default:
		return false
	}
}

// HandleListTrackRubrics godoc
// @Summary      List a track's rubrics
// @Description  Returns the track's rubrics with criteria, newest version first.
// @Tags         rubrics
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Success      200  {array}   service.TrackRubricView
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tracks/{trackID}/rubrics [get]
// @Security BearerAuth
func (h *RubricHandler) HandleListTrackRubrics(ctx *gin.Context) {
	views, err := h.svc.ListTrackRubrics(ctx.Request.Context(), ctx.Param("trackID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListTrackRubrics -> h.svc.ListTrackRubrics -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, views)
}

// HandleCreateTrackRubric godoc
// @Summary      Create a rubric for a track
// @Description  Persists the rubric with its criteria and links it to the track. The max total points is computed from the criteria.
// @Tags         rubrics
// @Accept       json
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Param        request  body      request.SaveRubricRequest  true  "request body"
// @Success      201      {object}  service.RubricAssignment
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tracks/{trackID}/rubrics [post]
// @Security BearerAuth
func (h *RubricHandler) HandleCreateTrackRubric(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	var req request.SaveRubricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assignment, err := h.svc.CreateRubricForTrack(ctx.Request.Context(), rubricInputFromRequest(ctx.Param("trackID"), "", req))
	if err != nil {
		if renderRubricValidationErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleCreateTrackRubric -> h.svc.CreateRubricForTrack -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, assignment)
}

// HandleUpdateTrackRubric godoc
// @Summary      Update a track's rubric
// @Description  Replaces the rubric's criteria and recomputes its max total points.
// @Tags         rubrics
// @Accept       json
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Param        rubricID  path  string  true  "Rubric ID"
// @Param        request  body      request.SaveRubricRequest  true  "request body"
// @Success      200      {object}  service.RubricAssignment
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tracks/{trackID}/rubrics/{rubricID} [put]
// @Security BearerAuth
func (h *RubricHandler) HandleUpdateTrackRubric(ctx *gin.Context) {
	if _, ok := requireAdmin(ctx); !ok {
		return
	}

	var req request.SaveRubricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	assignment, err := h.svc.UpdateRubricForTrack(ctx.Request.Context(), rubricInputFromRequest(ctx.Param("trackID"), ctx.Param("rubricID"), req))
	if err != nil {
		if renderRubricValidationErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleUpdateTrackRubric -> h.svc.UpdateRubricForTrack -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, assignment)
}
