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

type ScoreService interface {
	GetScoringContext(ctx context.Context, session domain.Session, submissionID string) (service.ScoringContext, error)
	PreviewScoreSheet(ctx context.Context, session domain.Session, submissionID string, responses map[string]domain.ScoreResponse) (service.ScorePreview, error)
	SubmitScoreSheet(ctx context.Context, session domain.Session, input service.SubmitScoreSheetInput) (string, error)
}

type ScoreHandler struct {
	svc ScoreService
}

func NewScoreHandler(svc ScoreService) *ScoreHandler {
	return &ScoreHandler{
		svc: svc,
	}
}

// HandleGetScoringContext godoc
// @Summary      Get the scoring form context for a submission
// @Description  Returns the track's rubric criteria and the caller's prior responses if they already scored the submission.
// @Tags         scores
// @Produce      json
// @Param        submissionID  path  string  true  "Submission ID"
// @Success      200  {object}  service.ScoringContext
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /submissions/{submissionID}/scoring-context [get]
// @Security BearerAuth
func (h *ScoreHandler) HandleGetScoringContext(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	submissionID := ctx.Param("submissionID")

	scoringCtx, err := h.svc.GetScoringContext(ctx.Request.Context(), session, submissionID)
	if err != nil {
		if errors.Is(err, service.ErrConflictOfInterest) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("submission", "ID", submissionID))
			return
		}
		if errors.Is(err, service.ErrNoTrackRubric) {
			response.RenderErr(ctx, response.ErrNotFound("rubric", "submission ID", submissionID))
			return
		}

		err = fmt.Errorf("v1.HandleGetScoringContext -> h.svc.GetScoringContext -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, scoringCtx)
}

// HandlePreviewScore godoc
// @Summary      Preview the score for an in-progress response set
// @Description  Computes the weighted total and unanswered criteria for the caller's current responses without storing anything. Uses the same formula as submission.
// @Tags         scores
// @Accept       json
// @Produce      json
// @Param        submissionID  path  string  true  "Submission ID"
// @Param        request  body      request.PreviewScoreRequest  true  "request body"
// @Success      200      {object}  service.ScorePreview
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /submissions/{submissionID}/scores/preview [post]
// @Security BearerAuth
func (h *ScoreHandler) HandlePreviewScore(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PreviewScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	submissionID := ctx.Param("submissionID")

	responses := make(map[string]domain.ScoreResponse, len(req.Responses))
	for criterionID, resp := range req.Responses {
		responses[criterionID] = domain.ScoreResponse{
			Value:   resp.Value,
			Comment: resp.Comment,
		}
	}

	preview, err := h.svc.PreviewScoreSheet(ctx.Request.Context(), session, submissionID, responses)
	if err != nil {
		if errors.Is(err, service.ErrConflictOfInterest) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("submission", "ID", submissionID))
			return
		}
		if errors.Is(err, service.ErrNoTrackRubric) {
			response.RenderErr(ctx, response.ErrNotFound("rubric", "submission ID", submissionID))
			return
		}

		err = fmt.Errorf("v1.HandlePreviewScore -> h.svc.PreviewScoreSheet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, preview)
}

// HandleSubmitScoreSheet godoc
// @Summary      Submit a score sheet for a submission
// @Description  Validates the caller's responses against the rubric, computes weighted scores server-side and stores the sheet. Resubmitting replaces the prior responses.
// @Tags         scores
// @Accept       json
// @Produce      json
// @Param        submissionID  path  string  true  "Submission ID"
// @Param        request  body      request.SubmitScoreSheetRequest  true  "request body"
// @Success      201      {object}  map[string]string
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /submissions/{submissionID}/scores [post]
// @Security BearerAuth
func (h *ScoreHandler) HandleSubmitScoreSheet(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitScoreSheetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	submissionID := ctx.Param("submissionID")

	responses := make(map[string]domain.ScoreResponse, len(req.Responses))
	for criterionID, resp := range req.Responses {
		responses[criterionID] = domain.ScoreResponse{
			Value:   resp.Value,
			Comment: resp.Comment,
		}
	}

	sheetID, err := h.svc.SubmitScoreSheet(ctx.Request.Context(), session, service.SubmitScoreSheetInput{
		SubmissionID:   submissionID,
		Responses:      responses,
		OverallComment: req.OverallComment,
	})
	if err != nil {
		var missing *service.MissingResponsesError
		if errors.As(err, &missing) {
			response.RenderErr(ctx, response.ErrBadRequest(missing))
			return
		}
		if errors.Is(err, service.ErrConflictOfInterest) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("submission", "ID", submissionID))
			return
		}
		if errors.Is(err, service.ErrNoTrackRubric) {
			response.RenderErr(ctx, response.ErrNotFound("rubric", "submission ID", submissionID))
			return
		}

		err = fmt.Errorf("v1.HandleSubmitScoreSheet -> h.svc.SubmitScoreSheet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"score_sheet_id": sheetID})
}
