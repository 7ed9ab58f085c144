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

type SubmissionService interface {
	CreateSubmission(ctx context.Context, input service.CreateSubmissionInput) (domain.Submission, error)
	GetSubmission(ctx context.Context, id string) (domain.Submission, error)
	ListTrackSubmissions(ctx context.Context, trackID string) ([]domain.Submission, error)
}

type SubmissionHandler struct {
	svc SubmissionService
}

func NewSubmissionHandler(svc SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		svc: svc,
	}
}

// HandleCreateSubmission godoc
// @Summary      Submit an entry to a track
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Param        request  body      request.CreateSubmissionRequest  true  "request body"
// @Success      201      {object}  domain.Submission
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tracks/{trackID}/submissions [post]
// @Security BearerAuth
func (h *SubmissionHandler) HandleCreateSubmission(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	trackID := ctx.Param("trackID")

	values := make([]service.SubmissionFacetValueInput, 0, len(req.FacetValues))
	for _, value := range req.FacetValues {
		values = append(values, service.SubmissionFacetValueInput{
			FacetID: value.FacetID,
			Value:   value.ToDomain(),
		})
	}

	submission, err := h.svc.CreateSubmission(ctx.Request.Context(), service.CreateSubmissionInput{
		TrackID:         trackID,
		Title:           req.Title,
		Abstract:        req.Abstract,
		CreatorPersonID: session.PersonID,
		SupervisorEmail: req.SupervisorEmail,
		FacetValues:     values,
	})
	if err != nil {
		if errors.Is(err, service.ErrTrackNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("track", "ID", trackID))
			return
		}
		if errors.Is(err, service.ErrSubmissionTitleRequired) || errors.Is(err, service.ErrUnknownFacet) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateSubmission -> h.svc.CreateSubmission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, submission)
}

// HandleGetSubmission godoc
// @Summary      Get one submission with its facet values
// @Tags         submissions
// @Produce      json
// @Param        submissionID  path  string  true  "Submission ID"
// @Success      200  {object}  domain.Submission
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /submissions/{submissionID} [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleGetSubmission(ctx *gin.Context) {
	submissionID := ctx.Param("submissionID")

	submission, err := h.svc.GetSubmission(ctx.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("submission", "ID", submissionID))
			return
		}

		err = fmt.Errorf("v1.HandleGetSubmission -> h.svc.GetSubmission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, submission)
}

// HandleListTrackSubmissions godoc
// @Summary      List the submissions of a track
// @Tags         submissions
// @Produce      json
// @Param        trackID  path  string  true  "Track ID"
// @Success      200  {array}   domain.Submission
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tracks/{trackID}/submissions [get]
// @Security BearerAuth
func (h *SubmissionHandler) HandleListTrackSubmissions(ctx *gin.Context) {
	submissions, err := h.svc.ListTrackSubmissions(ctx.Request.Context(), ctx.Param("trackID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListTrackSubmissions -> h.svc.ListTrackSubmissions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, submissions)
}
