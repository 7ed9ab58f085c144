package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/api/handler/v1/request"
	"github.com/uniexpo/symposium-api/internal/api/handler/v1/response"
	"github.com/uniexpo/symposium-api/internal/api/middleware"
	"github.com/uniexpo/symposium-api/internal/config"
	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/pkg/jwthelper"
	"github.com/uniexpo/symposium-api/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, person domain.Person) (domain.Person, error)
	Login(ctx context.Context, email, password string) (domain.Person, error)
	GetPerson(ctx context.Context, id uint) (domain.Person, error)
	RegisterJudgeForEvent(ctx context.Context, session domain.Session, eventInstanceID string, values []domain.JudgeFacetValue) error
	GetJudgeProfile(ctx context.Context, session domain.Session, eventInstanceID string) ([]domain.JudgeFacetValue, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// getSessionFromContext returns the authenticated caller's session or a
// renderable unauthorized error.
func getSessionFromContext(ctx *gin.Context) (domain.Session, *response.Err) {
	session, ok := middleware.SessionFromContext(ctx)
	if !ok {
		return domain.Session{}, response.ErrUnauthorized()
	}

	return session, nil
}

// HandleSignup godoc
// @Summary      Signup a new person
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   domain.Person
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	person, err := h.svc.Signup(ctx.Request.Context(), domain.Person{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrPersonEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPersonEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, person)
}

// HandleLogin godoc
// @Summary      Login a person
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	person, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), person.ID, person.Email, person.Role, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:  token,
		Person: person,
	})
}

// HandleGetMe godoc
// @Summary      Get the authenticated person
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Person
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /me [get]
// @Security BearerAuth
func (h *AuthHandler) HandleGetMe(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	person, err := h.svc.GetPerson(ctx.Request.Context(), session.PersonID)
	if err != nil {
		if errors.Is(err, service.ErrPersonNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("person", "ID", session.PersonID))
			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetPerson -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, person)
}

// HandleJudgeSignup godoc
// @Summary      Register as a judge for an event instance
// @Description  Stores the caller's judge profile facet values for the event instance. The profile becomes the default queue filter selection.
// @Tags         auth,judges
// @Accept       json
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Param        request  body  request.JudgeSignupRequest  true  "request body"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances/{instanceID}/judges [post]
// @Security BearerAuth
func (h *AuthHandler) HandleJudgeSignup(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.JudgeSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	instanceID := ctx.Param("instanceID")

	values := make([]domain.JudgeFacetValue, 0, len(req.FacetValues))
	for _, value := range req.FacetValues {
		values = append(values, domain.JudgeFacetValue{
			FacetID: value.FacetID,
			Value:   value.ToDomain(),
		})
	}

	if err := h.svc.RegisterJudgeForEvent(ctx.Request.Context(), session, instanceID, values); err != nil {
		err = fmt.Errorf("v1.HandleJudgeSignup -> h.svc.RegisterJudgeForEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetJudgeProfile godoc
// @Summary      Get the caller's judge profile for an event instance
// @Tags         auth,judges
// @Produce      json
// @Param        instanceID  path  string  true  "Event instance ID"
// @Success      200  {array}   domain.JudgeFacetValue
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /event-instances/{instanceID}/judges/me [get]
// @Security BearerAuth
func (h *AuthHandler) HandleGetJudgeProfile(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	values, err := h.svc.GetJudgeProfile(ctx.Request.Context(), session, ctx.Param("instanceID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetJudgeProfile -> h.svc.GetJudgeProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, values)
}
