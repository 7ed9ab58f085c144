package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/uniexpo/symposium-api/docs"
	v1 "github.com/uniexpo/symposium-api/internal/api/handler/v1"
	"github.com/uniexpo/symposium-api/internal/api/middleware"
	"github.com/uniexpo/symposium-api/internal/config"
	"github.com/uniexpo/symposium-api/internal/metrics"
	"github.com/uniexpo/symposium-api/internal/repository"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
	"github.com/uniexpo/symposium-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	Schedule *service.ScheduleService
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	eventHandler := s.initEventHandler(db)
	submissionHandler := s.initSubmissionHandler(db)
	rubricHandler := s.initRubricHandler(db)
	queueHandler := s.initQueueHandler(db)
	scoreHandler := s.initScoreHandler(db)
	resultsHandler := s.initResultsHandler(db)
	scheduleHandler := s.initScheduleHandler(db)
	s.MountHandlers(authHandler, eventHandler, submissionHandler, rubricHandler, queueHandler, scoreHandler, resultsHandler, scheduleHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	personRepo := repository.NewPersonRepository(dao.NewPersonDAO(db))
	facetRepo := repository.NewFacetRepository(dao.NewFacetDAO(db))
	svc := service.NewAuthService(personRepo, facetRepo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	facetRepo := repository.NewFacetRepository(dao.NewFacetDAO(db))
	svc := service.NewEventService(eventRepo, facetRepo)
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) initSubmissionHandler(db *gorm.DB) *v1.SubmissionHandler {
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	personRepo := repository.NewPersonRepository(dao.NewPersonDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	facetRepo := repository.NewFacetRepository(dao.NewFacetDAO(db))
	svc := service.NewSubmissionService(submissionRepo, personRepo, eventRepo, facetRepo)
	handler := v1.NewSubmissionHandler(svc)

	return handler
}

func (s *Server) initRubricHandler(db *gorm.DB) *v1.RubricHandler {
	rubricRepo := repository.NewRubricRepository(dao.NewRubricDAO(db))
	svc := service.NewRubricService(rubricRepo)
	handler := v1.NewRubricHandler(svc)

	return handler
}

func (s *Server) initQueueHandler(db *gorm.DB) *v1.QueueHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))
	facetRepo := repository.NewFacetRepository(dao.NewFacetDAO(db))
	svc := service.NewQueueService(eventRepo, submissionRepo, scoreRepo, facetRepo)
	handler := v1.NewQueueHandler(svc)

	return handler
}

func (s *Server) initScoreHandler(db *gorm.DB) *v1.ScoreHandler {
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	rubricRepo := repository.NewRubricRepository(dao.NewRubricDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))
	svc := service.NewScoreService(submissionRepo, rubricRepo, scoreRepo)
	handler := v1.NewScoreHandler(svc)

	return handler
}

func (s *Server) initResultsHandler(db *gorm.DB) *v1.ResultsHandler {
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))
	rubricRepo := repository.NewRubricRepository(dao.NewRubricDAO(db))
	facetRepo := repository.NewFacetRepository(dao.NewFacetDAO(db))
	svc := service.NewResultsService(submissionRepo, scoreRepo, rubricRepo, facetRepo)
	handler := v1.NewResultsHandler(svc)

	return handler
}

func (s *Server) initScheduleHandler(db *gorm.DB) *v1.ScheduleHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))
	svc := service.NewScheduleService(eventRepo, submissionRepo, scoreRepo)
	handler := v1.NewScheduleHandler(svc)

	// Keep a reference for the background sync loop.
	s.Schedule = svc

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.RecordMetrics())
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	eventHandler *v1.EventHandler,
	submissionHandler *v1.SubmissionHandler,
	rubricHandler *v1.RubricHandler,
	queueHandler *v1.QueueHandler,
	scoreHandler *v1.ScoreHandler,
	resultsHandler *v1.ResultsHandler,
	scheduleHandler *v1.ScheduleHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/me", authHandler.HandleGetMe)

		authed.GET("/events", eventHandler.HandleListEvents)
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.GET("/event-instances", eventHandler.HandleListEventInstances)
		authed.POST("/event-instances", eventHandler.HandleCreateEventInstance)
		authed.GET("/event-instances/:instanceID", eventHandler.HandleGetEventInstance)
		authed.GET("/event-instances/:instanceID/tracks", eventHandler.HandleListTracks)
		authed.POST("/event-instances/:instanceID/tracks", eventHandler.HandleCreateTrack)
		authed.POST("/facets", eventHandler.HandleCreateFacet)

		authed.POST("/event-instances/:instanceID/judges", authHandler.HandleJudgeSignup)
		authed.GET("/event-instances/:instanceID/judges/me", authHandler.HandleGetJudgeProfile)

		authed.GET("/tracks/:trackID/submissions", submissionHandler.HandleListTrackSubmissions)
		authed.POST("/tracks/:trackID/submissions", submissionHandler.HandleCreateSubmission)
		authed.GET("/submissions/:submissionID", submissionHandler.HandleGetSubmission)

		authed.GET("/tracks/:trackID/rubrics", rubricHandler.HandleListTrackRubrics)
		authed.POST("/tracks/:trackID/rubrics", rubricHandler.HandleCreateTrackRubric)
		authed.PUT("/tracks/:trackID/rubrics/:rubricID", rubricHandler.HandleUpdateTrackRubric)

		authed.GET("/event-instances/:instanceID/queue", queueHandler.HandleGetQueue)
		authed.GET("/event-instances/:instanceID/queue/next", queueHandler.HandlePullNext)

		authed.GET("/submissions/:submissionID/scoring-context", scoreHandler.HandleGetScoringContext)
		authed.POST("/submissions/:submissionID/scores", scoreHandler.HandleSubmitScoreSheet)
		authed.POST("/submissions/:submissionID/scores/preview", scoreHandler.HandlePreviewScore)

		authed.GET("/tracks/:trackID/results", resultsHandler.HandleGetTrackResults)
		authed.POST("/tracks/:trackID/results/filter", resultsHandler.HandleFilterTrackResults)

		authed.POST("/schedule/sync", scheduleHandler.HandleSync)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Symposium Judging API"
	docs.SwaggerInfo.Description = "Event judging platform API: submissions, rubrics, judge queues and results."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
