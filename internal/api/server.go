package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mertdogan/sportspot-api/docs"
	v1 "github.com/mertdogan/sportspot-api/internal/api/handler/v1"
	"github.com/mertdogan/sportspot-api/internal/api/middleware"
	"github.com/mertdogan/sportspot-api/internal/config"
	"github.com/mertdogan/sportspot-api/internal/events"
	"github.com/mertdogan/sportspot-api/internal/livefeed"
	"github.com/mertdogan/sportspot-api/internal/repository"
	"github.com/mertdogan/sportspot-api/internal/repository/dao"
	"github.com/mertdogan/sportspot-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// ReservationSvc is exposed so the app can run the no-show sweeper
	// against the same service instance the handlers use.
	ReservationSvc *service.ReservationService
}

func NewServer(conf *config.AppConfig, db *gorm.DB, redisClient *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	recorder, feed := initEvents(redisClient)

	authHandler := s.initAuthHandler(db)
	stationHandler := s.initStationHandler(db)
	reservationHandler := s.initReservationHandler(db, recorder, feed)
	liveHandler := v1.NewLiveHandler(feed)
	s.MountHandlers(authHandler, stationHandler, reservationHandler, liveHandler)

	return s
}

// initEvents picks the event sinks. Without Redis, analytics events go to
// the structured log and the live feed stays disabled.
func initEvents(redisClient *redis.Client) (events.Recorder, *livefeed.Feed) {
	if redisClient == nil {
		return events.NewLogRecorder(zap.L()), nil
	}

	return events.NewRedisRecorder(redisClient, zap.L()), livefeed.NewFeed(redisClient, zap.L())
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initStationHandler(db *gorm.DB) *v1.StationHandler {
	stationDAO := dao.NewStationDAO(db)
	repo := repository.NewStationRepository(stationDAO)
	svc := service.NewStationService(repo)
	handler := v1.NewStationHandler(svc)

	return handler
}

func (s *Server) initReservationHandler(db *gorm.DB, recorder events.Recorder, feed *livefeed.Feed) *v1.ReservationHandler {
	reservationDAO := dao.NewReservationDAO(db)
	repo := repository.NewReservationRepository(reservationDAO)
	stationRepo := repository.NewStationRepository(dao.NewStationDAO(db))

	var slotFeed service.SlotFeed
	if feed != nil {
		slotFeed = feed
	}

	svc := service.NewReservationService(repo, stationRepo, recorder, slotFeed, s.reservationConfig())
	s.ReservationSvc = svc

	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewReservationHandler(svc, uSvc)

	return handler
}

func (s *Server) reservationConfig() service.ReservationConfig {
	conf := service.ReservationConfig{}
	if s.Config.Reservation != nil {
		conf.MinDurationMinutes = s.Config.Reservation.MinDurationMinutes
		conf.MaxDurationMinutes = s.Config.Reservation.MaxDurationMinutes
		conf.NoShowGrace = time.Duration(s.Config.Reservation.NoShowGraceMinutes) * time.Minute
		conf.LegacyUnlockCodes = s.Config.Reservation.LegacyUnlockCodes
	}

	return conf
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, stationHandler *v1.StationHandler, reservationHandler *v1.ReservationHandler, liveHandler *v1.LiveHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	stations := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		stations.GET("/stations", stationHandler.HandleListStations)
		stations.GET("/stations/:stationID", stationHandler.HandleGetStation)
		stations.GET("/stations/:stationID/live", liveHandler.HandleStationLive)
	}

	reservations := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		reservations.POST("/reservations", reservationHandler.HandleCreateReservation)
		reservations.GET("/reservations", reservationHandler.HandleListReservations)
		reservations.GET("/reservations/:reservationID", reservationHandler.HandleGetReservation)
		reservations.PATCH("/reservations/:reservationID", reservationHandler.HandleUpdateReservation)
		reservations.POST("/reservations/:reservationID/start", reservationHandler.HandleStartReservation)
		reservations.POST("/reservations/:reservationID/cancel", reservationHandler.HandleCancelReservation)
		reservations.POST("/reservations/:reservationID/end", reservationHandler.HandleEndReservation)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/admin/no-show-sweep", reservationHandler.HandleSweepNoShows)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "SportSpot API"
	docs.SwaggerInfo.Description = "Reservation API for self-service sports equipment stations."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
