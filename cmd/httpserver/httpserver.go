// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-demi/demi-bank/internal/accountdelivery"
	"github.com/go-demi/demi-bank/internal/accountrepo"
	"github.com/go-demi/demi-bank/internal/accountservice"
	"github.com/go-demi/demi-bank/internal/admindelivery"
	"github.com/go-demi/demi-bank/internal/middleware"
	"github.com/go-demi/demi-bank/internal/movementdelivery"
	"github.com/go-demi/demi-bank/internal/movementrepo"
	"github.com/go-demi/demi-bank/internal/movementservice"
	"github.com/go-demi/demi-bank/internal/notification"
	"github.com/go-demi/demi-bank/internal/sessiondelivery"
	"github.com/go-demi/demi-bank/internal/sessionrepo"
	"github.com/go-demi/demi-bank/internal/sessionservice"
	"github.com/go-demi/demi-bank/internal/settlement"
	"github.com/go-demi/demi-bank/internal/userdelivery"
	"github.com/go-demi/demi-bank/internal/userrepo"
	"github.com/go-demi/demi-bank/internal/userservice"
	"github.com/go-demi/demi-bank/pkg/configpkg"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
// The redis client may be nil, which disables rate limiting.
func New(conn *sql.DB, rdb *redis.Client, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	movementRepo := movementrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewJWTMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	verificationMaker, err := tokenpkg.NewVerificationMaker(config.VerificationTokenKey)
	if err != nil {
		return nil, errors.New("cannot create verification token maker")
	}

	var primary, fallback notification.Provider
	if config.EmailPrimaryURL != "" {
		primary = notification.NewHTTPProvider("primary", config.EmailPrimaryURL, config.EmailPrimaryKey)
	}

	if config.EmailFallbackURL != "" {
		fallback = notification.NewHTTPProvider("fallback", config.EmailFallbackURL, config.EmailFallbackKey)
	}

	var sender *notification.Sender
	if primary != nil {
		sender = notification.NewSender(primary, fallback, userRepo, config.EmailFrom, logger)
	}

	userService := userservice.New(userRepo, verificationMaker, senderOrNil(sender), config)
	accountService := accountservice.New(accountRepo)

	movementService, err := movementservice.New(movementRepo, accountService, movementNotifier(sender), config)
	if err != nil {
		return nil, errors.New("cannot initialize movement service")
	}

	scheduler := settlement.NewTimer(movementService, config.SettlementDelayMin, config.SettlementDelayMax, logger)
	movementService.SetScheduler(scheduler)

	sessionService := sessionservice.New(sessionRepo, userRepo, config, tokenMaker)

	userHandler := userdelivery.NewHandler(userService, sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	movementHandler := movementdelivery.NewHandler(movementService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	adminHandler := admindelivery.NewHandler(userService, movementService, accountService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/verify", userHandler.Verify)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/", middleware.Auth(sessionService.TokenMaker))

	authRoutes.GET("/accounts", accountHandler.GetOwn)
	authRoutes.GET("/accounts/:number", accountHandler.Get)

	authRoutes.GET("/movements", movementHandler.List)
	authRoutes.GET("/movements/:reference", movementHandler.Get)

	// Movement creation is the only surface worth shaping traffic on.
	moneyRoutes := authRoutes.Group("/", middleware.RateLimit(rdb, config))
	moneyRoutes.POST("/transfers", movementHandler.CreateTransfer)
	moneyRoutes.POST("/deposits", movementHandler.CreateDeposit)

	adminRoutes := engine.Group("/admin", middleware.Auth(sessionService.TokenMaker), middleware.AdminOnly())
	adminRoutes.POST("/users/:username/approve", adminHandler.ApproveUser)
	adminRoutes.GET("/movements", adminHandler.ListPending)
	adminRoutes.POST("/movements/:reference/settle", adminHandler.Settle)
	adminRoutes.GET("/accounts", adminHandler.ListAccounts)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accnumber", accountdelivery.ValidAccountNumber)
		if err != nil {
			return nil, errors.New("cannot register account number validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}

// senderOrNil converts a typed nil into an untyped nil interface so the
// user service can detect a missing notifier.
func senderOrNil(s *notification.Sender) userservice.Notifier {
	if s == nil {
		return nil
	}

	return s
}

func movementNotifier(s *notification.Sender) movementservice.Notifier {
	if s == nil {
		return nil
	}

	return s
}
