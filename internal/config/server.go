package config

import (
	"VerifID/database/postgres"
	authHandler "VerifID/internal/api/auth/handler"
	authRepository "VerifID/internal/api/auth/repository"
	authService "VerifID/internal/api/auth/service"
	biometricHandler "VerifID/internal/api/biometric/handler"
	biometricService "VerifID/internal/api/biometric/service"
	verificationHandler "VerifID/internal/api/verification/handler"
	verificationRepository "VerifID/internal/api/verification/repository"
	verificationService "VerifID/internal/api/verification/service"
	"VerifID/internal/middleware"
	"VerifID/pkg/bcrypt"
	broadcastPkg "VerifID/pkg/broadcast"
	"VerifID/pkg/redis"
	"VerifID/pkg/s3"
	scoringPkg "VerifID/pkg/scoring"
	"VerifID/pkg/smtp"
	"VerifID/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	db            *sqlx.DB
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	bcryptUtils   bcrypt.IBcrypt
	handlers      []handler
	redisServer   redis.IRedis
	smtpMailer    smtp.ItfSmtp
	scoringClient scoringPkg.IScoring
	broadcastHub  broadcastPkg.IBroadcast
	s3Client      s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithScoringClient(scoringClient scoringPkg.IScoring) ServerOption {
	return func(s *Server) error {
		s.scoringClient = scoringClient
		return nil
	}
}

func WithBroadcastHub() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before broadcast hub")
		}
		s.broadcastHub = broadcastPkg.NewHub(s.log)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Verification Domain
	verificationRepo := verificationRepository.New(s.db, s.log)
	verificationServices := verificationService.New(s.log, verificationRepo, s.redisServer, s.broadcastHub, s.smtpMailer, s.utils)
	verificationHandlers := verificationHandler.New(s.log, s.validator, s.middleware, verificationServices, s.broadcastHub)

	// Biometric Domain
	biometricServices := biometricService.New(s.log, s.scoringClient, s.s3Client, s.utils, verificationServices.Wizard())
	biometricHandlers := biometricHandler.New(s.log, s.validator, s.middleware, biometricServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, verificationHandlers, biometricHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.scoringClient != nil {
			s.scoringClient.CloseConnections()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
