package biometricHandler

import (
	biometricService "VerifID/internal/api/biometric/service"
	"VerifID/internal/middleware"
	"VerifID/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type BiometricHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	biometricService biometricService.IBiometricService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	bs biometricService.IBiometricService,
	utils utils.IUtils,
) *BiometricHandler {
	return &BiometricHandler{
		log:              log,
		validator:        validator,
		middleware:       middleware,
		biometricService: bs,
		utils:            utils,
	}
}

func (h *BiometricHandler) Start(srv fiber.Router) {
	srv.Post("/verify-voice", h.middleware.NewTokenMiddleware, h.HandleVerifyVoice)
	srv.Post("/verify-face", h.middleware.NewTokenMiddleware, h.HandleVerifyFace)
}
