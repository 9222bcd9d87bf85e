package verificationHandler

import (
	verificationService "VerifID/internal/api/verification/service"
	"VerifID/internal/middleware"
	broadcastPkg "VerifID/pkg/broadcast"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type VerificationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	verificationService verificationService.VerificationService
	broadcastHub        broadcastPkg.IBroadcast
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	vs verificationService.VerificationService,
	broadcastHub broadcastPkg.IBroadcast,
) *VerificationHandler {
	return &VerificationHandler{
		log:                 log,
		validator:           validator,
		middleware:          middleware,
		verificationService: vs,
		broadcastHub:        broadcastHub,
	}
}

func (h *VerificationHandler) Start(srv fiber.Router) {
	srv.Post("/userform", h.middleware.NewTokenMiddleware, h.HandleAdvance)

	userform := srv.Group("/userform")
	userform.Post("/session", h.middleware.NewTokenMiddleware, h.HandleCreateSession)
	userform.Patch("/field", h.middleware.NewTokenMiddleware, h.HandleUpdateField)
	userform.Post("/back", h.middleware.NewTokenMiddleware, h.HandleRetreat)
	userform.Post("/finalize", h.middleware.NewTokenMiddleware, h.HandleFinalize)

	admin := srv.Group("/admin")
	admin.Get("/dashboard", h.middleware.NewTokenMiddleware, h.middleware.NewAdminMiddleware, h.HandleDashboard)

	admin.Use("/dashboard/ws", h.middleware.NewTokenMiddleware, h.middleware.NewAdminMiddleware, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	admin.Get("/dashboard/ws", websocket.New(h.handleDashboardSocket))
}
