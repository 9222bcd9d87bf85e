package biometricHandler

import (
	"VerifID/internal/api/biometric"
	contextPkg "VerifID/pkg/context"
	"VerifID/pkg/handlerUtil"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

// Scoring round trips carry their own deadlines; the handler budget covers
// staging plus one full round trip.
const captureTimeout = 20 * time.Second

func (h *BiometricHandler) HandleVerifyVoice(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), captureTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.FormValue("session_id")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID, fiber.ErrBadRequest, ctx.Path())
	}

	audioFile, err := ctx.FormFile("audio")
	if err != nil {
		return errHandler.Handle(ctx, requestID, biometric.ErrMissingFile, ctx.Path(), "parse_capture_file")
	}

	res, err := h.biometricService.VerifyVoice(c, sessionID, audioFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_voice")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *BiometricHandler) HandleVerifyFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), captureTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.FormValue("session_id")
	if sessionID == "" {
		return errHandler.HandleValidationError(ctx, requestID, fiber.ErrBadRequest, ctx.Path())
	}

	imageFile, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.Handle(ctx, requestID, biometric.ErrMissingFile, ctx.Path(), "parse_capture_file")
	}

	res, err := h.biometricService.VerifyFace(c, sessionID, imageFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
