package verificationHandler

import (
	contextPkg "VerifID/pkg/context"
	"VerifID/pkg/handlerUtil"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *VerificationHandler) HandleDashboard(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.Query("session_id")

	var err error
	var res interface{}
	if sessionID != "" {
		res, err = h.verificationService.Dashboard().SessionSnapshot(c, sessionID)
	} else {
		res, err = h.verificationService.Dashboard().LatestSnapshot(c)
	}
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "dashboard_snapshot")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

// handleDashboardSocket subscribes an admin connection to verification
// updates. The hub owns all writes to the connection; this loop only drains
// inbound frames so close handshakes are noticed.
func (h *VerificationHandler) handleDashboardSocket(c *websocket.Conn) {
	h.log.Info("Dashboard WebSocket client connected")
	defer h.log.Info("Dashboard WebSocket client disconnected")

	unregister := h.broadcastHub.Register(c)
	defer unregister()

	maxReadTimeout := 60 * time.Second

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Dashboard WebSocket error: %v", err)
			}
			break
		}
	}
}
