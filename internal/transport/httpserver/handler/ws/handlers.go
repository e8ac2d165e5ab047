package ws

import (
	"net/http"

	"dues-app-go/internal/realtime"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
)

type Handlers struct {
	Hub     *realtime.Hub
	respond *commonhandler.Responder
	log     logger.Logger
}

func New(hub *realtime.Hub, respond *commonhandler.Responder) *Handlers {
	return &Handlers{
		Hub:     hub,
		respond: respond,
		log:     respond.Log(),
	}
}

// Connect upgrades an authenticated request and blocks until the socket closes.
func (h *Handlers) Connect(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.respond.Unauthorized(w)
		return
	}

	sub := realtime.Subscriber{UserID: user.ID, Role: string(user.Role)}
	h.log.Debug("ws.connect: client connecting", "user_id", user.ID, "role", user.Role)
	if err := h.Hub.ServeWS(w, r, sub); err != nil {
		h.log.BusinessError("ws.connect: upgrade failed", err, "user_id", user.ID)
	}
}
