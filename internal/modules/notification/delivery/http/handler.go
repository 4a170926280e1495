package handler

import (
	"net/http"
	"strings"
	"time"

	notification "anoa.com/recipemarket/internal/modules/notification/service"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const pingInterval = 30 * time.Second

type NotificationHandler struct {
	service  notification.NotificationService
	upgrader websocket.Upgrader
}

// NewNotificationHandler accepts upgrades from the given browser origins.
// CORS does not cover websocket upgrades, so the origin is checked here.
func NewNotificationHandler(service notification.NotificationService, allowedOrigins []string) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker allows requests without an Origin header (non-browser
// clients) and browser requests whose origin is listed exactly.
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}

// HandleWebSocket streams new-recipe events of followed bakers. Follows
// made after the connection opens take effect on reconnect.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ctx := c.Request.Context()

	pubsub, err := h.service.SubscribeFollowed(ctx, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if pubsub != nil {
		defer pubsub.Close()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to upgrade websocket")
		return
	}
	defer conn.Close()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var messages <-chan *redis.Message
	if pubsub != nil {
		messages = pubsub.Channel()
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				logger.Ctx(ctx).Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
