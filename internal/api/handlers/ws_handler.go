package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lectura-ai/lectura/internal/services"
	"github.com/lectura-ai/lectura/internal/workers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth already gates the route; browser origin is not checked.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler streams status transitions for a session over a websocket.
// Clients that prefer polling use the status endpoint instead.
type WSHandler struct {
	Sessions *SessionHandler
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func NewWSHandler(sessions *SessionHandler, rdb *redis.Client, l *logrus.Logger) *WSHandler {
	return &WSHandler{Sessions: sessions, Redis: rdb, Logger: l}
}

func (h *WSHandler) Status(c *gin.Context) {
	sess, ok := h.Sessions.getOwned(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	sub := h.Redis.Subscribe(ctx, workers.StatusChannel(sess.ID))
	defer sub.Close()

	// Snapshot first so the client never misses a transition that happened
	// before the subscription was live.
	snapshot, _ := json.Marshal(services.StatusView{
		ID:               sess.ID,
		Status:           sess.Status,
		Title:            sess.Title,
		OriginalFileName: sess.OriginalFileName,
	})
	if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
		return
	}

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := sub.Channel()
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
