package handler

import (
	"net/http"
	"time"

	"github.com/blues/aidlink/internal/logger"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream 将推送中心的更新通过 WebSocket 转发给客户端。
// 客户端处理不过来时丢弃更新，不做重试。
func Stream[T any](hub *notifier.Hub[T], messageType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub.Closed() {
			ErrorResponse(c, http.StatusServiceUnavailable, "Stream unavailable")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("Failed to upgrade websocket: %v", err)
			return
		}
		defer conn.Close()

		client := c.ClientIP()
		if claims, ok := ClaimsFrom(c); ok {
			client = claims.UserID + "@" + client
		}

		send := make(chan T, sendBuffer)
		sub := hub.Subscribe(func(v T) {
			select {
			case send <- v:
			default:
				logger.Warn("Stream %s: client %s is slow, dropping update", hub.Name(), client)
			}
		})
		defer sub.Unsubscribe()

		logger.Info("Stream %s: client %s connected", hub.Name(), client)

		// 读协程只用于处理 pong 与检测断开
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				logger.Info("Stream %s: client %s disconnected", hub.Name(), client)
				return
			case <-sub.Done():
				// 推送中心已关闭
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"),
					time.Now().Add(writeWait))
				logger.Info("Stream %s: closed for client %s", hub.Name(), client)
				return
			case v := <-send:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(StreamMessage{Type: messageType, Data: v}); err != nil {
					logger.Warn("Stream %s: failed to send update: %v", hub.Name(), err)
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					logger.Warn("Stream %s: failed to send ping: %v", hub.Name(), err)
					return
				}
			}
		}
	}
}
