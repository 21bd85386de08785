package chat

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/service/pastor"
	"github.com/aipreacher/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

type inboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// socket serialises writes; gorilla connections allow one concurrent writer.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) write(msg outgoingMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(msg)
}

func (s *socket) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket runs the chat pipeline for each message on the socket.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("[websocket] upgrade failed")
		return
	}
	defer conn.Close()

	logger := logrus.WithField("user_id", userID)
	logger.Info("[websocket] connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sock := &socket{conn: conn}
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, sock)

	h.send(sock, logger, outgoingMessage{Type: "connected", Data: map[string]string{"userId": userID}})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("[websocket] read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.Type != "message" {
			h.sendError(sock, logger, msg.SessionID, "unsupported message type: "+msg.Type, "")
			continue
		}

		reply, err := h.pastor.Respond(ctx, pastor.Request{
			UserID:    userID,
			SessionID: msg.SessionID,
			Message:   msg.Message,
		})
		if err != nil {
			_, message, hint := describe(err)
			h.sendError(sock, logger, msg.SessionID, message, hint)
			continue
		}
		h.send(sock, logger, outgoingMessage{Type: "reply", SessionID: msg.SessionID, Data: reply})
	}
}

func (h *Handler) send(sock *socket, logger *logrus.Entry, msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()
	if err := sock.write(msg); err != nil {
		logger.WithError(err).Warn("[websocket] write failed")
	}
}

func (h *Handler) sendError(sock *socket, logger *logrus.Entry, sessionID, message, hint string) {
	data := map[string]string{"message": message}
	if hint != "" {
		data["hint"] = hint
	}
	h.send(sock, logger, outgoingMessage{Type: "error", SessionID: sessionID, Data: data})
}

func pingLoop(ctx context.Context, sock *socket) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sock.ping(); err != nil {
				return
			}
		}
	}
}
