package face

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatService "github.com/soumya28022005/face-ditection-ai/internal/service/chat"
	faceService "github.com/soumya28022005/face-ditection-ai/internal/service/face"
	"github.com/soumya28022005/face-ditection-ai/pkg/utils"
)

// Handler 表情读数接入的WebSocket处理器。浏览器端的表情分类器按固定
// 节奏推送 {emotion, confidence}，这里只做校验与缓存。
type Handler struct {
	tracker  *faceService.Tracker
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// New 创建表情接入处理器
func New(tracker *faceService.Tracker, chatSvc *chatService.Service) *Handler {
	return &Handler{
		tracker: tracker,
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/face/ws/{sessionID}", h.handleWebSocket)
}

type readingMessage struct {
	Emotion    string `json:"emotion"`
	Confidence int    `json:"confidence"`
}

type ackMessage struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[face] websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		conn.Close()
		h.tracker.Forget(sessionID)
	}()

	log.Printf("[face] reading stream opened for session=%s", sessionID)

	for {
		var msg readingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[face] websocket read failed: %v", err)
			}
			return
		}

		if _, err := h.tracker.Update(sessionID, msg.Emotion, msg.Confidence); err != nil {
			// 非法读数只回报给客户端，不中断连接。
			status := "rejected"
			if !errors.Is(err, faceService.ErrUnknownEmotion) && !errors.Is(err, faceService.ErrConfidenceOutRange) {
				status = "error"
			}
			if writeErr := conn.WriteJSON(ackMessage{Status: status, Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(ackMessage{Status: "ok"}); err != nil {
			return
		}
	}
}
