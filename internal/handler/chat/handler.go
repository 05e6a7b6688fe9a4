package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
	chatService "github.com/soumya28022005/face-ditection-ai/internal/service/chat"
	"github.com/soumya28022005/face-ditection-ai/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/messages", h.handleMessage)
	r.Get("/sessions/{sessionID}/history", h.handleHistory)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

type faceReadingPayload struct {
	Emotion    string `json:"emotion"`
	Confidence int    `json:"confidence"`
}

type messagePayload struct {
	SessionID   string              `json:"sessionId"`
	Text        string              `json:"text"`
	FaceEmotion *faceReadingPayload `json:"faceEmotion,omitempty"`
}

// handleMessage 执行一次完整的分析+回复流程
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload messagePayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	var faceReading *emotion.Reading
	if payload.FaceEmotion != nil {
		label, ok := emotion.ParseLabel(payload.FaceEmotion.Emotion)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "unknown face emotion label")
			return
		}
		if payload.FaceEmotion.Confidence < 0 || payload.FaceEmotion.Confidence > 100 {
			utils.RespondError(w, http.StatusBadRequest, "face confidence must be between 0 and 100")
			return
		}
		faceReading = &emotion.Reading{
			Emotion:    label,
			Confidence: payload.FaceEmotion.Confidence,
		}
	}

	exchange, err := h.chatSvc.ProcessMessage(r.Context(), payload.SessionID, payload.Text, faceReading)
	if err != nil {
		switch {
		case errors.Is(err, chatService.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, chatService.ErrEmptyMessage):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, exchange)
}

// handleHistory 返回会话的历史轮次
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.chatSvc.Transcript(r.Context(), sessionID, 0)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"turns":     turns,
	})
}
