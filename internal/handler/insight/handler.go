package insight

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soumya28022005/face-ditection-ai/internal/analysis/trend"
	chatService "github.com/soumya28022005/face-ditection-ai/internal/service/chat"
	"github.com/soumya28022005/face-ditection-ai/pkg/utils"
)

// Handler serves longitudinal views over a session: pattern/volatility
// reports, the daily counters, and an SSE stream of insight snapshots.
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建洞察处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册洞察相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/insight", h.handleInsight)
	r.Get("/summary/{date}", h.handleDailySummary)
	r.Get("/stream/{sessionID}", h.handleInsightStream)
}

type insightPayload struct {
	Pattern         trend.PatternReport    `json:"pattern"`
	Volatility      trend.VolatilityReport `json:"volatility"`
	Recommendations []trend.Recommendation `json:"recommendations"`
	Insight         string                 `json:"insight"`
}

func (h *Handler) buildInsight(r *http.Request, sessionID string) (insightPayload, error) {
	history, err := h.chatSvc.EmotionHistory(r.Context(), sessionID)
	if err != nil {
		return insightPayload{}, err
	}

	pattern := trend.DetectPattern(history)
	volatility := trend.Volatility(history)

	return insightPayload{
		Pattern:         pattern,
		Volatility:      volatility,
		Recommendations: trend.SuggestInterventions(pattern, volatility),
		Insight:         trend.Insight(history),
	}, nil
}

func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	payload, err := h.buildInsight(r, sessionID)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", day); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	summary, err := h.chatSvc.DailySummary(r.Context(), day)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, summary)
}

// handleInsightStream 通过SSE周期性推送最新的情绪洞察快照。
func (h *Handler) handleInsightStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	log.Printf("[sse] opening insight stream for session=%s", sessionID)

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	send := func() {
		payload, err := h.buildInsight(r, sessionID)
		if err != nil {
			utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
			return
		}
		utils.SendSSEEvent(w, flusher, "insight", payload)
	}

	send()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing insight stream for session=%s", sessionID)
			return
		case <-ticker.C:
			send()
		}
	}
}
