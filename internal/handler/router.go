package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/soumya28022005/face-ditection-ai/internal/handler/chat"
	faceHandler "github.com/soumya28022005/face-ditection-ai/internal/handler/face"
	insightHandler "github.com/soumya28022005/face-ditection-ai/internal/handler/insight"
	middlewarePkg "github.com/soumya28022005/face-ditection-ai/internal/middleware"
	chatService "github.com/soumya28022005/face-ditection-ai/internal/service/chat"
	faceService "github.com/soumya28022005/face-ditection-ai/internal/service/face"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, tracker *faceService.Tracker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(chatSvc).RegisterRoutes(api)
		insightHandler.New(chatSvc).RegisterRoutes(api)
		faceHandler.New(tracker, chatSvc).RegisterRoutes(api)
	})

	return r
}
