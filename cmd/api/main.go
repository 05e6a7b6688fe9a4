package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/soumya28022005/face-ditection-ai/internal/config"
	"github.com/soumya28022005/face-ditection-ai/internal/handler"
	"github.com/soumya28022005/face-ditection-ai/internal/respond"
	chatservice "github.com/soumya28022005/face-ditection-ai/internal/service/chat"
	faceservice "github.com/soumya28022005/face-ditection-ai/internal/service/face"
	"github.com/soumya28022005/face-ditection-ai/internal/service/responder"
	"github.com/soumya28022005/face-ditection-ai/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to open database %s: %v", cfg.Database.Path, err)
	}
	defer store.Close()
	log.Printf("SQLite store ready at %s", cfg.Database.Path)

	// Optional LLM polish for the templated replies
	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("continuing with template responses only")
			chatModel = nil
		}
	}

	selector := respond.NewSelector(nil)
	responderSvc, err := responder.NewService(ctx, chatModel, selector, responder.Config{
		Enabled:      cfg.AI.ResponderEnabled,
		HistoryLimit: cfg.AI.ResponderHistoryLimit,
	})
	if err != nil {
		log.Fatalf("failed to initialize responder service: %v", err)
	}
	if responderSvc.Enabled() {
		log.Println("LLM reply polishing enabled")
	} else {
		log.Println("LLM reply polishing disabled, using template responses")
	}

	tracker := faceservice.NewTracker(cfg.Face.StaleAfter)
	chatSvc := chatservice.NewService(store, responderSvc, tracker)

	router := handler.NewRouter(chatSvc, tracker)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("emotion chat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
