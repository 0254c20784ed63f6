package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nmoreau/daylist/internal/config"
	"github.com/nmoreau/daylist/internal/db"
	"github.com/nmoreau/daylist/internal/events"
	"github.com/nmoreau/daylist/internal/handlers"
	"github.com/nmoreau/daylist/internal/hash"
	"github.com/nmoreau/daylist/internal/httpserver"
	"github.com/nmoreau/daylist/internal/logging"
	"github.com/nmoreau/daylist/internal/middleware"
	"github.com/nmoreau/daylist/internal/repo"
	"github.com/nmoreau/daylist/internal/search"
	"github.com/nmoreau/daylist/internal/service"
	"github.com/nmoreau/daylist/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	gormDB, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	var searchClient *search.Client
	if cfg.ESURL != "" {
		searchClient, err = search.NewClient(cfg)
		if err != nil {
			log.Fatalf("search init: %v", err)
		}
	}

	r := repo.New(gormDB)
	signer := token.NewJWTSigner(cfg.JWTSecret, cfg.TokenTTL)
	hasher := hash.Bcrypt{}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{
			Svc:      &service.AuthService{Repo: r, Hasher: hasher, Signer: signer},
			Producer: producer,
		},
		TaskHandler:   &handlers.TaskHandler{Repo: r, Producer: producer, Search: searchClient},
		NoteHandler:   &handlers.NoteHandler{Repo: r, Producer: producer, Search: searchClient},
		SearchHandler: &handlers.SearchHandler{Search: searchClient},
		AuthMW:        middleware.NewAuth(signer, r),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
