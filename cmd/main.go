package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpctx "github.com/AyanMustafa/Anevo/internal/api/http/context"
	"github.com/AyanMustafa/Anevo/internal/api/http/router"
	httpServer "github.com/AyanMustafa/Anevo/internal/api/http/server"
	"github.com/AyanMustafa/Anevo/internal/config"
	"github.com/AyanMustafa/Anevo/internal/identity/google"
	"github.com/AyanMustafa/Anevo/internal/logger"
	"github.com/AyanMustafa/Anevo/internal/model"
	"github.com/AyanMustafa/Anevo/internal/password"
	"github.com/AyanMustafa/Anevo/internal/repository/postgres"
	"github.com/AyanMustafa/Anevo/internal/server"
	"github.com/AyanMustafa/Anevo/internal/service"
	"github.com/AyanMustafa/Anevo/internal/token"
)

var (
	buildVersion = "1.0.0" // set by ldflags
	buildDate    = "N/A"   // set by ldflags
	buildCommit  = "N/A"   // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	noteRepo := postgres.NewNoteRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	hasher := password.NewBcrypt()
	verifier := google.NewVerifier(cfg.Google.ClientID)

	authService := service.NewAuth(userRepo, hasher, verifier, tokenManager, logger)
	noteService := service.NewNote(noteRepo, userRepo, logger)
	ctxMgr := httpctx.NewManager()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := registerHTTPServer(logger, authService, noteService, tokenManager, db, registry, ctxMgr, cfg.HTTP.Address)

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerHTTPServer(
	logger *logger.Logger,
	authService *service.Auth,
	noteService *service.Note,
	tokenManager model.TokenManager,
	db *postgres.Connection,
	registry *prometheus.Registry,
	ctxMgr model.ContextManager,
	addr string,
) *httpServer.HTTPServer {
	r := router.New(authService, noteService, tokenManager, db, registry, ctxMgr, buildVersion, logger)
	e := r.Register()

	return httpServer.NewHTTPServer(e, addr)
}
