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

	"github.com/xavierca1/prodoc/internal/app"
	"github.com/xavierca1/prodoc/internal/config"
	"github.com/xavierca1/prodoc/internal/infra/http/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Infra + workspace
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	// 2. Ator da sessão salva (override master, sessão remota ou anônimo)
	if err := a.Workspace.Init(ctx); err != nil {
		log.Printf("⚠️ falha ao restaurar sessão, seguindo anônimo: %v", err)
	}

	// 3. Workers (notificações + reconciliação)
	a.StartBackground(ctx)

	// 4. Router
	limiter := handlers.NewRateLimiter(10, time.Minute)
	go limiter.Cleanup(ctx.Done())

	var broker handlers.BrokerConn
	if a.Broker != nil {
		broker = a.Broker.Conn
	}
	health := handlers.NewHealthHandler(a.DB, broker, cfg.MailEnabled(), cfg.WhatsAppEnabled())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.NewRouter(a.Workspace, health, limiter, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Painel PRODOC rodando em %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ servidor HTTP: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("⚠️ encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("erro no shutdown: %v", err)
	}
}
