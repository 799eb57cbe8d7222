package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appauth "github.com/motamarcelo/watcher-bazico/internal/application/auth"
	appsync "github.com/motamarcelo/watcher-bazico/internal/application/sync"
	"github.com/motamarcelo/watcher-bazico/internal/infrastructure/bling"
	"github.com/motamarcelo/watcher-bazico/internal/infrastructure/postgres"
	"github.com/motamarcelo/watcher-bazico/internal/infrastructure/tokenfile"
	httpRouter "github.com/motamarcelo/watcher-bazico/internal/interfaces/http"
	"github.com/motamarcelo/watcher-bazico/pkg/config"
	"github.com/motamarcelo/watcher-bazico/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	tokenStore := tokenfile.New(cfg.Bling.TokensFile)
	authClient := bling.NewAuthClient(bling.Config{
		ClientID:     cfg.Bling.ClientID,
		ClientSecret: cfg.Bling.ClientSecret,
		RedirectURI:  cfg.Bling.RedirectURI,
		AuthURL:      cfg.Bling.AuthURL,
		TokenURL:     cfg.Bling.TokenURL,
		APIBase:      cfg.Bling.APIBase,
	}, tokenStore)
	orderClient := bling.NewOrderClient(authClient)

	pedidoRepo := postgres.NewPurchaseOrderRepository(pool)
	orchestrator := appsync.NewOrchestrator(orderClient, pedidoRepo, appsync.Config{
		PageSize:     cfg.Sync.PageSize,
		PaceInterval: time.Duration(cfg.Sync.PaceMillis) * time.Millisecond,
	}, log.Zerolog())
	authUC := appauth.NewUseCase(authClient, tokenStore)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// Sem WriteTimeout: o stream de sincronização dura o que a corrida durar.
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Orchestrator: orchestrator,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
