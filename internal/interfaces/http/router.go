package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motamarcelo/watcher-bazico/internal/application/auth"
	appsync "github.com/motamarcelo/watcher-bazico/internal/application/sync"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	Orchestrator *appsync.Orchestrator
}

// Router registra as rotas do serviço.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC)
	syncHandler := NewSyncHandler(deps.Orchestrator)

	bling := app.Group("/bling")
	bling.Get("/auth", authHandler.Begin)
	bling.Get("/callback", authHandler.Callback)

	sync := app.Group("/sync")
	sync.Get("/status", authHandler.Status)
	sync.Post("/pedidos-compra", syncHandler.Run)
}
