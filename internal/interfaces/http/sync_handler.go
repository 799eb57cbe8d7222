package http

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	appsync "github.com/motamarcelo/watcher-bazico/internal/application/sync"
)

// SyncHandler dispara a sincronização completa e repassa o progresso como
// stream NDJSON, linha a linha, na ordem de emissão.
type SyncHandler struct {
	orc *appsync.Orchestrator
}

// NewSyncHandler constrói o handler.
func NewSyncHandler(orc *appsync.Orchestrator) *SyncHandler {
	return &SyncHandler{orc: orc}
}

// Run godoc
// @Summary      Sincronizar pedidos de compra do Bling
// @Tags         sync
// @Produce      application/x-ndjson
// @Success      200  {string}  string  "stream de eventos de progresso, um JSON por linha"
// @Router       /sync/pedidos-compra [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/x-ndjson")

	// O writer roda depois do handler retornar; o ctx da corrida é próprio e
	// é cancelado quando o cliente abandona a conexão (falha de flush).
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		enc := json.NewEncoder(w)
		for ev := range h.orc.Run(ctx) {
			if err := enc.Encode(ev); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
