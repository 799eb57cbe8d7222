package sync

import (
	"context"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
)

// OrderFetcher porto de leitura da API remota de pedidos de compra.
type OrderFetcher interface {
	// ListPage retorna uma página de resumos; página vazia encerra a paginação.
	ListPage(ctx context.Context, page, limit int) ([]entity.OrderSummary, error)
	// GetDetail busca o pedido completo, com itens.
	GetDetail(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
}

// OrderWriter porto de escrita no warehouse.
type OrderWriter interface {
	UpsertBatch(ctx context.Context, pedidos []*entity.PurchaseOrder) (*entity.UpsertResult, error)
}
