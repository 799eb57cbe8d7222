package repository

import (
	"context"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
)

// PurchaseOrderRepository define o porto de persistência dos pedidos de compra.
type PurchaseOrderRepository interface {
	// UpsertBatch persiste o lote pedido a pedido, cada um na sua própria
	// transação: falha em um registro não derruba os demais. Os itens do
	// pedido são substituídos por completo a cada upsert.
	UpsertBatch(ctx context.Context, pedidos []*entity.PurchaseOrder) (*entity.UpsertResult, error)
}
