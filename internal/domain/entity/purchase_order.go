package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSummary identidade mínima retornada pelo endpoint de listagem.
// Vive apenas dentro de uma iteração de página; nunca é persistido.
type OrderSummary struct {
	ID int64
}

// PurchaseOrder representa um pedido de compra completo do Bling.
// É dono exclusivo dos seus itens: persistir uma nova versão substitui o
// conjunto inteiro de itens (replace, nunca merge).
type PurchaseOrder struct {
	ID                  int64
	Numero              int64
	DataPedido          *time.Time
	DataPrevista        *time.Time
	FornecedorID        *int64
	SituacaoValor       *int
	ValorTotalProdutos  decimal.Decimal
	ValorTotal          decimal.Decimal
	DescontoValor       decimal.Decimal
	OrdemCompra         string
	Observacoes         string
	ObservacoesInternas string
	Itens               []PurchaseOrderItem
}

// PurchaseOrderItem linha de item de um pedido de compra.
type PurchaseOrderItem struct {
	ProdutoID        *int64
	ProdutoCodigo    string
	ProdutoNome      string
	Descricao        string
	CodigoFornecedor string
	Unidade          string
	Quantidade       decimal.Decimal
	ValorUnitario    decimal.Decimal
	AliquotaIPI      decimal.Decimal
}
