package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
	"github.com/motamarcelo/watcher-bazico/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// Beginner abre transações (pool ou equivalente). Interface mínima para
// permitir transações roteirizadas nos testes.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PurchaseOrderRepo persiste pedidos de compra e seus itens no warehouse.
// Cada pedido roda na sua própria transação: um registro ruim sofre rollback
// isolado e nunca derruba os já commitados.
type PurchaseOrderRepo struct {
	db  Beginner
	now func() time.Time
}

// NewPurchaseOrderRepository constrói o repositório sobre o pool (ou um fake).
func NewPurchaseOrderRepository(db Beginner) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{db: db, now: time.Now}
}

const upsertPedidoSQL = `
	INSERT INTO pedidos_compra
		(id, numero, data_pedido, data_prevista, fornecedor_id,
		 situacao_valor, valor_total_produtos, valor_total,
		 desconto_valor, ordem_compra, observacoes, observacoes_internas, data_etl)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		numero = EXCLUDED.numero,
		data_pedido = EXCLUDED.data_pedido,
		data_prevista = EXCLUDED.data_prevista,
		fornecedor_id = EXCLUDED.fornecedor_id,
		situacao_valor = EXCLUDED.situacao_valor,
		valor_total_produtos = EXCLUDED.valor_total_produtos,
		valor_total = EXCLUDED.valor_total,
		desconto_valor = EXCLUDED.desconto_valor,
		ordem_compra = EXCLUDED.ordem_compra,
		observacoes = EXCLUDED.observacoes,
		observacoes_internas = EXCLUDED.observacoes_internas,
		data_etl = EXCLUDED.data_etl
	RETURNING (xmax = 0)`

const deleteItensSQL = `DELETE FROM pedidos_compra_itens WHERE pedido_compra_id = $1`

const insertItemSQL = `
	INSERT INTO pedidos_compra_itens
		(pedido_compra_id, produto_id, produto_codigo, produto_nome,
		 descricao, codigo_fornecedor, unidade, quantidade,
		 valor_unitario, aliquota_ipi, data_etl)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// UpsertBatch persiste o lote pedido a pedido. Falhas individuais entram na
// lista de erros do resultado e o lote segue em frente.
func (r *PurchaseOrderRepo) UpsertBatch(ctx context.Context, pedidos []*entity.PurchaseOrder) (*entity.UpsertResult, error) {
	resultado := &entity.UpsertResult{Total: len(pedidos)}
	agora := r.now()

	for _, pedido := range pedidos {
		inserido, err := r.upsertOne(ctx, pedido, agora)
		if err != nil {
			resultado.Erros = append(resultado.Erros, entity.UpsertError{
				PedidoID: pedido.ID,
				Erro:     err.Error(),
			})
			continue
		}
		// RETURNING (xmax = 0) distingue o ramo de insert do de update.
		// Melhor esforço: só total e erros são garantias duras.
		if inserido {
			resultado.Inseridos++
		} else {
			resultado.Atualizados++
		}
	}
	return resultado, nil
}

// upsertOne grava um pedido e substitui os itens por completo, tudo em uma
// transação. Retorna true quando a escrita caiu no ramo de insert.
func (r *PurchaseOrderRepo) upsertOne(ctx context.Context, pedido *entity.PurchaseOrder, agora time.Time) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var inserido bool
	err = tx.QueryRow(ctx, upsertPedidoSQL,
		pedido.ID,
		pedido.Numero,
		pedido.DataPedido,
		pedido.DataPrevista,
		pedido.FornecedorID,
		pedido.SituacaoValor,
		pedido.ValorTotalProdutos,
		pedido.ValorTotal,
		pedido.DescontoValor,
		pedido.OrdemCompra,
		pedido.Observacoes,
		pedido.ObservacoesInternas,
		agora,
	).Scan(&inserido)
	if err != nil {
		return false, fmt.Errorf("upsert pedido: %w", err)
	}

	// Itens antigos saem antes dos novos entrarem: replace total, nunca merge.
	if _, err := tx.Exec(ctx, deleteItensSQL, pedido.ID); err != nil {
		return false, fmt.Errorf("deletar itens: %w", err)
	}
	for _, item := range pedido.Itens {
		_, err := tx.Exec(ctx, insertItemSQL,
			pedido.ID,
			item.ProdutoID,
			item.ProdutoCodigo,
			item.ProdutoNome,
			item.Descricao,
			item.CodigoFornecedor,
			item.Unidade,
			item.Quantidade,
			item.ValorUnitario,
			item.AliquotaIPI,
			agora,
		)
		if err != nil {
			return false, fmt.Errorf("inserir item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return inserido, nil
}
