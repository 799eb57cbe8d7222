package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
	"github.com/motamarcelo/watcher-bazico/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Warehouse em memória: transações roteirizadas sobre a interface pgx.Tx.
// Mudanças ficam em staging e só se aplicam no Commit, o que permite verificar
// o isolamento por registro sem um PostgreSQL de verdade.
// ──────────────────────────────────────────────────────────────────────────────

type memDB struct {
	orders map[int64]bool     // id -> existe
	items  map[int64][]string // id -> descrições dos itens persistidos

	failUpsert map[int64]bool // falha no upsert do pedido
	failItem   map[int64]bool // falha ao inserir itens do pedido

	begun      int
	committed  int
	rolledBack int
}

func newMemDB() *memDB {
	return &memDB{
		orders:     map[int64]bool{},
		items:      map[int64][]string{},
		failUpsert: map[int64]bool{},
		failItem:   map[int64]bool{},
	}
}

func (db *memDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.begun++
	return &memTx{
		db:       db,
		upserts:  map[int64]bool{},
		inserted: map[int64][]string{},
	}, nil
}

// memTx implementa o subconjunto de pgx.Tx que o repositório usa; os demais
// métodos vêm da interface embutida e nunca são chamados.
type memTx struct {
	pgx.Tx
	db *memDB

	upserts  map[int64]bool // id -> caiu no ramo de insert
	deleted  []int64
	inserted map[int64][]string
	ops      []string // sequência de operações, para o invariante delete-antes-de-insert
	done     bool
}

func (tx *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	id := args[0].(int64)
	if tx.db.failUpsert[id] {
		return errRow{errors.New("violação de constraint")}
	}
	inserted := !tx.db.orders[id]
	tx.upserts[id] = inserted
	tx.ops = append(tx.ops, "upsert")
	return boolRow{inserted}
}

func (tx *memTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	id := args[0].(int64)
	if strings.HasPrefix(strings.TrimSpace(sql), "DELETE") {
		tx.deleted = append(tx.deleted, id)
		tx.ops = append(tx.ops, "delete")
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	if tx.db.failItem[id] {
		return pgconn.CommandTag{}, errors.New("item inválido")
	}
	tx.inserted[id] = append(tx.inserted[id], args[4].(string))
	tx.ops = append(tx.ops, "insert")
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *memTx) Commit(ctx context.Context) error {
	tx.done = true
	tx.db.committed++
	for id := range tx.upserts {
		tx.db.orders[id] = true
	}
	for _, id := range tx.deleted {
		delete(tx.db.items, id)
	}
	for id, items := range tx.inserted {
		tx.db.items[id] = append(tx.db.items[id], items...)
	}
	return nil
}

func (tx *memTx) Rollback(ctx context.Context) error {
	if !tx.done {
		tx.db.rolledBack++
		tx.done = true
	}
	return nil
}

type boolRow struct{ val bool }

func (r boolRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.val
	return nil
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

func pedido(id int64, itens ...string) *entity.PurchaseOrder {
	p := &entity.PurchaseOrder{ID: id, Numero: id}
	for _, desc := range itens {
		p.Itens = append(p.Itens, entity.PurchaseOrderItem{Descricao: desc})
	}
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsertBatch_ClassificaInsertEUpdate(t *testing.T) {
	db := newMemDB()
	repo := postgres.NewPurchaseOrderRepository(db)
	ctx := context.Background()

	res, err := repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "A"), pedido(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Inseridos)
	assert.Zero(t, res.Atualizados)
	assert.Empty(t, res.Erros)

	// Segunda rodada idêntica: mesmo estado final, agora pelo ramo de update.
	res, err = repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "A"), pedido(2)})
	require.NoError(t, err)
	assert.Zero(t, res.Inseridos)
	assert.Equal(t, 2, res.Atualizados)
	assert.Equal(t, []string{"A"}, db.items[1], "rodar duas vezes não duplica itens")
	assert.Empty(t, db.items[2])
}

// Upsert do mesmo id com conjunto de itens diferente: o conjunto antigo some
// por inteiro (replace, não merge).
func TestUpsertBatch_SubstituiItensPorCompleto(t *testing.T) {
	db := newMemDB()
	repo := postgres.NewPurchaseOrderRepository(db)
	ctx := context.Background()

	_, err := repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "A", "B")})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, db.items[1])

	_, err = repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "C")})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, db.items[1], "A e B devem desaparecer")
}

// Pedido sem itens ainda limpa os itens antigos.
func TestUpsertBatch_PedidoSemItens_LimpaAntigos(t *testing.T) {
	db := newMemDB()
	repo := postgres.NewPurchaseOrderRepository(db)
	ctx := context.Background()

	_, err := repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "A")})
	require.NoError(t, err)
	_, err = repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1)})
	require.NoError(t, err)

	assert.Empty(t, db.items[1])
}

// Lote de 3 com o segundo falhando: o 1º e o 3º ficam commitados e o erro do
// 2º aparece na lista, com rollback isolado.
func TestUpsertBatch_FalhaIsoladaPorRegistro(t *testing.T) {
	db := newMemDB()
	db.failUpsert[2] = true
	repo := postgres.NewPurchaseOrderRepository(db)

	res, err := repo.UpsertBatch(context.Background(), []*entity.PurchaseOrder{
		pedido(1, "A"), pedido(2, "B"), pedido(3, "C"),
	})
	require.NoError(t, err, "falha de registro não é falha do lote")

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Inseridos)
	require.Len(t, res.Erros, 1)
	assert.Equal(t, int64(2), res.Erros[0].PedidoID)
	assert.NotEmpty(t, res.Erros[0].Erro)

	assert.True(t, db.orders[1])
	assert.False(t, db.orders[2], "registro com falha não pode ser commitado")
	assert.True(t, db.orders[3])
	assert.Equal(t, 2, db.committed)
	assert.Equal(t, 1, db.rolledBack)
}

// Falha ao inserir um item desfaz o pedido inteiro daquela transação: nem a
// cabeça nem o delete dos itens antigos sobrevivem.
func TestUpsertBatch_FalhaDeItem_DesfazPedidoInteiro(t *testing.T) {
	db := newMemDB()
	repo := postgres.NewPurchaseOrderRepository(db)
	ctx := context.Background()

	_, err := repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "A")})
	require.NoError(t, err)

	db.failItem[1] = true
	res, err := repo.UpsertBatch(ctx, []*entity.PurchaseOrder{pedido(1, "B")})
	require.NoError(t, err)
	require.Len(t, res.Erros, 1)

	assert.Equal(t, []string{"A"}, db.items[1], "rollback preserva o conjunto anterior")
}

// Dentro de cada transação os itens antigos saem antes dos novos entrarem.
func TestUpsertBatch_DeleteAntesDeInsert(t *testing.T) {
	db := newMemDB()
	var gotOps []string
	repo := postgres.NewPurchaseOrderRepository(opsBeginner{db: db, ops: &gotOps})

	_, err := repo.UpsertBatch(context.Background(), []*entity.PurchaseOrder{pedido(1, "A", "B")})
	require.NoError(t, err)

	assert.Equal(t, []string{"upsert", "delete", "insert", "insert"}, gotOps)
}

// opsBeginner expõe a sequência de operações da transação criada.
type opsBeginner struct {
	db  *memDB
	ops *[]string
}

func (b opsBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &opsTx{memTx: tx.(*memTx), out: b.ops}, nil
}

type opsTx struct {
	*memTx
	out *[]string
}

func (tx *opsTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	row := tx.memTx.QueryRow(ctx, sql, args...)
	*tx.out = tx.memTx.ops
	return row
}

func (tx *opsTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := tx.memTx.Exec(ctx, sql, args...)
	*tx.out = tx.memTx.ops
	return tag, err
}

// Falha no Begin é a única que aborta o registro sem transação aberta.
func TestUpsertBatch_BeginFalha_EntraNaListaDeErros(t *testing.T) {
	repo := postgres.NewPurchaseOrderRepository(beginFail{})

	res, err := repo.UpsertBatch(context.Background(), []*entity.PurchaseOrder{pedido(9)})
	require.NoError(t, err)
	require.Len(t, res.Erros, 1)
	assert.Equal(t, int64(9), res.Erros[0].PedidoID)
}

type beginFail struct{}

func (beginFail) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("pool esgotado")
}
