package bling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/motamarcelo/watcher-bazico/internal/domain"
	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
)

// OrderClient acessa os endpoints de pedidos de compra do Bling. Não faz
// throttling interno: o Bling limita a ~3 req/s e o espaçamento entre chamadas
// é responsabilidade do orquestrador.
type OrderClient struct {
	auth *AuthClient
}

// NewOrderClient constrói o cliente de pedidos sobre o cliente autenticado.
func NewOrderClient(auth *AuthClient) *OrderClient {
	return &OrderClient{auth: auth}
}

// ListPage lista uma página de resumos de pedidos de compra. Página sem
// registros sinaliza o fim da paginação e não é erro.
func (c *OrderClient) ListPage(ctx context.Context, page, limit int) ([]entity.OrderSummary, error) {
	query := url.Values{}
	query.Set("pagina", strconv.Itoa(page))
	query.Set("limite", strconv.Itoa(limit))

	var envelope listEnvelope
	if err := c.getJSON(ctx, "/pedidos/compras", query, &envelope); err != nil {
		return nil, err
	}

	resumos := make([]entity.OrderSummary, 0, len(envelope.Data))
	for _, s := range envelope.Data {
		if s.ID == 0 {
			continue
		}
		resumos = append(resumos, entity.OrderSummary{ID: s.ID})
	}
	return resumos, nil
}

// GetDetail busca um pedido de compra com todos os detalhes (itens, fornecedor,
// situação). Resposta não-2xx vira RemoteError com status e corpo.
func (c *OrderClient) GetDetail(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	var envelope detailEnvelope
	path := fmt.Sprintf("/pedidos/compras/%d", id)
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data.toEntity(), nil
}

func (c *OrderClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.auth.AuthorizedGet(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ler resposta de %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RemoteError{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decodificar resposta de %s: %w", path, err)
	}
	return nil
}
