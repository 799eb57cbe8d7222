package bling

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
)

// Envelopes da API v3 do Bling: toda resposta carrega o conteúdo em "data".

type listEnvelope struct {
	Data []summaryJSON `json:"data"`
}

type summaryJSON struct {
	ID int64 `json:"id"`
}

type detailEnvelope struct {
	Data orderJSON `json:"data"`
}

type orderJSON struct {
	ID                  int64           `json:"id"`
	Numero              int64           `json:"numero"`
	Data                string          `json:"data"`
	DataPrevista        string          `json:"dataPrevista"`
	Total               decimal.Decimal `json:"total"`
	TotalProdutos       decimal.Decimal `json:"totalProdutos"`
	OrdemCompra         string          `json:"ordemCompra"`
	Observacoes         string          `json:"observacoes"`
	ObservacoesInternas string          `json:"observacoesInternas"`
	Fornecedor          *struct {
		ID int64 `json:"id"`
	} `json:"fornecedor"`
	Situacao *struct {
		Valor int `json:"valor"`
	} `json:"situacao"`
	Desconto *struct {
		Valor decimal.Decimal `json:"valor"`
	} `json:"desconto"`
	Itens []itemJSON `json:"itens"`
}

type itemJSON struct {
	Descricao        string          `json:"descricao"`
	CodigoFornecedor string          `json:"codigoFornecedor"`
	Unidade          string          `json:"unidade"`
	Quantidade       decimal.Decimal `json:"quantidade"`
	Valor            decimal.Decimal `json:"valor"`
	AliquotaIPI      decimal.Decimal `json:"aliquotaIPI"`
	Produto          *struct {
		ID     int64  `json:"id"`
		Codigo string `json:"codigo"`
		Nome   string `json:"nome"`
	} `json:"produto"`
}

// parseDate trata as datas do Bling: vazio e "0000-00-00" viram nil.
func parseDate(value string) *time.Time {
	if value == "" || value == "0000-00-00" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

func (o orderJSON) toEntity() *entity.PurchaseOrder {
	pedido := &entity.PurchaseOrder{
		ID:                  o.ID,
		Numero:              o.Numero,
		DataPedido:          parseDate(o.Data),
		DataPrevista:        parseDate(o.DataPrevista),
		ValorTotalProdutos:  o.TotalProdutos,
		ValorTotal:          o.Total,
		OrdemCompra:         o.OrdemCompra,
		Observacoes:         o.Observacoes,
		ObservacoesInternas: o.ObservacoesInternas,
	}
	if o.Fornecedor != nil {
		id := o.Fornecedor.ID
		pedido.FornecedorID = &id
	}
	if o.Situacao != nil {
		valor := o.Situacao.Valor
		pedido.SituacaoValor = &valor
	}
	if o.Desconto != nil {
		pedido.DescontoValor = o.Desconto.Valor
	}
	for _, it := range o.Itens {
		item := entity.PurchaseOrderItem{
			Descricao:        it.Descricao,
			CodigoFornecedor: it.CodigoFornecedor,
			Unidade:          it.Unidade,
			Quantidade:       it.Quantidade,
			ValorUnitario:    it.Valor,
			AliquotaIPI:      it.AliquotaIPI,
		}
		if it.Produto != nil {
			id := it.Produto.ID
			item.ProdutoID = &id
			item.ProdutoCodigo = it.Produto.Codigo
			item.ProdutoNome = it.Produto.Nome
		}
		pedido.Itens = append(pedido.Itens, item)
	}
	return pedido
}
