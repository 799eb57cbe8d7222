package entity

// UpsertError falha de persistência de um único pedido dentro de um lote.
type UpsertError struct {
	PedidoID int64  `json:"pedido_id"`
	Erro     string `json:"erro"`
}

// UpsertResult resultado de um lote de upsert. A distinção inserido/atualizado é
// telemetria de melhor esforço; os campos Total e Erros são os que contam.
type UpsertResult struct {
	Total       int           `json:"total"`
	Inseridos   int           `json:"inseridos"`
	Atualizados int           `json:"atualizados"`
	Erros       []UpsertError `json:"erros"`
}
