package sync

// Event é um registro do stream de progresso da sincronização. Os eventos são
// emitidos em ordem e serializados um por linha (NDJSON) pela camada HTTP; as
// chaves JSON são o contrato de saída do serviço.
type Event interface {
	event()
}

// Cumulative contadores acumulados da corrida.
type Cumulative struct {
	Total     int `json:"total"`
	Inseridos int `json:"inseridos"`
	Erros     int `json:"erros"`
}

// FetchErrorEvent falha ao buscar o detalhe de um pedido; a corrida continua.
type FetchErrorEvent struct {
	ErroFetch string `json:"erro_fetch"`
	PedidoID  int64  `json:"pedido_id"`
}

// PageEvent progresso de uma página processada (buscada, enriquecida e salva).
type PageEvent struct {
	Pagina          int        `json:"pagina"`
	PedidosPagina   int        `json:"pedidos_pagina"`
	InseridosPagina int        `json:"inseridos_pagina"`
	ErrosPagina     int        `json:"erros_pagina"`
	Acumulado       Cumulative `json:"acumulado"`
}

// DoneEvent evento terminal de conclusão, emitido exatamente uma vez.
type DoneEvent struct {
	Concluido bool   `json:"concluido"`
	Total     int    `json:"total"`
	Inseridos int    `json:"inseridos"`
	Erros     int    `json:"erros"`
	RunID     string `json:"run_id"`
}

// RunErrorEvent falha irrecuperável (ex.: AuthError): é o último evento da
// corrida e o stream termina sem registro de conclusão.
type RunErrorEvent struct {
	Erro string `json:"erro"`
}

func (FetchErrorEvent) event() {}
func (PageEvent) event()       {}
func (DoneEvent) event()       {}
func (RunErrorEvent) event()   {}
