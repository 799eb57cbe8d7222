package sync

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/motamarcelo/watcher-bazico/internal/domain"
	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
)

// Valores padrão do loop de sincronização. O Bling limita a ~3 req/s; o
// intervalo fixo de 350ms entre chamadas fica abaixo do teto com folga.
const (
	DefaultPageSize     = 100
	DefaultPaceInterval = 350 * time.Millisecond
)

// Config parâmetros do orquestrador; zeros assumem os padrões acima.
type Config struct {
	PageSize     int
	PaceInterval time.Duration
}

// Orchestrator dirige o ciclo completo de sincronização: lista página por
// página, busca o detalhe de cada pedido com espaçamento entre chamadas,
// persiste em lote e emite progresso incremental. Uma única linha de execução
// por corrida: o rate limit do Bling torna busca concorrente contraproducente.
type Orchestrator struct {
	fetcher  OrderFetcher
	writer   OrderWriter
	pace     *rate.Limiter
	pageSize int
	log      zerolog.Logger
}

// NewOrchestrator constrói o orquestrador sobre os portos de leitura e escrita.
func NewOrchestrator(fetcher OrderFetcher, writer OrderWriter, cfg Config, log zerolog.Logger) *Orchestrator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PaceInterval <= 0 {
		cfg.PaceInterval = DefaultPaceInterval
	}
	return &Orchestrator{
		fetcher:  fetcher,
		writer:   writer,
		pace:     rate.NewLimiter(rate.Every(cfg.PaceInterval), 1),
		pageSize: cfg.PageSize,
		log:      log,
	}
}

// Run inicia a corrida e retorna o canal de eventos de progresso. O canal não
// tem buffer: cada evento é entregue ao consumidor antes do loop seguir, e
// nada da corrida fica acumulado em memória. O canal fecha depois do evento
// terminal (conclusão ou erro irrecuperável). Cancelar o ctx abandona a
// corrida entre pontos de suspensão; registros já commitados permanecem.
func (o *Orchestrator) Run(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		o.run(ctx, out)
	}()
	return out
}

func (o *Orchestrator) run(ctx context.Context, out chan<- Event) {
	runID := uuid.NewString()
	log := o.log.With().Str("run_id", runID).Logger()
	log.Info().Msg("sincronização de pedidos de compra iniciada")

	pagina := 1
	acumulado := Cumulative{}

	for {
		resumos, err := o.fetcher.ListPage(ctx, pagina, o.pageSize)
		if err != nil {
			// Listagem quebrada não tem recuperação por registro: encerra a
			// corrida sem evento de conclusão.
			log.Error().Err(err).Int("pagina", pagina).Msg("falha ao listar página")
			o.emit(ctx, out, RunErrorEvent{Erro: err.Error()})
			return
		}
		if len(resumos) == 0 {
			break
		}

		detalhados := make([]*entity.PurchaseOrder, 0, len(resumos))
		for _, resumo := range resumos {
			if err := o.pace.Wait(ctx); err != nil {
				return
			}
			detalhe, err := o.fetcher.GetDetail(ctx, resumo.ID)
			if err != nil {
				var authErr *domain.AuthError
				if errors.As(err, &authErr) {
					log.Error().Err(err).Msg("credenciais inutilizáveis, abortando corrida")
					o.emit(ctx, out, RunErrorEvent{Erro: err.Error()})
					return
				}
				acumulado.Erros++
				log.Warn().Err(err).Int64("pedido_id", resumo.ID).Msg("falha ao buscar detalhe")
				if !o.emit(ctx, out, FetchErrorEvent{ErroFetch: err.Error(), PedidoID: resumo.ID}) {
					return
				}
				continue
			}
			detalhados = append(detalhados, detalhe)
		}

		resultado, err := o.writer.UpsertBatch(ctx, detalhados)
		if err != nil {
			log.Error().Err(err).Int("pagina", pagina).Msg("falha ao persistir lote")
			o.emit(ctx, out, RunErrorEvent{Erro: err.Error()})
			return
		}

		acumulado.Total += resultado.Total
		acumulado.Inseridos += resultado.Inseridos
		acumulado.Erros += len(resultado.Erros)

		log.Info().
			Int("pagina", pagina).
			Int("pedidos", len(resumos)).
			Int("inseridos", resultado.Inseridos).
			Int("erros", len(resultado.Erros)).
			Msg("página processada")

		if !o.emit(ctx, out, PageEvent{
			Pagina:          pagina,
			PedidosPagina:   len(resumos),
			InseridosPagina: resultado.Inseridos,
			ErrosPagina:     len(resultado.Erros),
			Acumulado:       acumulado,
		}) {
			return
		}

		pagina++
		if err := o.pace.Wait(ctx); err != nil {
			return
		}
	}

	log.Info().
		Int("total", acumulado.Total).
		Int("inseridos", acumulado.Inseridos).
		Int("erros", acumulado.Erros).
		Msg("sincronização concluída")

	o.emit(ctx, out, DoneEvent{
		Concluido: true,
		Total:     acumulado.Total,
		Inseridos: acumulado.Inseridos,
		Erros:     acumulado.Erros,
		RunID:     runID,
	})
}

// emit entrega um evento respeitando cancelamento; retorna false se o
// consumidor sumiu antes da entrega.
func (o *Orchestrator) emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
