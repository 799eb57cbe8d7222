package auth

import (
	"context"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
	"github.com/motamarcelo/watcher-bazico/internal/domain/repository"
)

// Authorizer porto do fluxo OAuth2 do Bling consumido pelos handlers HTTP.
type Authorizer interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*entity.Credentials, error)
}

// UseCase expõe as operações de autenticação da borda HTTP: início do fluxo,
// conclusão com o code e consulta de estado.
type UseCase struct {
	authorizer Authorizer
	tokens     repository.TokenRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(authorizer Authorizer, tokens repository.TokenRepository) *UseCase {
	return &UseCase{authorizer: authorizer, tokens: tokens}
}

// BeginURL retorna a URL de autorização para onde o operador deve ser
// redirecionado.
func (uc *UseCase) BeginURL(state string) string {
	return uc.authorizer.AuthorizeURL(state)
}

// Complete troca o authorization code por tokens e retorna a janela de
// validade em segundos.
func (uc *UseCase) Complete(ctx context.Context, code string) (int64, error) {
	creds, err := uc.authorizer.ExchangeCode(ctx, code)
	if err != nil {
		return 0, err
	}
	return creds.ExpiresIn, nil
}

// Authenticated informa se existe registro de credenciais salvo. Não valida
// expiração: ausente e expirado são estados distintos.
func (uc *UseCase) Authenticated(ctx context.Context) (bool, error) {
	creds, err := uc.tokens.Load(ctx)
	if err != nil {
		return false, err
	}
	return creds != nil, nil
}
