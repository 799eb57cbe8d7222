package domain

import (
	"errors"
	"fmt"
)

// Erros de domínio (sem dependências externas).
var (
	// ErrSemToken indica que nunca houve autenticação: não existe registro de
	// credenciais salvo. Estado distinto de "token expirado".
	ErrSemToken = errors.New("nenhum token salvo")
)

// AuthError falha de autenticação OAuth2: credenciais ausentes ou o endpoint de
// token rejeitou a troca/renovação. Fatal para a operação corrente; não é
// re-tentado além da tentativa em andamento.
type AuthError struct {
	Op  string // "exchange_code", "refresh", "access_token"
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth bling (%s): %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteError resposta não-2xx da API do Bling depois de esgotada a única
// re-tentativa autorizada. Registrado por pedido; nunca aborta a sincronização.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("bling respondeu %d: %s", e.Status, e.Body)
}
