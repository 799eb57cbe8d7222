package repository

import (
	"context"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
)

// TokenRepository define o porto de persistência do registro único de tokens
// OAuth2 (single-tenant: um conjunto de credenciais por vez).
type TokenRepository interface {
	// Load retorna as credenciais salvas, ou (nil, nil) se nunca houve
	// autenticação. Ausente não é o mesmo que expirado.
	Load(ctx context.Context) (*entity.Credentials, error)
	// Save grava o registro completo de forma atômica e o retorna inalterado.
	Save(ctx context.Context, creds *entity.Credentials) (*entity.Credentials, error)
}
