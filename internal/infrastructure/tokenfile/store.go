package tokenfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
	"github.com/motamarcelo/watcher-bazico/internal/domain/repository"
)

var _ repository.TokenRepository = (*Store)(nil)

// Store persiste o registro único de tokens do Bling em um arquivo JSON,
// separado do warehouse. A escrita é atômica (arquivo temporário + rename):
// um leitor nunca observa um registro pela metade.
type Store struct {
	path string
}

// New constrói o store apontando para o arquivo de tokens (ex.: bling_tokens.json).
func New(path string) *Store {
	return &Store{path: path}
}

// Load lê as credenciais salvas. Arquivo inexistente significa "nunca
// autenticado" e retorna (nil, nil).
func (s *Store) Load(ctx context.Context) (*entity.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ler arquivo de tokens: %w", err)
	}
	var creds entity.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decodificar tokens: %w", err)
	}
	return &creds, nil
}

// Save grava o registro completo e o retorna inalterado.
func (s *Store) Save(ctx context.Context, creds *entity.Credentials) (*entity.Credentials, error) {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codificar tokens: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".bling_tokens-*")
	if err != nil {
		return nil, fmt.Errorf("criar arquivo temporário: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("gravar tokens: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("fechar arquivo temporário: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return nil, fmt.Errorf("substituir arquivo de tokens: %w", err)
	}
	return creds, nil
}
