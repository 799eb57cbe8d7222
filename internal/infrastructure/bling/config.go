package bling

import "time"

// URLs padrão da API v3 do Bling.
const (
	DefaultAuthURL  = "https://www.bling.com.br/Api/v3/oauth/authorize"
	DefaultTokenURL = "https://www.bling.com.br/Api/v3/oauth/token"
	DefaultAPIBase  = "https://www.bling.com.br/Api/v3"

	// DefaultRefreshMargin margem de segurança antes da expiração dura: com
	// menos de 5 minutos restando, o token é renovado antes do uso.
	DefaultRefreshMargin = 300 * time.Second
)

// Config identidade de cliente e endpoints do Bling, injetados na construção
// (nada de estado de processo: múltiplos conjuntos de credenciais podem ser
// testados em isolamento).
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	APIBase      string
	// RefreshMargin sobrescreve DefaultRefreshMargin quando > 0.
	RefreshMargin time.Duration
	// Timeout das chamadas HTTP; 30s quando zero.
	Timeout time.Duration
}

func (c Config) refreshMargin() time.Duration {
	if c.RefreshMargin > 0 {
		return c.RefreshMargin
	}
	return DefaultRefreshMargin
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}
