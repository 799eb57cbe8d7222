package entity

import "time"

// Credentials guarda o par de tokens OAuth2 do Bling junto com a janela de validade.
// O registro é sempre gravado por inteiro: cada renovação substitui todos os campos.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // segundos de validade a partir de SavedAt
	SavedAt      int64  `json:"saved_at"`   // unix timestamp do momento da gravação
}

// ExpiresAt retorna o instante de expiração dura (saved_at + expires_in).
func (c *Credentials) ExpiresAt() time.Time {
	return time.Unix(c.SavedAt+c.ExpiresIn, 0)
}

// NeedsRefresh indica se o token deve ser renovado antes de usar: restando menos
// que a margem de segurança, renova. A comparação replica o gatilho único de
// renovação (não há timer em background).
func (c *Credentials) NeedsRefresh(now time.Time, margin time.Duration) bool {
	return now.Unix()-c.SavedAt >= c.ExpiresIn-int64(margin/time.Second)
}
