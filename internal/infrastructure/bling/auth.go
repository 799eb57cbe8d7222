package bling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/motamarcelo/watcher-bazico/internal/domain"
	"github.com/motamarcelo/watcher-bazico/internal/domain/entity"
	"github.com/motamarcelo/watcher-bazico/internal/domain/repository"
)

// AuthClient cuida do ciclo de vida dos tokens OAuth2 do Bling: troca inicial
// do authorization code, renovação silenciosa via refresh token e anexação do
// bearer nas chamadas de recurso, com uma única re-tentativa em caso de 401.
type AuthClient struct {
	cfg        Config
	tokens     repository.TokenRepository
	httpClient *http.Client

	// now é injetável para os testes de fronteira de renovação.
	now func() time.Time
}

// NewAuthClient constrói o cliente de autenticação sobre o store de tokens.
func NewAuthClient(cfg Config, tokens repository.TokenRepository) *AuthClient {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	return &AuthClient{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		now:        time.Now,
	}
}

// AuthorizeURL monta a URL de autorização do Bling para onde o operador é
// redirecionado no início do fluxo.
func (a *AuthClient) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", a.cfg.ClientID)
	params.Set("redirect_uri", a.cfg.RedirectURI)
	params.Set("state", state)
	return a.cfg.AuthURL + "?" + params.Encode()
}

// ExchangeCode troca o authorization code por access_token + refresh_token e
// persiste o registro completo.
func (a *AuthClient) ExchangeCode(ctx context.Context, code string) (*entity.Credentials, error) {
	creds, err := a.tokenRequest(ctx, map[string]string{
		"grant_type": "authorization_code",
		"code":       code,
	})
	if err != nil {
		return nil, &domain.AuthError{Op: "exchange_code", Err: err}
	}
	return a.tokens.Save(ctx, creds)
}

// Refresh renova o access_token usando o refresh_token salvo e persiste o
// novo par. Exige autenticação prévia.
func (a *AuthClient) Refresh(ctx context.Context) (*entity.Credentials, error) {
	stored, err := a.tokens.Load(ctx)
	if err != nil {
		return nil, &domain.AuthError{Op: "refresh", Err: err}
	}
	if stored == nil {
		return nil, &domain.AuthError{Op: "refresh", Err: domain.ErrSemToken}
	}

	creds, err := a.tokenRequest(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": stored.RefreshToken,
	})
	if err != nil {
		return nil, &domain.AuthError{Op: "refresh", Err: err}
	}
	return a.tokens.Save(ctx, creds)
}

// AccessToken carrega as credenciais correntes e retorna um access token
// utilizável, renovando antes quando resta menos que a margem de segurança.
// Esta verificação no momento do uso é o único gatilho de renovação.
func (a *AuthClient) AccessToken(ctx context.Context) (string, error) {
	creds, err := a.tokens.Load(ctx)
	if err != nil {
		return "", &domain.AuthError{Op: "access_token", Err: err}
	}
	if creds == nil {
		return "", &domain.AuthError{Op: "access_token", Err: domain.ErrSemToken}
	}

	if creds.NeedsRefresh(a.now(), a.cfg.refreshMargin()) {
		creds, err = a.Refresh(ctx)
		if err != nil {
			return "", err
		}
	}
	return creds.AccessToken, nil
}

// AuthorizedGet faz um GET autenticado contra a API do Bling. Em caso de 401
// renova o token exatamente uma vez e repete a chamada; um segundo 401 é
// devolvido ao chamador sem nova tentativa (evita loop de renovação com
// credencial quebrada). O chamador é responsável por fechar o body.
func (a *AuthClient) AuthorizedGet(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	token, err := a.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := a.doGet(ctx, path, query, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	creds, err := a.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return a.doGet(ctx, path, query, creds.AccessToken)
}

func (a *AuthClient) doGet(ctx context.Context, path string, query url.Values, token string) (*http.Response, error) {
	u := a.cfg.APIBase + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("montar requisição %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp, nil
}

// tokenRequest chama o endpoint de token com a identidade do cliente em HTTP
// Basic e retorna as credenciais carimbadas com o instante da gravação.
func (a *AuthClient) tokenRequest(ctx context.Context, payload map[string]string) (*entity.Credentials, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("codificar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("montar requisição de token: %w", err)
	}
	req.SetBasicAuth(a.cfg.ClientID, a.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chamar endpoint de token: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("endpoint de token respondeu %d: %s", resp.StatusCode, respBody)
	}

	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decodificar resposta de token: %w", err)
	}
	if out.ExpiresIn == 0 {
		out.ExpiresIn = 21600
	}

	return &entity.Credentials{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
		SavedAt:      a.now().Unix(),
	}, nil
}
