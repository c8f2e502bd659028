package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sweethut/storefront/internal/domain"
)

// HTTPProvider talks to the hosted identity service over its REST API
// (password-grant token endpoint plus signup/logout/user endpoints).
// It keeps the access token of the one active session.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu    sync.Mutex
	token string
}

func NewHTTPProvider(baseURL, apiKey string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var resp tokenResponse
	err := p.post(ctx, "/auth/v1/token?grant_type=password", credentialsBody{email, password}, &resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.token = resp.AccessToken
	p.mu.Unlock()

	return &domain.User{ID: resp.User.ID, Email: resp.User.Email}, nil
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	var resp tokenResponse
	err := p.post(ctx, "/auth/v1/signup", credentialsBody{email, password}, &resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.token = resp.AccessToken
	p.mu.Unlock()

	return &domain.User{ID: resp.User.ID, Email: resp.User.Email}, nil
}

func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token == "" {
		return nil
	}

	if err := p.post(ctx, "/auth/v1/logout", nil, nil); err != nil {
		return err
	}

	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
	return nil
}

func (p *HTTPProvider) Session(ctx context.Context) (*domain.User, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token == "" {
		return nil, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	p.setHeaders(req, token)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, ErrNoSession
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session lookup returned status %d", res.StatusCode)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}

	return &domain.User{ID: user.ID, Email: user.Email}, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	p.setHeaders(req, token)

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity request failed: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusBadRequest || res.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case res.StatusCode >= 300:
		return fmt.Errorf("identity service returned status %d", res.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode identity response: %w", err)
		}
	}
	return nil
}

func (p *HTTPProvider) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
