package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avolkova/glucolog/internal/api"
	"github.com/avolkova/glucolog/internal/client/models"
	"github.com/avolkova/glucolog/internal/common"
)

// HTTPClient implements Client over the server's JSON API. It holds the
// session token pair and transparently refreshes it once when the server
// answers 401 with an expired-token body, then retries the request.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	// mu guards the token pair: the online-status watcher pings from its
	// own goroutine while the REPL signs in or refreshes.
	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// onTokensRefreshed, when set, is called after a successful token
	// rotation so the session layer can persist the new pair.
	onTokensRefreshed func(Tokens)
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 12 * time.Second},
	}
}

// RestoreTokens installs a token pair loaded from the local cache.
func (c *HTTPClient) RestoreTokens(t Tokens) {
	c.setTokens(t.AccessToken, t.RefreshToken)
}

// CurrentTokens returns the live token pair for persisting.
func (c *HTTPClient) CurrentTokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tokens{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

func (c *HTTPClient) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

// OnTokensRefreshed registers a callback invoked after token rotation.
func (c *HTTPClient) OnTokensRefreshed(fn func(Tokens)) {
	c.onTokensRefreshed = fn
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.status, e.msg)
}

// do sends one request with the current access token and decodes the
// response into out (when out is non-nil and the status is 2xx).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access := c.CurrentTokens().AccessToken; access != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var e api.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	return &apiError{status: resp.StatusCode, msg: e.Error}
}

// call wraps do with the expired-token dance: on 401 "token expired" the
// refresh token is spent on a new pair and the request retried once.
func (c *HTTPClient) call(ctx context.Context, method, path string, in, out any) error {
	err := c.do(ctx, method, path, in, out)
	if err == nil {
		return nil
	}

	ae, ok := err.(*apiError)
	if !ok {
		return err
	}
	if ae.status != http.StatusUnauthorized || ae.msg != "token expired" || c.CurrentTokens().RefreshToken == "" {
		return c.mapError(ae)
	}

	if err := c.refresh(ctx); err != nil {
		return err
	}

	if err := c.do(ctx, method, path, in, out); err != nil {
		if ae, ok := err.(*apiError); ok {
			return c.mapError(ae)
		}
		return err
	}
	return nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	var resp api.RefreshResponse
	req := api.RefreshRequest{RefreshToken: c.CurrentTokens().RefreshToken}
	err := c.do(ctx, http.MethodPost, "/api/refresh", req, &resp)
	if err != nil {
		if ae, ok := err.(*apiError); ok {
			return c.mapError(ae)
		}
		return err
	}

	c.setTokens(resp.AccessToken, resp.RefreshToken)
	if c.onTokensRefreshed != nil {
		c.onTokensRefreshed(Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	}
	return nil
}

func (c *HTTPClient) mapError(e *apiError) error {
	switch e.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("api error: %w", e)
	}
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	return c.call(ctx, http.MethodPost, "/api/register", api.RegisterRequest{Email: email, Password: password}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Identity, error) {
	var resp api.LoginResponse
	err := c.call(ctx, http.MethodPost, "/api/login", api.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	c.setTokens(resp.AccessToken, resp.RefreshToken)

	return &Identity{UserID: resp.UserID, Email: resp.Email, Name: resp.Name}, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.setTokens("", "")
	return err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.call(ctx, http.MethodGet, "/api/ping", nil, nil)
}

func entryFromWire(e api.Entry) *models.Entry {
	return &models.Entry{
		ID:      e.ID,
		Date:    e.Date,
		Time:    e.Time,
		Sugar:   e.Sugar,
		Insulin: e.Insulin,
		Type:    e.Type,
		Food:    e.Food,
	}
}

func entryToWire(e *models.Entry) api.Entry {
	return api.Entry{
		ID:      e.ID,
		Date:    e.Date,
		Time:    e.Time,
		Sugar:   e.Sugar,
		Insulin: e.Insulin,
		Type:    e.Type,
		Food:    e.Food,
	}
}

func (c *HTTPClient) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	var resp []api.Entry
	if err := c.call(ctx, http.MethodGet, "/api/entries", nil, &resp); err != nil {
		return nil, err
	}

	result := make([]*models.Entry, 0, len(resp))
	for _, e := range resp {
		result = append(result, entryFromWire(e))
	}
	return result, nil
}

func (c *HTTPClient) InsertEntry(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	var resp api.Entry
	if err := c.call(ctx, http.MethodPost, "/api/entries", entryToWire(entry), &resp); err != nil {
		return nil, err
	}
	return entryFromWire(resp), nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, id string, patch EntryPatch) error {
	wire := api.EntryPatch{
		Time:    patch.Time,
		Sugar:   patch.Sugar,
		Insulin: patch.Insulin,
		Type:    patch.Type,
		Food:    patch.Food,
	}
	return c.call(ctx, http.MethodPatch, "/api/entries/"+id, wire, nil)
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/entries/"+id, nil, nil)
}

func favoriteFromWire(f api.Favorite) *models.Favorite {
	return &models.Favorite{
		ID:    f.ID,
		Code:  f.Code,
		Name:  f.Name,
		Image: f.Image,
		Carbs: f.Carbs,
		Info:  f.Info,
	}
}

func (c *HTTPClient) ListFavorites(ctx context.Context) ([]*models.Favorite, error) {
	var resp []api.Favorite
	if err := c.call(ctx, http.MethodGet, "/api/favorites", nil, &resp); err != nil {
		return nil, err
	}

	result := make([]*models.Favorite, 0, len(resp))
	for _, f := range resp {
		result = append(result, favoriteFromWire(f))
	}
	return result, nil
}

func (c *HTTPClient) InsertFavorite(ctx context.Context, favorite *models.Favorite) (*models.Favorite, error) {
	wire := api.Favorite{
		Code:  favorite.Code,
		Name:  favorite.Name,
		Image: favorite.Image,
		Carbs: favorite.Carbs,
		Info:  favorite.Info,
	}

	var resp api.Favorite
	if err := c.call(ctx, http.MethodPost, "/api/favorites", wire, &resp); err != nil {
		return nil, err
	}
	return favoriteFromWire(resp), nil
}

func (c *HTTPClient) DeleteFavorite(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/favorites/"+id, nil, nil)
}

func (c *HTTPClient) UpdateProfileName(ctx context.Context, name string) error {
	return c.call(ctx, http.MethodPut, "/api/profile", api.ProfileRequest{Name: name}, nil)
}

func (c *HTTPClient) PhotoUploadURL(ctx context.Context) (string, error) {
	var resp api.PhotoURLResponse
	if err := c.call(ctx, http.MethodGet, "/api/photo/upload-url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *HTTPClient) PhotoDownloadURL(ctx context.Context) (string, error) {
	var resp api.PhotoURLResponse
	if err := c.call(ctx, http.MethodGet, "/api/photo/download-url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
