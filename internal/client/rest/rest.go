// Package rest is the bearer-authenticated resource client for the admin
// API. Every request carries the stored token; list responses are
// normalized into plain slices regardless of the wire shape.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/towerops/toweradmin/internal/client/tokenstore"
	"github.com/towerops/toweradmin/internal/core/domain"
)

const (
	defaultTimeout = 20 * time.Second
	maxBody        = 1 << 20
)

// APIError is a non-2xx response from the admin API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Client talks to the admin API using the token store's current token.
type Client struct {
	baseURL    string
	store      tokenstore.Store
	httpClient *http.Client
}

func NewClient(baseURL string, store tokenstore.Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		store:      store,
		httpClient: httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.store.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return respBody, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse api response: %w", err)
	}
	return nil
}

// decodeList accepts both list shapes the API emits, a bare JSON array and
// a {"results": [...]} envelope, and returns one canonical slice.
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to parse list response: %w", err)
		}
		return items, nil
	}
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}
	return wrapped.Results, nil
}

func listResource[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](body)
}

// --- Instances ---

// InstancePayload is the create/update body for instances. Unlike the
// domain type it serializes the password, which the read shapes never do.
type InstancePayload struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	Region      string `json:"region,omitempty"`
	Environment string `json:"environment,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (c *Client) Instances(ctx context.Context) ([]domain.Instance, error) {
	return listResource[domain.Instance](ctx, c, "/api/instances/")
}

func (c *Client) CreateInstance(ctx context.Context, in InstancePayload) (*domain.Instance, error) {
	var out domain.Instance
	if err := c.doJSON(ctx, http.MethodPost, "/api/instances/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInstance(ctx context.Context, id string, in InstancePayload) (*domain.Instance, error) {
	var out domain.Instance
	if err := c.doJSON(ctx, http.MethodPut, "/api/instances/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInstance(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/instances/"+id+"/", nil, nil)
}

// --- Credentials ---

type CredentialPayload struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	InstanceID string `json:"instance_id,omitempty"`
}

func (c *Client) Credentials(ctx context.Context) ([]domain.Credential, error) {
	return listResource[domain.Credential](ctx, c, "/api/credentials/")
}

func (c *Client) CreateCredential(ctx context.Context, in CredentialPayload) (*domain.Credential, error) {
	var out domain.Credential
	if err := c.doJSON(ctx, http.MethodPost, "/api/credentials/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCredential(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/credentials/"+id+"/", nil, nil)
}

// --- Environments ---

func (c *Client) Environments(ctx context.Context) ([]domain.Environment, error) {
	return listResource[domain.Environment](ctx, c, "/api/environments/")
}

func (c *Client) CreateEnvironment(ctx context.Context, in domain.Environment) (*domain.Environment, error) {
	var out domain.Environment
	if err := c.doJSON(ctx, http.MethodPost, "/api/environments/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEnvironment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/environments/"+id+"/", nil, nil)
}

// --- Users ---

// UserPayload is the create/update body for admin user management.
type UserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	return listResource[domain.User](ctx, c, "/api/users/")
}

func (c *Client) CreateUser(ctx context.Context, in UserPayload) (*domain.User, error) {
	var out domain.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/users/"+id+"/", nil, nil)
}

// --- Credential types ---

func (c *Client) CredentialTypeStatus(ctx context.Context) ([]domain.CredentialTypeStatus, error) {
	return listResource[domain.CredentialTypeStatus](ctx, c, "/api/credential-type-status/")
}

func (c *Client) DuplicateCredentialType(ctx context.Context, name, description string, missingIn []string) ([]domain.DuplicationResult, error) {
	body := map[string]any{
		"name":                 name,
		"description":          description,
		"missing_in_instances": missingIn,
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/duplicate-credential-type/", body)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.DuplicationResult](raw)
}

func (c *Client) VerifyCredentialType(ctx context.Context, originalName, alternativeName string, missingIn []string) ([]domain.VerificationResult, error) {
	body := map[string]any{
		"original_name":        originalName,
		"alternative_name":     alternativeName,
		"missing_in_instances": missingIn,
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/verify-credential-type/", body)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.VerificationResult](raw)
}

// --- Audit logs ---

func (c *Client) AuditLogs(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	path := "/api/audit-logs/"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	return listResource[domain.AuditEntry](ctx, c, path)
}

// --- Tower connection and config ---

func (c *Client) TestConnection(ctx context.Context, url, username, password string) error {
	body := map[string]string{"url": url, "username": username, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/test-connection/", body, nil)
}

func (c *Client) TowerCredentials(ctx context.Context) ([]map[string]any, error) {
	return listResource[map[string]any](ctx, c, "/api/tower-credentials/")
}

func (c *Client) Config(ctx context.Context) (*domain.TowerConfig, error) {
	var out domain.TowerConfig
	if err := c.doJSON(ctx, http.MethodGet, "/api/config/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfigPayload carries the password the read shape withholds. An empty
// password keeps the one already stored server-side.
type ConfigPayload struct {
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

func (c *Client) SaveConfig(ctx context.Context, cfg ConfigPayload) (*domain.TowerConfig, error) {
	var out domain.TowerConfig
	if err := c.doJSON(ctx, http.MethodPost, "/api/config/", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
