// Package tower implements the upstream AAP v2 API gateway used for
// credential-type reconciliation and connectivity checks.
package tower

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/towerops/toweradmin/internal/api/metrics"
	"github.com/towerops/toweradmin/internal/core/domain"
)

const (
	pingPath            = "/api/v2/ping/"
	credentialTypesPath = "/api/v2/credential_types/"
	credentialsPath     = "/api/v2/credentials/"

	defaultTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
	maxBody        = 1 << 20
)

// Client talks to tower instances over basic auth. It satisfies
// ports.TowerGateway.
type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{httpClient: httpClient}
}

// Ping checks connectivity and credentials against an instance.
func (c *Client) Ping(ctx context.Context, url, username, password string) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	_, err := c.get(ctx, strings.TrimSuffix(url, "/")+pingPath, username, password)
	observe("ping", start, err)
	return err
}

// observe records the outcome and latency of an upstream call.
func observe(operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.TowerRequestsTotal.WithLabelValues(operation, result).Inc()
	metrics.TowerRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// CredentialTypes lists the credential types registered on an instance.
func (c *Client) CredentialTypes(ctx context.Context, inst *domain.Instance) ([]domain.CredentialType, error) {
	if inst.URL == "" || inst.Username == "" {
		return nil, fmt.Errorf("instance %s missing connection details", inst.Name)
	}

	start := time.Now()
	body, err := c.get(ctx, strings.TrimSuffix(inst.URL, "/")+credentialTypesPath, inst.Username, inst.Password)
	observe("credential_types", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch credential types from %s: %w", inst.Name, err)
	}

	var out struct {
		Results []domain.CredentialType `json:"results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse credential types from %s: %w", inst.Name, err)
	}
	return out.Results, nil
}

// CreateCredentialType registers a credential type on an instance.
func (c *Client) CreateCredentialType(ctx context.Context, inst *domain.Instance, ct domain.CredentialType) error {
	if inst.URL == "" || inst.Username == "" {
		return fmt.Errorf("instance %s missing connection details", inst.Name)
	}

	payload, err := json.Marshal(ct)
	if err != nil {
		return err
	}

	url := strings.TrimSuffix(inst.URL, "/") + credentialTypesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(inst.Username, inst.Password)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe("create_credential_type", start, err)
		return fmt.Errorf("create credential type in %s: %w", inst.Name, classify(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = statusError(resp)
		observe("create_credential_type", start, err)
		return fmt.Errorf("create credential type in %s: %w", inst.Name, err)
	}
	observe("create_credential_type", start, nil)
	return nil
}

// Credentials lists upstream credentials using the stored tower config.
func (c *Client) Credentials(ctx context.Context, cfg *domain.TowerConfig) ([]map[string]any, error) {
	start := time.Now()
	body, err := c.get(ctx, strings.TrimSuffix(cfg.BaseURL, "/")+credentialsPath, cfg.Username, cfg.Password)
	observe("credentials", start, err)
	if err != nil {
		return nil, fmt.Errorf("contacting tower: %w", err)
	}

	var out struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse tower credentials: %w", err)
	}
	return out.Results, nil
}

func (c *Client) get(ctx context.Context, url, username, password string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(username, password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// classify maps transport failures to the domain's upstream error classes.
func classify(err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrTowerTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTowerTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrTowerUnreachable, err)
}

func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ErrTowerAuthFailed
	}
	return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, resp.Request.URL.Host)
}
