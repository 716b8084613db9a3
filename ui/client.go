package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/status"
)

// APIClient reads from a running daemon's JSON API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the daemon listening on port. It always
// connects to 127.0.0.1.
func NewAPIClient(port int) *APIClient {
	return newAPIClient(fmt.Sprintf("http://127.0.0.1:%d", port))
}

func newAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

func (c *APIClient) GetServerInfo() (*backend.ServerDeviceInfo, error) {
	var v backend.ServerDeviceInfo
	if err := c.get("/server", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *APIClient) GetStatus() (*status.State, error) {
	var v status.State
	if err := c.get("/status", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *APIClient) get(path string, v any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("[ui] failed to close response body for %s", path)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decode failed: %w", path, err)
	}
	return nil
}
