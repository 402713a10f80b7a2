package esimaccess

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

	"github.com/google/uuid"
)

const (
	packageListPath = "/api/v1/open/package/list"
	maxBodyBytes    = 64 << 20
)

// Client calls the eSIM Access open API.
type Client struct {
	cfg        Config
	HTTPClient *http.Client

	now   func() time.Time
	newID func() string
}

// PackageList is the result of a catalog fetch.
type PackageList struct {
	Packages []Package
	// Raw is the undecoded response body, archived as the run snapshot.
	Raw []byte
}

// NewClient creates a client for the configured account.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// ListPackages fetches the package catalog. An empty location code falls back to the
// configured one.
func (c *Client) ListPackages(ctx context.Context, q Query) (*PackageList, error) {
	if q.LocationCode == "" {
		q.LocationCode = c.cfg.LocationCode
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode package query: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + packageListPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newFetchError(ErrorTransport, 0, "", "failed to build request", err)
	}

	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	requestID := c.newID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RT-AccessCode", c.cfg.AccessCode)
	req.Header.Set("RT-RequestID", requestID)
	req.Header.Set("RT-Timestamp", timestamp)
	req.Header.Set("RT-Signature", Sign(c.cfg.SecretKey, timestamp, requestID, c.cfg.AccessCode, body))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, newFetchError(ErrorTransport, 0, "", "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newFetchError(ErrorTransport, resp.StatusCode, "", "failed to read body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newFetchError(ErrorStatus, resp.StatusCode, "", truncate(string(raw), 256), nil)
	}

	packages, err := DecodePackageList(raw)
	if err != nil {
		return nil, err
	}
	return &PackageList{Packages: packages, Raw: raw}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
