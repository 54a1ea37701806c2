// Package pinning publishes report artifacts to a content-addressed pinning
// service and reads them back through its gateway.
package pinning

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"medguard-ai/internal/contextutil"
)

var (
	// ErrNotConfigured is returned in production when pinning credentials
	// are missing.
	ErrNotConfigured = errors.New("pinning service not configured")
	// ErrUpstream wraps failures reported by the pinning service or gateway.
	ErrUpstream = errors.New("pinning service error")
)

// Artifact is the result of a publish call. Success implies a non-empty
// Hash and URL.
type Artifact struct {
	Hash      string `json:"hash"`
	URL       string `json:"url"`
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated"`
}

// Config holds the pinning client settings.
type Config struct {
	APIKey     string
	APISecret  string
	APIURL     string
	GatewayURL string
	// Production disables the simulated fallback.
	Production bool
}

// Client talks to the Pinata pinning API.
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// NewClient creates a new pinning client.
func NewClient(cfg Config) *Client {
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.GatewayURL = strings.TrimRight(cfg.GatewayURL, "/")
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		now:    time.Now,
	}
}

// Configured reports whether API credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.APISecret != ""
}

// GatewayURL returns the public URL of a pinned hash.
func (c *Client) GatewayURL(hash string) string {
	return c.cfg.GatewayURL + "/" + hash
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinMetadata struct {
	Name string `json:"name"`
}

// PinFile uploads a file, typically a rendered PDF report.
func (c *Client) PinFile(ctx context.Context, fileName string, data []byte) (Artifact, error) {
	return c.pin(ctx, "file", func() (*http.Request, error) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)

		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write form file: %w", err)
		}

		meta, err := json.Marshal(pinMetadata{Name: fmt.Sprintf("MedGuardAI_File_%d", c.now().UnixMilli())})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
			return nil, fmt.Errorf("failed to write metadata field: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to close multipart body: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL+"/pinning/pinFileToIPFS", &body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	})
}

// PinJSON uploads a JSON document. content must marshal to JSON.
func (c *Client) PinJSON(ctx context.Context, content any) (Artifact, error) {
	return c.pin(ctx, "json", func() (*http.Request, error) {
		payload := struct {
			PinataContent  any         `json:"pinataContent"`
			PinataMetadata pinMetadata `json:"pinataMetadata"`
		}{
			PinataContent:  content,
			PinataMetadata: pinMetadata{Name: fmt.Sprintf("MedGuardAI_Record_%d", c.now().UnixMilli())},
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal content: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// pin runs a pin request with the credential check and simulated fallback
// shared by both upload kinds.
func (c *Client) pin(ctx context.Context, kind string, build func() (*http.Request, error)) (Artifact, error) {
	logger := contextutil.LoggerFromContext(ctx).With("pin_kind", kind)

	if !c.Configured() {
		if c.cfg.Production {
			return Artifact{}, ErrNotConfigured
		}
		logger.WarnContext(ctx, "pinning credentials missing, using simulated artifact")
		return c.simulated()
	}

	req, err := build()
	if err != nil {
		return Artifact{}, err
	}
	req.Header.Set("pinata_api_key", c.cfg.APIKey)
	req.Header.Set("pinata_secret_api_key", c.cfg.APISecret)

	start := time.Now()
	hash, err := c.do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Artifact{}, ctx.Err()
		}
		if c.cfg.Production {
			logger.ErrorContext(ctx, "pin request failed", "error", err)
			return Artifact{}, err
		}
		logger.WarnContext(ctx, "pin request failed, using simulated artifact", "error", err)
		return c.simulated()
	}

	logger.DebugContext(ctx, "pinned artifact", "hash", hash, "duration_ms", time.Since(start).Milliseconds())
	return Artifact{Hash: hash, URL: c.GatewayURL(hash), Success: true}, nil
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error any `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
			return "", fmt.Errorf("%w: status %d: %v", ErrUpstream, resp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var pr pinResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	if pr.IpfsHash == "" {
		return "", fmt.Errorf("%w: response carried no hash", ErrUpstream)
	}
	return pr.IpfsHash, nil
}

// simulated fabricates an artifact shaped like a CIDv0: "Qm" plus 44 hex
// characters.
func (c *Client) simulated() (Artifact, error) {
	buf := make([]byte, 22)
	if _, err := rand.Read(buf); err != nil {
		return Artifact{}, fmt.Errorf("failed to generate simulated hash: %w", err)
	}
	hash := "Qm" + hex.EncodeToString(buf)
	return Artifact{Hash: hash, URL: c.GatewayURL(hash), Success: true, Simulated: true}, nil
}

// Fetch reads pinned content back through the gateway.
func (c *Client) Fetch(ctx context.Context, hash string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GatewayURL(hash), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to fetch %s: %v", ErrUpstream, hash, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: gateway returned status %d for %s", ErrUpstream, resp.StatusCode, hash)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read gateway response: %v", ErrUpstream, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
