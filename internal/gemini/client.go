// Package gemini is a typed client for the generative language REST
// API: file search store management, document upload, and grounded
// content generation.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the standard API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultUploadURL is the media upload endpoint.
	DefaultUploadURL = "https://generativelanguage.googleapis.com/upload/v1beta"
	// DefaultModel is the completion model used for grounded answers.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout is the network ceiling for a single call.
	DefaultTimeout = 60 * time.Second

	listPageSize = 50
	// displayNameLimit caps the upload display name length.
	displayNameLimit = 100
)

// StatusError reports a non-success HTTP response from the API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini: unexpected status %d", e.Code)
}

// IsTimeout reports whether err was caused by the network timeout
// ceiling or a cancelled/expired context.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// Config configures a Client. Zero fields fall back to the defaults.
type Config struct {
	BaseURL   string
	UploadURL string
	Model     string
	APIKey    string
	Timeout   time.Duration
}

// Client talks to the generative language API. The credential travels
// as the key query parameter on every request.
type Client struct {
	baseURL   string
	uploadURL string
	model     string
	apiKey    string
	httpc     *http.Client
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		uploadURL: strings.TrimRight(cfg.UploadURL, "/"),
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		httpc:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the configured completion model.
func (c *Client) Model() string { return c.model }

func (c *Client) endpoint(base, path string, params url.Values) string {
	params.Set("key", c.apiKey)
	return base + path + "?" + params.Encode()
}

// ListStores returns every file search store, following pagination.
func (c *Client) ListStores(ctx context.Context) ([]Store, error) {
	var stores []Store
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("pageSize", fmt.Sprint(listPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.endpoint(c.baseURL, "/fileSearchStores", params), nil)
		if err != nil {
			return nil, fmt.Errorf("gemini: list stores: %w", err)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("gemini: list stores: %w", err)
		}

		var page listStoresResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Code: resp.StatusCode}
		}
		if decodeErr != nil {
			return nil, fmt.Errorf("gemini: decode store list: %w", decodeErr)
		}

		stores = append(stores, page.FileSearchStores...)
		if page.NextPageToken == "" {
			return stores, nil
		}
		pageToken = page.NextPageToken
	}
}

// CreateStore creates a new file search store with the given display name.
func (c *Client) CreateStore(ctx context.Context, displayName string) (Store, error) {
	body, err := json.Marshal(map[string]string{"displayName": displayName})
	if err != nil {
		return Store{}, fmt.Errorf("gemini: encode create store: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(c.baseURL, "/fileSearchStores", url.Values{}), bytes.NewReader(body))
	if err != nil {
		return Store{}, fmt.Errorf("gemini: create store: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Store{}, fmt.Errorf("gemini: create store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Store{}, &StatusError{Code: resp.StatusCode}
	}

	var store Store
	if err := json.NewDecoder(resp.Body).Decode(&store); err != nil {
		return Store{}, fmt.Errorf("gemini: decode created store: %w", err)
	}
	if store.DisplayName == "" {
		store.DisplayName = displayName
	}
	return store, nil
}

// UploadFile pushes one document into a store. The display name is the
// filename stem, capped at 100 characters. 200 and 202 both count as
// accepted.
func (c *Client) UploadFile(ctx context.Context, storeID, filename string, content []byte) error {
	stem := strings.TrimSuffix(filename, ".md")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(map[string]string{"displayName": truncate(stem, displayNameLimit)})
	if err != nil {
		return fmt.Errorf("gemini: encode upload metadata: %w", err)
	}
	if err := w.WriteField("metadata", string(meta)); err != nil {
		return fmt.Errorf("gemini: write metadata field: %w", err)
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", "text/markdown")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return fmt.Errorf("gemini: create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("gemini: write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gemini: finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(c.uploadURL, "/"+storeID+":uploadToFileSearchStore", url.Values{}), &buf)
	if err != nil {
		return fmt.Errorf("gemini: upload: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("gemini: upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// truncate caps s at n characters (runes, not bytes).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
