// Package supabase fetches objects through the Supabase storage REST API.
package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	BaseURL        string
	Bucket         string
	ServiceRoleKey string
	Timeout        time.Duration
}

type Store struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" || cfg.Bucket == "" || cfg.ServiceRoleKey == "" {
		return nil, fmt.Errorf("supabase url, bucket and service role key are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Store{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (s *Store) Fetch(ctx context.Context, path string) ([]byte, error) {
	safePath := (&url.URL{Path: strings.TrimLeft(path, "/")}).EscapedPath()
	endpoint := fmt.Sprintf("%s/storage/v1/object/authenticated/%s/%s",
		s.cfg.BaseURL, s.cfg.Bucket, safePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build storage request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ServiceRoleKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read storage response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("storage download error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
