// Package netx holds the HTTP helper shared by the rate providers.
package netx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// UserAgent identifies ValutaTrade to remote APIs.
const UserAgent = "ValutaTrade/1.0"

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// GetJSON performs a GET on url and decodes the JSON body into v. Any status
// other than 200 is an error carrying the status and a snippet of the body.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: snippet(body)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// StatusError is a non-200 response.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "http " + e.Status
	}
	return fmt.Sprintf("http %s; body: %s", e.Status, e.Body)
}

func snippet(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
