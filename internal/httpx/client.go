package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

// Client is a small JSON-over-HTTP helper shared by the info and exchange
// clients. Retries are opt-in per client: the exchange dispatcher always
// runs with retries=0 because a signed action must be posted exactly once.
type Client struct {
	httpClient *http.Client
	retries    int
	userAgent  string
}

func New(timeout time.Duration, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		userAgent:  "hypectl/" + "0.2.0",
	}
}

// PostJSON marshals body, posts it, and decodes the response into out.
// The raw response bytes are returned even on non-2xx statuses so callers
// can surface the exchange payload verbatim.
func (c *Client) PostJSON(ctx context.Context, url string, body any, out any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "encode request body", err)
	}

	var lastErr error
	var lastRaw []byte
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, clierr.Wrap(clierr.CodeRemote, "request cancelled", ctx.Err())
			case <-time.After(backoff(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeInternal, "build request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = mapNetError(err)
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = clierr.Wrap(clierr.CodeRemote, "read response", readErr)
			lastRaw = nil
			continue
		}
		lastRaw = raw

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = clierr.Newf(clierr.CodeRemote, "exchange returned status %d: %s", resp.StatusCode, truncate(raw, 512))
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				continue
			}
			return raw, lastErr
		}

		if out != nil {
			if len(bytes.TrimSpace(raw)) == 0 {
				return raw, clierr.New(clierr.CodeRemote, "exchange returned empty response")
			}
			if err := json.Unmarshal(raw, out); err != nil {
				return raw, clierr.Wrap(clierr.CodeRemote, "decode response JSON", err)
			}
		}
		return raw, nil
	}

	if lastErr != nil {
		return lastRaw, lastErr
	}
	return lastRaw, clierr.New(clierr.CodeRemote, "request failed")
}

func mapNetError(err error) error {
	var netErr net.Error
	if ok := asNetError(err, &netErr); ok && netErr.Timeout() {
		return clierr.Wrap(clierr.CodeRemote, "request timed out", err)
	}
	return clierr.Wrap(clierr.CodeRemote, "network error", err)
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func backoff(attempt int) time.Duration {
	base := time.Duration(attempt) * 250 * time.Millisecond
	jitter := time.Duration(rand.Intn(100)) * time.Millisecond
	return base + jitter
}

func truncate(raw []byte, limit int) string {
	s := string(bytes.TrimSpace(raw))
	if len(s) > limit {
		return fmt.Sprintf("%s... (%d bytes)", s[:limit], len(s))
	}
	return s
}
