package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"todolist/internal/model"
)

var (
	// ErrNetwork covers transport failures, timeouts and non-2xx replies.
	ErrNetwork = errors.New("remote fetch failed")
	// ErrDecode is returned when the payload is not the expected JSON.
	ErrDecode = errors.New("remote payload invalid")
)

// RemoteSource provides the read-only seed list.
type RemoteSource interface {
	FetchTodos(ctx context.Context) ([]model.RemoteTodo, error)
}

// HTTPSource fetches the seed list over HTTP(S).
type HTTPSource struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPSource(url string, timeout time.Duration, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{url: url, client: client, timeout: timeout}
}

func (s *HTTPSource) FetchTodos(ctx context.Context) ([]model.RemoteTodo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %s", ErrNetwork, resp.Status)
	}

	var payload model.RemoteTodoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if payload.Todos == nil {
		return nil, fmt.Errorf("%w: missing todos field", ErrDecode)
	}
	return payload.Todos, nil
}
