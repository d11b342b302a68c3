package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
)

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in your backend-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
	fail        Failure
}

// NewBaseAdapter creates a new base adapter. Failed calls are reported
// through fail.
func NewBaseAdapter(client *clients.Client, serviceName string, fail Failure) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
		fail:        fail,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the backend.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Fail builds this adapter's domain error for reason.
func (a *BaseAdapter) Fail(reason string) error {
	return a.fail(a.serviceName, reason)
}

// Get performs a GET request and returns the response body (caller must close).
// On failure, returns a mapped domain error.
func (a *BaseAdapter) Get(ctx context.Context, path string, query url.Values, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path, query)

	return a.handle(resp, err, operation)
}

// PostJSON performs a JSON POST request and returns the response body.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, body any, operation string) (io.ReadCloser, error) {
	resp, err := a.client.PostJSON(ctx, path, body)

	return a.handle(resp, err, operation)
}

// PostForm performs a form POST request and returns the response body.
func (a *BaseAdapter) PostForm(ctx context.Context, path string, form url.Values, operation string) (io.ReadCloser, error) {
	resp, err := a.client.PostForm(ctx, path, form)

	return a.handle(resp, err, operation)
}

func (a *BaseAdapter) handle(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, a.fail)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation, a.fail)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// Mapper converts one external DTO to a domain value, validating it.
type Mapper[External any, Domain any] func(ext *External) (Domain, error)

// MapSlice applies a mapper to a slice of external DTOs.
// If any conversion fails, returns the first error encountered.
func MapSlice[E any, D any](items []E, mapper Mapper[E, D]) ([]D, error) {
	result := make([]D, 0, len(items))

	for i := range items {
		mapped, err := mapper(&items[i])
		if err != nil {
			return nil, fmt.Errorf("mapping item %d: %w", i, err)
		}

		result = append(result, mapped)
	}

	return result, nil
}
