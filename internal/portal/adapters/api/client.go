// Package api содержит HTTP клиент REST API маркетплейса.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	domainerrors "classbook/internal/portal/domain/errors"
	"classbook/internal/portal/ports/storage"
	"classbook/pkg/logger"
)

// Константы для логирования.
const (
	LogRequestDispatched = "api request dispatched"
	LogRequestCompleted  = "api request completed"
	LogRequestFailed     = "api request failed"

	ErrorBuildRequest = "failed to build request"
	ErrorEncodeBody   = "failed to encode request body"
	ErrorReadResponse = "failed to read response body"
	ErrorDecodeBody   = "failed to decode response body"
	ErrorInterceptor  = "request interceptor failed"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// RequestInterceptor изменяет запрос перед отправкой.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// BearerInterceptor добавляет access токен из хранилища как Bearer credential.
// Без токена запрос уходит неаутентифицированным.
func BearerInterceptor(store storage.TokenStore) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		creds, ok := store.Read(ctx)
		if !ok {
			return nil
		}
		req.Header.Set(headerAuthorization, bearerPrefix+creds.AccessToken)
		return nil
	}
}

// Client - HTTP клиент с фиксированным базовым URL.
// Он не обновляет токены, не повторяет запросы и ничего не кэширует.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	interceptors []RequestInterceptor
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задает нижележащий http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout задает таймаут одного запроса. Ноль - без таймаута.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithInterceptor добавляет перехватчик запросов.
func WithInterceptor(interceptor RequestInterceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, interceptor) }
}

// NewClient создает клиент для baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response - ответ API без изменений.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode разбирает тело ответа как JSON.
func (r *Response) Decode(out any) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("%s: %w", ErrorDecodeBody, err)
	}
	return nil
}

// Get выполняет GET запрос.
func (c *Client) Get(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post выполняет POST запрос.
func (c *Client) Post(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put выполняет PUT запрос.
func (c *Client) Put(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch выполняет PATCH запрос.
func (c *Client) Patch(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete выполняет DELETE запрос.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do отправляет запрос. body может быть nil, *MultipartForm или любым значением для JSON.
// Ответ вне диапазона 2xx возвращается как *Error вместе с Response.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (*Response, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("path", path))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorEncodeBody, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorBuildRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, intercept := range c.interceptors {
		if err := intercept(ctx, req); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrorInterceptor, err)
		}
	}

	log.Debug(ctx, LogRequestDispatched, zap.Bool("authenticated", req.Header.Get(headerAuthorization) != ""))

	started := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, LogRequestFailed, zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, domainerrors.ErrNetwork, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s: %w", method, path, domainerrors.ErrNetwork, ErrorReadResponse, err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}

	log.Debug(ctx, LogRequestCompleted,
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, newError(method, path, resp)
	}

	if err := resp.Decode(out); err != nil {
		return resp, err
	}
	return resp, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartForm:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
