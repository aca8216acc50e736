// Package backend содержит типизированный HTTP-клиент бэкенда организации:
// конверт {status, message, data}, bearer-токен сессии, ошибки по таксономии.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	clientTypeHeader = "X-Client-Type"
	clientType       = "desktop"
	maxBody          = 8 << 20
)

// TokenSource отдаёт access-токен текущей сессии ("": не вошли).
type TokenSource interface {
	AccessToken() string
}

type TokenFunc func() string

func (f TokenFunc) AccessToken() string { return f() }

// Envelope: общий конверт ответов бэкенда.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    TokenSource
	Transport http.RoundTripper
	Logger    *logrus.Entry
}

type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	log    *logrus.Entry
}

func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http(s), got %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	tr := opts.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	if opts.Tokens == nil {
		opts.Tokens = TokenFunc(func() string { return "" })
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		base: u,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(tr),
		},
		tokens: opts.Tokens,
		log:    opts.Logger,
	}, nil
}

func (c *Client) BaseURL() string { return c.base.String() }

// resolve склеивает путь с базой; абсолютные URL и выход за базу запрещены.
func (c *Client) resolve(path string, query url.Values) (string, error) {
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return "", fmt.Errorf("backend path must be relative: %q", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return "", fmt.Errorf("backend path escapes base: %q", path)
		}
	}
	// через строку, чтобы экранированные id (a%2Fb) не экранировались повторно
	u, err := url.Parse(strings.TrimRight(c.base.String(), "/") + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("backend path: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// Request: общий вызов с JSON-телом. out может быть nil. Токен берётся из TokenSource.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, method, path, query, body, out, c.tokens.AccessToken())
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	status, raw, err := c.send(ctx, method, path, query, body, token)
	if err != nil {
		return err
	}
	return decode(status, raw, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, token string) (int, []byte, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return 0, nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}
	target, err := c.resolve(path, query)
	if err != nil {
		return 0, nil, err
	}

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	case json.RawMessage:
		rd = bytes.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set(clientTypeHeader, clientType)
	req.Header.Set("Accept", "application/json")
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Warnf("%s failed", method)
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s %s: %w", ErrTransport, method, path, err)
	}
	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
		"dur":    time.Since(start).String(),
	}).Debug("backend call")
	return resp.StatusCode, raw, nil
}

// decode разбирает ответ: ошибки из конверта, затем data (или корень, если конверта нет).
func decode(status int, raw []byte, out any) error {
	var env Envelope
	var fields map[string]json.RawMessage
	isEnvelope := false
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &fields) == nil {
		_, hasStatus := fields["status"]
		_, hasData := fields["data"]
		_, hasErr := fields["error"]
		_, hasMsg := fields["message"]
		isEnvelope = hasStatus || hasData || hasErr || hasMsg
		if isEnvelope {
			_ = json.Unmarshal(raw, &env)
		}
	}

	if status < 200 || status > 299 {
		ae := &APIError{HTTPStatus: status, Status: env.Status, Detail: env.Error}
		switch {
		case env.Error != "":
			ae.Message = env.Error
		case env.Message != "":
			ae.Message = env.Message
		default:
			ae.Message = genericMessage(status)
		}
		return ae
	}
	if strings.EqualFold(env.Status, "error") {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		return &APIError{HTTPStatus: status, Status: env.Status, Message: msg, Detail: env.Error}
	}
	if out == nil {
		return nil
	}
	payload := raw
	if _, ok := fields["data"]; ok {
		payload = env.Data
	}
	if len(bytes.TrimSpace(payload)) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// RawResponse: ответ сквозного запроса (как есть, без разбора конверта).
type RawResponse struct {
	Status int
	Body   json.RawMessage
}

// Raw: сквозной авторизованный запрос к пути бэкенда. Не-2xx ответы возвращаются
// как APIError, тело при этом сохраняется в RawResponse.
func (c *Client) Raw(ctx context.Context, method, path string, body []byte) (RawResponse, error) {
	token := c.tokens.AccessToken()
	if token == "" {
		return RawResponse{}, ErrNoToken
	}
	var b any
	if len(body) > 0 {
		b = body
	}
	p, q, _ := strings.Cut(path, "?")
	query, err := url.ParseQuery(q)
	if err != nil {
		return RawResponse{}, fmt.Errorf("raw query: %w", err)
	}
	status, raw, err := c.send(ctx, strings.ToUpper(method), p, query, b, token)
	if err != nil {
		return RawResponse{}, err
	}
	resp := RawResponse{Status: status, Body: raw}
	if status < 200 || status > 299 {
		return resp, decode(status, raw, nil)
	}
	return resp, nil
}

// Ping: проверка доступности для /readyz: любой HTTP-ответ считается успехом.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.send(ctx, http.MethodGet, "/", nil, nil, "")
	if errors.Is(err, ErrTransport) {
		return err
	}
	return nil
}

func id(s string) string { return url.PathEscape(s) }
