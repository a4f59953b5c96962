// remote — типизированный клиент удалённого API контент-пайплайна.
//
// Каждая операция — ровно один запрос/ответ (без стриминга). Построение запросов
// и разбор ответов централизованы здесь:
//   - сеть/таймаут/не-2xx без разбираемого JSON — apierrors.TransportError;
//   - разобранный JSON с признаком неуспеха (success:false, ok:false,
//     status:"error", непустой error) — apierrors.ApplicationError.
//
// Повторы (failsafe-go) применяются только к идемпотентным GET; мутации не повторяются.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"

	"github.com/pribylovaa/kickoffzone-admin/internal/config"
	apierrors "github.com/pribylovaa/kickoffzone-admin/internal/errors"
	"github.com/pribylovaa/kickoffzone-admin/internal/metrics"
	logctx "github.com/pribylovaa/kickoffzone-admin/pkg/log"
)

// maxBodyBytes — верхняя граница читаемого ответа.
const maxBodyBytes = 10 << 20

type ctxKey string

const ctxRequestID ctxKey = "request_id"

// WithRequestID кладёт id запроса в контекст; клиент прокинет его в X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}

// RequestIDFrom достаёт id запроса из контекста.
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestID).(string); ok {
		return v
	}

	return ""
}

// Client — HTTP-клиент API. Безопасен для конкурентного использования.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	executor  failsafe.Executor[*http.Response]
	log       *slog.Logger
	metrics   *metrics.Metrics

	// Лимиты одного вызова: обычного и multipart-загрузки.
	timeout       time.Duration
	uploadTimeout time.Duration
}

// Option — опция конструктора.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (например, в тестах).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics включает Prometheus-метрики вызовов.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New создаёт клиента по конфигурации.
func New(cfg config.RemoteConfig, log *slog.Logger, opts ...Option) (*Client, error) {
	const op = "remote/client/New"

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%s: invalid base url %q", op, cfg.BaseURL)
	}

	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		baseURL:       base,
		userAgent:     cfg.UserAgent,
		http:          &http.Client{},
		log:           log,
		timeout:       cfg.Timeout,
		uploadTimeout: cfg.UploadTimeout,
	}
	if c.uploadTimeout < c.timeout {
		c.uploadTimeout = c.timeout
	}

	if cfg.RetryMax > 0 {
		c.executor = failsafe.With(newRetryPolicy(cfg.RetryMax))
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// newRetryPolicy — повторы GET на сетевых ошибках, 429 и 502/503/504.
//
//nolint:bodyclose // *http.Response здесь — параметр дженерика, а не живой ответ
func newRetryPolicy(maxRetries int) retrypolicy.RetryPolicy[*http.Response] {
	return retrypolicy.NewBuilder[*http.Response]().
		HandleIf(shouldRetry).
		WithBackoff(200*time.Millisecond, 2*time.Second).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		Build()
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	if resp == nil {
		return true
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// call — описание одного запроса.
type call struct {
	// endpoint — шаблон пути для логов и метрик, например "POST /approve/{id}".
	endpoint    string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// length — длина тела, если известна заранее; 0 — по телу.
	length int64
	// upload — multipart-загрузка с отдельным таймаутом.
	upload bool
}

// jsonCall — запрос с JSON-телом.
func jsonCall(endpoint, method, path string, payload any) (call, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return call{}, err
	}

	return call{
		endpoint:    endpoint,
		method:      method,
		path:        path,
		body:        bytes.NewReader(b),
		contentType: "application/json",
	}, nil
}

// do выполняет запрос и разбирает ответ в out (nil — тело игнорируется,
// но признак успеха всё равно проверяется).
func (c *Client) do(ctx context.Context, op string, cl call, out any) error {
	start := time.Now()

	rid := RequestIDFrom(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}

	lg := logctx.FromOr(ctx, c.log).With(
		slog.String("op", op),
		slog.String("endpoint", cl.endpoint),
		slog.String("request_id", rid),
	)

	status, err := c.roundTrip(ctx, op, rid, cl, out)

	outcome := "ok"
	switch apierrors.Classify(err) {
	case apierrors.ClassTransport:
		outcome = "transport"
	case apierrors.ClassApplication:
		outcome = "application"
	}

	dur := time.Since(start)
	c.metrics.ObserveRemote(cl.endpoint, outcome, dur)

	if err != nil {
		lg.Warn("remote",
			slog.Int("status", status),
			slog.String("outcome", outcome),
			slog.Duration("dur", dur),
			slog.String("err", err.Error()),
		)
		return err
	}

	lg.Info("remote",
		slog.Int("status", status),
		slog.Duration("dur", dur),
	)

	return nil
}

// limit — таймаут вызова: у загрузок свой, более длинный.
func (c *Client) limit(cl call) time.Duration {
	if cl.upload {
		return c.uploadTimeout
	}

	return c.timeout
}

func (c *Client) roundTrip(ctx context.Context, op, rid string, cl call, out any) (int, error) {
	if d := c.limit(cl); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	u := *c.baseURL
	u.Path = u.Path + cl.path
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), cl.body)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-Id", rid)
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}
		if cl.contentType != "" {
			req.Header.Set("Content-Type", cl.contentType)
		}
		if cl.length > 0 {
			req.ContentLength = cl.length
		}

		return req, nil
	}

	resp, err := c.send(ctx, cl, build)
	if err != nil {
		return 0, &apierrors.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &apierrors.TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	return resp.StatusCode, decodeResponse(op, resp.StatusCode, raw, out)
}

// send — один запрос; GET идёт через retry-экзекутор, если он настроен.
func (c *Client) send(ctx context.Context, cl call, build func() (*http.Request, error)) (*http.Response, error) {
	if c.executor == nil || cl.method != http.MethodGet {
		req, err := build()
		if err != nil {
			if rc, ok := cl.body.(io.Closer); ok {
				_ = rc.Close()
			}
			return nil, err
		}
		return c.http.Do(req)
	}

	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if shouldRetry(resp, err) && resp != nil && resp.Body != nil {
			// Тело «неудачного» ответа будет отброшено; последний ответ
			// при исчерпании повторов вернётся уже закрытым, поэтому читаем его заранее.
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(raw))
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("empty response")
	}

	return resp, nil
}

// envelope — общий признак успеха во всех вариантах ответов сервера.
type envelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	OK      *bool           `json:"ok"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

func (e envelope) errorText() string {
	if len(e.Error) == 0 || string(e.Error) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil {
		return s
	}

	return string(e.Error)
}

func (e envelope) failed() bool {
	switch {
	case e.Success != nil && !*e.Success:
		return true
	case e.OK != nil && !*e.OK:
		return true
	case strings.EqualFold(e.Status, "error"):
		return true
	default:
		return e.errorText() != ""
	}
}

func (e envelope) reason() string {
	if t := e.errorText(); t != "" {
		return t
	}

	return e.Message
}

// decodeResponse реализует таксономию ошибок ответа.
func decodeResponse(op string, status int, raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	isObject := len(trimmed) > 0 && trimmed[0] == '{'

	var env envelope
	envOK := isObject && json.Unmarshal(trimmed, &env) == nil

	if status < 200 || status > 299 {
		if !envOK {
			return &apierrors.TransportError{
				Op:         op,
				StatusCode: status,
				Err:        fmt.Errorf("unexpected status %d", status),
			}
		}

		msg := env.reason()
		if msg == "" {
			msg = http.StatusText(status)
		}

		return &apierrors.ApplicationError{Op: op, StatusCode: status, Message: msg}
	}

	if envOK && env.failed() {
		return &apierrors.ApplicationError{Op: op, StatusCode: status, Message: env.reason()}
	}

	if out == nil {
		return nil
	}

	if len(trimmed) == 0 {
		return &apierrors.TransportError{Op: op, StatusCode: status, Err: errors.New("empty response body")}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &apierrors.TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("decode: %w", err)}
	}

	return nil
}

// requireID — локальная проверка обязательного идентификатора.
func requireID(id fmt.Stringer) error {
	if strings.TrimSpace(id.String()) == "" {
		return apierrors.Validation("id", errors.New("required"))
	}

	return nil
}
