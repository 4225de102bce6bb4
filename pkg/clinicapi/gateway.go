// Package clinicapi is the client for the clinic's PHP backend: a gateway that
// owns authentication headers and error normalisation, and one thin client per
// backend resource.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/httpclient"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/nirmalhealthcare/clinic-console/pkg/tracing"
	"go.uber.org/zap"
)

const (
	serviceName     = "clinic-backend"
	maxResponseSize = 10 << 20

	// RequestIDHeader correlates console and backend logs.
	RequestIDHeader = "X-Request-ID"
)

// Authenticator supplies the bearer token and is told when the backend
// rejects it. session.Manager implements it.
type Authenticator interface {
	Token(ctx context.Context) string
	Invalidate(ctx context.Context, reason string)
}

// UnauthorizedReason is passed to Authenticator.Invalidate on a 401.
const UnauthorizedReason = "unauthorized"

// FormFile is one file part of a multipart request.
type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// MultipartForm is a multipart/form-data body.
type MultipartForm struct {
	Fields map[string]string
	Files  []FormFile
}

// RequestOptions describes one backend call. At most one of Body and Form is used.
type RequestOptions struct {
	// Operation labels metrics and spans; defaults to "METHOD path".
	Operation string
	Query     url.Values
	Body      any
	Form      *MultipartForm
}

// Gateway is the single path to the backend.
type Gateway struct {
	baseURL string
	client  httpclient.Client
	auth    Authenticator
}

// NewGateway creates a gateway for baseURL. auth may be nil for
// unauthenticated use.
func NewGateway(baseURL string, client httpclient.Client, auth Authenticator) *Gateway {
	if client == nil {
		client = httpclient.NewStandardClient(httpclient.DefaultTimeout)
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		auth:    auth,
	}
}

// BaseURL returns the backend root.
func (g *Gateway) BaseURL() string { return g.baseURL }

// WithRequestID stores id so outgoing calls and context-aware log lines
// reuse it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return logger.ContextWithRequestID(ctx, id)
}

// RequestIDFrom returns the request id stored in ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}

// Request sends one call and returns the parsed envelope. Failures are always
// *errors.APIError. A 401 additionally invalidates the session once.
func (g *Gateway) Request(ctx context.Context, method, path string, opts RequestOptions) (*models.RawEnvelope, error) {
	operation := opts.Operation
	if operation == "" {
		operation = method + " " + path
	}

	ctx, span := tracing.StartClientSpan(ctx, operation, method, path)

	start := time.Now()
	env, status, err := g.do(ctx, method, path, opts)
	duration := metrics.MeasureDuration(start)
	tracing.EndClientSpan(span, status, err)

	outcome := "success"
	if err != nil {
		outcome = "error"
		if apiErr, ok := apperrors.AsAPIError(err); ok {
			outcome = string(apiErr.Kind)
		}
	}
	metrics.BackendRequestDuration.WithLabelValues(method, operation, outcome).Observe(duration)
	metrics.BackendRequestTotal.WithLabelValues(method, operation, outcome).Inc()

	fields := []zap.Field{zap.String("method", method), zap.String("path", path), zap.Int("status_code", status)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.LogAPICall(ctx, serviceName, operation, metrics.Outcome(err), duration, fields...)

	if status == http.StatusUnauthorized && g.auth != nil {
		g.auth.Invalidate(ctx, UnauthorizedReason)
	}

	return env, err
}

func (g *Gateway) do(ctx context.Context, method, path string, opts RequestOptions) (*models.RawEnvelope, int, error) {
	target, err := g.buildURL(path, opts.Query)
	if err != nil {
		return nil, 0, apperrors.NewUnexpectedError(err)
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, 0, apperrors.NewUnexpectedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, 0, apperrors.NewUnexpectedError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	if g.auth != nil {
		if token := g.auth.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, requestID)
	tracing.InjectHeaders(ctx, req.Header)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, apperrors.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, serverError(resp.StatusCode, raw)
	}

	env := &models.RawEnvelope{Success: true}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, resp.StatusCode, apperrors.NewUnexpectedError(fmt.Errorf("decode response body: %w", err))
	}
	return env, resp.StatusCode, nil
}

func (g *Gateway) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(g.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("build request URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("backend base URL %q is not absolute", g.baseURL)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func encodeBody(opts RequestOptions) (io.Reader, string, error) {
	if opts.Form != nil {
		return encodeMultipart(opts.Form)
	}
	if opts.Body == nil {
		return http.NoBody, "application/json", nil
	}
	b, err := json.Marshal(opts.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

func encodeMultipart(form *MultipartForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	for _, f := range form.Files {
		if f.Content == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy form file %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// serverError reads message, error and data from a non-2xx body.
func serverError(status int, raw []byte) *apperrors.APIError {
	var body struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apperrors.NewServerError(status, "", nil)
	}
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	data := body.Data
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		data = nil
	}
	return apperrors.NewServerError(status, msg, data)
}
