package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"go.uber.org/zap"
)

// sensitiveQueryParams never reach the logs. Search text and emails can
// carry patient names.
var sensitiveQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true, "key": true,
	"auth": true, "email": true, "search": true,
}

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one, echoes
// it back and forwards it on every backend call made for the request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(clinicapi.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(clinicapi.RequestIDHeader, id)
		c.Request = c.Request.WithContext(clinicapi.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// ObservabilityMiddleware records request metrics and writes one access log
// line per request. Failed requests also log route params, the query with
// sensitive keys dropped, and attached handler errors.
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template, not the raw path, to keep label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		code := strconv.Itoa(status)
		metrics.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, code).Inc()

		fields := []zap.Field{
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if ws, err := GetWorkspace(c); err == nil {
			fields = append(fields, zap.String("workspace_id", ws.ID))
		}
		if status >= http.StatusBadRequest {
			fields = append(fields, failureFields(c)...)
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

func failureFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}
	if query := redactQuery(c.Request.URL.Query()); len(query) > 0 {
		fields = append(fields, zap.Any("query_params", query))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}
	return fields
}

// redactQuery keeps the first value of every non-sensitive query key.
func redactQuery(query url.Values) map[string]string {
	out := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) == 0 || sensitiveQueryParams[strings.ToLower(k)] {
			continue
		}
		out[k] = v[0]
	}
	return out
}
