package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

// ProxyHandler forwards /api/* to the clinic backend so a browser client can
// call it same-origin.
type ProxyHandler struct {
	proxy *httputil.ReverseProxy
}

func NewProxyHandler(backendURL string) (*ProxyHandler, error) {
	target, err := url.Parse(backendURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", backendURL)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			if id := clinicapi.RequestIDFrom(r.In.Context()); id != "" {
				r.Out.Header.Set(clinicapi.RequestIDHeader, id)
			}
			// The console's own cookie never leaves this process
			r.Out.Header.Del("Cookie")
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.LogError(r.Context(), err, "Backend proxy failed", zap.String("path", r.URL.Path))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"success": false,
				"message": apperrors.NetworkErrorMessage,
			})
		},
	}

	return &ProxyHandler{proxy: proxy}, nil
}

func (h *ProxyHandler) Forward(c *gin.Context) {
	h.proxy.ServeHTTP(c.Writer, c.Request)
}
