package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/middleware"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondBindError reports a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	if details := ParseValidationErrors(err); len(details) > 0 {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details, err)
		return
	}
	respondError(c, http.StatusBadRequest, "Invalid request", err)
}

// redirectToLogin answers a guarded request whose session is gone.
func redirectToLogin(c *gin.Context, err error) {
	attachError(c, err)
	c.Redirect(http.StatusFound, shell.RouteLogin)
	c.Abort()
}

// signedOut reports, and answers with a login redirect, when the workspace
// lost its session while the request was served.
func signedOut(c *gin.Context, ws *console.Workspace) bool {
	if ws.Session.IsAuthenticated(c.Request.Context()) {
		return false
	}
	redirectToLogin(c, services.ErrNotAuthenticated)
	return true
}

// respondServiceError maps a failed service call to a response. A backend
// 401 becomes a redirect to the login screen.
func respondServiceError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, services.ErrNotAuthenticated) {
		redirectToLogin(c, err)
		return
	}
	respondError(c, statusFor(err), services.UserMessage(err, fallback), err)
}

func statusFor(err error) int {
	apiErr, ok := apperrors.AsAPIError(err)
	if !ok {
		// success=false envelopes
		return http.StatusUnprocessableEntity
	}

	switch apiErr.Kind {
	case apperrors.KindNetwork:
		return http.StatusBadGateway
	case apperrors.KindServer:
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// workspace returns the request's workspace, answering 500 when the
// middleware did not run.
func workspace(c *gin.Context) (*console.Workspace, bool) {
	ws, err := middleware.GetWorkspace(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return nil, false
	}
	return ws, true
}
