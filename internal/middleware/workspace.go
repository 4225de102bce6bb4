package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/shell"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"go.uber.org/zap"
)

const (
	// WorkspaceCookieName identifies the operator's browser workspace.
	WorkspaceCookieName = "console_sid"

	// WorkspaceContextKey stores the request's workspace in the gin context.
	WorkspaceContextKey = "workspace"

	workspaceCookieMaxAge = 30 * 24 * 60 * 60
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found in context")
	ErrInvalidWorkspace  = errors.New("invalid workspace type")
)

// Workspaces hands out workspaces by browser id.
type Workspaces interface {
	GetOrCreate(id string) (*console.Workspace, bool)
}

// CookieOptions controls the workspace cookie attributes.
type CookieOptions struct {
	Domain string
	Secure bool
}

// WorkspaceMiddleware attaches the caller's workspace, creating one and
// setting the cookie when the browser has none.
func WorkspaceMiddleware(workspaces Workspaces, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(WorkspaceCookieName) //nolint:errcheck // missing cookie means new workspace

		ws, created := workspaces.GetOrCreate(id)
		if created {
			logger.Debug("Workspace attached",
				zap.String("workspace_id", ws.ID),
				zap.String("client_ip", c.ClientIP()))

			// A persisted session from an earlier process is verified once
			if _, err := ws.Auth.Restore(c.Request.Context()); err != nil {
				logger.Warn("Could not verify persisted session",
					zap.String("workspace_id", ws.ID),
					zap.Error(err))
			}
		}
		if ws.ID != id {
			SetWorkspaceCookie(c, ws.ID, opts)
		}

		c.Set(WorkspaceContextKey, ws)
		c.Next()
	}
}

// GetWorkspace returns the workspace attached by WorkspaceMiddleware.
func GetWorkspace(c *gin.Context) (*console.Workspace, error) {
	val, exists := c.Get(WorkspaceContextKey)
	if !exists {
		return nil, ErrWorkspaceNotFound
	}

	ws, ok := val.(*console.Workspace)
	if !ok {
		return nil, ErrInvalidWorkspace
	}

	return ws, nil
}

// RequireSession redirects to the login screen when the workspace holds no
// token.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := GetWorkspace(c)
		if err != nil {
			_ = c.Error(err) //nolint:errcheck
			c.Redirect(http.StatusFound, shell.RouteLogin)
			c.Abort()
			return
		}

		if !ws.Session.IsAuthenticated(c.Request.Context()) {
			ws.Navigator.Navigate(shell.RouteLogin)
			c.Redirect(http.StatusFound, shell.RouteLogin)
			c.Abort()
			return
		}

		c.Next()
	}
}

func SetWorkspaceCookie(c *gin.Context, id string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		WorkspaceCookieName,
		id,
		workspaceCookieMaxAge,
		"/",
		opts.Domain,
		opts.Secure,
		true,
	)
}

func ClearWorkspaceCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		WorkspaceCookieName,
		"",
		-1,
		"/",
		opts.Domain,
		opts.Secure,
		true,
	)
}
