package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realty_hub/internal/apperr"
	"realty_hub/internal/auth"
)

const identityKey = "identity"

// RefreshedTokenHeader carries a renewed access token on successful
// authenticated responses.
const RefreshedTokenHeader = "X-Refreshed-Token"

// CurrentIdentity returns the authenticated caller, or nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// AbortWithError writes the JSON error body for err and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"kind":   kind.String(),
	})
	if kind == apperr.KindInternal {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), gin.H{
		"error": apperr.Message(err),
		"code":  kind.String(),
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", true
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), true
}

// RequireAuth ensures a valid access token is present and stores the caller
// identity for downstream handlers.
func RequireAuth(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			AbortWithError(c, apperr.Unauthenticated("Missing or invalid Authorization header"))
			return
		}
		id, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is presented and
// otherwise continues anonymously. Used on public routes.
func OptionalAuth(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, present := bearerToken(c); present && token != "" {
			if id, err := authn.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(identityKey, id)
			} else if apperr.KindOf(err) == apperr.KindInternal {
				logrus.WithError(err).Warn("OptionalAuth: could not resolve caller")
			}
		}
		c.Next()
	}
}

// TokenRefresher attaches a renewed access token to every successful response
// sent to an authenticated caller. It runs outside the handlers and only
// looks at the identity left in the context.
func TokenRefresher(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &refreshWriter{ResponseWriter: c.Writer, c: c, tokens: tokens}
		c.Next()
	}
}

type refreshWriter struct {
	gin.ResponseWriter
	c      *gin.Context
	tokens *auth.TokenService
}

// attach keeps the refreshed token header in line with the pending status.
// Once headers are committed it does nothing.
func (w *refreshWriter) attach() {
	if w.Written() {
		return
	}
	id := CurrentIdentity(w.c)
	if id == nil {
		return
	}
	if w.Status() >= 400 {
		w.Header().Del(RefreshedTokenHeader)
		return
	}
	if w.Header().Get(RefreshedTokenHeader) != "" {
		return
	}
	token, _, err := w.tokens.Issue(id.UserID, auth.AccessToken)
	if err != nil {
		logrus.WithError(err).Error("TokenRefresher: could not issue token")
		return
	}
	w.Header().Set(RefreshedTokenHeader, token)
}

// WriteHeader only records the status in gin; gin may commit it later
// without going through this wrapper.
func (w *refreshWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
	w.attach()
}

func (w *refreshWriter) WriteHeaderNow() {
	w.attach()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *refreshWriter) Write(data []byte) (int, error) {
	w.attach()
	return w.ResponseWriter.Write(data)
}

func (w *refreshWriter) WriteString(s string) (int, error) {
	w.attach()
	return w.ResponseWriter.WriteString(s)
}
