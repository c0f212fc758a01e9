// Package middleware provides gin middleware for authorization, logging
// and traffic shaping.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
	"github.com/go-demi/demi-bank/pkg/web"
)

// Authorization header conventions.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
)

// Authorization failures surfaced to the client.
var (
	ErrAuthHeaderNotFound  = errors.New("authorization header is not provided")
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

var errAdminRequired = errors.New("admin privileges required")

// AddAuthorization issues a token and sets it on the request authorization
// header. It is exported for handler tests.
func AddAuthorization(
	r *http.Request,
	tokenMaker tokenpkg.Maker,
	authType, username, role string,
	duration time.Duration,
) error {
	token, _, err := tokenMaker.CreateToken(username, role, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, token))

	return nil
}

// Auth verifies the bearer token and stores its payload in the context.
func Auth(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		authHeader := gctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrBadAuthHeaderFormat))
			return
		}

		authType := strings.ToLower(fields[0])
		if authType != AuthTypeBearer {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnsupportedAuthType))
			return
		}

		accessToken := fields[1]

		payload, err := tokenMaker.VerifyToken(accessToken)
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role.
// It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(gctx *gin.Context) {
		payload := gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)

		if payload.Role != tokenpkg.RoleAdmin {
			gctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(errAdminRequired))
			return
		}

		gctx.Next()
	}
}
