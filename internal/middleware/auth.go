package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/api/transport"
	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/pkg/httpcontext"
)

// SubjectKey is the request user value holding the token subject.
const SubjectKey = httpcontext.UserValueSubject

// Middleware wraps a handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Passthrough leaves handlers untouched.
func Passthrough(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }

// Guard returns JWTAuth when a secret is configured and Passthrough otherwise.
// The tracker is single-user and runs open on localhost by default.
func Guard(secret string, logger *zap.Logger) Middleware {
	if strings.TrimSpace(secret) == "" {
		return Passthrough
	}
	return JWTAuth(secret, logger)
}

// JWTAuth accepts HMAC-signed bearer tokens issued with secret.
func JWTAuth(secret string, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(secret)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				reject(ctx)
				return
			}

			if sub, ok := claims["sub"].(string); ok && sub != "" {
				ctx.SetUserValue(SubjectKey, sub)
			}

			next(ctx)
		}
	}
}

func reject(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBodyString(transport.FromError(domain.ErrUnauthorized).String())
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		// EventSource cannot set headers.
		return string(ctx.QueryArgs().Peek("access_token"))
	}
	return strings.TrimPrefix(header, "Bearer ")
}
