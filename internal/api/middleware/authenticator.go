package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/pkg/jwthelper"
)

const sessionContextKey = "session"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT validates the bearer token and stores the caller's session in
// the request context. The user agent embedded in the token must match the
// requesting client.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, parts[1])
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Set(sessionContextKey, domain.Session{
			PersonID: claims.PersonID,
			Email:    claims.Email,
			Role:     claims.Role,
		})

		ctx.Next()
	}
}

// SessionFromContext returns the session stored by VerifyJWT.
func SessionFromContext(ctx *gin.Context) (domain.Session, bool) {
	value, exists := ctx.Get(sessionContextKey)
	if !exists {
		return domain.Session{}, false
	}

	session, ok := value.(domain.Session)

	return session, ok
}
