package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/domain"
	appCtx "github.com/baechuer/real-time-ressys/services/organizer-service/internal/pkg/context"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/response"
)

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Ver    int64  `json:"ver"`
	jwt.RegisteredClaims
}

type TokenVersionChecker interface {
	GetTokenVersion(ctx context.Context, userID string) (int64, error)
}

type AuthMiddleware struct {
	secret       []byte
	issuer       string
	versionCheck TokenVersionChecker
}

func NewAuth(secret, issuer string, versionCheck TokenVersionChecker) *AuthMiddleware {
	return &AuthMiddleware{
		secret:       []byte(secret),
		issuer:       issuer,
		versionCheck: versionCheck,
	}
}

// Require rejects requests without a valid bearer token and stores the
// principal in the request context.
func (a *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r)
		if err != nil {
			zlog.Debug().Err(err).Str("path", r.URL.Path).Msg("auth rejected")
			response.Fail(
				w,
				http.StatusUnauthorized,
				"unauthorized",
				"unauthorized",
				map[string]string{"reason": err.Error()},
				response.RequestIDFromRequest(r),
			)
			return
		}

		if a.versionCheck != nil {
			currentVer, err := a.versionCheck.GetTokenVersion(r.Context(), claims.UserID)
			switch {
			case err != nil:
				// fail open while redis is unavailable
				zlog.Warn().Err(err).Msg("token version check failed")
			case currentVer > claims.Ver:
				response.Fail(
					w,
					http.StatusUnauthorized,
					"token_revoked",
					"token version obsolete",
					nil,
					response.RequestIDFromRequest(r),
				)
				return
			}
		}

		ctx := appCtx.WithPrincipal(r.Context(), appCtx.Principal{UserID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthMiddleware) parse(r *http.Request) (*Claims, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}

	if a.issuer != "" && claims.Issuer != a.issuer {
		return nil, errors.New("invalid issuer")
	}
	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return nil, errors.New("missing uid")
	}
	claims.Role = strings.TrimSpace(claims.Role)
	if claims.Role == "" {
		claims.Role = "user"
	}
	return claims, nil
}

// Principal returns the authenticated caller, or the zero value outside
// Require.
func Principal(r *http.Request) domain.Principal {
	p, ok := appCtx.GetPrincipal(r.Context())
	if !ok {
		return domain.Principal{}
	}
	return domain.Principal{UserID: p.UserID, Role: p.Role}
}
