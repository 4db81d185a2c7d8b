package auth

import (
	"context"
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "addressbook/internal/errors"
	"addressbook/internal/model"
)

const (
	subjectContextKey  = "auth.subject"
	identityContextKey = "auth.identity"
)

// TokenVerifier verifies a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityResolver looks up the identity a verified subject refers to.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subject string) (*model.User, error)
}

// Gate authenticates requests carrying an `Authorization: Bearer` header and
// binds the resolved identity to the echo context.
type Gate struct {
	tokens     TokenVerifier
	identities IdentityResolver
	logger     *slog.Logger
}

// NewGate creates an auth gate.
func NewGate(tokens TokenVerifier, identities IdentityResolver, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{tokens: tokens, identities: identities, logger: logger}
}

// Middleware returns the echo middleware enforcing authentication.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  subjectContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			g.logger.DebugContext(c.Request().Context(), "bearer token rejected", "error", err)
			return reject(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(g.resolve(next))
	}
}

func (g *Gate) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		subject, ok := c.Get(subjectContextKey).(string)
		if !ok || subject == "" {
			return reject(c)
		}

		user, err := g.identities.ResolveIdentity(c.Request().Context(), subject)
		if err != nil {
			g.logger.DebugContext(c.Request().Context(), "token subject did not resolve", "error", err)
			return reject(c)
		}

		SetIdentity(c, user)
		return next(c)
	}
}

// SetIdentity binds user to the request as the authenticated identity.
func SetIdentity(c echo.Context, user *model.User) {
	c.Set(identityContextKey, user)
}

// IdentityFrom returns the identity bound by the gate.
func IdentityFrom(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(identityContextKey).(*model.User)
	return user, ok && user != nil
}

func reject(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return Unauthenticated()
}

// Unauthenticated is the single response every authentication failure maps to.
func Unauthenticated() *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
	return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse())
}
