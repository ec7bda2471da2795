package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	domainErrors "github.com/rafabene/marketplace-backend/internal/domain/errors"
)

const (
	// UserContextKey guarda o perfil autenticado no contexto do Gin
	UserContextKey = "current_user"
	// CartTokenHeader carrega o token opaco do carrinho de visitante
	CartTokenHeader = "X-Cart-Token"
)

var (
	ErrMissingToken = errors.New("error.missing_token")
	ErrInvalidToken = errors.New("error.invalid_token")
)

// Claims são as claims emitidas pelo provedor de autenticação hospedado
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenVerifier valida tokens HS256 do provedor. Nunca emite tokens.
type TokenVerifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewTokenVerifier cria o verificador; issuer e audience vazios não são checados
func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &TokenVerifier{secret: []byte(secret), opts: opts}
}

// Verify valida assinatura e expiração e retorna as claims
func (v *TokenVerifier) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ProfileResolver garante que exista um perfil para o sujeito do token
type ProfileResolver interface {
	EnsureProfile(ctx context.Context, subject, email, name, role string) (*entities.User, error)
}

// AbortFunc renderiza o erro (problem details) e aborta a requisição
type AbortFunc func(c *gin.Context, err error)

// AuthMiddleware autentica requisições com tokens Bearer
type AuthMiddleware struct {
	verifier *TokenVerifier
	profiles ProfileResolver
	abort    AbortFunc
}

// NewAuthMiddleware cria o middleware de autenticação
func NewAuthMiddleware(verifier *TokenVerifier, profiles ProfileResolver, abort AbortFunc) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, profiles: profiles, abort: abort}
}

// RequireAuth exige um token válido
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.authenticate(true, false)
}

// OptionalAuth autentica quando há token; visitantes seguem anônimos
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return m.authenticate(false, false)
}

// RequireAuthWebSocket aceita o token também via ?access_token=,
// pois navegadores não enviam cabeçalhos no handshake do websocket
func (m *AuthMiddleware) RequireAuthWebSocket() gin.HandlerFunc {
	return m.authenticate(true, true)
}

func (m *AuthMiddleware) authenticate(required, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" && allowQuery {
			raw = c.Query("access_token")
		}

		if raw == "" {
			if required {
				m.abort(c, ErrMissingToken)
				return
			}
			c.Next()
			return
		}

		claims, err := m.verifier.Verify(raw)
		if err != nil {
			m.abort(c, err)
			return
		}

		user, err := m.profiles.EnsureProfile(c.Request.Context(), claims.Subject, claims.Email, claims.Name, claims.Role)
		if err != nil {
			m.abort(c, err)
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// RequirePermission exige que o usuário autenticado tenha a permissão
func (m *AuthMiddleware) RequirePermission(permission entities.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			m.abort(c, domainErrors.ErrUnauthorized)
			return
		}
		if !user.HasPermission(permission) {
			m.abort(c, domainErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireRole exige um dos papéis informados
func (m *AuthMiddleware) RequireRole(roles ...entities.Role) gin.HandlerFunc {
	allowed := make(map[entities.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			m.abort(c, domainErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			m.abort(c, domainErrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser retorna o perfil autenticado ou nil para visitantes
func CurrentUser(c *gin.Context) *entities.User {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entities.User)
	return user
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
