package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/utils/platformerrors"
)

// UserIDKey is the gin context key holding the authenticated caller id.
const UserIDKey = "user_id"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Validator verifies bearer tokens with the shared secret, or with a JWKS when
// one is configured.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when AUTH_JWKS_URL is set.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{cfg: cfg, log: log, jwks: jwks}, nil
}

// Ready reports whether tokens can currently be verified.
func (v *Validator) Ready() bool {
	if v == nil {
		return false
	}
	if v.cfg.AuthJWKSURL != "" {
		return v.jwks != nil
	}
	return v.cfg.JWTSecret != ""
}

// Authenticate extracts the bearer token from headers and returns the caller id
// held in its subject claim.
func (v *Validator) Authenticate(header http.Header) (uuid.UUID, error) {
	tokenString := bearerToken(header.Get("Authorization"))
	if tokenString == "" {
		return uuid.Nil, ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc, v.parserOptions()...)
	if err != nil || !token.Valid {
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidToken, err)
	}
	return userID, nil
}

// Middleware authenticates the request and stores the caller id under UserIDKey.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := v.Authenticate(c.Request.Header)
		if err != nil {
			v.log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected request")
			abortUnauthorized(c, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the caller id set by Middleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func (v *Validator) keyfunc(token *jwt.Token) (any, error) {
	if v.jwks != nil {
		return v.jwks.Keyfunc(token)
	}
	return []byte(v.cfg.JWTSecret), nil
}

func (v *Validator) parserOptions() []jwt.ParserOption {
	methods := []string{jwt.SigningMethodHS256.Alg()}
	if v.jwks != nil {
		methods = []string{"RS256", "RS384", "RS512"}
	}
	options := []jwt.ParserOption{jwt.WithValidMethods(methods), jwt.WithExpirationRequired()}
	if v.cfg.AuthIssuer != "" {
		options = append(options, jwt.WithIssuer(v.cfg.AuthIssuer))
	}
	return options
}

// IssueToken signs an HS256 token for userID with the shared secret.
func IssueToken(secret, issuer string, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, err error) {
	message := "invalid token"
	if errors.Is(err, ErrMissingToken) {
		message = "missing bearer token"
	}
	platformerrors.WriteUnauthorized(c, message)
}
