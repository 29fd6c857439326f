package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

const (
	// DefaultSessionTTL is how long a signed session stays valid.
	DefaultSessionTTL = 12 * time.Hour
	// DefaultIssuer is the iss claim when none is configured.
	DefaultIssuer = "catfeed"
)

// SessionConfig holds session configuration.
type SessionConfig struct {
	TTL       time.Duration
	JWTSecret []byte
	Issuer    string
	Now       func() time.Time
}

// SessionService signs identities into stateless session tokens.
// There is no server-side session table, so logout only drops the client copy.
type SessionService struct {
	config SessionConfig
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig) *SessionService {
	if config.TTL == 0 {
		config.TTL = DefaultSessionTTL
	}
	if config.Issuer == "" {
		config.Issuer = DefaultIssuer
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &SessionService{config: config}
}

// TTL returns the session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.config.TTL
}

// SessionClaims represents the claims in a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username            string `json:"username"`
	ForcePasswordChange bool   `json:"force_password_change"`
}

// Session projects the claims to what pages and handlers may see.
func (c *SessionClaims) Session() domain.Session {
	return domain.Session{
		Username:            c.Username,
		ForcePasswordChange: c.ForcePasswordChange,
	}
}

// AdminID parses the subject claim.
func (c *SessionClaims) AdminID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// IssuedSession is a signed token and its expiry.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// Issue signs a session token for an authenticated identity.
func (s *SessionService) Issue(identity *domain.Identity) (*IssuedSession, error) {
	now := s.config.Now()
	expiresAt := now.Add(s.config.TTL)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
		},
		Username:            identity.Username,
		ForcePasswordChange: identity.ForcePasswordChange,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &IssuedSession{Token: signed, ExpiresAt: expiresAt}, nil
}

// Validate verifies a session token and returns its claims.
func (s *SessionService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.config.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if _, err := claims.AdminID(); err != nil {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
