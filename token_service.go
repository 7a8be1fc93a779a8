package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ClaimSessionID is the private claim carrying the session identifier that
// survives token rotation.
const ClaimSessionID = "sessionId"

// SessionClaims is the JWT payload for a sliding-session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sessionId,omitempty"`
}

// TokenServiceImpl implements TokenService with an HS256 symmetric key.
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration time.Duration
	issuer          string
	logger          Logger
	now             func() time.Time
}

// NewTokenService creates a TokenService. tokenExpiration is in seconds.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: time.Duration(tokenExpiration) * time.Second,
		issuer:          issuer,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock overrides the time source, useful in tests.
func (ts *TokenServiceImpl) WithClock(clock func() time.Time) *TokenServiceImpl {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// Issue signs a token for the subject email and session id with a fresh
// unique token id. Issuance time is now; expiry is now + the configured TTL.
func (ts *TokenServiceImpl) Issue(subjectEmail, sessionID string) (string, error) {
	now := ts.now()

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   NormalizeEmail(subjectEmail),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.tokenExpiration)),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Verify validates signature and expiry and returns the session content.
// Structural, signature, and expiry failures all collapse into
// ErrSessionInvalid so callers cannot tell which check failed.
func (ts *TokenServiceImpl) Verify(raw string) (*Session, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("token verification failed: %v", err)
		return nil, ErrSessionInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Debug("token verification produced unusable claims")
		return nil, ErrSessionInvalid
	}

	if claims.Subject == "" || claims.SessionID == "" {
		return nil, ErrSessionInvalid
	}

	session := &Session{
		Email:     claims.Subject,
		SessionID: claims.SessionID,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}

var _ TokenService = (*TokenServiceImpl)(nil)
