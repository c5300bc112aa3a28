package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

// DefaultTokenTTL is the session lifetime used when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// SessionConfig holds the token signing settings, loaded once at startup.
type SessionConfig struct {
	Secret    string
	Algorithm string // HS256, HS384 or HS512
	TTL       time.Duration
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService issues and validates signed session tokens and implements
// the mobile-number + one-time-code login.
type SessionService struct {
	accounts ports.AccountRepository
	codes    *CodeIssuer
	secret   []byte
	method   jwt.SigningMethod
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewSessionService(accounts ports.AccountRepository, codes *CodeIssuer, cfg SessionConfig, logger zerolog.Logger) (*SessionService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session: signing secret is required")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("session: unsupported signing algorithm %q", alg)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &SessionService{
		accounts: accounts,
		codes:    codes,
		secret:   []byte(cfg.Secret),
		method:   method,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// IssueToken signs a token for subject carrying role and an absolute expiry.
func (s *SessionService) IssueToken(subject string, role domain.Role) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// DecodeToken verifies signature and expiry. Expired tokens fail with
// domain.ErrTokenExpired, anything else with domain.ErrTokenMalformed.
func (s *SessionService) DecodeToken(token string) (domain.Claims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, domain.ErrTokenMalformed
	}
	if claims.Subject == "" || claims.Role == "" {
		return domain.Claims{}, domain.ErrTokenMalformed
	}

	return domain.Claims{
		Subject:   claims.Subject,
		Role:      domain.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SendCode issues a one-time login code for mobile.
func (s *SessionService) SendCode(ctx context.Context, mobile string) error {
	return s.codes.Issue(ctx, mobile)
}

// Authenticate exchanges a mobile number and one-time code for a token. The
// token carries the account's role as of now; later promotions need a new login.
func (s *SessionService) Authenticate(ctx context.Context, mobile, code string) (string, error) {
	acct, err := s.accounts.FindByMobileNumber(ctx, strings.TrimSpace(mobile))
	if err != nil {
		return "", err
	}

	ok, err := s.codes.Verify(ctx, acct.MobileNumber, code)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Info().Int64("account_id", acct.ID).Msg("login rejected: invalid code")
		return "", domain.ErrInvalidCode
	}

	token, err := s.IssueToken(acct.MobileNumber, acct.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Int64("account_id", acct.ID).Str("role", string(acct.Role)).Msg("login succeeded")
	return token, nil
}
