package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

const (
	minCode = 1000
	maxCode = 9999
)

// HashSecret returns a bcrypt hash of secret. A nil or empty secret yields nil:
// accounts may exist without a login password.
func HashSecret(secret *string) (*string, error) {
	if secret == nil || *secret == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", domain.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	h := string(hash)
	return &h, nil
}

// VerifySecret reports whether candidate matches storedHash. Any malformed
// input simply yields false.
func VerifySecret(candidate, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}

// CodeIssuer generates, stores and verifies one-time login codes.
type CodeIssuer struct {
	store    ports.CodeStore
	sender   ports.CodeSender
	generate func() (int, error)
	logger   zerolog.Logger
}

func NewCodeIssuer(store ports.CodeStore, sender ports.CodeSender, logger zerolog.Logger) *CodeIssuer {
	return &CodeIssuer{store: store, sender: sender, generate: randomCode, logger: logger}
}

// Issue stores a fresh code for key, replacing any previous one, and hands it
// to the sender. A delivery failure is reported as domain.ErrDeliveryFailure;
// the stored code stays active either way.
func (c *CodeIssuer) Issue(ctx context.Context, key string) error {
	key = normalizeKey(key)
	if key == "" {
		return fmt.Errorf("%w: mobile number is required", domain.ErrInvalidArgument)
	}

	code, err := c.generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := c.store.Put(ctx, key, code); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if err := c.sender.SendCode(ctx, key, code); err != nil {
		c.logger.Warn().Err(err).Str("mobile_number", key).Msg("code delivery failed")
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailure, err)
	}

	c.logger.Info().Str("mobile_number", key).Msg("verification code issued")
	return nil
}

// Verify reports whether candidate equals the last code issued for key.
// Codes are not consumed: the same code keeps verifying until the next Issue.
func (c *CodeIssuer) Verify(ctx context.Context, key, candidate string) (bool, error) {
	want, ok, err := c.store.Get(ctx, normalizeKey(key))
	if err != nil {
		return false, fmt.Errorf("load code: %w", err)
	}
	if !ok {
		return false, nil
	}

	got, err := strconv.Atoi(strings.TrimSpace(candidate))
	if err != nil {
		return false, nil
	}
	return got == want, nil
}

func normalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// randomCode returns a uniformly distributed code in [minCode, maxCode].
func randomCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + minCode, nil
}
