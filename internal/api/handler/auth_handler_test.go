package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/servicehub/marketplace-api/internal/core/domain"
	"github.com/servicehub/marketplace-api/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	identity := &stubIdentity{
		registerFn: func(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error) {
			if in.MobileNumber != "555000" || in.Name != "Alice" || in.Role != domain.RoleAdmin {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Email == nil || *in.Email != "a@example.com" {
				t.Fatalf("email not forwarded")
			}
			return &domain.Account{ID: 1, MobileNumber: in.MobileNumber, Name: in.Name, Email: in.Email, Role: domain.RolePendingAdmin}, nil
		},
	}
	h := NewAuthHandler(identity, &stubSession{})

	body := strings.NewReader(`{"mobile_number":"555000","name":"Alice","email":"a@example.com","role":"admin"}`)
	c, rec := newContext(http.MethodPost, "/auth/register", body, nil)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "pending_admin" || resp["mobile_number"] != "555000" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash must not be rendered")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	identity := &stubIdentity{
		registerFn: func(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(identity, &stubSession{})

	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader("not-json"), nil)
	expectHTTPError(t, h.Register(c), http.StatusBadRequest)

	c, _ = newContext(http.MethodPost, "/auth/register", strings.NewReader(`{"mobile_number":"1","email":"nope"}`), nil)
	err := h.Register(c)
	expectHTTPError(t, err, http.StatusBadRequest)
	if !strings.Contains(err.Error(), "name is required") || !strings.Contains(err.Error(), "email must be a valid email") {
		t.Fatalf("unexpected validation message: %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	identity := &stubIdentity{
		registerFn: func(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error) {
			return nil, domain.ErrDuplicateIdentity
		},
	}
	h := NewAuthHandler(identity, &stubSession{})

	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader(`{"mobile_number":"1","name":"Bob"}`), nil)
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected duplicate identity, got %v", err)
	}
}

func TestAuthHandler_SendCode(t *testing.T) {
	var sentTo string
	session := &stubSession{
		sendCodeFn: func(ctx context.Context, mobile string) error {
			sentTo = mobile
			return nil
		},
	}
	h := NewAuthHandler(&stubIdentity{}, session)

	c, rec := newContext(http.MethodPost, "/auth/send-code", strings.NewReader(`{"mobile_number":"555000"}`), nil)
	if err := h.SendCode(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted || sentTo != "555000" {
		t.Fatalf("expected 202 and delivery to 555000, got %d / %q", rec.Code, sentTo)
	}
}

func TestAuthHandler_SendCode_DeliveryFailure(t *testing.T) {
	session := &stubSession{
		sendCodeFn: func(ctx context.Context, mobile string) error {
			return fmt.Errorf("%w: gateway timeout", domain.ErrDeliveryFailure)
		},
	}
	h := NewAuthHandler(&stubIdentity{}, session)

	c, _ := newContext(http.MethodPost, "/auth/send-code", strings.NewReader(`{"mobile_number":"555000"}`), nil)
	if err := h.SendCode(c); !errors.Is(err, domain.ErrDeliveryFailure) {
		t.Fatalf("expected delivery failure, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	session := &stubSession{
		authenticateFn: func(ctx context.Context, mobile, code string) (string, error) {
			if mobile != "555000" || code != "1234" {
				t.Fatalf("unexpected args: %s %s", mobile, code)
			}
			return "token123", nil
		},
	}
	h := NewAuthHandler(&stubIdentity{}, session)

	c, rec := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"mobile_number":"555000","code":"1234"}`), nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AccessToken != "token123" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCode(t *testing.T) {
	session := &stubSession{
		authenticateFn: func(ctx context.Context, mobile, code string) (string, error) {
			return "", domain.ErrInvalidCode
		},
	}
	h := NewAuthHandler(&stubIdentity{}, session)

	c, _ := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"mobile_number":"555000","code":"0000"}`), nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}
}

func TestAuthHandler_Login_MissingCode(t *testing.T) {
	h := NewAuthHandler(&stubIdentity{}, &stubSession{})

	c, _ := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"mobile_number":"555000"}`), nil)
	expectHTTPError(t, h.Login(c), http.StatusBadRequest)
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubIdentity{}, &stubSession{})

	c, rec := newContext(http.MethodGet, "/auth/me", nil, clientClaims)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp identityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.MobileNumber != clientClaims.Subject || resp.Role != "client" {
		t.Fatalf("unexpected identity: %+v", resp)
	}

	c, _ = newContext(http.MethodGet, "/auth/me", nil, nil)
	expectHTTPError(t, h.Me(c), http.StatusUnauthorized)
}
