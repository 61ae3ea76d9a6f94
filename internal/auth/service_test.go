package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	acct, err := svc.Register(context.Background(), "Lauren", "owner@lrc.coffee", "secret123", RoleOwner)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if acct.ID == "" {
		t.Error("account should get an id")
	}
	if acct.Role != RoleOwner {
		t.Errorf("role = %s, want %s", acct.Role, RoleOwner)
	}
	if acct.PasswordHash == "secret123" {
		t.Error("password must not be stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_UnknownRoleDefaultsToBookkeeper(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	acct, err := svc.Register(context.Background(), "Sam", "sam@lrc.coffee", "secret123", "ADMIN")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if acct.Role != RoleBookkeeper {
		t.Errorf("role = %s, want %s", acct.Role, RoleBookkeeper)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), "Lauren", "owner@lrc.coffee", "secret123", RoleOwner); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Imposter", "owner@lrc.coffee", "other", RoleOwner); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	cases := []struct{ name, email, password string }{
		{"", "owner@lrc.coffee", "secret123"},
		{"Lauren", "", "secret123"},
		{"Lauren", "owner@lrc.coffee", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password, RoleOwner); !errors.Is(err, ErrMissingFields) {
			t.Errorf("Register(%q, %q, ...): expected ErrMissingFields, got %v", tc.name, tc.email, err)
		}
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), "Lauren", "owner@lrc.coffee", "secret123", RoleOwner); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, acct, err := svc.Login(context.Background(), "owner@lrc.coffee", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if acct.Email != "owner@lrc.coffee" {
		t.Errorf("account email = %s", acct.Email)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AccountID != acct.ID || claims.Role != RoleOwner {
		t.Errorf("claims do not match account: %+v", claims)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), "Lauren", "owner@lrc.coffee", "secret123", RoleOwner); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "owner@lrc.coffee", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@lrc.coffee", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
