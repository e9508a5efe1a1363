package service

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmaalouf1/pm-tracker/internal/config"
	"github.com/jmaalouf1/pm-tracker/internal/entity"
	"github.com/jmaalouf1/pm-tracker/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, *config.Config) {
	t.Helper()
	db := setupDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "pm-tracker"
	return NewAuthService(repository.NewUserRepository(db), cfg), cfg
}

func TestAuthLoginRoundtrip(t *testing.T) {
	svc, cfg := newAuthService(t)

	user, err := svc.CreateUser(testCtx, &CreateUserRequest{
		Email:    "pm@example.com",
		Name:     "Project Manager",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Role != entity.RolePM {
		t.Errorf("role = %q, want default pm", user.Role)
	}

	resp, err := svc.Login(testCtx, &LoginRequest{Email: "pm@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	token, err := jwt.Parse(resp.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["uid"] != user.ID || claims["role"] != entity.RolePM {
		t.Errorf("claims = %v", claims)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, err := svc.CreateUser(testCtx, &CreateUserRequest{
		Email: "pm@example.com", Name: "PM", Password: "right",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := svc.Login(testCtx, &LoginRequest{Email: "pm@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	// Unknown email reads identically.
	_, err = svc.Login(testCtx, &LoginRequest{Email: "ghost@example.com", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, err := svc.CreateUser(testCtx, &CreateUserRequest{
		Email: "pm@example.com", Name: "PM", Password: "x",
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := svc.CreateUser(testCtx, &CreateUserRequest{
		Email: "pm@example.com", Name: "Other", Password: "y",
	})
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestAuthDeactivatedUserCannotLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	user, err := svc.CreateUser(testCtx, &CreateUserRequest{
		Email: "pm@example.com", Name: "PM", Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	inactive := false
	if _, err := svc.UpdateUser(testCtx, user.ID, &UpdateUserRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	_, err = svc.Login(testCtx, &LoginRequest{Email: "pm@example.com", Password: "s3cret"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials for inactive user", err)
	}
}
