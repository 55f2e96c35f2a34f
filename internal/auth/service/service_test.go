package service

import (
	"context"
	"testing"
	"time"

	"agenda_backend/internal/auth/password"
	"agenda_backend/internal/auth/repository"
	"agenda_backend/internal/auth/transport"
	"agenda_backend/platform/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

type fakeRepo struct {
	byEmail map[string]*repository.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: make(map[string]*repository.User)}
}

func (r *fakeRepo) CreateUser(_ context.Context, name, email, passwordHash string, isProvider bool, avatarURL *string) (*repository.User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, apperr.Conflict("email already in use").WithCode("email_taken")
	}
	user := &repository.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsProvider:   isProvider,
		AvatarURL:    avatarURL,
		CreatedAt:    time.Now(),
	}
	r.byEmail[email] = user
	return user, nil
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (*repository.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func TestSignUpIssuesProviderToken(t *testing.T) {
	svc := New(newFakeRepo(), testConfig{})

	resp, err := svc.SignUp(context.Background(), transport.SignUpRequest{
		Name:       "Paul Provider",
		Email:      "paul@example.com",
		Password:   "supersecret1",
		IsProvider: true,
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("access token did not verify: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != resp.User.ID.String() {
		t.Errorf("sub = %v, want %v", claims["sub"], resp.User.ID)
	}
	if claims["type"] != "access" {
		t.Errorf("type = %v, want access", claims["type"])
	}
	if claims["provider"] != true {
		t.Errorf("provider claim = %v, want true", claims["provider"])
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	svc := New(newFakeRepo(), testConfig{})

	req := transport.SignUpRequest{Name: "Paul", Email: "paul@example.com", Password: "supersecret1"}
	if _, err := svc.SignUp(context.Background(), req); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}

	_, err := svc.SignUp(context.Background(), req)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSignInVerifiesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, testConfig{})

	hash, err := password.Hash("supersecret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if _, err := repo.CreateUser(context.Background(), "Carla", "carla@example.com", hash, false, nil); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	resp, err := svc.SignIn(context.Background(), transport.SignInRequest{
		Email: "carla@example.com", Password: "supersecret1",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}

	_, err = svc.SignIn(context.Background(), transport.SignInRequest{
		Email: "carla@example.com", Password: "wrong",
	})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
}

func TestSignInUnknownEmailIndistinguishable(t *testing.T) {
	svc := New(newFakeRepo(), testConfig{})

	_, err := svc.SignIn(context.Background(), transport.SignInRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}
