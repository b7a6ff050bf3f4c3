package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestService_RegisterAndLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	req := RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersafe",
		FullName: "Alice Admin",
	}

	ctx := context.Background()
	user, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("register: unexpected error: %v", err)
	}

	if user.Email != req.Email {
		t.Fatalf("expected email %q got %q", req.Email, user.Email)
	}
	if user.Role != RoleViewer {
		t.Fatalf("register: expected default role %s got %s", RoleViewer, user.Role)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: "ALICE@example.com", Password: req.Password})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login: expected token, got empty string")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("login: expected user id %q got %q", user.ID, resp.User.ID)
	}

	claims, err := svc.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("verify token: expected %q got %q", user.ID, claims.UserID)
	}
	if claims.Role != RoleViewer {
		t.Fatalf("verify token: expected role %s got %s", RoleViewer, claims.Role)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "short",
		FullName: "Alice Admin",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "",
		Password: "strongpassword",
		FullName: "",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing fields, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "not-an-email",
		Password: "strongpassword",
		FullName: "Bob",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed email, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "bob@example.com",
		Password: "strongpassword",
		FullName: "Bob",
		Role:     "superuser",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	req := RegisterRequest{
		Email:    "alice@example.com",
		Password: "strongpassword",
		FullName: "Alice Admin",
		Role:     RoleFinance,
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "unknown@example.com",
		Password: "irrelevant",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{Email: "c@example.com", Password: "rightpassword", FullName: "C"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Email: "c@example.com", Password: "wrongpassword"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestService_EnsureUserIsIdempotent(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "test-secret")
	req := RegisterRequest{Email: "admin@example.com", Password: "changeme123", FullName: "Admin", Role: RoleAdmin}

	first, created, err := svc.EnsureUser(context.Background(), req)
	if err != nil || !created {
		t.Fatalf("expected user to be created, got %v %v", created, err)
	}
	second, created, err := svc.EnsureUser(context.Background(), req)
	if err != nil || created {
		t.Fatalf("expected existing user, got %v %v", created, err)
	}
	if first.ID != second.ID || second.Role != RoleAdmin {
		t.Fatalf("unexpected user %+v", second)
	}
}

func TestService_TokenExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepository(), "test-secret").
		WithTokenTTL(time.Hour).
		WithClock(func() time.Time { return now })

	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{Email: "d@example.com", Password: "password123", FullName: "D", Role: RoleHR}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := svc.Login(ctx, LoginRequest{Email: "d@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !res.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", res.ExpiresAt)
	}

	now = now.Add(2 * time.Hour)
	if _, err := svc.VerifyToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestService_VerifyTokenRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	issuer := NewService(NewMemoryRepository(), "secret-a")
	if _, err := issuer.Register(ctx, RegisterRequest{Email: "e@example.com", Password: "password123", FullName: "E"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := issuer.Login(ctx, LoginRequest{Email: "e@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := NewService(NewMemoryRepository(), "secret-b")
	if _, err := other.VerifyToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := other.VerifyToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

type fakeRepository struct {
	usersByEmail map[string]User
	usersByID    map[string]User
	nextID       int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		usersByEmail: make(map[string]User),
		usersByID:    make(map[string]User),
		nextID:       1,
	}
}

func (f *fakeRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if _, exists := f.usersByEmail[strings.ToLower(params.Email)]; exists {
		return User{}, ErrDuplicateEmail
	}

	id := fmt.Sprintf("user-%d", f.nextID)
	f.nextID++

	user := User{
		ID:           id,
		Email:        params.Email,
		FullName:     params.FullName,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		Department:   params.Department,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	f.usersByEmail[strings.ToLower(user.Email)] = user
	f.usersByID[user.ID] = user

	return user, nil
}

func (f *fakeRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, ok := f.usersByEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, userID string) (User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(f.usersByID))
	for _, u := range f.usersByID {
		out = append(out, u)
	}
	return out, nil
}

func TestMemoryRepository_ListAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), "test-secret")

	for _, email := range []string{"zed@example.com", "Amy@example.com"} {
		if _, err := svc.Register(ctx, RegisterRequest{Email: email, Password: "supersafe", FullName: "User"}); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
	}
	if _, err := svc.Register(ctx, RegisterRequest{Email: "AMY@example.com", Password: "supersafe", FullName: "Dup"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0].Email != "Amy@example.com" || users[1].Email != "zed@example.com" {
		t.Fatalf("expected users sorted by email, got %+v", users)
	}
	if users[0].Role != RoleViewer {
		t.Fatalf("expected default role viewer, got %s", users[0].Role)
	}

	got, err := svc.GetUserByID(ctx, users[1].ID)
	if err != nil || got.Email != "zed@example.com" {
		t.Fatalf("get by id: %+v %v", got, err)
	}
	if _, err := svc.GetUserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
