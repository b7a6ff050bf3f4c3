package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrInvalidInput signals a registration request with missing or malformed fields.
	ErrInvalidInput = errors.New("auth: invalid input")
	// ErrInvalidToken signals a missing, expired or tampered token.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

const minPasswordLen = 8

// Service handles authentication business logic.
type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// LoginResult bundles the token and domain user returned after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Claims is what VerifyToken extracts from a valid token.
type Claims struct {
	UserID string
	Role   Role
}

// NewService creates a new authentication service.
func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  DefaultTokenTTL,
		now:       time.Now,
	}
}

// WithTokenTTL overrides the token lifetime; non-positive values are ignored.
func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	// Validate password strength
	if len(req.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	// Validate required fields
	email := strings.TrimSpace(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || fullName == "" {
		return nil, fmt.Errorf("%w: email and full_name are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: malformed email %q", ErrInvalidInput, email)
	}

	role := Role(strings.ToLower(strings.TrimSpace(string(req.Role))))
	if role == "" {
		role = RoleViewer
	}
	if !IsValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(passwordHash),
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// EnsureUser registers req unless a user with the same email exists. The
// second result reports whether a user was created.
func (s *Service) EnsureUser(ctx context.Context, req RegisterRequest) (*User, bool, error) {
	existing, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err := s.Register(ctx, req)
	if errors.Is(err, ErrDuplicateEmail) {
		// Another instance won the race.
		existing, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
		if err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Login authenticates a user and returns a JWT token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	// Get user by email
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	// Verify password
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// GetUserByID retrieves user information by ID.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account, password hashes included; callers strip them.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// VerifyToken validates a JWT token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			return Claims{}, fmt.Errorf("%w: invalid user_id", ErrInvalidToken)
		}
		roleStr, ok := claims["role"].(string)
		if !ok {
			return Claims{}, fmt.Errorf("%w: invalid role", ErrInvalidToken)
		}
		role := Role(roleStr)
		if !IsValidRole(role) {
			return Claims{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, roleStr)
		}
		return Claims{UserID: userID, Role: role}, nil
	}

	return Claims{}, ErrInvalidToken
}

// generateToken creates a JWT token for the user.
func (s *Service) generateToken(userID string, role Role) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role Role) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}
