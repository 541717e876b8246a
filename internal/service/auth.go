package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/mediahub/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only hashes the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

// AuthOptions configures token issuing and password hashing.
type AuthOptions struct {
	Secret     string
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
	BcryptCost int

	// AdminUsernames are granted the admin role when they register.
	AdminUsernames []string
}

// AuthService handles user registration, login, and JWT token operations.
type AuthService struct {
	users      domain.UserRepository
	jwtSecret  []byte
	issuer     string
	audience   string
	ttl        time.Duration
	bcryptCost int
	admins     map[string]bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, opts AuthOptions) *AuthService {
	admins := make(map[string]bool, len(opts.AdminUsernames))
	for _, name := range opts.AdminUsernames {
		admins[strings.ToLower(name)] = true
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(opts.Secret),
		issuer:     opts.Issuer,
		audience:   opts.Audience,
		ttl:        opts.TokenTTL,
		bcryptCost: opts.BcryptCost,
		admins:     admins,
	}
}

// Register creates a new user account after validating inputs.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email, and password are required", domain.ErrInvalidInput)
	}
	if len(username) > 64 || strings.ContainsAny(username, " \t\r\n") {
		return nil, fmt.Errorf("%w: username must be at most 64 characters without spaces", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if s.admins[strings.ToLower(username)] {
		user.Role = domain.RoleAdmin
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login verifies credentials and returns a signed JWT with the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthenticated
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthenticated
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate jwt: %w", err)
	}
	return token, user, nil
}

type claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken parses and validates a JWT and returns the identity it
// carries.
func (s *AuthService) ValidateToken(tokenString string) (domain.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return domain.Identity{UserID: userID, Username: c.Username, Role: c.Role}, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	c := claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.jwtSecret)
}
