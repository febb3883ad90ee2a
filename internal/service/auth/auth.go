// Package auth is the identity provider: it owns user records,
// credential hashing, and token issuance. The rest of the system only
// ever sees the Principal it resolves from a bearer token.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/database"
	"github.com/gocomet/carpool/pkg/logger"
)

// Service handles registration, login, and token verification.
type Service struct {
	db     *sql.DB
	secret []byte
	expiry time.Duration
	log    *logger.Logger
}

// NewService creates an auth service.
func NewService(db *sql.DB, secret string, expiry time.Duration, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		secret: []byte(secret),
		expiry: expiry,
		log:    log,
	}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

// Register creates a new user with the student role. Email uniqueness
// is enforced by the store's unique index; a duplicate surfaces as a
// Conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         user.RoleStudent,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, name, email, hashed_password, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role, u.CreatedAt,
	)
	if database.IsUniqueViolation(err, "uq_users_email") {
		return nil, apperr.Conflict(apperr.ReasonEmailTaken, "email already registered")
	}
	if err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	s.log.Info("user registered",
		logger.String("user_id", u.ID.String()),
		logger.String("email", u.Email),
	)
	return u, nil
}

// Login verifies credentials and returns the user plus a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		if apperr.From(err).Code == "NOT_FOUND" {
			return nil, "", apperr.Unauthorized("invalid email or password")
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Claims is the JWT payload: subject is the user id, role rides along
// so the presentation layer can gate admin views without a store read.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the user.
func (s *Service) IssueToken(u *user.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("failed to sign token", err)
	}
	return signed, nil
}

// VerifyToken parses a bearer token and resolves the principal.
func (s *Service) VerifyToken(tokenString string) (*user.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token subject")
	}

	return &user.Principal{UserID: userID, Role: user.Role(claims.Role)}, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u := &user.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, name, email, hashed_password, phone, role, created_at
		FROM users WHERE user_id = $1`,
		userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (*user.User, error) {
	u := &user.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, name, email, hashed_password, phone, role, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}
