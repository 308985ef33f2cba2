// ============================================================================
// internal/auth/service.go
// Login, logout and token validation against the users/sessions collections
// ============================================================================

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"gradebook/internal/shared"
)

// Service authenticates users and issues/validates JWTs. Sessions are tracked
// server-side so logout revokes tokens before expiry.
type Service struct {
	db          *mongo.Database
	config      *shared.ServiceConfig
	usersCol    *mongo.Collection
	sessionsCol *mongo.Collection
}

// CustomClaims for JWT
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates a new auth Service instance
func NewService(db *mongo.Database, config *shared.ServiceConfig) *Service {
	s := &Service{config: config}
	if db != nil {
		s.db = db
		s.usersCol = db.Collection("users")
		s.sessionsCol = db.Collection("sessions")
	}
	return s
}

// Login authenticates by email and returns a signed token plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *shared.User, error) {
	if email == "" || password == "" {
		return "", nil, shared.NewValidationError("credentials", "email and password are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, shared.NewValidationError("credentials", "invalid credentials")
		}
		return "", nil, shared.NewUpstreamError("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.NewValidationError("credentials", "invalid credentials")
	}

	if !user.IsActive {
		return "", nil, shared.NewValidationError("credentials", "account is inactive")
	}

	tokenString, expiresAt, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := shared.Session{
		ID:        shared.GenerateID("sess"),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if _, err := s.sessionsCol.InsertOne(queryCtx, session); err != nil {
		return "", nil, shared.NewUpstreamError("login", err)
	}

	return tokenString, &user, nil
}

// Logout removes the session for a token. Idempotent: logging out an unknown
// or already-expired token still succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return shared.NewValidationError("token", "token is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.sessionsCol.DeleteMany(queryCtx, bson.M{"token": token}); err != nil {
		return shared.NewUpstreamError("logout", err)
	}

	return nil
}

// ValidateToken verifies the token signature, checks the session is still
// live, and returns the authenticated user.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*shared.User, error) {
	if tokenString == "" {
		return nil, shared.NewValidationError("token", "token is required")
	}

	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, shared.NewValidationError("token", "invalid token")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session shared.Session
	err = s.sessionsCol.FindOne(queryCtx, bson.M{"token": tokenString}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewValidationError("token", "session not found")
		}
		return nil, shared.NewUpstreamError("validate token", err)
	}
	if session.IsExpired() {
		return nil, shared.NewValidationError("token", "session expired")
	}

	var user shared.User
	if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": claims.UserID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.NewNotFoundError("user", claims.UserID)
		}
		return nil, shared.NewUpstreamError("validate token", err)
	}
	if !user.IsActive {
		return nil, shared.NewValidationError("token", "account is inactive")
	}

	return &user, nil
}

// ============================================================================
// Token Helpers
// ============================================================================

// GenerateToken signs a JWT for the user with the configured expiration.
func (s *Service) GenerateToken(userID, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.config.Security.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken verifies the signature and returns the claims.
func (s *Service) ParseToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Security.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
