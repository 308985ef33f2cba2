package auth

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"gradebook/internal/shared"
)

func testConfig() *shared.ServiceConfig {
	return &shared.ServiceConfig{
		ServiceName: "auth-test",
		Security: shared.SecurityConfig{
			JWTSecret:          "test-secret-do-not-use",
			JWTExpirationHours: 1,
			BCryptCost:         bcrypt.MinCost,
		},
	}
}

// Token helpers are pure crypto; no database needed.
func TestTokenRoundTrip(t *testing.T) {
	service := NewService(nil, testConfig())

	t.Run("Generate And Parse", func(t *testing.T) {
		token, expiresAt, err := service.GenerateToken("user-001", shared.RoleTeacher)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if token == "" {
			t.Fatal("Expected a non-empty token")
		}
		if !expiresAt.After(time.Now()) {
			t.Error("Expiration should be in the future")
		}

		claims, err := service.ParseToken(token)
		if err != nil {
			t.Fatalf("ParseToken failed: %v", err)
		}
		if claims.UserID != "user-001" || claims.Role != shared.RoleTeacher {
			t.Errorf("Claims did not round-trip: %+v", claims)
		}
	})

	t.Run("Wrong Secret Rejected", func(t *testing.T) {
		token, _, err := service.GenerateToken("user-001", shared.RoleStudent)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}

		otherCfg := testConfig()
		otherCfg.Security.JWTSecret = "a-different-secret"
		other := NewService(nil, otherCfg)

		if _, err := other.ParseToken(token); err == nil {
			t.Error("Expected parse failure with a different secret")
		}
	})

	t.Run("Expired Token Rejected", func(t *testing.T) {
		cfg := testConfig()
		cfg.Security.JWTExpirationHours = -1
		expired := NewService(nil, cfg)

		token, _, err := expired.GenerateToken("user-001", shared.RoleStudent)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if _, err := service.ParseToken(token); err == nil {
			t.Error("Expected parse failure for an expired token")
		}
	})
}

func TestValidationShortCircuits(t *testing.T) {
	service := NewService(nil, testConfig())
	ctx := context.Background()

	t.Run("Login Requires Credentials", func(t *testing.T) {
		if _, _, err := service.Login(ctx, "", "password"); !shared.IsValidation(err) {
			t.Errorf("Expected validation error for empty email, got %v", err)
		}
		if _, _, err := service.Login(ctx, "a@b.com", ""); !shared.IsValidation(err) {
			t.Errorf("Expected validation error for empty password, got %v", err)
		}
	})

	t.Run("Logout Requires Token", func(t *testing.T) {
		if err := service.Logout(ctx, ""); !shared.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("Validate Rejects Garbage Token", func(t *testing.T) {
		if _, err := service.ValidateToken(ctx, "not-a-jwt"); !shared.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestAuthService_Integration(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system environment")
	}
	if os.Getenv("MONGO_URI") == "" {
		t.Skip("MONGO_URI not set; skipping integration test")
	}

	cfg, err := shared.LoadServiceConfig("auth-test")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.Security.JWTSecret = "integration-test-secret"

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	service := NewService(db, cfg)
	ctx := context.Background()

	testUserID := "test-auth-user-001"
	testEmail := "test_auth@example.com"
	testPassword := "secret123"

	cleanup := func() {
		db.Collection("users").DeleteOne(ctx, bson.M{"_id": testUserID})
		db.Collection("sessions").DeleteMany(ctx, bson.M{"user_id": testUserID})
	}
	cleanup()
	defer cleanup()

	hashed, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	_, err = db.Collection("users").InsertOne(ctx, shared.User{
		ID: testUserID, Email: testEmail, PasswordHash: string(hashed),
		Role: shared.RoleStudent, Name: "Integration Test User", IsActive: true,
	})
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}

	var authToken string

	// ========================================================================
	// Test 1: Login
	// ========================================================================
	t.Run("Login Success", func(t *testing.T) {
		token, user, err := service.Login(ctx, testEmail, testPassword)
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if token == "" || user == nil || user.ID != testUserID {
			t.Errorf("Expected token and user, got token=%q user=%+v", token, user)
		}
		authToken = token
	})

	// ========================================================================
	// Test 2: Login Failure
	// ========================================================================
	t.Run("Login Invalid Password", func(t *testing.T) {
		if _, _, err := service.Login(ctx, testEmail, "wrongpassword"); !shared.IsValidation(err) {
			t.Errorf("Expected validation error for wrong password, got %v", err)
		}
	})

	// ========================================================================
	// Test 3: Validate Token
	// ========================================================================
	t.Run("Validate Token", func(t *testing.T) {
		user, err := service.ValidateToken(ctx, authToken)
		if err != nil {
			t.Fatalf("ValidateToken failed: %v", err)
		}
		if user.Email != testEmail {
			t.Errorf("Wrong user returned: %+v", user)
		}
	})

	// ========================================================================
	// Test 4: Logout
	// ========================================================================
	t.Run("Logout Revokes Session", func(t *testing.T) {
		if err := service.Logout(ctx, authToken); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if _, err := service.ValidateToken(ctx, authToken); err == nil {
			t.Error("Token should be invalid after logout")
		}
		// Idempotent: a second logout still succeeds.
		if err := service.Logout(ctx, authToken); err != nil {
			t.Errorf("Repeated logout should succeed, got %v", err)
		}
	})
}
