package services_test

import (
	"fmt"
	"testing"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test_jwt_secret",
		TokenTTL:       24 * time.Hour,
		AdminUsernames: []string{"admin", "testadmin"},
	}
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testConfig())

	mockRepo.On("GetByUsername", "alice").Return(nil, models.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once().Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "user-123"
	})

	user, token, err := authService.Register("alice", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	// The stored password must be a bcrypt hash of the original, not the
	// plain text.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Duplicate username
	mockRepo.On("GetByUsername", "alice").Return(&models.User{ID: "user-123", Username: "alice"}, nil).Once()
	_, _, err = authService.Register("alice", "password123")
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_AdminBootstrap(t *testing.T) {
	cases := []struct {
		username string
		wantRole string
	}{
		{"admin", models.RoleAdmin},
		{"Admin", models.RoleAdmin},
		{"testadmin", models.RoleAdmin},
		{"alice", models.RoleUser},
		{"administrator", models.RoleUser},
	}

	for _, tc := range cases {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testConfig())

		mockRepo.On("GetByUsername", tc.username).Return(nil, models.ErrUserNotFound).Once()
		mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, _, err := authService.Register(tc.username, "password123")
		assert.NoError(t, err)
		assert.Equal(t, tc.wantRole, user.Role, "role for %q", tc.username)
		mockRepo.AssertExpectations(t)
	}
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := services.NewAuthService(mockRepo, cfg)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "alice",
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	// Successful login
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	loggedIn, token, err := authService.Login("alice", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	// The token must decode back to the same user identifier.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	_, _, err = authService.Login("alice", "wrongpassword")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user reports the same generic failure
	mockRepo.On("GetByUsername", "nobody").Return(nil, models.ErrUserNotFound).Once()
	_, _, err = authService.Login("nobody", "password123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cfg := testConfig()
	authService := services.NewAuthService(mockRepo, cfg)

	validToken, err := authService.GenerateToken("user-123")
	assert.NoError(t, err)

	userID, err := authService.ValidateToken(validToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(cfg.JWTSecret))
	_, err = authService.ValidateToken(expiredString)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	// Token signed with a different secret
	tampered := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tamperedString, _ := tampered.SignedString([]byte("some_other_secret"))
	_, err = authService.ValidateToken(tamperedString)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestAuthService_GetUserByID_StripsPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testConfig())

	mockRepo.On("GetByID", "user-123").Return(&models.User{
		ID:       "user-123",
		Username: "alice",
		Password: "some-hash",
		Role:     models.RoleUser,
	}, nil).Once()

	user, err := authService.GetUserByID("user-123")
	assert.NoError(t, err)
	assert.Empty(t, user.Password)
	mockRepo.AssertExpectations(t)
}
