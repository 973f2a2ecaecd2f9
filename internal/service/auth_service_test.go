package service

import (
	"context"
	"testing"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(userRepo domain.UserRepository) AuthService {
	return NewAuthService(userRepo, config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}, config.GoogleOAuthConfig{})
}

func TestLoginIssuesValidTokenPair(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           "user1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := newTestAuthService(userRepo)
	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)

	// The refresh token is not accepted where an access token is needed.
	_, err = svc.ValidateAccessToken(tokens.RefreshToken)
	assert.Error(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           "user1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := newTestAuthService(userRepo)
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrUnauthorized, domainErr.Code)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	svc := newTestAuthService(userRepo)
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrUnauthorized, domainErr.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           "user1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)
	userRepo.On("GetUserByID", mock.Anything, "user1").Return(&domain.User{ID: "user1"}, nil)

	svc := newTestAuthService(userRepo)
	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	rotated, err := svc.RefreshTokens(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           "user1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := newTestAuthService(userRepo)
	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.RefreshTokens(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}
