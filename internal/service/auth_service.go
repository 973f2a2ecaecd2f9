package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthService issues and validates JWT pairs and handles Google
// sign-in.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ValidateAccessToken(token string) (*dto.AuthClaims, error)
	GetGoogleAuthURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string) (*dto.TokenResponse, error)
}

// authService implements AuthService.
type authService struct {
	userRepo    domain.UserRepository
	jwtCfg      config.JWTConfig
	oauthConfig *oauth2.Config
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo domain.UserRepository, jwtCfg config.JWTConfig, googleCfg config.GoogleOAuthConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		oauthConfig: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  googleCfg.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Login verifies the password and issues a token pair.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up account", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid email or password", nil)
	}
	return s.issueTokenPair(user.ID)
}

// RefreshTokens rotates a valid refresh token into a fresh pair.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid refresh token", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up account", err)
	}
	if user == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "account no longer exists", nil)
	}
	return s.issueTokenPair(user.ID)
}

// ValidateAccessToken parses an access token and returns its claims.
func (s *authService) ValidateAccessToken(token string) (*dto.AuthClaims, error) {
	claims, err := s.parseToken(token)
	if err != nil || claims.TokenType != tokenTypeAccess {
		return nil, domain.NewError(domain.ErrUnauthorized, "invalid access token", err)
	}
	return claims, nil
}

// GetGoogleAuthURL returns the Google consent page URL for the state.
func (s *authService) GetGoogleAuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleGoogleCallback exchanges the code, resolves or creates the
// account and issues a token pair.
func (s *authService) HandleGoogleCallback(ctx context.Context, code string) (*dto.TokenResponse, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	info, err := s.fetchGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch Google profile", err)
	}

	user, err := s.userRepo.GetUserByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up account", err)
	}
	if user == nil {
		// Link to an existing password account with the same email, or
		// create a fresh account.
		user, err = s.userRepo.GetUserByEmail(ctx, info.Email)
		if err != nil {
			return nil, domain.NewInternalError("Failed to look up account", err)
		}
		if user != nil {
			user.GoogleID = info.ID
			user.UpdatedAt = time.Now()
			if err := s.userRepo.UpdateUser(ctx, user); err != nil {
				return nil, domain.NewInternalError("Failed to link Google account", err)
			}
		} else {
			now := time.Now()
			user = &domain.User{
				ID:        util.NewULID(),
				Email:     info.Email,
				Username:  info.Name,
				GoogleID:  info.ID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.userRepo.CreateUser(ctx, user); err != nil {
				return nil, err
			}
		}
	}
	return s.issueTokenPair(user.ID)
}

func (s *authService) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}

	var info dto.GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal userinfo response: %w", err)
	}
	return &info, nil
}

func (s *authService) issueTokenPair(userID string) (*dto.TokenResponse, error) {
	access, err := s.signToken(userID, tokenTypeAccess, s.jwtCfg.AccessTokenTTL)
	if err != nil {
		return nil, domain.NewInternalError("Failed to sign access token", err)
	}
	refresh, err := s.signToken(userID, tokenTypeRefresh, s.jwtCfg.RefreshTokenTTL)
	if err != nil {
		return nil, domain.NewInternalError("Failed to sign refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *authService) signToken(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &dto.AuthClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *authService) parseToken(tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}
