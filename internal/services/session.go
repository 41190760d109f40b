package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studyshare/internal/config"
	"studyshare/internal/models"
	"studyshare/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// SessionService handles the OAuth sign-in flow and session tokens.
type SessionService struct {
	profileRepo *repository.ProfileRepository
	oauth       *oauth2.Config
	secret      string
	ttl         time.Duration
}

// NewSessionService creates a new session service. The OAuth client is
// built once from configuration; nothing session-related lives in
// package-level state.
func NewSessionService(profileRepo *repository.ProfileRepository, oauthCfg config.OAuthConfig, sessionCfg config.SessionConfig) *SessionService {
	return &SessionService{
		profileRepo: profileRepo,
		oauth: &oauth2.Config{
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
			RedirectURL:  oauthCfg.RedirectURL,
			Scopes:       []string{"openid", "profile"},
			Endpoint:     google.Endpoint,
		},
		secret: sessionCfg.Secret,
		ttl:    time.Duration(sessionCfg.TTLHours) * time.Hour,
	}
}

// TTL returns the session lifetime, used for the cookie max-age.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// AuthCodeURL returns the provider consent URL. The return destination
// rides the OAuth state parameter so the callback can restore it.
func (s *SessionService) AuthCodeURL(redirectTo string) string {
	return s.oauth.AuthCodeURL(redirectTo)
}

type userinfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchange trades an authorization code for the provider identity and
// upserts the matching profile. The profile row is created implicitly
// on first sign-in.
func (s *SessionService) Exchange(ctx context.Context, code string) (*models.Profile, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}

	resp, err := s.oauth.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("userinfo response missing subject id")
	}

	profile := &models.Profile{
		ID:        info.ID,
		Name:      info.Name,
		AvatarURL: info.Picture,
		CreatedAt: time.Now(),
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return profile, nil
}

// IssueToken generates a signed session token for a profile
func (s *SessionService) IssueToken(profileID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": profileID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a session token and returns the profile ID
func (s *SessionService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	profileID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("sub not found in token")
	}

	return profileID, nil
}

// ResolveProfile resolves a session token to the authenticated profile
func (s *SessionService) ResolveProfile(ctx context.Context, tokenString string) (*models.Profile, error) {
	profileID, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, profileID)
}
