package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tournament-service/internal/config"
	"github.com/spec-kit/tournament-service/internal/domain"
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubTokenURL    = "https://github.com/login/oauth/access_token"
	githubUserURL     = "https://api.github.com/user"
)

// GoogleProvider exchanges Google OAuth codes.
type GoogleProvider struct {
	cfg config.OAuthProviderConfig
}

// NewGoogleProvider constructs the provider.
func NewGoogleProvider(cfg config.OAuthProviderConfig) *GoogleProvider {
	return &GoogleProvider{cfg: cfg}
}

// Name implements IdentityProvider.
func (p *GoogleProvider) Name() domain.AuthProvider {
	return domain.ProviderGoogle
}

// Exchange implements IdentityProvider.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ProviderIdentity, error) {
	token, err := fetchAccessToken(googleTokenURL, map[string]string{
		"client_id":     p.cfg.ClientID,
		"client_secret": p.cfg.ClientSecret,
		"redirect_uri":  p.cfg.RedirectURL,
		"grant_type":    "authorization_code",
		"code":          code,
	})
	if err != nil {
		return nil, err
	}

	var profile struct {
		ID      string  `json:"id"`
		Email   string  `json:"email"`
		Name    string  `json:"name"`
		Picture *string `json:"picture"`
	}
	if err := fetchJSON(googleUserInfoURL, token, &profile); err != nil {
		return nil, err
	}
	return &ProviderIdentity{
		ID:        profile.ID,
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
	}, nil
}

// GitHubProvider exchanges GitHub OAuth codes.
type GitHubProvider struct {
	cfg config.OAuthProviderConfig
}

// NewGitHubProvider constructs the provider.
func NewGitHubProvider(cfg config.OAuthProviderConfig) *GitHubProvider {
	return &GitHubProvider{cfg: cfg}
}

// Name implements IdentityProvider.
func (p *GitHubProvider) Name() domain.AuthProvider {
	return domain.ProviderGitHub
}

// Exchange implements IdentityProvider.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*ProviderIdentity, error) {
	token, err := fetchAccessToken(githubTokenURL, map[string]string{
		"client_id":     p.cfg.ClientID,
		"client_secret": p.cfg.ClientSecret,
		"redirect_uri":  p.cfg.RedirectURL,
		"code":          code,
	})
	if err != nil {
		return nil, err
	}

	var profile struct {
		ID        int64   `json:"id"`
		Email     string  `json:"email"`
		Name      string  `json:"name"`
		Login     string  `json:"login"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := fetchJSON(githubUserURL, token, &profile); err != nil {
		return nil, err
	}
	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	return &ProviderIdentity{
		ID:        strconv.FormatInt(profile.ID, 10),
		Email:     profile.Email,
		Name:      name,
		AvatarURL: profile.AvatarURL,
	}, nil
}

func fetchAccessToken(url string, form map[string]string) (string, error) {
	agent := fiber.Post(url)
	agent.Set("Accept", "application/json")
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for k, v := range form {
		args.Set(k, v)
	}
	agent.Form(args)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errs[0]
	}
	if status != fiber.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}
	return payload.AccessToken, nil
}

func fetchJSON(url, accessToken string, out any) error {
	agent := fiber.Get(url)
	agent.Set("Accept", "application/json")
	agent.Set("Authorization", "Bearer "+accessToken)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if status != fiber.StatusOK {
		return fmt.Errorf("profile endpoint returned status %d", status)
	}
	return json.Unmarshal(body, out)
}
