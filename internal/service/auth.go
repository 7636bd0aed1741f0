package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beanline/coffee-shop/internal/hash"
	"github.com/beanline/coffee-shop/internal/logging"
	"github.com/beanline/coffee-shop/internal/models"
	"github.com/beanline/coffee-shop/internal/repo"
	"github.com/beanline/coffee-shop/internal/tokens"
	"github.com/beanline/coffee-shop/internal/transport"
)

var _ Identity = (*models.User)(nil)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        EventPublisher
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrValidation, errs[0].Field, errs[0].Reason)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: pwHash,
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "reason", "email already registered")
			return nil, ErrEmailTaken
		}
		l.Error("register_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if errs := req.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrValidation, errs[0].Field, errs[0].Reason)
	}

	user, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrUnknownEmail
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !user.VerifyCredential(req.Password) {
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return nil, ErrWrongPassword
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})

	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// Refresh rotates a session: the presented refresh token is checked
// against the store, revoked, and replaced along with a fresh access
// token. Any failure collapses to ErrSessionExpired so the middleware
// can send the shopper back to login without leaking why.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	usable, err := s.Repo.RefreshUsable(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if !usable {
		l.Warn("refresh_rejected", "reason", "token revoked or expired")
		return nil, ErrSessionExpired
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrSessionExpired
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	// The old token dies with its first successful use.
	if err := s.Repo.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		l.Error("refresh_failed", "reason", "cannot revoke old token", "error", err)
		return nil, err
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return res, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.SignAccessToken(user.IdentityID(), s.JWTSecret, accessExp)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, err := tokens.SignRefreshToken(user.IdentityID(), s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, user.ID, claims.ID, refreshExp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, rawRefresh)
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.Publish(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}
