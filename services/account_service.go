package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"
)

// PasswordResetTTL is how long a reset link stays valid.
const PasswordResetTTL = 10 * time.Minute

var (
	// ErrInvalidToken means the reset token is unknown, revoked or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrWrongPassword means the current password did not match.
	ErrWrongPassword = errors.New("wrong password")
)

// RequestMeta records where a reset request came from.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AccountService manages site users and their passwords.
type AccountService struct {
	users          repository.UserRepository
	now            func() time.Time
	tokenGenerator func() (string, error)
}

func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{
		users: users,
		now:   time.Now,
		tokenGenerator: func() (string, error) {
			return utils.GenerateRandomToken(32)
		},
	}
}

func (s *AccountService) FindByID(ctx context.Context, id int) (*models.User, error) {
	return s.users.ByID(ctx, id)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.ByEmail(ctx, strings.TrimSpace(email))
}

func (s *AccountService) FindByName(ctx context.Context, userName string) (*models.User, error) {
	return s.users.ByName(ctx, strings.TrimSpace(userName))
}

// Create hashes password and stores the user with role.
func (s *AccountService) Create(ctx context.Context, user *models.User, password, role string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = hashed
	user.Role = role
	return s.users.Create(ctx, user)
}

// CheckPassword reports whether password matches the stored hash.
func (s *AccountService) CheckPassword(user *models.User, password string) bool {
	if user == nil || user.Password == "" {
		return false
	}
	return utils.CheckPasswordHash(password, user.Password)
}

// ChangePassword replaces the password after verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if !s.CheckPassword(user, currentPassword) {
		return ErrWrongPassword
	}
	return s.setPassword(ctx, user, newPassword)
}

func (s *AccountService) setPassword(ctx context.Context, user *models.User, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.UserID, hashed, s.now()); err != nil {
		return err
	}
	user.Password = hashed
	return nil
}

// GeneratePasswordResetToken revokes previous reset tokens and stores a new
// hashed one. The raw token is returned for the reset link.
func (s *AccountService) GeneratePasswordResetToken(ctx context.Context, user *models.User, meta RequestMeta) (string, error) {
	rawToken, err := s.tokenGenerator()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	hashedToken, err := utils.HashPassword(rawToken)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}

	now := s.now()
	if err := s.users.RevokePasswordResetTokens(ctx, user.UserID, now); err != nil {
		return "", err
	}

	token := models.UserToken{
		UserID:     user.UserID,
		TokenType:  models.TokenTypePasswordReset,
		Token:      hashedToken,
		ExpiresAt:  now.Add(PasswordResetTTL),
		DeviceInfo: models.TokenTypePasswordReset,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.CreateToken(ctx, &token); err != nil {
		return "", err
	}
	return rawToken, nil
}

// VerifyPasswordResetToken reports whether rawToken is an active reset token of user.
func (s *AccountService) VerifyPasswordResetToken(ctx context.Context, user *models.User, rawToken string) (bool, error) {
	_, err := s.findActiveToken(ctx, user, rawToken)
	if errors.Is(err, ErrInvalidToken) {
		return false, nil
	}
	return err == nil, err
}

// ResetPassword sets a new password using a reset token, then revokes every
// outstanding reset token of the user.
func (s *AccountService) ResetPassword(ctx context.Context, user *models.User, rawToken, newPassword string) error {
	token, err := s.findActiveToken(ctx, user, rawToken)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	now := s.now()
	if err := s.users.RevokeToken(ctx, token.TokenID, now); err != nil {
		return err
	}
	return s.users.RevokePasswordResetTokens(ctx, user.UserID, now)
}

func (s *AccountService) findActiveToken(ctx context.Context, user *models.User, rawToken string) (*models.UserToken, error) {
	if user == nil || strings.TrimSpace(rawToken) == "" {
		return nil, ErrInvalidToken
	}
	tokens, err := s.users.ActivePasswordResetTokens(ctx, user.UserID, s.now())
	if err != nil {
		return nil, err
	}
	for i := range tokens {
		if utils.CheckPasswordHash(rawToken, tokens[i].Token) {
			return &tokens[i], nil
		}
	}
	return nil, ErrInvalidToken
}
