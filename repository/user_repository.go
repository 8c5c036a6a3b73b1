package repository

import (
	"context"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query+" AND delete_at IS NULL", arg).First(&user).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &user, nil
}

func (r *gormUserRepository) ByID(ctx context.Context, id int) (*models.User, error) {
	return r.first(ctx, "user_id = ?", id)
}

func (r *gormUserRepository) ByName(ctx context.Context, userName string) (*models.User, error) {
	return r.first(ctx, "user_name = ?", userName)
}

func (r *gormUserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreateAt = &now
	user.UpdateAt = &now
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string, now time.Time) error {
	tx := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		})
	return affected("update password", tx)
}

func (r *gormUserRepository) RevokePasswordResetTokens(ctx context.Context, userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, models.TokenTypePasswordReset, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
	return translate("revoke reset tokens", err)
}

func (r *gormUserRepository) CreateToken(ctx context.Context, token *models.UserToken) error {
	return translate("create token", r.db.WithContext(ctx).Create(token).Error)
}

// ActivePasswordResetTokens lists unrevoked, unexpired reset tokens of a user, newest first.
func (r *gormUserRepository) ActivePasswordResetTokens(ctx context.Context, userID int, now time.Time) ([]models.UserToken, error) {
	var tokens []models.UserToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?", userID, models.TokenTypePasswordReset, false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, translate("list reset tokens", err)
}

func (r *gormUserRepository) RevokeToken(ctx context.Context, tokenID int, now time.Time) error {
	tx := r.db.WithContext(ctx).Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		})
	return affected("revoke token", tx)
}
