package repository

import (
	"context"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

type gormPolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &gormPolicyRepository{db: db}
}

func (r *gormPolicyRepository) List(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	err := r.db.WithContext(ctx).Select("policy_id", "name", "updated_at").Order("policy_id ASC").Find(&policies).Error
	return policies, translate("list policies", err)
}

func (r *gormPolicyRepository) Get(ctx context.Context, id int) (*models.Policy, error) {
	var policy models.Policy
	if err := r.db.WithContext(ctx).Where("policy_id = ?", id).First(&policy).Error; err != nil {
		return nil, translate("find policy", err)
	}
	return &policy, nil
}

func (r *gormPolicyRepository) Update(ctx context.Context, policy *models.Policy) error {
	policy.UpdatedAt = time.Now()
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Policy{}).
		Where("policy_id = ?", policy.PolicyID).
		Updates(map[string]interface{}{
			"name":       policy.Name,
			"content":    policy.Content,
			"updated_at": policy.UpdatedAt,
		})
	return updated(db, "update policy", res, &models.Policy{}, "policy_id", policy.PolicyID)
}
