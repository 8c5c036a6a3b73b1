// Package repository holds the GORM-backed stores used by the handlers.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
var ErrNotFound = errors.New("record not found")

type MessageRepository interface {
	Send(ctx context.Context, message *models.Message) error
	All(ctx context.Context) ([]models.Message, error)
	Count(ctx context.Context) (int64, error)
	UnreadCount(ctx context.Context) (int64, error)
	ByID(ctx context.Context, id int) (*models.Message, error)
	MarkAsRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, criteria string) ([]models.Message, error)
}

type ApplicationRepository interface {
	Send(ctx context.Context, application *models.Application) error
	All(ctx context.Context) ([]models.Application, error)
	Count(ctx context.Context) (int64, error)
	UnreadCount(ctx context.Context) (int64, error)
	ByID(ctx context.Context, id int) (*models.Application, error)
	CV(ctx context.Context, applicationID int) (*models.CV, error)
	MarkAsRead(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, criteria string) ([]models.Application, error)
}

type JobRepository interface {
	List(ctx context.Context) ([]models.Job, error)
	Count(ctx context.Context) (int64, error)
	ByID(ctx context.Context, id int) (*models.Job, error)
	Add(ctx context.Context, job *models.Job) error
	Edit(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id int) error
}

type ProjectRepository interface {
	Latest(ctx context.Context) (*models.Project, error)
	Page(ctx context.Context, page, size int) ([]models.Project, error)
	Count(ctx context.Context) (int64, error)
	WithPictures(ctx context.Context, id int) (*models.Project, error)
	Picture(ctx context.Context, id int) (*models.Picture, error)
	Search(ctx context.Context, criteria string) ([]models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	// Update saves title and description and, when project carries pictures,
	// replaces the stored gallery with them in the same transaction.
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int) error
}

type PolicyRepository interface {
	List(ctx context.Context) ([]models.Policy, error)
	Get(ctx context.Context, id int) (*models.Policy, error)
	Update(ctx context.Context, policy *models.Policy) error
}

type UserRepository interface {
	ByID(ctx context.Context, id int) (*models.User, error)
	ByName(ctx context.Context, userName string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int, hashedPassword string, now time.Time) error
	RevokePasswordResetTokens(ctx context.Context, userID int, now time.Time) error
	CreateToken(ctx context.Context, token *models.UserToken) error
	ActivePasswordResetTokens(ctx context.Context, userID int, now time.Time) ([]models.UserToken, error)
	RevokeToken(ctx context.Context, tokenID int, now time.Time) error
}

// Repositories groups every store, built once at startup.
type Repositories struct {
	Messages     MessageRepository
	Applications ApplicationRepository
	Jobs         JobRepository
	Projects     ProjectRepository
	Policies     PolicyRepository
	Users        UserRepository
}

// New builds the GORM repositories sharing db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Messages:     NewMessageRepository(db),
		Applications: NewApplicationRepository(db),
		Jobs:         NewJobRepository(db),
		Projects:     NewProjectRepository(db),
		Policies:     NewPolicyRepository(db),
		Users:        NewUserRepository(db),
	}
}

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affected maps a write that touched no row to ErrNotFound.
func affected(op string, tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(op, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updated is affected for UPDATE statements. MySQL reports 0 rows when the
// new values equal the stored ones, so a row that still exists is not missing.
func updated(db *gorm.DB, op string, res *gorm.DB, model interface{}, column string, id int) error {
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(model).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return translate(op, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// likePattern wraps criteria for a LIKE match, escaping wildcards.
func likePattern(criteria string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(criteria)) + "%"
}
