package controllers

import (
	"context"

	"imex-website/models"
	"imex-website/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// ret returns argument i as T, or the zero value when it was set to nil.
func ret[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type MockMessageRepository struct{ mock.Mock }

func (m *MockMessageRepository) Send(ctx context.Context, message *models.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockMessageRepository) All(ctx context.Context) ([]models.Message, error) {
	args := m.Called(ctx)
	return ret[[]models.Message](args, 0), args.Error(1)
}

func (m *MockMessageRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

func (m *MockMessageRepository) UnreadCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

func (m *MockMessageRepository) ByID(ctx context.Context, id int) (*models.Message, error) {
	args := m.Called(ctx, id)
	return ret[*models.Message](args, 0), args.Error(1)
}

func (m *MockMessageRepository) MarkAsRead(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMessageRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMessageRepository) Search(ctx context.Context, criteria string) ([]models.Message, error) {
	args := m.Called(ctx, criteria)
	return ret[[]models.Message](args, 0), args.Error(1)
}

type MockApplicationRepository struct{ mock.Mock }

func (m *MockApplicationRepository) Send(ctx context.Context, application *models.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *MockApplicationRepository) All(ctx context.Context) ([]models.Application, error) {
	args := m.Called(ctx)
	return ret[[]models.Application](args, 0), args.Error(1)
}

func (m *MockApplicationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

func (m *MockApplicationRepository) UnreadCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

func (m *MockApplicationRepository) ByID(ctx context.Context, id int) (*models.Application, error) {
	args := m.Called(ctx, id)
	return ret[*models.Application](args, 0), args.Error(1)
}

func (m *MockApplicationRepository) CV(ctx context.Context, applicationID int) (*models.CV, error) {
	args := m.Called(ctx, applicationID)
	return ret[*models.CV](args, 0), args.Error(1)
}

func (m *MockApplicationRepository) MarkAsRead(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApplicationRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApplicationRepository) Search(ctx context.Context, criteria string) ([]models.Application, error) {
	args := m.Called(ctx, criteria)
	return ret[[]models.Application](args, 0), args.Error(1)
}

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) List(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	return ret[[]models.Job](args, 0), args.Error(1)
}

func (m *MockJobRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

func (m *MockJobRepository) ByID(ctx context.Context, id int) (*models.Job, error) {
	args := m.Called(ctx, id)
	return ret[*models.Job](args, 0), args.Error(1)
}

func (m *MockJobRepository) Add(ctx context.Context, job *models.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) Edit(ctx context.Context, job *models.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockProjectRepository struct{ mock.Mock }

func (m *MockProjectRepository) Latest(ctx context.Context) (*models.Project, error) {
	args := m.Called(ctx)
	return ret[*models.Project](args, 0), args.Error(1)
}

func (m *MockProjectRepository) Page(ctx context.Context, page, size int) ([]models.Project, error) {
	args := m.Called(ctx, page, size)
	return ret[[]models.Project](args, 0), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return ret[int64](args, 0), args.Error(1)
}

func (m *MockProjectRepository) WithPictures(ctx context.Context, id int) (*models.Project, error) {
	args := m.Called(ctx, id)
	return ret[*models.Project](args, 0), args.Error(1)
}

func (m *MockProjectRepository) Picture(ctx context.Context, id int) (*models.Picture, error) {
	args := m.Called(ctx, id)
	return ret[*models.Picture](args, 0), args.Error(1)
}

func (m *MockProjectRepository) Search(ctx context.Context, criteria string) ([]models.Project, error) {
	args := m.Called(ctx, criteria)
	return ret[[]models.Project](args, 0), args.Error(1)
}

func (m *MockProjectRepository) Add(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockPolicyRepository struct{ mock.Mock }

func (m *MockPolicyRepository) List(ctx context.Context) ([]models.Policy, error) {
	args := m.Called(ctx)
	return ret[[]models.Policy](args, 0), args.Error(1)
}

func (m *MockPolicyRepository) Get(ctx context.Context, id int) (*models.Policy, error) {
	args := m.Called(ctx, id)
	return ret[*models.Policy](args, 0), args.Error(1)
}

func (m *MockPolicyRepository) Update(ctx context.Context, policy *models.Policy) error {
	return m.Called(ctx, policy).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, email services.Email) error {
	return m.Called(ctx, email).Error(0)
}

type MockTemplateReader struct{ mock.Mock }

func (m *MockTemplateReader) ReadFile(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

type MockAccountManager struct{ mock.Mock }

func (m *MockAccountManager) FindByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *MockAccountManager) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *MockAccountManager) FindByName(ctx context.Context, userName string) (*models.User, error) {
	args := m.Called(ctx, userName)
	return ret[*models.User](args, 0), args.Error(1)
}

func (m *MockAccountManager) Create(ctx context.Context, user *models.User, password, role string) error {
	return m.Called(ctx, user, password, role).Error(0)
}

func (m *MockAccountManager) CheckPassword(user *models.User, password string) bool {
	return m.Called(user, password).Bool(0)
}

func (m *MockAccountManager) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	return m.Called(ctx, user, currentPassword, newPassword).Error(0)
}

func (m *MockAccountManager) GeneratePasswordResetToken(ctx context.Context, user *models.User, meta services.RequestMeta) (string, error) {
	args := m.Called(ctx, user, meta)
	return args.String(0), args.Error(1)
}

func (m *MockAccountManager) VerifyPasswordResetToken(ctx context.Context, user *models.User, rawToken string) (bool, error) {
	args := m.Called(ctx, user, rawToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountManager) ResetPassword(ctx context.Context, user *models.User, rawToken, newPassword string) error {
	return m.Called(ctx, user, rawToken, newPassword).Error(0)
}

type MockSessionManager struct{ mock.Mock }

func (m *MockSessionManager) SignIn(c *gin.Context, user *models.User) error {
	return m.Called(c, user).Error(0)
}

func (m *MockSessionManager) SignOut(c *gin.Context) {
	m.Called(c)
}
