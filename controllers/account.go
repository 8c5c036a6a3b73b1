package controllers

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"imex-website/middleware"
	"imex-website/models"
	"imex-website/repository"
	"imex-website/services"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Account messages shown on the info pages or as flashes.
const (
	userAddedMessage         = "Utilizatorul a fost adaugat cu succes!"
	passwordChangedFlash     = "Parola a fost schimbată cu succes!"
	resetLinkSentMessage     = "Dacă adresa există în sistem, vei primi un email cu instrucțiunile pentru resetarea parolei."
	resetLinkInvalidMessage  = "Link-ul de resetare a parolei nu este valid."
	resetLinkExpiredMessage  = "Link-ul de resetare a expirat. Te rugăm să soliciți unul nou."
	resetTokenInvalidMessage = "Token-ul de resetare nu este valid sau a expirat."
	resetFailedMessage       = "A aparut o eroare la schimbarea parolei. Te rugăm să încerci din nou."
	resetSucceededMessage    = "Parola a fost schimbata cu succes! Te poți autentifica cu noua parolă."
	accountErrorMessage      = "A aparut o eroare. Te rugăm să încerci din nou."
	forbiddenMessage         = "Nu ai drepturi pentru această acțiune."
	controlPanelPath         = "/administration"
)

// AccountManager is the account store used by the handlers.
type AccountManager interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByName(ctx context.Context, userName string) (*models.User, error)
	Create(ctx context.Context, user *models.User, password, role string) error
	CheckPassword(user *models.User, password string) bool
	ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error
	GeneratePasswordResetToken(ctx context.Context, user *models.User, meta services.RequestMeta) (string, error)
	VerifyPasswordResetToken(ctx context.Context, user *models.User, rawToken string) (bool, error)
	ResetPassword(ctx context.Context, user *models.User, rawToken, newPassword string) error
}

// SessionManager signs users in and out.
type SessionManager interface {
	SignIn(c *gin.Context, user *models.User) error
	SignOut(c *gin.Context)
}

type AccountController struct {
	accounts AccountManager
	sessions SessionManager
	notifier *Notifier
	baseURL  string
	log      logrus.FieldLogger
}

func NewAccountController(accounts AccountManager, sessions SessionManager, notifier *Notifier, baseURL string, log logrus.FieldLogger) *AccountController {
	return &AccountController{
		accounts: accounts,
		sessions: sessions,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
	}
}

type LoginForm struct {
	Login     string `form:"login" binding:"required,max=200"`
	Password  string `form:"password" binding:"required"`
	ReturnURL string `form:"return_url"`
}

type CreateUserForm struct {
	UserName        string `form:"user_name" binding:"required,max=100"`
	Email           string `form:"email" binding:"required,email,max=200"`
	Phone           string `form:"phone" binding:"max=30"`
	Role            string `form:"role" binding:"omitempty,oneof=Admin Editor"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

type ResetPasswordForm struct {
	Email           string `form:"email" binding:"required"`
	Token           string `form:"token" binding:"required"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

type ChangePasswordForm struct {
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required"`
	ConfirmPassword string `form:"confirm_password" binding:"required"`
}

// ProfilePage is the model of the profile page.
type ProfilePage struct {
	UserName string
	Email    string
	Phone    string
}

func (h *AccountController) Login(c *gin.Context) {
	if middleware.IsAuthenticated(c) {
		redirect(c, controlPanelPath)
		return
	}
	render(c, "account/login.html", newView(c, "Autentificare", LoginForm{ReturnURL: c.Query("returnUrl")}))
}

// LoginUser accepts either the email or the user name.
func (h *AccountController) LoginUser(c *gin.Context) {
	ctx := c.Request.Context()
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		render(c, "account/login.html", newView(c, "Autentificare", form).withErrors(utils.BindingErrors(err)))
		return
	}

	user, err := h.accounts.FindByEmail(ctx, form.Login)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = h.accounts.FindByName(ctx, form.Login)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.log.WithError(err).Error("Account: find user for login")
		redirect(c, utils.ErrorInfoURL(accountErrorMessage))
		return
	}
	if user == nil {
		h.invalidCredentials(c, form)
		return
	}

	h.sessions.SignOut(c)
	if !h.accounts.CheckPassword(user, form.Password) {
		h.log.WithField("user_id", user.UserID).Warn("Account: wrong password")
		h.invalidCredentials(c, form)
		return
	}
	if err := h.sessions.SignIn(c, user); err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("Account: sign in")
		redirect(c, utils.ErrorInfoURL(accountErrorMessage))
		return
	}
	redirect(c, localURL(form.ReturnURL, controlPanelPath))
}

func (h *AccountController) invalidCredentials(c *gin.Context, form LoginForm) {
	errs := utils.FormErrors{}
	errs.Add("invalidCredentials", "Numele de utilizator sau parola sunt greșite")
	form.Password = ""
	render(c, "account/login.html", newView(c, "Autentificare", form).withErrors(errs))
}

func (h *AccountController) Logout(c *gin.Context) {
	h.sessions.SignOut(c)
	redirect(c, middleware.LoginPath)
}

func (h *AccountController) Profile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		redirect(c, middleware.LoginPath)
		return
	}
	render(c, "account/profile.html", newView(c, "Profil", profileOf(user)))
}

// ChangeUserPassword changes the password of the signed-in user.
func (h *AccountController) ChangeUserPassword(c *gin.Context) {
	ctx := c.Request.Context()
	user, ok := h.currentUser(c)
	if !ok {
		redirect(c, middleware.LoginPath)
		return
	}

	var form ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderProfile(c, user, utils.BindingErrors(err))
		return
	}
	if errs := passwordErrors(form.NewPassword, form.ConfirmPassword); !errs.Valid() {
		h.renderProfile(c, user, errs)
		return
	}
	if !h.accounts.CheckPassword(user, form.CurrentPassword) {
		errs := utils.FormErrors{}
		errs.Add("oldPasswordWrong", "Parola curentă nu este corectă")
		h.renderProfile(c, user, errs)
		return
	}
	if err := h.accounts.ChangePassword(ctx, user, form.CurrentPassword, form.NewPassword); err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("Account: change password")
		redirect(c, utils.AdminInfoURL(accountErrorMessage))
		return
	}

	v := newView(c, "Profil", profileOf(user))
	v.Flash = passwordChangedFlash
	render(c, "account/profile.html", v)
}

func (h *AccountController) renderProfile(c *gin.Context, user *models.User, errs utils.FormErrors) {
	render(c, "account/profile.html", newView(c, "Profil", profileOf(user)).withErrors(errs))
}

func (h *AccountController) CreateUser(c *gin.Context) {
	if !isAdmin(c) {
		redirect(c, utils.AdminInfoURL(forbiddenMessage))
		return
	}
	render(c, "account/create_user.html", newView(c, "Utilizator nou", CreateUserForm{}))
}

// CreateUserPost adds a new account. Only admins may do this.
func (h *AccountController) CreateUserPost(c *gin.Context) {
	ctx := c.Request.Context()
	if !isAdmin(c) {
		redirect(c, utils.AdminInfoURL(forbiddenMessage))
		return
	}

	var form CreateUserForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderCreateUser(c, form, utils.BindingErrors(err))
		return
	}
	form.UserName = utils.SanitizeInput(form.UserName)
	form.Email = utils.SanitizeInput(form.Email)
	form.Phone = utils.SanitizeInput(form.Phone)

	if exists, err := h.exists(ctx, h.accounts.FindByName, form.UserName); err != nil {
		h.log.WithError(err).Error("Account: check user name")
		redirect(c, utils.AdminInfoURL(accountErrorMessage))
		return
	} else if exists {
		errs := utils.FormErrors{}
		errs.Add("userNameExist", "Numele de utilizator este deja folosit")
		h.renderCreateUser(c, form, errs)
		return
	}
	if exists, err := h.exists(ctx, h.accounts.FindByEmail, form.Email); err != nil {
		h.log.WithError(err).Error("Account: check email")
		redirect(c, utils.AdminInfoURL(accountErrorMessage))
		return
	} else if exists {
		errs := utils.FormErrors{}
		errs.Add("emailExist", "Adresa de email este deja folosită")
		h.renderCreateUser(c, form, errs)
		return
	}
	if errs := passwordErrors(form.Password, form.ConfirmPassword); !errs.Valid() {
		h.renderCreateUser(c, form, errs)
		return
	}

	role := form.Role
	if role == "" {
		role = models.RoleEditor
	}
	user := &models.User{UserName: form.UserName, Email: form.Email, Phone: form.Phone}
	if err := h.accounts.Create(ctx, user, form.Password, role); err != nil {
		h.log.WithError(err).Error("Account: create user")
		redirect(c, utils.AdminInfoURL(accountErrorMessage))
		return
	}

	h.notifier.Deliver(ctx, "welcome", Notification{
		To: user.Email,
		Content: services.EmailContent{
			Subject: "Contul tău a fost creat",
			Paragraphs: []string{
				"Bună " + user.UserName + ",",
				"Ți-a fost creat un cont de administrare pe site. Parola îți va fi comunicată separat.",
			},
			ButtonText: "Autentificare",
			ButtonURL:  h.baseURL + middleware.LoginPath,
		},
	})

	v := newView(c, "Utilizator nou", CreateUserForm{})
	v.Flash = userAddedMessage
	render(c, "account/create_user.html", v)
}

func (h *AccountController) renderCreateUser(c *gin.Context, form CreateUserForm, errs utils.FormErrors) {
	form.Password = ""
	form.ConfirmPassword = ""
	render(c, "account/create_user.html", newView(c, "Utilizator nou", form).withErrors(errs))
}

func (h *AccountController) ForgotPasswordForm(c *gin.Context) {
	render(c, "account/email_check.html", newView(c, "Resetare parolă", nil))
}

// ForgotPassword mails a reset link. Unknown addresses get the same answer
// as known ones.
func (h *AccountController) ForgotPassword(c *gin.Context) {
	ctx := c.Request.Context()
	email := utils.SanitizeInput(c.PostForm("email"))
	if email == "" || !utils.LooksLikeEmail(email) {
		errs := utils.FormErrors{}
		errs.Add("emptyEmail", "Te rugăm să introduci o adresă de email validă")
		render(c, "account/email_check.html", newView(c, "Resetare parolă", nil).withErrors(errs))
		return
	}

	user, err := h.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).Error("Account: find user for reset")
		}
		redirect(c, utils.AdminInfoURL(resetLinkSentMessage))
		return
	}

	token, err := h.accounts.GeneratePasswordResetToken(ctx, user, services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("Account: generate reset token")
		redirect(c, utils.AdminInfoURL(accountErrorMessage))
		return
	}

	link := h.baseURL + "/account/reset-password?" + url.Values{"token": {token}, "email": {user.Email}}.Encode()
	h.notifier.Deliver(ctx, "password_reset", Notification{
		To: user.Email,
		Content: services.EmailContent{
			Subject: "Resetarea parolei",
			Paragraphs: []string{
				"Bună " + user.UserName + ",",
				"Am primit o cerere de resetare a parolei pentru contul tău. Link-ul este valabil <strong>10 minute</strong>.",
				"Dacă nu ai solicitat resetarea, poți ignora acest mesaj.",
			},
			ButtonText: "Resetează parola",
			ButtonURL:  link,
		},
	})
	redirect(c, utils.AdminInfoURL(resetLinkSentMessage))
}

// ResetPassword shows the new password form for a valid reset link.
func (h *AccountController) ResetPassword(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Query("token")
	email := c.Query("email")
	if strings.TrimSpace(token) == "" || strings.TrimSpace(email) == "" {
		redirect(c, utils.AdminInfoURL(resetLinkInvalidMessage))
		return
	}

	user, err := h.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).Error("Account: find user for reset")
		}
		redirect(c, utils.AdminInfoURL(resetLinkInvalidMessage))
		return
	}
	valid, err := h.accounts.VerifyPasswordResetToken(ctx, user, token)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("Account: verify reset token")
		redirect(c, utils.AdminInfoURL(accountErrorMessage))
		return
	}
	if !valid {
		redirect(c, utils.AdminInfoURL(resetLinkExpiredMessage))
		return
	}
	render(c, "account/reset_password.html", newView(c, "Parolă nouă", ResetPasswordForm{Email: email, Token: token}))
}

// ProceedToChangePassword sets the new password chosen on the reset page.
func (h *AccountController) ProceedToChangePassword(c *gin.Context) {
	ctx := c.Request.Context()
	var form ResetPasswordForm
	bindErr := c.ShouldBind(&form)

	user, err := h.accounts.FindByEmail(ctx, form.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).Error("Account: find user for reset")
		}
		redirect(c, utils.AdminInfoURL(resetLinkInvalidMessage))
		return
	}
	valid, err := h.accounts.VerifyPasswordResetToken(ctx, user, form.Token)
	if err != nil || !valid {
		if err != nil {
			h.log.WithError(err).WithField("user_id", user.UserID).Error("Account: verify reset token")
		}
		redirect(c, utils.AdminInfoURL(resetTokenInvalidMessage))
		return
	}

	if bindErr != nil {
		h.renderResetPassword(c, form, utils.BindingErrors(bindErr))
		return
	}
	if errs := passwordErrors(form.Password, form.ConfirmPassword); !errs.Valid() {
		h.renderResetPassword(c, form, errs)
		return
	}

	if err := h.accounts.ResetPassword(ctx, user, form.Token, form.Password); err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("Account: reset password")
		redirect(c, utils.AdminInfoURL(resetFailedMessage))
		return
	}
	redirect(c, utils.AdminInfoURL(resetSucceededMessage))
}

func (h *AccountController) renderResetPassword(c *gin.Context, form ResetPasswordForm, errs utils.FormErrors) {
	form.Password = ""
	form.ConfirmPassword = ""
	render(c, "account/reset_password.html", newView(c, "Parolă nouă", form).withErrors(errs))
}

func (h *AccountController) currentUser(c *gin.Context) (*models.User, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil, false
	}
	user, err := h.accounts.FindByID(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.log.WithError(err).WithField("user_id", id).Error("Account: load current user")
		}
		return nil, false
	}
	return user, true
}

func (h *AccountController) exists(ctx context.Context, find func(context.Context, string) (*models.User, error), key string) (bool, error) {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

// passwordErrors checks strength first, then the confirmation.
func passwordErrors(password, confirm string) utils.FormErrors {
	errs := utils.FormErrors{}
	if utils.PasswordTooLong(password) {
		errs.Add("longPassword", "Parola este prea lungă (cel mult 72 de octeți)")
		return errs
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		errs.Add("weakPassword", msg)
		return errs
	}
	if password != confirm {
		errs.Add("passwordsDoNotMatch", "Parolele nu coincid")
	}
	return errs
}

func profileOf(user *models.User) ProfilePage {
	return ProfilePage{UserName: user.UserName, Email: user.Email, Phone: user.Phone}
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextRole) == models.RoleAdmin
}

// localURL returns target when it is a path on this site, fallback otherwise.
func localURL(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
