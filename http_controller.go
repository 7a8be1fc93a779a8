package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorResponse is the JSON error envelope. Code is the stable
// machine-readable code; Message is for humans.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EmailStatusResponse carries the registration state of an email address.
type EmailStatusResponse struct {
	Status EmailStatus `json:"status"`
}

// TokenResponse carries a freshly issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegistrationRequest payload
type RegistrationRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r RegistrationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
	)
}

// ConfirmationRequest payload
type ConfirmationRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (r ConfirmationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ConfirmationCode, validation.Required),
	)
}

// PasswordResetRequest payload
type PasswordResetRequest struct {
	Email             string `json:"email"`
	PasswordResetCode string `json:"password_reset_code"`
	NewPassword       string `json:"new_password"`
}

func (r PasswordResetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.PasswordResetCode, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 0)),
	)
}

// UpdateProfileRequest payload
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 100)),
		validation.Field(&r.LastName, validation.Length(0, 100)),
	)
}

// UpdatePasswordRequest payload. CurrentPassword is optional so social-only
// accounts can set their first password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r UpdatePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 0)),
	)
}

// TokenRequest payload
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// SocialTokenRequest payload
type SocialTokenRequest struct {
	Code string `json:"code"`
}

func (r SocialTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
	)
}

// HTTPController exposes the account lifecycle and login flows over HTTP.
type HTTPController struct {
	Accounts     *AccountManager
	Auther       *Auther
	Logger       Logger
	ErrorHandler router.ErrorHandler
}

// NewHTTPController creates the controller with default logging and error
// handling.
func NewHTTPController(accounts *AccountManager, auther *Auther) *HTTPController {
	return &HTTPController{
		Accounts:     accounts,
		Auther:       auther,
		Logger:       defLogger{},
		ErrorHandler: DefaultErrorHandler,
	}
}

// WithLogger sets the logger.
func (c *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		c.Logger = logger
	}
	return c
}

// WithErrorHandler sets the error handler.
func (c *HTTPController) WithErrorHandler(handler router.ErrorHandler) *HTTPController {
	if handler != nil {
		c.ErrorHandler = handler
	}
	return c
}

// RegisterRoutes mounts every route on the app.
func RegisterRoutes[T any](app router.Router[T], controller *HTTPController) {
	app.Get("/user", controller.GetEmailStatus).
		SetName("user.email-status.get")

	app.Post("/user/registration", controller.RegisterUser).
		SetName("user.registration.post")
	app.Post("/user/registration/confirmation/:email", controller.SendConfirmationCode).
		SetName("user.confirmation-code.post")
	app.Post("/user/registration/confirmation", controller.ConfirmRegistration).
		SetName("user.confirmation.post")

	app.Post("/user/password/reset/:email", controller.SendPasswordResetCode).
		SetName("user.password-reset-code.post")
	app.Post("/user/password/reset", controller.ResetPassword).
		SetName("user.password-reset.post")

	app.Get("/user/profile", controller.GetProfile).
		SetName("user.profile.get")
	app.Post("/user/profile", controller.UpdateProfile).
		SetName("user.profile.post")
	app.Post("/user/password", controller.UpdatePassword).
		SetName("user.password.post")

	app.Post("/token", controller.GetToken).
		SetName("token.post")
	app.Post("/token/:provider", controller.GetSocialToken).
		SetName("token.social.post")
}

// GetEmailStatus reports the registration state of the email query param.
func (c *HTTPController) GetEmailStatus(ctx router.Context) error {
	email := ctx.Query("email", "")

	status, err := c.Accounts.GetEmailStatus(ctx.Context(), email)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, EmailStatusResponse{Status: status})
}

// RegisterUser creates a regular account and mails its confirmation code.
func (c *HTTPController) RegisterUser(ctx router.Context) error {
	var req RegistrationRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	err := c.Accounts.RegisterUser(ctx.Context(), Registration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// SendConfirmationCode re-sends the pending confirmation code.
func (c *HTTPController) SendConfirmationCode(ctx router.Context) error {
	if err := c.Accounts.SendConfirmationCode(ctx.Context(), ctx.Param("email")); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// ConfirmRegistration confirms a registered address with its emailed code.
func (c *HTTPController) ConfirmRegistration(ctx router.Context) error {
	var req ConfirmationRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	err := c.Accounts.ConfirmRegistration(ctx.Context(), Confirmation{
		Email:            req.Email,
		ConfirmationCode: req.ConfirmationCode,
	})
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// SendPasswordResetCode issues and mails a password reset code.
func (c *HTTPController) SendPasswordResetCode(ctx router.Context) error {
	if err := c.Accounts.SendPasswordResetCode(ctx.Context(), ctx.Param("email")); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// ResetPassword completes the forgot-password flow.
func (c *HTTPController) ResetPassword(ctx router.Context) error {
	var req PasswordResetRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	err := c.Accounts.ResetPassword(ctx.Context(), PasswordReset{
		Email:             req.Email,
		PasswordResetCode: req.PasswordResetCode,
		NewPassword:       req.NewPassword,
	})
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// GetProfile returns the authenticated principal's profile.
func (c *HTTPController) GetProfile(ctx router.Context) error {
	profile, err := c.Accounts.Profile(ctx.Context())
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, profile)
}

// UpdateProfile replaces the authenticated principal's name fields.
func (c *HTTPController) UpdateProfile(ctx router.Context) error {
	var req UpdateProfileRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	if err := c.Accounts.UpdateProfile(ctx.Context(), req.FirstName, req.LastName); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// UpdatePassword changes the authenticated principal's password.
func (c *HTTPController) UpdatePassword(ctx router.Context) error {
	var req UpdatePasswordRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	if err := c.Accounts.UpdatePassword(ctx.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Status(router.StatusOK).SendString("")
}

// GetToken verifies credentials and issues a token for a fresh session.
func (c *HTTPController) GetToken(ctx router.Context) error {
	var req TokenRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	token, err := c.Auther.Login(ctx.Context(), req.Email, req.Password)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TokenResponse{Token: token})
}

// GetSocialToken resolves a social authorization code and issues a token for
// a fresh session.
func (c *HTTPController) GetSocialToken(ctx router.Context) error {
	var req SocialTokenRequest
	if err := c.bind(ctx, &req); err != nil {
		return c.ErrorHandler(ctx, err)
	}

	token, err := c.Auther.SocialLogin(ctx.Context(), ctx.Param("provider"), req.Code)
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TokenResponse{Token: token})
}

type validatable interface {
	Validate() error
}

func (c *HTTPController) bind(ctx router.Context, payload validatable) error {
	if err := ctx.Bind(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid request payload").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid request payload").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

// DefaultErrorHandler maps structured errors to the JSON error envelope.
// Unknown errors become opaque 500s so internals never leak.
func DefaultErrorHandler(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = router.StatusInternalServerError
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    richErr.TextCode,
		Message: richErr.Message,
	})
}
