package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prairiegroup/storefront/internal/kafka"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/repo/storefront"
	"github.com/prairiegroup/storefront/pkg/logger"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
	"github.com/prairiegroup/storefront/pkg/util"
)

// Messages shown to customers when a form is rejected before reaching the
// storefront API.
const (
	MsgPasswordsDoNotMatch     = "Passwords do not match"
	MsgEmailAndPassword        = "Please provide both an email and a password."
	MsgProvideEmail            = "Please provide an email."
	MsgMatchingPasswords       = "Please provide matching passwords"
	MsgMissingToken            = "Missing token. The link you followed might be wrong."
	MsgNewPasswordSame         = "New password must be different than current password."
	MsgNewPasswordsMustMatch   = "New passwords must match."
	MsgCurrentPasswordRequired = "Current password is required."
)

type AccountUsecase interface {
	Login(ctx context.Context, form models.LoginForm) (*models.CustomerAccessToken, error)
	// Logout revokes the token at the platform. Failures are only logged.
	Logout(ctx context.Context, token models.CustomerAccessToken)
	Register(ctx context.Context, form models.RegisterForm) (*models.CustomerAccessToken, error)
	Recover(ctx context.Context, form models.RecoverForm) error
	Reset(ctx context.Context, id, resetToken string, form models.PasswordForm) (*models.CustomerAccessToken, error)
	Activate(ctx context.Context, id, activationToken string, form models.PasswordForm) (*models.CustomerAccessToken, error)
	Customer(ctx context.Context, token models.CustomerAccessToken) (*models.Customer, error)
	UpdateProfile(ctx context.Context, token models.CustomerAccessToken, form models.ProfileForm) (*models.CustomerUpdate, error)
}

type accountUsecase struct {
	customers storefront.CustomerRepository
	publisher kafka.Publisher
	now       func() time.Time
}

func NewAccountUsecase(customers storefront.CustomerRepository, publisher kafka.Publisher) AccountUsecase {
	return &accountUsecase{
		customers: customers,
		publisher: publisher,
		now:       time.Now,
	}
}

func (uc *accountUsecase) Login(ctx context.Context, form models.LoginForm) (*models.CustomerAccessToken, error) {
	if form.Email == "" || form.Password == "" {
		return nil, models.NewValidationError(MsgEmailAndPassword)
	}

	token, err := uc.customers.CreateAccessToken(ctx, models.CustomerAccessTokenCreateInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, models.CustomerLoggedIn, "", form.Email)
	return token, nil
}

func (uc *accountUsecase) Logout(ctx context.Context, token models.CustomerAccessToken) {
	if err := uc.customers.DeleteAccessToken(ctx, token.AccessToken); err != nil {
		log.Warnw(ctx, "Failed to revoke customer access token", "error", err)
	}
	uc.publish(ctx, models.CustomerLoggedOut, "", "")
}

// Register checks the form before any API call: passwords first, then the
// required fields.
func (uc *accountUsecase) Register(ctx context.Context, form models.RegisterForm) (*models.CustomerAccessToken, error) {
	if form.Password == "" || form.PasswordConfirm == "" || form.Password != form.PasswordConfirm {
		return nil, models.NewValidationError(MsgPasswordsDoNotMatch)
	}
	if form.Email == "" || form.Password == "" {
		return nil, models.NewValidationError(MsgEmailAndPassword)
	}

	marketing, _ := models.Checkbox(form.AcceptsMarketing)
	customer, err := uc.customers.Create(ctx, models.CustomerCreateInput{
		Email:            form.Email,
		Password:         form.Password,
		FirstName:        form.FirstName,
		LastName:         form.LastName,
		AcceptsMarketing: marketing,
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.customers.CreateAccessToken(ctx, models.CustomerAccessTokenCreateInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, models.CustomerRegistered, customer.ID, form.Email)
	return token, nil
}

func (uc *accountUsecase) Recover(ctx context.Context, form models.RecoverForm) error {
	if form.Email == "" {
		return models.NewValidationError(MsgProvideEmail)
	}
	if err := uc.customers.Recover(ctx, form.Email); err != nil {
		return err
	}
	uc.publish(ctx, models.CustomerRecoverRequest, "", form.Email)
	return nil
}

func (uc *accountUsecase) Reset(ctx context.Context, id, resetToken string, form models.PasswordForm) (*models.CustomerAccessToken, error) {
	if id == "" || resetToken == "" {
		return nil, models.NewValidationError(MsgMissingToken)
	}
	if form.Password == "" || form.Password != form.PasswordConfirm {
		return nil, models.NewValidationError(MsgMatchingPasswords)
	}

	token, err := uc.customers.Reset(ctx, id, models.CustomerResetInput{
		Password:   form.Password,
		ResetToken: resetToken,
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, models.CustomerPasswordReset, models.CustomerGID(id), "")
	return token, nil
}

func (uc *accountUsecase) Activate(ctx context.Context, id, activationToken string, form models.PasswordForm) (*models.CustomerAccessToken, error) {
	if id == "" || activationToken == "" {
		return nil, models.NewValidationError(MsgMissingToken)
	}
	if form.Password == "" || form.PasswordConfirm == "" || form.Password != form.PasswordConfirm {
		return nil, models.NewValidationError(MsgPasswordsDoNotMatch)
	}

	token, err := uc.customers.Activate(ctx, id, models.CustomerActivateInput{
		Password:        form.Password,
		ActivationToken: activationToken,
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, models.CustomerActivated, models.CustomerGID(id), "")
	return token, nil
}

// Customer fails with models.ErrUnauthorized once the token expired, without
// asking the platform.
func (uc *accountUsecase) Customer(ctx context.Context, token models.CustomerAccessToken) (*models.Customer, error) {
	if token.Expired(uc.now()) {
		return nil, fmt.Errorf("customer access token expired at %s: %w", token.ExpiresAt, models.ErrUnauthorized)
	}
	return uc.customers.Get(ctx, token.AccessToken)
}

func (uc *accountUsecase) UpdateProfile(ctx context.Context, token models.CustomerAccessToken, form models.ProfileForm) (*models.CustomerUpdate, error) {
	if token.Expired(uc.now()) {
		return nil, fmt.Errorf("customer access token expired: %w", models.ErrUnauthorized)
	}
	if err := validatePasswordChange(form); err != nil {
		return nil, err
	}

	input := models.CustomerUpdateInput{
		FirstName: util.NonEmpty(form.FirstName),
		LastName:  util.NonEmpty(form.LastName),
		Email:     util.NonEmpty(form.Email),
		Phone:     util.NonEmpty(form.Phone),
	}
	if marketing, ok := models.Checkbox(form.AcceptsMarketing); ok {
		input.AcceptsMarketing = &marketing
	}
	if form.NewPassword != "" {
		input.Password = util.Ptr(form.NewPassword)
	}

	updated, err := uc.customers.Update(ctx, token.AccessToken, input)
	if err != nil {
		return nil, err
	}

	var customerID, email string
	if updated.Customer != nil {
		customerID, email = updated.Customer.ID, updated.Customer.Email
	}
	uc.publish(ctx, models.CustomerProfileUpdated, customerID, email)
	return updated, nil
}

// validatePasswordChange applies the password rules of the profile form.
// When several rules fail, the one listed first wins.
func validatePasswordChange(form models.ProfileForm) error {
	current, next, confirm := form.CurrentPassword, form.NewPassword, form.NewPasswordConfirm
	if next == "" {
		return nil
	}
	switch {
	case current != "" && next == current:
		return models.NewValidationError(MsgNewPasswordSame)
	case next != confirm:
		return models.NewValidationError(MsgNewPasswordsMustMatch)
	case current == "":
		return models.NewValidationError(MsgCurrentPasswordRequired)
	}
	return nil
}

func (uc *accountUsecase) publish(ctx context.Context, typ models.CustomerEventType, customerID, email string) {
	event := models.CustomerEvent{
		Type:       typ,
		CustomerID: customerID,
		Email:      email,
		RequestID:  logger.RequestID(ctx),
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		log.Errorw(ctx, "Failed to publish customer event", "type", typ, "error", err)
	}
}
