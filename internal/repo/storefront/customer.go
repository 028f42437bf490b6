package storefront

import (
	"context"
	"fmt"

	"github.com/prairiegroup/storefront/internal/models"
)

const (
	MsgCouldNotCreateCustomer = "Could not create customer"
	MsgMissingAccessToken     = "Missing access token"
	MsgAccessTokenNotFound    = "Access token not found. Please try again."
	MsgCouldNotActivate       = "Could not activate account."
)

// missingTokenMessages is what customers read when a mutation that should
// sign them in returned no access token.
var missingTokenMessages = map[string]string{
	customerAccessTokenCreateMutation.Name: MsgMissingAccessToken,
	customerResetMutation.Name:             MsgAccessTokenNotFound,
	customerActivateMutation.Name:          MsgCouldNotActivate,
}

// UserError is one entry of a mutation's customerUserErrors.
type UserError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors are the business errors a customer mutation reported. The first
// message is the one shown to customers.
type UserErrors struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrors) Error() string {
	if len(e.Errors) == 0 {
		return e.Operation + " failed"
	}
	return e.Errors[0].Message
}

func checkUserErrors(op Operation, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return &UserErrors{Operation: op.Name, Errors: errs}
}

type CustomerRepository interface {
	Create(ctx context.Context, input models.CustomerCreateInput) (*models.Customer, error)
	CreateAccessToken(ctx context.Context, input models.CustomerAccessTokenCreateInput) (*models.CustomerAccessToken, error)
	DeleteAccessToken(ctx context.Context, accessToken string) error
	// Get fails with models.ErrUnauthorized when the token no longer
	// identifies a customer.
	Get(ctx context.Context, accessToken string) (*models.Customer, error)
	Update(ctx context.Context, accessToken string, input models.CustomerUpdateInput) (*models.CustomerUpdate, error)
	Recover(ctx context.Context, email string) error
	// Reset and Activate take the numeric customer id found in emailed links.
	Reset(ctx context.Context, id string, input models.CustomerResetInput) (*models.CustomerAccessToken, error)
	Activate(ctx context.Context, id string, input models.CustomerActivateInput) (*models.CustomerAccessToken, error)
}

type customerRepo struct {
	client Client
}

func NewCustomerRepository(client Client) CustomerRepository {
	return &customerRepo{client: client}
}

type accessTokenPayload struct {
	CustomerAccessToken *models.CustomerAccessToken `json:"customerAccessToken"`
	CustomerUserErrors  []UserError                 `json:"customerUserErrors"`
}

func (p accessTokenPayload) result(op Operation) (*models.CustomerAccessToken, error) {
	if err := checkUserErrors(op, p.CustomerUserErrors); err != nil {
		return nil, err
	}
	if p.CustomerAccessToken == nil {
		return nil, &PlatformError{Operation: op.Name, Message: missingTokenMessages[op.Name]}
	}
	return p.CustomerAccessToken, nil
}

func (r *customerRepo) Create(ctx context.Context, input models.CustomerCreateInput) (*models.Customer, error) {
	var data struct {
		CustomerCreate struct {
			Customer           *models.Customer `json:"customer"`
			CustomerUserErrors []UserError      `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := r.client.Mutate(ctx, customerCreateMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	payload := data.CustomerCreate
	if err := checkUserErrors(customerCreateMutation, payload.CustomerUserErrors); err != nil {
		return nil, err
	}
	if payload.Customer == nil {
		return nil, &PlatformError{Operation: customerCreateMutation.Name, Message: MsgCouldNotCreateCustomer}
	}
	return payload.Customer, nil
}

func (r *customerRepo) CreateAccessToken(ctx context.Context, input models.CustomerAccessTokenCreateInput) (*models.CustomerAccessToken, error) {
	var data struct {
		Payload accessTokenPayload `json:"customerAccessTokenCreate"`
	}
	if err := r.client.Mutate(ctx, customerAccessTokenCreateMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	return data.Payload.result(customerAccessTokenCreateMutation)
}

func (r *customerRepo) DeleteAccessToken(ctx context.Context, accessToken string) error {
	var data struct {
		Payload struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"customerAccessTokenDelete"`
	}
	vars := map[string]any{"customerAccessToken": accessToken}
	if err := r.client.Mutate(ctx, customerAccessTokenDeleteMutation, vars, &data); err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	return checkUserErrors(customerAccessTokenDeleteMutation, data.Payload.UserErrors)
}

func (r *customerRepo) Get(ctx context.Context, accessToken string) (*models.Customer, error) {
	var data struct {
		Customer *models.Customer `json:"customer"`
	}
	if err := r.client.Query(ctx, customerQuery, map[string]any{"customerAccessToken": accessToken}, &data); err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if data.Customer == nil {
		return nil, fmt.Errorf("get customer: %w", models.ErrUnauthorized)
	}
	return data.Customer, nil
}

func (r *customerRepo) Update(ctx context.Context, accessToken string, input models.CustomerUpdateInput) (*models.CustomerUpdate, error) {
	var data struct {
		Payload struct {
			Customer            *models.Customer            `json:"customer"`
			CustomerAccessToken *models.CustomerAccessToken `json:"customerAccessToken"`
			CustomerUserErrors  []UserError                 `json:"customerUserErrors"`
		} `json:"customerUpdate"`
	}
	vars := map[string]any{
		"customerAccessToken": accessToken,
		"customer":            input,
	}
	if err := r.client.Mutate(ctx, customerUpdateMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	payload := data.Payload
	if err := checkUserErrors(customerUpdateMutation, payload.CustomerUserErrors); err != nil {
		return nil, err
	}
	return &models.CustomerUpdate{
		Customer:    payload.Customer,
		AccessToken: payload.CustomerAccessToken,
	}, nil
}

func (r *customerRepo) Recover(ctx context.Context, email string) error {
	var data struct {
		Payload struct {
			CustomerUserErrors []UserError `json:"customerUserErrors"`
		} `json:"customerRecover"`
	}
	if err := r.client.Mutate(ctx, customerRecoverMutation, map[string]any{"email": email}, &data); err != nil {
		return fmt.Errorf("recover customer: %w", err)
	}
	return checkUserErrors(customerRecoverMutation, data.Payload.CustomerUserErrors)
}

func (r *customerRepo) Reset(ctx context.Context, id string, input models.CustomerResetInput) (*models.CustomerAccessToken, error) {
	var data struct {
		Payload accessTokenPayload `json:"customerReset"`
	}
	vars := map[string]any{
		"id":    models.CustomerGID(id),
		"input": input,
	}
	if err := r.client.Mutate(ctx, customerResetMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("reset customer: %w", err)
	}
	return data.Payload.result(customerResetMutation)
}

func (r *customerRepo) Activate(ctx context.Context, id string, input models.CustomerActivateInput) (*models.CustomerAccessToken, error) {
	var data struct {
		Payload accessTokenPayload `json:"customerActivate"`
	}
	vars := map[string]any{
		"id":    models.CustomerGID(id),
		"input": input,
	}
	if err := r.client.Mutate(ctx, customerActivateMutation, vars, &data); err != nil {
		return nil, fmt.Errorf("activate customer: %w", err)
	}
	return data.Payload.result(customerActivateMutation)
}
