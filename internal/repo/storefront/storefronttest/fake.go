// Package storefronttest provides an in-memory storefront for tests.
package storefronttest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/pagination"
	"github.com/prairiegroup/storefront/internal/repo/storefront"
)

var (
	_ storefront.CatalogRepository  = (*Fake)(nil)
	_ storefront.CustomerRepository = (*Fake)(nil)
)

type account struct {
	customer        models.Customer
	password        string
	resetToken      string
	activationToken string
}

// Fake implements both storefront repositories over in-memory data and
// counts every call by method name.
type Fake struct {
	mu sync.Mutex

	Collections  []models.Collection
	Products     map[string][]models.Product
	Recommended  []models.Product
	PolicyList   []models.Policy
	LayoutData   models.Layout
	Carts        map[string]int
	TokenTTL     time.Duration
	Now          func() time.Time
	Failures     map[string]error
	accounts     map[string]*account
	tokens       map[string]string
	nextID       int
	calls        map[string]int
	lastUpdate   *models.CustomerUpdateInput
	tokenCounter int
}

func New() *Fake {
	return &Fake{
		Products: make(map[string][]models.Product),
		Carts:    make(map[string]int),
		TokenTTL: 24 * time.Hour,
		Now:      time.Now,
		Failures: make(map[string]error),
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		calls:    make(map[string]int),
	}
}

// Calls returns how many times method was called.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// LastUpdate returns the input of the most recent Update call.
func (f *Fake) LastUpdate() *models.CustomerUpdateInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUpdate
}

// AddCustomer registers an account and returns its numeric id.
func (f *Fake) AddCustomer(c models.Customer, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(c, password)
}

// SetResetToken arms a password reset link for the customer id.
func (f *Fake) SetResetToken(id, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.byIDLocked(id); a != nil {
		a.resetToken = token
	}
}

// SetActivationToken arms an activation link for the customer id.
func (f *Fake) SetActivationToken(id, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.byIDLocked(id); a != nil {
		a.activationToken = token
	}
}

func (f *Fake) addLocked(c models.Customer, password string) string {
	f.nextID++
	id := strconv.Itoa(f.nextID)
	c.ID = models.CustomerGID(id)
	f.accounts[c.Email] = &account{customer: c, password: password}
	return id
}

func (f *Fake) byIDLocked(id string) *account {
	gid := models.CustomerGID(id)
	for _, a := range f.accounts {
		if a.customer.ID == gid {
			return a
		}
	}
	return nil
}

// enter counts the call and returns the injected failure, if any.
func (f *Fake) enter(method string) error {
	f.calls[method]++
	return f.Failures[method]
}

func (f *Fake) issueLocked(email string) *models.CustomerAccessToken {
	f.tokenCounter++
	tok := fmt.Sprintf("token-%d", f.tokenCounter)
	f.tokens[tok] = email
	return &models.CustomerAccessToken{AccessToken: tok, ExpiresAt: f.Now().Add(f.TokenTTL)}
}

func userErr(op, msg string) error {
	return &storefront.UserErrors{Operation: op, Errors: []storefront.UserError{{Message: msg}}}
}

func collectionHandle(c models.Collection) string { return c.Handle }
func productHandle(p models.Product) string { return p.Handle }

func (f *Fake) ListCollections(_ context.Context, vars pagination.Variables) (pagination.Page[models.Collection], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListCollections"); err != nil {
		return pagination.Page[models.Collection]{}, err
	}
	return pagination.Window(f.Collections, collectionHandle, vars)
}

func (f *Fake) GetCollection(_ context.Context, handle string, vars pagination.Variables) (*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetCollection"); err != nil {
		return nil, err
	}
	for _, c := range f.Collections {
		if c.Handle != handle {
			continue
		}
		page, err := pagination.Window(f.Products[handle], productHandle, vars)
		if err != nil {
			return nil, err
		}
		c.Products = page
		return &c, nil
	}
	return nil, fmt.Errorf("collection %q: %w", handle, models.ErrNotFound)
}

func (f *Fake) GetProduct(_ context.Context, handle string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProduct"); err != nil {
		return nil, err
	}
	for _, products := range f.Products {
		for _, p := range products {
			if p.Handle == handle {
				return &p, nil
			}
		}
	}
	return nil, fmt.Errorf("product %q: %w", handle, models.ErrNotFound)
}

func (f *Fake) FeaturedCollections(_ context.Context) ([]models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FeaturedCollections"); err != nil {
		return nil, err
	}
	n := min(2, len(f.Collections))
	return append([]models.Collection(nil), f.Collections[:n]...), nil
}

func (f *Fake) RecommendedProducts(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RecommendedProducts"); err != nil {
		return nil, err
	}
	return append([]models.Product(nil), f.Recommended...), nil
}

func (f *Fake) Policies(_ context.Context) ([]models.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Policies"); err != nil {
		return nil, err
	}
	return append([]models.Policy(nil), f.PolicyList...), nil
}

func (f *Fake) Layout(_ context.Context, _, _ string) (*models.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Layout"); err != nil {
		return nil, err
	}
	layout := f.LayoutData
	return &layout, nil
}

func (f *Fake) CartQuantity(_ context.Context, cartID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CartQuantity"); err != nil {
		return 0, err
	}
	return f.Carts[cartID], nil
}

func (f *Fake) Create(_ context.Context, input models.CustomerCreateInput) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Create"); err != nil {
		return nil, err
	}
	if _, ok := f.accounts[input.Email]; ok {
		return nil, userErr("customerCreate", "Email has already been taken")
	}
	f.addLocked(models.Customer{
		Email:            input.Email,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		AcceptsMarketing: input.AcceptsMarketing,
	}, input.Password)
	c := f.accounts[input.Email].customer
	return &c, nil
}

func (f *Fake) CreateAccessToken(_ context.Context, input models.CustomerAccessTokenCreateInput) (*models.CustomerAccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateAccessToken"); err != nil {
		return nil, err
	}
	a, ok := f.accounts[input.Email]
	if !ok || a.password != input.Password {
		return nil, userErr("customerAccessTokenCreate", "Unidentified customer")
	}
	return f.issueLocked(input.Email), nil
}

func (f *Fake) DeleteAccessToken(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteAccessToken"); err != nil {
		return err
	}
	delete(f.tokens, accessToken)
	return nil
}

func (f *Fake) Get(_ context.Context, accessToken string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Get"); err != nil {
		return nil, err
	}
	email, ok := f.tokens[accessToken]
	if !ok {
		return nil, fmt.Errorf("get customer: %w", models.ErrUnauthorized)
	}
	c := f.accounts[email].customer
	return &c, nil
}

func (f *Fake) Update(_ context.Context, accessToken string, input models.CustomerUpdateInput) (*models.CustomerUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Update"); err != nil {
		return nil, err
	}
	f.lastUpdate = &input
	email, ok := f.tokens[accessToken]
	if !ok {
		return nil, userErr("customerUpdate", "Customer access token is invalid")
	}
	a := f.accounts[email]
	if input.FirstName != nil {
		a.customer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		a.customer.LastName = *input.LastName
	}
	if input.Phone != nil {
		a.customer.Phone = *input.Phone
	}
	if input.AcceptsMarketing != nil {
		a.customer.AcceptsMarketing = *input.AcceptsMarketing
	}
	if input.Email != nil && *input.Email != email {
		if _, taken := f.accounts[*input.Email]; taken {
			return nil, userErr("customerUpdate", "Email has already been taken")
		}
		delete(f.accounts, email)
		a.customer.Email = *input.Email
		f.accounts[*input.Email] = a
		f.tokens[accessToken] = *input.Email
	}

	out := &models.CustomerUpdate{}
	if input.Password != nil {
		a.password = *input.Password
		delete(f.tokens, accessToken)
		out.AccessToken = f.issueLocked(a.customer.Email)
	}
	c := a.customer
	out.Customer = &c
	return out, nil
}

func (f *Fake) Recover(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Recover"); err != nil {
		return err
	}
	if _, ok := f.accounts[email]; !ok {
		return userErr("customerRecover", "Could not find customer")
	}
	return nil
}

func (f *Fake) Reset(_ context.Context, id string, input models.CustomerResetInput) (*models.CustomerAccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Reset"); err != nil {
		return nil, err
	}
	a := f.byIDLocked(id)
	if a == nil || a.resetToken == "" || a.resetToken != input.ResetToken {
		return nil, userErr("customerReset", "Reset password url is invalid")
	}
	a.resetToken = ""
	a.password = input.Password
	return f.issueLocked(a.customer.Email), nil
}

func (f *Fake) Activate(_ context.Context, id string, input models.CustomerActivateInput) (*models.CustomerAccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Activate"); err != nil {
		return nil, err
	}
	a := f.byIDLocked(id)
	if a == nil || a.activationToken == "" || a.activationToken != input.ActivationToken {
		return nil, userErr("customerActivate", "Activation url is invalid")
	}
	a.activationToken = ""
	a.password = input.Password
	return f.issueLocked(a.customer.Email), nil
}
