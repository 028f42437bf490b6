package models

import (
	"fmt"
	"time"
)

// SessionAccessTokenKey is the session key holding the customer access token.
const SessionAccessTokenKey = "customerAccessToken"

type CustomerAccessToken struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (t CustomerAccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

type Customer struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	AcceptsMarketing bool   `json:"acceptsMarketing"`
}

func (c Customer) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.Email
	}
}

// CustomerGID turns the numeric id found in activation and reset links into a
// global id.
func CustomerGID(id string) string {
	return fmt.Sprintf("gid://shopify/Customer/%s", id)
}

type CustomerCreateInput struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	AcceptsMarketing bool   `json:"acceptsMarketing,omitempty"`
}

type CustomerAccessTokenCreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CustomerUpdateInput only carries the fields that change; nil fields are
// left untouched by the platform.
type CustomerUpdateInput struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty"`
	Password         *string `json:"password,omitempty"`
	AcceptsMarketing *bool   `json:"acceptsMarketing,omitempty"`
}

type CustomerResetInput struct {
	Password   string `json:"password"`
	ResetToken string `json:"resetToken"`
}

type CustomerActivateInput struct {
	Password        string `json:"password"`
	ActivationToken string `json:"activationToken"`
}

// CustomerUpdate is the outcome of a profile update. AccessToken is set when
// the platform rotated the token, which happens on password changes.
type CustomerUpdate struct {
	Customer    *Customer
	AccessToken *CustomerAccessToken
}
