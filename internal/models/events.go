package models

import "time"

type CustomerEventType string

const (
	CustomerRegistered     CustomerEventType = "customer.registered"
	CustomerLoggedIn       CustomerEventType = "customer.logged_in"
	CustomerLoggedOut      CustomerEventType = "customer.logged_out"
	CustomerActivated      CustomerEventType = "customer.activated"
	CustomerRecoverRequest CustomerEventType = "customer.recover_requested"
	CustomerPasswordReset  CustomerEventType = "customer.password_reset"
	CustomerProfileUpdated CustomerEventType = "customer.profile_updated"
)

// CustomerEvent is published after an account action succeeded.
type CustomerEvent struct {
	Type       CustomerEventType `json:"type"`
	CustomerID string            `json:"customer_id,omitempty"`
	Email      string            `json:"email,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
