// Package session keeps per-visitor state across requests behind a cookie.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/prairiegroup/storefront/internal/models"
)

// CartIDKey holds the platform cart id of the visitor.
const CartIDKey = "cartId"

// Session is a bag of JSON values. Changes only reach the browser once the
// session is committed.
type Session struct {
	id     string
	values map[string]json.RawMessage
	dirty  bool
}

func New() *Session {
	return &Session{values: make(map[string]json.RawMessage)}
}

// ID is the server-side identifier; cookie sessions have none.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) Dirty() bool {
	return s.dirty
}

func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Get decodes the value stored under key into out and reports whether the
// key was set.
func (s *Session) Get(key string, out any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("session value %q: %w", key, err)
	}
	return true, nil
}

func (s *Session) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session value %q: %w", key, err)
	}
	s.values[key] = raw
	s.dirty = true
	return nil
}

func (s *Session) Unset(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// AccessToken returns the customer access token, or nil when the visitor is
// not logged in or the stored value is unreadable.
func (s *Session) AccessToken() *models.CustomerAccessToken {
	var tok models.CustomerAccessToken
	ok, err := s.Get(models.SessionAccessTokenKey, &tok)
	if !ok || err != nil || tok.AccessToken == "" {
		return nil
	}
	return &tok
}

func (s *Session) SetAccessToken(tok models.CustomerAccessToken) error {
	return s.Set(models.SessionAccessTokenKey, tok)
}

func (s *Session) CartID() string {
	var id string
	if _, err := s.Get(CartIDKey, &id); err != nil {
		return ""
	}
	return id
}

func (s *Session) encode() ([]byte, error) {
	return json.Marshal(s.values)
}

func decode(data []byte) (*Session, error) {
	s := New()
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, err
	}
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Store loads sessions from requests and turns them back into cookies.
type Store interface {
	// Load never fails on a bad cookie; it starts a fresh session instead.
	Load(ctx context.Context, r *http.Request) (*Session, error)
	Commit(ctx context.Context, s *Session) (*http.Cookie, error)
	// Destroy drops the session and returns a cookie that clears it.
	Destroy(ctx context.Context, s *Session) (*http.Cookie, error)
}
