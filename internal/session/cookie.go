package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/pkg/crypto"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
)

type cookieOptions struct {
	name   string
	maxAge time.Duration
	secure bool
}

func newCookieOptions(conf config.SessionConfig) cookieOptions {
	return cookieOptions{name: conf.CookieName, maxAge: conf.MaxAge, secure: conf.Secure}
}

func (o cookieOptions) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     o.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(o.maxAge.Seconds()),
		Expires:  time.Now().Add(o.maxAge),
		HttpOnly: true,
		Secure:   o.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o cookieOptions) expired() *http.Cookie {
	return &http.Cookie{
		Name:     o.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieStore keeps the whole session in an encrypted cookie.
type CookieStore struct {
	sealer crypto.Sealer
	opts   cookieOptions
}

var _ Store = (*CookieStore)(nil)

func NewCookieStore(conf *config.Config) (*CookieStore, error) {
	sealer, err := crypto.NewSealer(conf.Session.Secret)
	if err != nil {
		return nil, fmt.Errorf("session secret: %w", err)
	}
	return &CookieStore{sealer: sealer, opts: newCookieOptions(conf.Session)}, nil
}

func (s *CookieStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(s.opts.name)
	if err != nil || c.Value == "" {
		return New(), nil
	}

	data, err := s.sealer.Open(c.Value)
	if err != nil {
		log.Debugw(ctx, "discarding unreadable session cookie", "error", err)
		return New(), nil
	}

	sess, err := decode(data)
	if err != nil {
		log.Debugw(ctx, "discarding malformed session cookie", "error", err)
		return New(), nil
	}
	return sess, nil
}

func (s *CookieStore) Commit(_ context.Context, sess *Session) (*http.Cookie, error) {
	data, err := sess.encode()
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	token, err := s.sealer.Seal(data)
	if err != nil {
		return nil, fmt.Errorf("seal session: %w", err)
	}
	sess.dirty = false
	return s.opts.cookie(token), nil
}

func (s *CookieStore) Destroy(_ context.Context, sess *Session) (*http.Cookie, error) {
	*sess = *New()
	return s.opts.expired(), nil
}
