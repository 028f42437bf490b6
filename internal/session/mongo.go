package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/internal/repo/mongodb"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
)

// MongoStore keeps session values in MongoDB; the cookie only carries the
// session id.
type MongoStore struct {
	repo mongodb.SessionRepository
	opts cookieOptions
	now  func() time.Time
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(conf *config.Config, repo mongodb.SessionRepository) *MongoStore {
	return &MongoStore{repo: repo, opts: newCookieOptions(conf.Session), now: time.Now}
}

func (s *MongoStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(s.opts.name)
	if err != nil || c.Value == "" {
		return s.fresh(), nil
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return s.fresh(), nil
	}

	record, err := s.repo.FindByID(ctx, c.Value)
	if errors.Is(err, models.ErrNotFound) {
		return s.fresh(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess := New()
	sess.id = record.ID
	for k, v := range record.Values {
		if !json.Valid([]byte(v)) {
			log.Debugw(ctx, "dropping malformed session value", "key", k)
			continue
		}
		sess.values[k] = json.RawMessage(v)
	}
	return sess, nil
}

func (s *MongoStore) fresh() *Session {
	sess := New()
	sess.id = uuid.NewString()
	return sess
}

func (s *MongoStore) Commit(ctx context.Context, sess *Session) (*http.Cookie, error) {
	if sess.id == "" {
		sess.id = uuid.NewString()
	}
	values := make(map[string]string, len(sess.values))
	for k, v := range sess.values {
		values[k] = string(v)
	}

	record := &models.SessionRecord{
		ID:        sess.id,
		Values:    values,
		ExpiresAt: s.now().Add(s.opts.maxAge),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("commit session: %w", err)
	}
	sess.dirty = false
	return s.opts.cookie(sess.id), nil
}

func (s *MongoStore) Destroy(ctx context.Context, sess *Session) (*http.Cookie, error) {
	if sess.id != "" {
		if err := s.repo.Delete(ctx, sess.id); err != nil {
			return nil, fmt.Errorf("destroy session: %w", err)
		}
	}
	*sess = *s.fresh()
	return s.opts.expired(), nil
}
