// Package session adapts the pluggable ports.SessionStore backends to
// gorilla/sessions, which owns the cookie, the session id and the flash
// queue. Handlers reach it through echo-contrib's session middleware.
//
// Only the opaque id travels in the cookie. Values must be strings and
// flashes must be domain.Message, so every backend can store them as JSON.
package session

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/domapp/portal/internal/core/domain"
	"github.com/domapp/portal/internal/core/ports"
)

const (
	DefaultCookieName = "domapp_session"
	DefaultTTL        = 14 * 24 * time.Hour

	// flashKey is the key gorilla/sessions files flashes under by default.
	flashKey = "_flash"
	idBytes  = 32
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Path   string
	TTL    time.Duration
	Secure bool
}

// Store implements sessions.Store on top of a ports.SessionStore.
type Store struct {
	backend ports.SessionStore
	name    string
	options sessions.Options
	log     zerolog.Logger
}

var _ sessions.Store = (*Store)(nil)

func NewStore(backend ports.SessionStore, cookie CookieConfig, log zerolog.Logger) *Store {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	if cookie.TTL <= 0 {
		cookie.TTL = DefaultTTL
	}
	return &Store{
		backend: backend,
		name:    cookie.Name,
		options: sessions.Options{
			Path:     cookie.Path,
			MaxAge:   int(cookie.TTL.Seconds()),
			Secure:   cookie.Secure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		log: log,
	}
}

// Name returns the session cookie name.
func (s *Store) Name() string { return s.name }

// Middleware makes the store available to Load.
func (s *Store) Middleware() echo.MiddlewareFunc {
	return echosession.Middleware(s)
}

// Load returns the current request's session. On a backend failure the
// returned session is a fresh one and the error is reported alongside it.
func (s *Store) Load(c echo.Context) (*sessions.Session, error) {
	return echosession.Get(s.name, c)
}

// Get returns the session cached in the request registry, loading it on
// first use.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New reads the session named by the request cookie. It never returns a nil
// session: an unknown or expired id yields an empty new one.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := s.options
	sess.Options = &opts
	sess.IsNew = true

	ck, err := r.Cookie(name)
	if err != nil || ck.Value == "" {
		return sess, nil
	}

	record, err := s.backend.Get(r.Context(), ck.Value)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Debug().Msg("session cookie refers to unknown session")
			return sess, nil
		}
		return sess, fmt.Errorf("load session: %w", err)
	}

	sess.ID = ck.Value
	for k, v := range record.Values {
		sess.Values[k] = v
	}
	if len(record.Flashes) > 0 {
		flashes := make([]interface{}, 0, len(record.Flashes))
		for _, m := range record.Flashes {
			flashes = append(flashes, m)
		}
		sess.Values[flashKey] = flashes
	}
	sess.IsNew = false
	return sess, nil
}

// Save persists the session and refreshes the cookie. A session that is
// empty or has a negative MaxAge is deleted and its cookie expired.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	ctx := r.Context()

	record, err := toRecord(sess)
	if err != nil {
		return err
	}

	if sess.Options.MaxAge < 0 || record.IsEmpty() {
		if sess.ID != "" {
			if err := s.backend.Delete(ctx, sess.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			sess.ID = ""
		}
		if _, err := r.Cookie(sess.Name()); err == nil || sess.Options.MaxAge < 0 {
			expired := *sess.Options
			expired.MaxAge = -1
			http.SetCookie(w, sessions.NewCookie(sess.Name(), "", &expired))
		}
		return nil
	}

	if sess.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		sess.ID = id
	}
	record.ID = sess.ID

	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	if err := s.backend.Save(ctx, record, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, sessions.NewCookie(sess.Name(), sess.ID, sess.Options))
	return nil
}

// Regenerate removes the stored record so the next Save issues a new id.
// Values are kept.
func (s *Store) Regenerate(ctx context.Context, sess *sessions.Session) error {
	if sess.ID == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("discard session: %w", err)
	}
	sess.ID = ""
	return nil
}

// UserID returns the logged-in user's id.
func UserID(sess *sessions.Session) (string, bool) {
	id, ok := sess.Values[domain.SessionKeyUserID].(string)
	return id, ok && id != ""
}

// AddMessage queues a flash message for the next rendered page.
func AddMessage(sess *sessions.Session, level domain.MessageLevel, text string) {
	sess.AddFlash(domain.Message{Level: level, Text: text})
}

// PopMessages returns and clears the queued flash messages.
func PopMessages(sess *sessions.Session) []domain.Message {
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	msgs := make([]domain.Message, 0, len(flashes))
	for _, f := range flashes {
		if m, ok := f.(domain.Message); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// Clear drops every value and pending flash.
func Clear(sess *sessions.Session) {
	for k := range sess.Values {
		delete(sess.Values, k)
	}
}

func toRecord(sess *sessions.Session) (*domain.Session, error) {
	record := domain.NewSession()
	for k, v := range sess.Values {
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("session key %v: unsupported type %T", k, k)
		}

		if key == flashKey {
			flashes, ok := v.([]interface{})
			if !ok {
				return nil, fmt.Errorf("session flashes: unsupported type %T", v)
			}
			for _, f := range flashes {
				m, ok := f.(domain.Message)
				if !ok {
					return nil, fmt.Errorf("session flash: unsupported type %T", f)
				}
				record.Flashes = append(record.Flashes, m)
			}
			continue
		}

		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("session value %q: unsupported type %T", key, v)
		}
		record.Values[key] = str
	}
	return record, nil
}

// newID follows gorilla's FilesystemStore: random key, base32 without padding.
func newID() (string, error) {
	key := securecookie.GenerateRandomKey(idBytes)
	if key == nil {
		return "", errors.New("generate session id: no randomness available")
	}
	return strings.TrimRight(base32.StdEncoding.EncodeToString(key), "="), nil
}
