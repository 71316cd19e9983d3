package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/domapp/portal/internal/api/metrics"
	"github.com/domapp/portal/internal/api/view"
	"github.com/domapp/portal/internal/core/domain"
	"github.com/domapp/portal/internal/core/ports"
	"github.com/domapp/portal/internal/session"
)

// Route paths.
const (
	RouteRegister = "/"
	RouteLogin    = "/connexion/"
	RouteHome     = "/accueil/"
	RouteLogout   = "/deconnexion/"
)

const (
	msgRegistered  = "Registration successful! You can now log in."
	msgWelcome     = "Welcome, %s!"
	msgLoginNeeded = "You must be logged in to access this page."
	msgReserved    = "Content reserved for %s"
	msgLoggedOut   = "You are now logged out. See you soon!"
	msgUnexpected  = "Something went wrong. Please try again later."
)

const (
	titleRegister = "Register"
	titleLogin    = "Log in"
	titleHome     = "Home"

	formUsername = "username"
	formEmail    = "email"
)

// AuthHandler serves the registration, login, home and logout pages.
type AuthHandler struct {
	auth     ports.AuthService
	sessions *session.Store
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, sessions *session.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, log: log}
}

// Register shows the sign-up form and creates the account on POST. Every
// problem with the submission is flashed, prefixed with its field name.
func (h *AuthHandler) Register(c echo.Context) error {
	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}

	page := view.Page{Title: titleRegister}
	if c.Request().Method != http.MethodPost {
		return h.render(c, sess, http.StatusOK, view.PageRegister, page)
	}

	var in ports.RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	page.Form = map[string]string{formUsername: in.Username, formEmail: in.Email}

	_, err = h.auth.Register(c.Request().Context(), in)

	var fieldErrs domain.FieldErrors
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultCreated).Inc()
		session.AddMessage(sess, domain.LevelSuccess, msgRegistered)
		return h.redirect(c, sess, RouteLogin)
	case errors.As(err, &fieldErrs):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		for _, fe := range fieldErrs {
			session.AddMessage(sess, domain.LevelError, fieldLabel(fe.Field)+": "+fe.Message)
		}
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		h.logUnexpected(c, err, "registration failed")
		session.AddMessage(sess, domain.LevelError, msgUnexpected)
	}

	return h.render(c, sess, http.StatusOK, view.PageRegister, page)
}

// Login shows the login form and authenticates on POST. A visitor who is
// already logged in goes straight to the home page.
func (h *AuthHandler) Login(c echo.Context) error {
	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}

	if _, ok := session.UserID(sess); ok {
		return h.redirect(c, sess, RouteHome)
	}

	page := view.Page{Title: titleLogin}
	if c.Request().Method != http.MethodPost {
		return h.render(c, sess, http.StatusOK, view.PageLogin, page)
	}

	var in ports.LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	page.Form = map[string]string{formUsername: in.Username}

	user, err := h.auth.Login(c.Request().Context(), in)

	var fieldErrs domain.FieldErrors
	switch {
	case err == nil:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		// new id on privilege change
		if err := h.sessions.Regenerate(c.Request().Context(), sess); err != nil {
			return err
		}
		sess.Values[domain.SessionKeyUserID] = user.ID
		session.AddMessage(sess, domain.LevelSuccess, fmt.Sprintf(msgWelcome, user.Username))
		return h.redirect(c, sess, RouteHome)
	case errors.As(err, &fieldErrs):
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		for _, fe := range fieldErrs {
			session.AddMessage(sess, domain.LevelError, fe.Message)
		}
	default:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		h.logUnexpected(c, err, "login failed")
		session.AddMessage(sess, domain.LevelError, msgUnexpected)
	}

	return h.render(c, sess, http.StatusOK, view.PageLogin, page)
}

// Home is the protected landing page. A session pointing at a user that no
// longer exists is sent through logout.
func (h *AuthHandler) Home(c echo.Context) error {
	sess, err := h.sessions.Load(c)
	if err != nil {
		return err
	}

	userID, ok := session.UserID(sess)
	if !ok {
		session.AddMessage(sess, domain.LevelError, msgLoginNeeded)
		return h.redirect(c, sess, RouteLogin)
	}

	user, err := h.auth.UserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.log.Warn().Str("user_id", userID).Msg("session refers to a missing user")
			return h.redirect(c, sess, RouteLogout)
		}
		return fmt.Errorf("load session user: %w", err)
	}

	return h.render(c, sess, http.StatusOK, view.PageHome, view.Page{
		Title:   titleHome,
		User:    user,
		Content: fmt.Sprintf(msgReserved, user.Username),
	})
}

// Logout clears the whole session and always lands on the login page. Store
// failures are logged and otherwise ignored.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := h.sessions.Load(c)
	if err != nil {
		// sess is a fresh session here
		h.log.Error().Err(err).Msg("logout: load session")
	}
	metrics.LogoutsTotal.Inc()
	if sess == nil {
		return c.Redirect(http.StatusSeeOther, RouteLogin)
	}

	if userID, ok := session.UserID(sess); ok {
		h.log.Info().Str("user_id", userID).Msg("user logged out")
	}
	session.Clear(sess)
	if err := h.sessions.Regenerate(c.Request().Context(), sess); err != nil {
		h.log.Error().Err(err).Msg("logout: discard session")
	}
	session.AddMessage(sess, domain.LevelInfo, msgLoggedOut)

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.log.Error().Err(err).Msg("logout: save session")
	}
	return c.Redirect(http.StatusSeeOther, RouteLogin)
}

func (h *AuthHandler) logUnexpected(c echo.Context, err error, msg string) {
	h.log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg(msg)
}

// fieldLabel turns a form field name into the prefix used in flash messages.
func fieldLabel(field string) string {
	if field == "" {
		return ""
	}
	lower := strings.ToLower(field)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
