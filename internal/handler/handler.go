package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"forum/internal/auth"
	apperrors "forum/internal/errors"
)

// SessionContextKey is where the session middleware stores the *auth.Session.
const SessionContextKey = "session"

// MessageResponse is the body of successful calls that carry no data.
type MessageResponse struct {
	Message string `json:"message"`
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// CurrentSession returns the session attached by the session middleware.
func CurrentSession(c echo.Context) (*auth.Session, bool) {
	session, ok := c.Get(SessionContextKey).(*auth.Session)
	return session, ok && session != nil
}

// respondError maps a domain error to an echo HTTP error. The original error
// is kept as the internal cause so 5xx details are logged, not returned.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func invalidBody() error {
	return respondError(apperrors.Validation("invalid request body"))
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(req); err != nil {
		return respondError(apperrors.Validation(validationMessage(err)))
	}
	return nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

func (cc CookieConfig) session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     cc.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cc.TTL.Seconds()),
		Expires:  time.Now().Add(cc.TTL),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (cc CookieConfig) cleared() *http.Cookie {
	return &http.Cookie{
		Name:     cc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
