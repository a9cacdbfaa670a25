package router

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"forum/internal/config"
	apperrors "forum/internal/errors"
	"forum/internal/handler"
	"forum/internal/logger"
	"forum/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg config.Config,
	log logrus.FieldLogger,
	sessionService service.SessionService,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
) {
	e.HTTPErrorHandler = errorHandler(log)
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// Everything else needs a live session. Route-level middleware keeps
	// unknown paths answering 404 rather than 401.
	secured := SessionMiddleware(cfg.Session.CookieName, sessionService)
	e.POST("/logout", authHandler.Logout, secured)
	e.GET("/test_auth", authHandler.TestAuth, secured)
	e.GET("/posts", postHandler.ListPosts, secured)
	e.POST("/posts", postHandler.CreatePost, secured)
	e.POST("/posts/:id/upvote", postHandler.UpvotePost, secured)
}

// SessionMiddleware reads the session cookie and resolves it through the
// session service. Requests without a live session stop here with 401.
func SessionMiddleware(cookieName string, sessions service.SessionService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + cookieName,
		ContextKey:  handler.SessionContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return sessions.Authorize(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// errorHandler renders every error as {message, code}. Causes of 5xx
// responses are logged and never sent to the client.
func errorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			mapped := apperrors.MapErrorToHTTP(err)
			he = echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
		}

		body := he.Message
		if msg, ok := body.(string); ok {
			body = apperrors.ErrorResponse{Message: msg, Code: statusCode(he.Code)}
		}

		if he.Code >= http.StatusInternalServerError {
			cause := he.Internal
			if cause == nil {
				cause = err
			}
			log.WithError(cause).
				WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Error("request error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			log.WithError(err).Warn("write error response")
		}
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
