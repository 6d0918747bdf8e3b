package router

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"aspira/internal/auth"
	"aspira/internal/config"
	"aspira/internal/handler"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	nimRe      = regexp.MustCompile(`^\d{8,20}$`)
	phoneRe    = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	reactionHandler *handler.ReactionHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewCustomValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// JWT guard; stores *auth.Claims under "user".
	authRequired := echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	})

	users := api.Group("/users")
	users.POST("/", userHandler.Register)
	users.GET("/auth/verify-email/", userHandler.VerifyEmail)
	users.POST("/auth/resend-verification/", userHandler.ResendVerification)
	users.POST("/auth/login/", authHandler.Login)
	users.POST("/auth/refresh/", authHandler.Refresh)
	users.POST("/auth/logout/", authHandler.Logout)
	users.GET("/profile/", userHandler.GetProfile, authRequired)
	users.PATCH("/profile/", userHandler.UpdateProfile, authRequired)

	aspirasi := api.Group("/aspirasi")

	// Reading the feed is public; every mutation requires a token.
	aspirasi.GET("/posts/", postHandler.List)
	aspirasi.GET("/posts/:id", postHandler.Get)
	aspirasi.GET("/posts/:id/comments", postHandler.ListComments)
	aspirasi.GET("/posts/:id/reactions", postHandler.ListReactions)
	aspirasi.POST("/posts/", postHandler.Create, authRequired)
	aspirasi.PUT("/posts/:id", postHandler.Update, authRequired)
	aspirasi.DELETE("/posts/:id", postHandler.Delete, authRequired)
	aspirasi.POST("/posts/:id/image", postHandler.AttachImage, authRequired)

	aspirasi.GET("/comments/", commentHandler.List)
	aspirasi.POST("/comments/", commentHandler.Create, authRequired)
	aspirasi.PUT("/comments/:id", commentHandler.Update, authRequired)
	aspirasi.DELETE("/comments/:id", commentHandler.Delete, authRequired)

	aspirasi.POST("/reactions/", reactionHandler.React, authRequired)
}

// CustomValidator wraps validator for Echo with the campus-specific rules.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator registers the custom field rules.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("username_charset", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("nim", func(fl validator.FieldLevel) bool {
		return nimRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
