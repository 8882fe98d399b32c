package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"diabeto/internal/auth"
	"diabeto/internal/config"
	"diabeto/internal/errors"
	"diabeto/internal/handler"
	"diabeto/internal/metrics"
	"diabeto/internal/repository"
)

// sessionTokenClaims mirrors auth.SessionClaims for the middleware side.
// echo-jwt parses with jwt/v5 while the issuing service signs with jwt/v4;
// the wire format is identical, only the Go types differ.
type sessionTokenClaims struct {
	DoctorID uint   `json:"doctor_id"`
	Username string `json:"username"`
	jwtv5.RegisteredClaims
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessionStore auth.SessionStoreInterface,
	doctorRepo repository.DoctorRepository,
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/login")
	})

	// Public routes
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)

	// Protected routes: the session cookie must carry a valid signed token
	// whose server-side record and clinician row both still exist.
	secured := e.Group("", sessionTokenMiddleware(cfg.JWTSecret), resolveDoctor(sessionStore, doctorRepo))

	secured.GET("/home", authHandler.Home)
	secured.POST("/logout", authHandler.Logout)
	secured.GET("/add_patient", patientHandler.AddPatientForm)
	secured.POST("/add_patient", patientHandler.AddPatient)
	secured.GET("/patients", patientHandler.ListPatients)
	secured.GET("/patients/:id/predictions", patientHandler.PredictionHistory)
	secured.POST("/delete_patient/:id", patientHandler.DeletePatient)
}

// unauthorized builds the single 401 response every auth failure maps to.
func unauthorized(c echo.Context) error {
	metrics.AuthFailuresTotal.WithLabelValues("session").Inc()
	httpErr := errors.MapErrorToHTTP(errors.ErrUnauthorized)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// sessionTokenMiddleware verifies the session cookie's signature and expiry.
func sessionTokenMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:" + handler.SessionCookieName,
		NewClaimsFunc: func(c echo.Context) jwtv5.Claims {
			return new(sessionTokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized(c)
		},
	})
}

// resolveDoctor maps validated claims to a live clinician. A revoked session
// record, a record bound to a different clinician and a vanished doctor row
// all read as unauthenticated.
func resolveDoctor(sessionStore auth.SessionStoreInterface, doctorRepo repository.DoctorRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return unauthorized(c)
			}
			claims, ok := token.Claims.(*sessionTokenClaims)
			if !ok {
				return unauthorized(c)
			}
			recordedID, live := sessionStore.DoctorID(c.Request().Context(), claims.ID)
			if !live || recordedID != claims.DoctorID {
				return unauthorized(c)
			}

			doctor, err := doctorRepo.FindByID(c.Request().Context(), claims.DoctorID)
			if err != nil {
				return unauthorized(c)
			}

			c.Set("doctor", doctor)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
