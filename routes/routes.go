package routes

import (
	"errors"

	"fleetops/config"
	"fleetops/controllers"
	"fleetops/middleware"
	"fleetops/notify"
	"fleetops/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bodyLimit leaves room for a maximum-size scan plus multipart framing.
const bodyLimit = 25 << 20

// Dependencies is everything the handlers need. Notifier may be nil.
type Dependencies struct {
	DB           *gorm.DB
	Log          *zap.Logger
	Ocr          *services.OcrService
	Users        *services.UserService
	Notifier     notify.Notifier
	Prefix       string
	AuthRequired bool
	JWTSecret    string
	QRBaseURL    string
}

// NewApp builds the Fiber application with the shared middleware stack and all
// routes mounted under deps.Prefix.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler(deps.Log),
	})

	app.Use(recover.New())
	config.SetupCORS(app)
	app.Use(middleware.RequestLogger(deps.Log))

	Setup(app, deps)
	return app
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("Unhandled error", zap.String("path", ctx.Path()), zap.Error(err))
		}
		return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}

// Setup registers the public routes first, then the protected ones behind the
// JWT check when auth is required.
func Setup(app *fiber.App, deps Dependencies) {
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}

	api := app.Group(deps.Prefix)
	api.Get("/health", controllers.Health(deps.DB))
	if deps.Users != nil {
		SetupAuthRoutes(api, deps)
	}

	if deps.AuthRequired {
		api.Use(middleware.AuthMiddleware(deps.JWTSecret))
	}

	SetupDriverRoutes(api, deps)
	SetupUnitRoutes(api, deps)
	SetupRateRoutes(api, deps)
	SetupOrderRoutes(api, deps)
	SetupTripRoutes(api, deps)
	SetupEventRoutes(api, deps)
	if deps.Ocr != nil {
		SetupOcrRoutes(api, deps)
	}
}
