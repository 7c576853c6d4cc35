package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/KrithikaHS/The-Student-360/internal/app/controllers"
	appMigrations "github.com/KrithikaHS/The-Student-360/internal/app/migrations"
	appRepos "github.com/KrithikaHS/The-Student-360/internal/app/repositories"
	appRoutes "github.com/KrithikaHS/The-Student-360/internal/app/routes"
	appServices "github.com/KrithikaHS/The-Student-360/internal/app/services"
	"github.com/KrithikaHS/The-Student-360/internal/config"
	appCron "github.com/KrithikaHS/The-Student-360/internal/cron"
	"github.com/KrithikaHS/The-Student-360/internal/db"
	appMiddleware "github.com/KrithikaHS/The-Student-360/internal/middleware"
	pkgAuth "github.com/KrithikaHS/The-Student-360/internal/pkg/auth"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/email"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/filestorage"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/helpers"
	"github.com/KrithikaHS/The-Student-360/internal/pkg/logger"
	"github.com/KrithikaHS/The-Student-360/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	StudentService      appServices.StudentService
	MentorService       appServices.MentorService
	PlacementService    appServices.PlacementService
	DocumentService     appServices.DocumentService
	CompanyService      appServices.CompanyService
	AllocatorService    appServices.AllocatorService
	AuthController      *appControllers.AuthController
	StudentController   *appControllers.StudentController
	MentorController    *appControllers.MentorController
	PlacementController *appControllers.PlacementController
	DocumentController  *appControllers.DocumentController
	CompanyController   *appControllers.CompanyController
	ContactController   *appControllers.ContactController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	EmailService        email.EmailService
	FileStorage         *filestorage.LocalStorage
	Scheduler           *appCron.Scheduler
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Pool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	// File storage base URL must match the static file serving path
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port
	fileStorageBaseURL := baseURL + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:         cfg.SMTP.Host,
		Port:         cfg.SMTP.Port,
		Username:     cfg.SMTP.Username,
		Password:     cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromEmail,
		ContactEmail: cfg.SMTP.ContactEmail,
		UseTLS:       cfg.SMTP.UseTLS,
		BaseURL:      cfg.Server.BaseURL,
	}, lgr)

	// Initialize services
	deps.AuthService = appServices.NewAuthService(deps.Repos, deps.JWTService, database, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos, lgr)
	deps.MentorService = appServices.NewMentorService(deps.Repos, deps.EmailService, database, lgr)
	deps.PlacementService = appServices.NewPlacementService(deps.Repos, database, cfg.Placement.StrictCategories, lgr)
	deps.DocumentService = appServices.NewDocumentService(deps.Repos, deps.FileStorage, lgr)
	deps.CompanyService = appServices.NewCompanyService(deps.Repos, deps.FileStorage, lgr)
	deps.AllocatorService = appServices.NewAllocatorService(database, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	// Initialize controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Logger)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.Logger)
	deps.MentorController = appControllers.NewMentorController(deps.MentorService, deps.AllocatorService, deps.Logger)
	deps.PlacementController = appControllers.NewPlacementController(deps.PlacementService, deps.Logger)
	deps.DocumentController = appControllers.NewDocumentController(deps.DocumentService, deps.Logger)
	deps.CompanyController = appControllers.NewCompanyController(deps.CompanyService, deps.Logger)
	deps.ContactController = appControllers.NewContactController(deps.EmailService, deps.Logger)

	deps.Scheduler = appCron.NewScheduler(
		deps.AllocatorService,
		deps.Repos.TokenRepository,
		cfg.Placement.AutoAssignSchedule,
		lgr,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.MentorController,
		deps.PlacementController,
		deps.DocumentController,
		deps.CompanyController,
		deps.ContactController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
