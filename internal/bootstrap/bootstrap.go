package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/esisa/student-records/internal/app/controllers"
	appMigrations "github.com/esisa/student-records/internal/app/migrations"
	appRepos "github.com/esisa/student-records/internal/app/repositories"
	appRoutes "github.com/esisa/student-records/internal/app/routes"
	appServices "github.com/esisa/student-records/internal/app/services"
	"github.com/esisa/student-records/internal/config"
	"github.com/esisa/student-records/internal/db"
	appMiddleware "github.com/esisa/student-records/internal/middleware"
	pkgAuth "github.com/esisa/student-records/internal/pkg/auth"
	"github.com/esisa/student-records/internal/pkg/helpers"
	"github.com/esisa/student-records/internal/pkg/logger"
	"github.com/esisa/student-records/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           *appServices.AuthService
	UserService           *appServices.UserService
	StudentService        *appServices.StudentService
	StatisticsService     *appServices.StatisticsService
	SecurityLogService    *appServices.SecurityLogService
	AuthController        *appControllers.AuthController
	UserController        *appControllers.UserController
	StudentController     *appControllers.StudentController
	StatisticsController  *appControllers.StatisticsController
	SecurityLogController *appControllers.SecurityLogController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	Logger                zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default accounts.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database)

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

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Startup continues; an operator can create the admin account manually.
		lgr.Error().Err(err).Msg("Failed to create default accounts, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		deps.Repos.SecurityLogRepository,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.SecurityLogRepository,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.SecurityLogRepository,
	)
	deps.StatisticsService = appServices.NewStatisticsService(deps.Repos.StatisticsRepository)
	deps.SecurityLogService = appServices.NewSecurityLogService(deps.Repos.SecurityLogRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.StatisticsController = appControllers.NewStatisticsController(deps.StatisticsService)
	deps.SecurityLogController = appControllers.NewSecurityLogController(deps.SecurityLogService)

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

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.StudentController,
		deps.StatisticsController,
		deps.SecurityLogController,
		deps.AuthMiddleware,
	)

	return router
}
