package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remino/cmd/internal/config"
	"remino/cmd/internal/domain/events"
	"remino/cmd/internal/domain/sqlite"
	"remino/cmd/internal/domain/sqlite/repository"
	"remino/cmd/internal/http/handler"
	authmw "remino/cmd/internal/http/middleware"
	cognitoclient "remino/cmd/internal/infrastructure/aws/cognito"
	"remino/cmd/internal/infrastructure/aws/storage"
	"remino/cmd/internal/infrastructure/identity"
	"remino/cmd/internal/infrastructure/mail"
	"remino/cmd/internal/service"
	"remino/cmd/internal/service/jobs"
	"remino/cmd/internal/utils/uid"
	"remino/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

func main() {
	sweepOnly := flag.Bool("sweep", false, "run a single reminder sweep and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Bootstrap(ctx); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	validate := validators.New()
	cfg, err := config.Load(validate)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.GommonLevel())

	if err := uid.Init(cfg.MachineID); err != nil {
		log.Fatalf("failed to init id generator: %v", err)
	}

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := newIdentityProvider(ctx, cfg, db)
	if err != nil {
		log.Fatalf("failed to init identity provider: %v", err)
	}

	var s3Client storage.S3Client
	if cfg.AttachmentsEnabled() {
		s3Client, err = storage.NewStorageClient(ctx, cfg.S3Region, cfg.S3BucketName)
		if err != nil {
			log.Fatalf("failed to init S3 client: %v", err)
		}
	} else {
		log.Warn("S3_BUCKET_NAME is not set, note attachments are disabled")
	}

	sender, err := newMailSender(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init mail sender: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	notifier := service.NewNotifier(sender, cfg.SiteURL)
	reminders := jobs.NewReminderSweep(taskRepo, notifier, cfg.ReminderHour)

	if *sweepOnly {
		res, err := reminders.Sweep(ctx, time.Now())
		if err != nil {
			log.Fatalf("reminder sweep failed: %v", err)
		}
		log.Infof("reminder sweep done: %d due, %d sent, %d failed", res.Due, res.Sent, res.Failed)
		return
	}

	bus := events.NewBus(true)
	notifier.Subscribe(bus)

	// Services
	authService := service.NewAuthService(userRepo, tokenRepo, provider, validate)
	noteService := service.NewNoteService(noteRepo, userRepo, categoryRepo, s3Client, bus, validate)
	taskService := service.NewTaskService(taskRepo, userRepo, categoryRepo, bus, validate)
	categoryService := service.NewCategoryService(categoryRepo, validate)

	routes := &handler.Routes{
		Auth:       handler.NewAuthDefault(authService),
		Notes:      handler.NewNoteDefault(noteService),
		Tasks:      handler.NewTaskDefault(taskService),
		Categories: handler.NewCategoryDefault(categoryService),
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(cfg.GommonLevel())
	e.Pre(middleware.AddTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("30M"))

	handler.Register(e, routes, authmw.NewAuthMiddleware(authService))

	// Jobs
	if cfg.ReminderEnabled {
		go reminders.Start(ctx)
	}
	go jobs.NewTokenCleaner(tokenRepo).Start(ctx)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down server: %v", err)
	}

	// Let pending share notifications go out.
	bus.Wait()
}

func newIdentityProvider(ctx context.Context, cfg *config.Config, db *gorm.DB) (identity.Provider, error) {
	if cfg.AuthProvider == "cognito" {
		return cognitoclient.New(ctx, cfg.CognitoRegion, cfg.CognitoUserPoolID, cfg.CognitoAppClientID)
	}
	return identity.NewLocalProvider(db, cfg.JWTSecret, cfg.JWTTTL), nil
}

func newMailSender(ctx context.Context, cfg *config.Config) (mail.Sender, error) {
	if cfg.MailDriver == "ses" {
		return mail.NewSESSender(ctx, cfg.SESRegion, cfg.MailFrom)
	}
	return mail.NewLogSender(), nil
}
