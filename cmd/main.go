package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/alumnihub/membership-server/internal/api/http/router"
	"github.com/alumnihub/membership-server/internal/config"
	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/mailer"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/repository/postgres"
	"github.com/alumnihub/membership-server/internal/server"
	"github.com/alumnihub/membership-server/internal/service"
	storage "github.com/alumnihub/membership-server/internal/storage/minio"
	"github.com/alumnihub/membership-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	resetTokenRepo := postgres.NewResetTokenRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	uploadPolicy := model.UploadPolicy{
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxSizeBytes:      cfg.Upload.MaxSizeBytes,
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	documentStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, uploadPolicy)
	if err != nil {
		logger.Fatal("failed to initialize document store", "error", err)
	}

	resetMailer := mailer.NewLogMailer(cfg.Reset.LinkBase, logger)

	registrationService := service.NewRegistration(accountRepo, documentStore, uploadPolicy, logger)
	lifecycleService := service.NewLifecycle(accountRepo, documentStore, logger)
	resetService := service.NewReset(accountRepo, resetTokenRepo, resetMailer, cfg.Reset.TokenTTL, logger)
	sessionService := service.NewSession(accountRepo, adminRepo, tokenManager, logger)

	if err := sessionService.EnsureBootstrapAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatal("failed to ensure bootstrap admin", "error", err)
	}

	r := router.New(
		registrationService,
		lifecycleService,
		resetService,
		sessionService,
		tokenManager,
		cfg.Upload.MaxSizeBytes,
		logger,
	)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
