package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog/internal"
	"blog/internal/admin"
	"blog/internal/data"
	"blog/internal/input"
	"blog/internal/nlog"
	"blog/internal/repository"
	"blog/internal/service"
	"blog/internal/storage"

	"go.uber.org/zap"
)

func main() {
	folder := flag.String("config", getenvDefault("BLOG_CONFIG_DIR", "."), "folder holding .cfg and .env")
	flag.Parse()

	if err := run(*folder); err != nil {
		log.Fatalf("blog: %v", err)
	}
}

func run(folder string) error {
	cfg, err := internal.LoadConfig(folder)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appLogger, err := nlog.NewAppLogger(cfg.LogLevel, cfg.EnableLogging)
	if err != nil {
		return err
	}
	defer appLogger.Sync()
	mainLogger := appLogger.RegisterSubsystem("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	dsn := cfg.DBDSN
	if cfg.DBDriver == "sqlite" && dsn == "" {
		dsn = cfg.Resolve(cfg.DBName)
	}
	db, err := repository.OpenDatabase(cfg.DBDriver, dsn, cfg.LogLevel == "debug")
	if err != nil {
		return err
	}
	storageManager, err := data.NewStorageManager(db)
	if err != nil {
		return err
	}
	defer storageManager.Close()

	media, err := storage.New(ctx, storage.Options{
		Backend:            cfg.StorageBackend,
		MediaDirectory:     cfg.Resolve(cfg.MediaDirectory),
		S3Region:           cfg.S3Region,
		S3Bucket:           cfg.S3Bucket,
		GCSBucket:          cfg.GCSBucket,
		GCSCredentialsFile: cfg.GCSCredentialsFile,
	})
	if err != nil {
		return err
	}
	if closer, ok := media.(io.Closer); ok {
		defer closer.Close()
	}

	// Services
	groupService := service.NewGroupService(storageManager.GetGroupRepository(), appLogger.RegisterSubsystem("groups"))
	services := input.Services{
		Auth:  service.NewAuthService(storageManager.GetUserRepository(), appLogger.RegisterSubsystem("auth")),
		Group: groupService,
		Post: service.NewPostService(storageManager.GetPostRepository(), storageManager.GetGroupRepository(),
			storageManager.GetCommentRepository(), media, appLogger.RegisterSubsystem("posts")),
		Feed: service.NewFeedService(cfg.PostsPerPage, storageManager.GetPostRepository(), storageManager.GetGroupRepository(),
			storageManager.GetUserRepository(), storageManager.GetFollowRepository(), appLogger.RegisterSubsystem("feed")),
		Comment: service.NewCommentService(storageManager.GetCommentRepository(), storageManager.GetPostRepository(), appLogger.RegisterSubsystem("comments")),
		Follow:  service.NewFollowService(storageManager.GetFollowRepository(), storageManager.GetUserRepository(), appLogger.RegisterSubsystem("follows")),
	}

	inputManager := input.NewInputManager()
	inputManager.SetLogger(appLogger.RegisterSubsystem("http"))
	inputManager.SetAccessLogger(appLogger.Zap().Named("access"))
	inputManager.SetServices(services)
	inputManager.SetPageCache(storageManager.GetPageCache())
	inputManager.SetMediaStorage(media)

	// Admin control plane
	if cfg.AdminPort != 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", cfg.AdminPort))
		if err != nil {
			return fmt.Errorf("admin listen: %w", err)
		}
		adminServer := admin.NewAdminServer(storageManager.GetPageCache(), inputManager, groupService, appLogger.RegisterSubsystem("admin"))
		go func() {
			if err := admin.Serve(ctx, lis, adminServer, appLogger.Zap().Named("admin")); err != nil {
				mainLogger.Logf("Admin server stopped: %v", err)
				stop()
			}
		}()
		appLogger.Zap().Info("admin control plane listening", zap.Uint16("port", cfg.AdminPort))
	}

	err = inputManager.Run(ctx, &input.IptConfig{
		ServerPort:        cfg.HTTPServerPort,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		TemplateDirectory: cfg.Resolve(cfg.TemplateDirectory),
		StaticDirectory:   cfg.Resolve(cfg.StaticDirectory),
		SecretKey:         cfg.SecretKey,
		IndexCacheTTL:     time.Duration(cfg.IndexCacheTTL) * time.Second,
	})
	mainLogger.Logf("Shutting off...")
	return err
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

