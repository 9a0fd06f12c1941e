package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UltraPon/SellUp/app/configs"
	"github.com/UltraPon/SellUp/app/routes"
	"github.com/UltraPon/SellUp/app/services"
	"github.com/UltraPon/SellUp/app/utils/renderer"
	"github.com/UltraPon/SellUp/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

func newEmailSender(ctx context.Context, env configs.ENV, logger *zap.Logger) (services.EmailSender, error) {
	switch env.EmailBackend {
	case "smtp":
		return services.NewSMTPSender(services.SMTPConfig{
			Host:     env.EmailHost,
			Port:     env.EmailPort,
			Username: env.EmailUsername,
			Password: env.EmailPassword,
			From:     env.EmailFrom,
		}), nil
	case "gmail":
		return services.NewGmailSender(ctx, env.GmailCredentialsFile, env.GmailTokenFile, env.EmailFrom)
	case "log", "":
		return services.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unsupported EMAIL_BACKEND %q", env.EmailBackend)
	}
}

func newImageHost(ctx context.Context, env configs.ENV) (services.ImageHost, error) {
	switch env.ImageHost {
	case "imgbb", "":
		if env.ImgBBAPIKey == "" {
			return nil, errors.New("IMGBB_API_KEY is required for the imgbb image host")
		}
		return services.NewImgBBHost(env.ImgBBAPIKey, env.ImageUploadTimeout), nil
	case "minio", "s3":
		return services.NewMinioHost(ctx, services.MinioConfig{
			Endpoint:  env.MinioEndpoint,
			AccessKey: env.MinioAccessKey,
			SecretKey: env.MinioSecretKey,
			Bucket:    env.MinioBucket,
			UseSSL:    env.MinioUseSSL,
			PublicURL: env.MinioPublicURL,
		})
	default:
		return nil, fmt.Errorf("unsupported IMAGE_HOST %q", env.ImageHost)
	}
}

func jwtSecret(env configs.ENV, logger *zap.Logger) (string, error) {
	if env.JWTSecret != "" {
		return env.JWTSecret, nil
	}
	if env.IsProduction() {
		return "", errors.New("JWT_SECRET environment variable not set")
	}
	logger.Warn("JWT_SECRET not set, issuing tokens with a random secret valid until restart")
	return string(securecookie.GenerateRandomKey(64)), nil
}

func serve(ctx context.Context, env configs.ENV, logger *zap.Logger) error {
	db, err := configs.OpenConnection(env, logger)
	if err != nil {
		return err
	}
	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}
	secret, err := jwtSecret(env, logger)
	if err != nil {
		return err
	}
	sender, err := newEmailSender(ctx, env, logger)
	if err != nil {
		return err
	}
	images, err := newImageHost(ctx, env)
	if err != nil {
		return err
	}

	deps := routes.Dependencies{
		DB:             db,
		Logger:         logger,
		Render:         renderer.New(!env.IsProduction()),
		Sessions:       sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey),
		Tokens:         services.NewTokenService(secret, env.JWTTTL),
		Notifier:       services.NewNotifier(sender, logger),
		Images:         images,
		CSRFKey:        keys.CSRFKey,
		SecureCookies:  env.IsProduction(),
		AllowedOrigins: env.CORSAllowedOrigins,
		BackendURL:     env.BackendURL,
		FrontendURL:    env.FrontendURL,
	}
	if env.RedisAddr != "" {
		client, err := services.NewRedisClient(env.RedisAddr, env.RedisPassword, env.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, category cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.CategoryCache = services.NewRedisCategoryCache(client, env.CategoryCacheTTL, logger)
		}
	}

	server := &http.Server{
		Addr:              env.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("env", env.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
	return nil
}
