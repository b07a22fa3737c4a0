package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	bookingv1 "github.com/Leganyst/appointment-booking/internal/api/booking/v1"
	"github.com/Leganyst/appointment-booking/internal/auth"
	"github.com/Leganyst/appointment-booking/internal/booking"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/config"
	"github.com/Leganyst/appointment-booking/internal/db"
	"github.com/Leganyst/appointment-booking/internal/httpapi"
	"github.com/Leganyst/appointment-booking/internal/logging"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/notify"
	"github.com/Leganyst/appointment-booking/internal/repository"
	"github.com/Leganyst/appointment-booking/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("booking server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Загружаем .env (если есть) и конфиги из env.
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		return err
	}
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}

	log := logging.New(appCfg.Env, os.Stdout)
	slog.SetDefault(log)

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		return err
	}
	store := repository.NewGormStore(gormDB)

	if err := auth.SeedAdmin(ctx, store, appCfg.Admin, log); err != nil {
		return err
	}

	// 4. Доменные сервисы.
	tz, err := calendar.LoadNormalizer(appCfg.BusinessTimeZone)
	if err != nil {
		return err
	}
	notifier := notify.New(appCfg.SMTP, notify.NewLogNotifier(log))

	bookingSvc := booking.NewService(store, booking.Options{
		TimeZone: tz,
		Notifier: notifier,
		OpsEmail: appCfg.OpsEmail,
		Logger:   log,
	})
	authSvc := auth.NewService(store, auth.NewTokens(appCfg.JWTSecret, appCfg.TokenTTL), notifier, log)

	// 5. gRPC-сервер.
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		service.UnaryLoggingInterceptor(log),
		service.UnaryAuthInterceptor(authSvc),
	))
	bookingv1.RegisterCalendarServiceServer(grpcServer, service.NewCalendarService(bookingSvc))
	bookingv1.RegisterIdentityServiceServer(grpcServer, service.NewIdentityService(authSvc))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", appCfg.GRPCAddr)
	if err != nil {
		return err
	}

	// 6. HTTP-сервер (REST).
	mode := gin.ReleaseMode
	if appCfg.Env == "development" {
		mode = gin.DebugMode
	}
	httpServer := &http.Server{
		Addr: appCfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Booking: bookingSvc,
			Auth:    authSvc,
			Cookie:  httpapi.CookieOptions{Domain: appCfg.CookieDomain, Secure: appCfg.CookieSecure},
			Logger:  log,
			Mode:    mode,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Запускаем оба сервера в горутинах.
	errCh := make(chan error, 2)
	go func() {
		log.Info("gRPC server listening", "addr", appCfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info("HTTP server listening", "addr", appCfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	case serveErr = <-errCh:
		log.Error("server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	grpcServer.GracefulStop()
	return serveErr
}
