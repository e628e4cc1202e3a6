package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/totegamma/invoicedash/internal/config"
	"github.com/totegamma/invoicedash/internal/infra/cache"
	"github.com/totegamma/invoicedash/internal/infra/database"
	"github.com/totegamma/invoicedash/internal/infra/repository"
	"github.com/totegamma/invoicedash/internal/present/rest"
	authmw "github.com/totegamma/invoicedash/internal/present/rest/middleware"
	"github.com/totegamma/invoicedash/internal/service"
	"github.com/totegamma/invoicedash/internal/usecase"
)

const serviceName = "invoicedash"

var defaultSessionMaxAge = 30 * 24 * time.Hour

func main() {
	configPath := flag.String("config", envOr("INVOICEDASH_CONFIG", "/etc/invoicedash/config.yaml"), "path to config file")
	envFile := flag.String("env", ".env", "optional dotenv file with the POSTGRES_* and AUTH_SECRET settings")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Failed to load env file", slog.String("path", *envFile), slog.String("error", err.Error()))
		os.Exit(1)
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(conf.Server.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to setup trace provider", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cleanup()
	}

	var provider database.Provider
	if conf.Database.Pooled {
		db, err := database.NewPostgres(conf.Database.DSN())
		if err != nil {
			slog.Error("Failed to connect database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		provider = database.NewPoolProvider(db)
	} else {
		provider = database.NewDialProvider(conf.Database.DSN())
	}

	var rdb *redis.Client
	if conf.Server.RedisAddr != "" {
		rdb, err = database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
		if err != nil {
			slog.Error("Failed to connect redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()
	}

	routeCache, err := newRouteCache(conf, rdb)
	if err != nil {
		slog.Error("Failed to setup route cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessionMaxAge := defaultSessionMaxAge
	if conf.Auth.SessionMaxAge != "" {
		sessionMaxAge, err = time.ParseDuration(conf.Auth.SessionMaxAge)
		if err != nil {
			slog.Error("Invalid auth.sessionMaxAge", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	invoiceRepo := repository.NewInvoiceRepository(provider)
	customerRepo := repository.NewCustomerRepository(provider)
	userRepo := repository.NewUserRepository(provider)

	signalService := service.NewSignalService(rdb)
	invalidator := service.NewInvalidator(routeCache, signalService)
	authService := service.NewAuthService(userRepo, []byte(conf.Auth.Secret), sessionMaxAge)

	invoiceUsecase := usecase.NewInvoiceUsecase(invoiceRepo, invalidator)
	authUsecase := usecase.NewAuthUsecase(authService)
	dashboardUsecase := usecase.NewDashboardUsecase(invoiceRepo, customerRepo, routeCache)

	handler := rest.NewHandler(
		invoiceUsecase,
		authUsecase,
		dashboardUsecase,
		signalService,
		rest.SessionCookie{MaxAge: sessionMaxAge, Secure: conf.Auth.SecureCookie},
	)
	authMiddleware := authmw.NewAuthMiddleware(authService)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName))
	}
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.Secure())
	e.Use(authMiddleware.Gate)

	handler.RegisterRoutes(e)

	addr := conf.Server.Addr
	if addr == "" {
		addr = ":8000"
	}

	go func() {
		slog.Info("Starting server", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shutdown server", slog.String("error", err.Error()))
	}
}

func newRouteCache(conf config.Config, rdb *redis.Client) (cache.RouteCache, error) {
	ttl := cache.ParseTTL(conf.Cache.TTL)
	switch conf.Cache.Backend {
	case "", "memory":
		return cache.NewMemoryCache(ttl), nil
	case "memcached":
		if conf.Server.MemcachedAddr == "" {
			return nil, errors.New("cache.backend memcached needs server.memcachedAddr")
		}
		return cache.NewMemcachedCache(database.NewMemcached(conf.Server.MemcachedAddr), ttl), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("cache.backend redis needs server.redisAddr")
		}
		return cache.NewRedisCache(rdb, ttl), nil
	default:
		return nil, errors.New("unknown cache.backend " + conf.Cache.Backend)
	}
}

func setupTraceProvider(ctx context.Context, endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		}
	}, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
