package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"minoj/internal/common/cache"
	"minoj/internal/common/db"
	commonmw "minoj/internal/common/http/middleware"
	"minoj/internal/config"
	"minoj/internal/controller"
	"minoj/internal/judge"
	"minoj/internal/registry"
	"minoj/internal/repository"
	"minoj/internal/service"
	"minoj/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath string
		flushData  bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&configPath, "c", "", "Path to config file (shorthand)")
	flag.BoolVar(&flushData, "flush-data", false, "Purge the persistence mirror before loading")
	flag.BoolVar(&flushData, "f", false, "Purge the persistence mirror before loading (shorthand)")
	flag.Parse()

	if configPath == "" {
		fmt.Fprintln(os.Stderr, "a config file is required: --config <path>")
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	store := openStore(ctx, cfg)

	if flushData && store.Available() {
		if err := store.Flush(ctx); err != nil {
			logger.Error(ctx, "flush mirror failed", zap.Error(err))
			return
		}
	}

	users := registry.NewUsers()
	contests := registry.NewContests(cfg.ProblemIDs())
	jobs := registry.NewJobs()
	if err := hydrate(ctx, store, cfg, users, contests, jobs); err != nil {
		logger.Error(ctx, "hydrate from mirror failed", zap.Error(err))
		return
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache, err = cache.NewRedisCacheWithConfig(&cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn(ctx, "redis unavailable, ranklist cache disabled", zap.Error(err))
			redisCache = nil
		} else {
			defer func() {
				_ = redisCache.Close()
			}()
		}
	}

	executor := judge.NewExecutor(cfg, "")
	ranklistSvc := service.NewRanklistService(cfg, users, contests, jobs, redisCache)
	submitSvc := service.NewSubmitService(cfg, users, contests, jobs, executor, store, ranklistSvc)
	userSvc := service.NewUserService(users, contests, store, ranklistSvc)
	contestSvc := service.NewContestService(cfg, users, contests, store, ranklistSvc)

	exitCh := make(chan struct{})
	var exitOnce sync.Once
	requestExit := func() {
		exitOnce.Do(func() { close(exitCh) })
	}

	router := buildRouter(submitSvc, userSvc, contestSvc, ranklistSvc, requestExit)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		logger.Error(ctx, "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server started", zap.String("addr", cfg.Server.Addr()))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(ctx, "shutdown signal received")
	case <-exitCh:
		logger.Info(ctx, "exit requested")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		logger.Error(ctx, "http server shutdown failed", zap.Error(err))
	}
	store.Close()
}

// openStore connects the mirror, degrading to in-memory-only mode when
// mysql is unreachable
func openStore(ctx context.Context, cfg *config.Config) *repository.Store {
	mysqlDB, err := db.NewMySQL(cfg.Database.DSN)
	if err != nil {
		logger.Warn(ctx, "mysql unavailable, running in-memory only", zap.Error(err))
		return repository.NewStore(nil)
	}
	store := repository.NewStore(mysqlDB)
	if err := store.Bootstrap(ctx); err != nil {
		logger.Warn(ctx, "mirror bootstrap failed, running in-memory only", zap.Error(err))
		_ = mysqlDB.Close()
		return repository.NewStore(nil)
	}
	return store
}

// hydrate loads persisted rows into the registries and seeds the rows
// the mirror is missing
func hydrate(ctx context.Context, store *repository.Store, cfg *config.Config,
	users *registry.Users, contests *registry.Contests, jobs *registry.Jobs) error {
	if !store.Available() {
		return nil
	}

	loadedUsers, err := store.LoadUsers(ctx)
	if err != nil {
		return err
	}
	users.Hydrate(loadedUsers)

	loadedContests, err := store.LoadContests(ctx)
	if err != nil {
		return err
	}
	contests.Hydrate(loadedContests)

	loadedJobs, err := store.LoadJobs(ctx)
	if err != nil {
		return err
	}
	jobs.Hydrate(loadedJobs)

	return store.Seed(ctx, cfg.ProblemIDs())
}

func buildRouter(submitSvc *service.SubmitService, userSvc *service.UserService,
	contestSvc *service.ContestService, ranklistSvc *service.RanklistService, requestExit func()) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(requestLogger())

	jobController := controller.NewJobController(submitSvc)
	userController := controller.NewUserController(userSvc)
	contestController := controller.NewContestController(contestSvc, ranklistSvc)
	systemController := controller.NewSystemController(requestExit)

	router.POST("/jobs", jobController.Create)
	router.GET("/jobs", jobController.List)
	router.GET("/jobs/:id", jobController.Get)
	router.PUT("/jobs/:id", jobController.Rejudge)
	router.DELETE("/jobs/:id", jobController.Delete)

	router.POST("/users", userController.Post)
	router.GET("/users", userController.List)

	router.POST("/contests", contestController.Post)
	router.GET("/contests", contestController.List)
	router.GET("/contests/:id", contestController.Get)
	router.GET("/contests/:id/ranklist", contestController.Ranklist)

	router.GET("/hello", systemController.Greet)
	router.GET("/hello/:name", systemController.Greet)
	router.POST("/internal/exit", systemController.Exit)

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
