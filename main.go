package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BerniceZTT/crm_workload/config"
	"github.com/BerniceZTT/crm_workload/controllers"
	"github.com/BerniceZTT/crm_workload/middleware"
	"github.com/BerniceZTT/crm_workload/repository"
	"github.com/BerniceZTT/crm_workload/routes"
	"github.com/BerniceZTT/crm_workload/service"
	"github.com/BerniceZTT/crm_workload/utils"
)

var rootCmd = &cobra.Command{
	Use:           "crm-workload",
	Short:         "客户经理工作量与业务员业绩看板服务",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动看板HTTP服务",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, reportCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并初始化日志与JWT密钥
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel, cfg.Debug)
	utils.SetJWTSecret(cfg.JWTKey)
	return cfg, nil
}

// connect 连接数据库并返回数据源
func connect(ctx context.Context, cfg *config.Config) (*repository.PolicyStore, error) {
	if err := repository.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}
	return repository.NewPolicyStore(repository.DB(), cfg.ReferralChunkSize), nil
}

func limitsOf(cfg *config.Config) service.Limits {
	return service.Limits{
		TopManagers:  cfg.TopManagers,
		TopTypes:     cfg.TopTypes,
		TopReferrers: cfg.TopReferrers,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		repository.CloseMongoDB(closeCtx)
	}()

	utils.Logger.Info().Msg("开始系统初始化...")
	if err := repository.InitializeCollections(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
	}

	// 注册表启动时加载一次，之后每日定时刷新；失败时按名称筛选业务员
	registry := service.NewProducerRegistry()
	if err := registry.Refresh(ctx, store); err != nil {
		utils.Logger.Warn().Err(err).Msg("启动时加载业务员注册表失败")
	}
	service.ScheduleDailyTaskAt(ctx, cfg.RegistryRefreshHour, cfg.RegistryRefreshMinute, 0, func(ctx context.Context) {
		_ = registry.Refresh(ctx, store)
	})
	utils.Logger.Info().Msg("系统初始化完成")

	svc := service.NewDashboardService(store, registry, limitsOf(cfg))

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.Origins()))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware(repository.SaveOperationLog))

	routes.RegisterRoutes(router, routes.Handlers{
		Dashboard: controllers.NewDashboardHandler(svc, cfg.RequestTimeout),
		Registry:  controllers.NewRegistryHandler(registry, store, cfg.RequestTimeout),
		DBStatus:  repository.GetDatabaseStatus,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听地址: %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("启动服务器失败: %w", err)
	case <-ctx.Done():
	}

	utils.Logger.Info().Msg("正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器关闭异常: %w", err)
	}
	utils.Logger.Info().Msg("服务器已优雅关闭")
	return nil
}
