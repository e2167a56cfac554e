package battle

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	custommiddleware "monster-battle/internal/middleware"
	battleclient "monster-battle/internal/modules/battle/client"
	"monster-battle/internal/modules/battle/engine"
	"monster-battle/internal/modules/battle/handler"
	"monster-battle/internal/modules/battle/service"
	"monster-battle/internal/modules/battle/tasks"
	"monster-battle/internal/pkg/config"
	"monster-battle/internal/pkg/i18n"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
	"monster-battle/internal/pkg/notify"
	redisClient "monster-battle/internal/pkg/redis"
	"monster-battle/internal/pkg/response"
	"monster-battle/internal/pkg/sessioncache"
	"monster-battle/internal/pkg/trace"
	"monster-battle/internal/pkg/validator"
	"monster-battle/internal/repository/impl"

	_ "monster-battle/docs/battle" // Swagger 生成的文档

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/liangdas/mqant/conf"
	"github.com/liangdas/mqant/module"
	basemodule "github.com/liangdas/mqant/module/base"
	"github.com/liangdas/mqant/server"
	_ "github.com/lib/pq"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// dbMaxOpenConns 连接池上限，监控上报时使用同一取值
const dbMaxOpenConns = 25

type BattleModule struct {
	basemodule.BaseModule
	cfg              *config.BattleConfig
	db               *sql.DB
	redis            *redisClient.Client
	ketoClient       *battleclient.KetoClient
	kratosClient     *battleclient.KratosClient
	sessionCache     *sessioncache.Cache
	httpServer       *echo.Echo
	manager          *service.BattleManager
	facade           *service.BattleFacade
	battleHandler    *handler.BattleHandler
	adminHandler     *handler.AdminHandler
	battleRPCHandler *handler.BattleRPCHandler
	idleReaperTask   *tasks.IdleReaperTask
	respWriter       response.Writer
	stopMonitor      chan struct{}
}

// GetType returns module type
func (m *BattleModule) GetType() string {
	return "battle"
}

// Version returns module version
func (m *BattleModule) Version() string {
	return "1.0.0"
}

// OnAppConfigurationLoaded 当App初始化时调用
func (m *BattleModule) OnAppConfigurationLoaded(app module.App) {
	m.BaseModule.OnAppConfigurationLoaded(app)
}

// OnInit module initialization
func (m *BattleModule) OnInit(app module.App, settings *conf.ModuleSettings) {
	cfg, err := config.LoadBattleConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load battle config: %v", err))
	}
	m.cfg = cfg
	metrics.SetServiceName(cfg.ServiceName)

	// TTL 必须大于心跳间隔
	m.BaseModule.OnInit(m, app, settings,
		server.RegisterInterval(15*time.Second),
		server.RegisterTTL(30*time.Second),
	)

	// 1. Initialize database connection
	if err := m.initDatabase(settings); err != nil {
		panic(fmt.Sprintf("Failed to initialize database: %v", err))
	}

	// 2. Initialize Redis (跨实例会话占用，可选)
	if err := m.initRedis(); err != nil {
		panic(fmt.Sprintf("Failed to initialize Redis: %v", err))
	}

	// 3. Initialize identity clients (Keto / Kratos，可选)
	m.initIdentityClients()

	// 4. Initialize response writer
	m.initResponseWriter()

	// 5. Initialize HTTP server
	m.initHTTPServer()

	// 6. Initialize Services and Handlers
	m.initServicesAndHandlers()

	// 7. Setup routes
	m.setupRoutes()

	// 8. Setup RPC methods
	m.setupRPCMethods()

	// 9. Start cron tasks
	m.startCronTasks()

	// 10. Start HTTP server in background
	go m.startHTTPServer(settings)
}

// initDatabase initializes database connection and schema
func (m *BattleModule) initDatabase(settings *conf.ModuleSettings) error {
	dbURL := m.cfg.DatabaseURL
	if settings != nil && settings.Settings != nil {
		if v, ok := settings.Settings["database_url"].(string); ok && v != "" && dbURL == "" {
			dbURL = v
		}
	}
	if dbURL == "" {
		return fmt.Errorf("BATTLE_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := impl.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure battle schema: %w", err)
	}

	m.db = db
	fmt.Println("[Battle Module] Database initialized successfully")

	// 启动数据库连接池监控
	m.stopMonitor = make(chan struct{})
	go m.startDBPoolMonitoring(db)

	return nil
}

// initRedis 未配置 REDIS_HOST 时只在本实例内串行化会话
func (m *BattleModule) initRedis() error {
	if !m.cfg.RedisEnabled() {
		fmt.Println("[Battle Module] Redis not configured, session guard limited to this instance")
		return nil
	}

	client, err := redisClient.NewClient(redisClient.Config{
		Host:     m.cfg.RedisHost,
		Port:     m.cfg.RedisPort,
		Password: m.cfg.RedisPassword,
		DB:       m.cfg.RedisDB,
	}, metrics.GetServiceName())
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.redis = client
	fmt.Printf("[Battle Module] Redis connected successfully (Host: %s:%d, DB: %d)\n", m.cfg.RedisHost, m.cfg.RedisPort, m.cfg.RedisDB)
	return nil
}

// initIdentityClients initializes Keto (GM 角色) and Kratos (会话校验)
func (m *BattleModule) initIdentityClients() {
	if m.cfg.KetoReadURL == "" {
		fmt.Println("[Battle Module] Keto URL not configured, GM role limited to BATTLE_ADMIN_IDS")
	} else if ketoClient, err := battleclient.NewKetoClient(m.cfg.KetoReadURL); err != nil {
		fmt.Printf("[Battle Module] Failed to initialize Keto client: %v, GM role limited to BATTLE_ADMIN_IDS\n", err)
	} else {
		m.ketoClient = ketoClient
		fmt.Printf("[Battle Module] Keto client initialized (read: %s)\n", m.cfg.KetoReadURL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if gms, err := ketoClient.ListGameMasters(ctx); err != nil {
			fmt.Printf("[Battle Module] Warning: failed to list game masters: %v\n", err)
		} else {
			fmt.Printf("[Battle Module] %d game masters registered in Keto\n", len(gms))
		}
	}

	if m.cfg.KratosPublicURL == "" {
		fmt.Println("[Battle Module] Kratos URL not configured, identity taken from X-User-ID only")
		return
	}
	m.kratosClient = battleclient.NewKratosClient(m.cfg.KratosPublicURL)
	m.sessionCache = sessioncache.New(m.cfg.SessionCacheTTL, m.cfg.SessionCacheMaxEntries, metrics.DefaultResourceMetrics, log.GetLogger())
	fmt.Printf("[Battle Module] Kratos client initialized (public: %s)\n", m.cfg.KratosPublicURL)
}

// initResponseWriter initializes response writer
func (m *BattleModule) initResponseWriter() {
	m.respWriter = response.NewResponseHandler(log.GetLogger(), m.cfg.Environment)
	fmt.Println("[Battle Module] Response writer initialized")
}

// initHTTPServer initializes HTTP server
func (m *BattleModule) initHTTPServer() {
	m.httpServer = echo.New()

	m.httpServer.HideBanner = true
	m.httpServer.HidePort = true

	m.httpServer.Validator = validator.New(
		validator.WithEnum("battle_weather", engine.WeatherNames()...),
		validator.WithEnum("battle_terrain", engine.TerrainNames()...),
	)

	logger := log.GetLogger()

	// ========== 中间件配置（顺序很重要！） ==========

	// 1. TraceID 中间件 - 最先执行，生成或提取 TraceID
	m.httpServer.Use(trace.Middleware())

	// 2. Metrics 中间件
	m.httpServer.Use(metrics.Middleware())

	// 3. i18n 中间件 - 语言检测和设置
	m.httpServer.Use(i18n.Middleware())

	// 4. Logging 中间件 - 记录请求日志（依赖 TraceID）
	loggingConfig := custommiddleware.DefaultLoggingConfig()
	if !m.cfg.IsProduction() {
		loggingConfig.DetailedLog = true
		loggingConfig.LogRequestBody = true
	}
	m.httpServer.Use(custommiddleware.LoggingMiddlewareWithConfig(logger, loggingConfig))

	// 5. Recovery 中间件 - 捕获 panic
	m.httpServer.Use(custommiddleware.RecoveryMiddleware(m.respWriter, logger))

	// 6. Error 中间件 - 统一错误处理
	m.httpServer.Use(custommiddleware.ErrorMiddleware(m.respWriter, logger))

	// 7. CORS 中间件
	m.httpServer.Use(middleware.CORS())

	fmt.Println("[Battle Module] HTTP middlewares configured:")
	fmt.Println("  ✓ TraceID (自动生成追踪ID)")
	fmt.Println("  ✓ Metrics (Prometheus 指标收集)")
	fmt.Println("  ✓ i18n (国际化支持)")
	fmt.Printf("  ✓ Logging (日志记录 - %s)\n", m.cfg.Environment)
	fmt.Println("  ✓ Recovery (Panic 恢复)")
	fmt.Println("  ✓ Error (统一错误处理)")
	fmt.Println("  ✓ CORS (跨域支持)")
}

// initServicesAndHandlers initializes services and HTTP handlers
func (m *BattleModule) initServicesAndHandlers() {
	logger := log.GetLogger()
	battleMetrics := metrics.NewBattleMetrics("monster")
	rng := engine.DefaultRandSource()

	// ketoClient 为 nil 时只使用静态名单
	var ketoAdmins service.AdminAuthorizer
	if m.ketoClient != nil {
		ketoAdmins = m.ketoClient
	}

	var guard service.SessionGuard
	if m.redis != nil {
		guard = redisClient.NewSessionGuard(m.redis, m.cfg.SessionGuardTTL)
	}

	ledger := impl.NewRewardLedger(m.db)
	m.manager = service.NewBattleManager(service.ManagerDeps{
		Repo:       impl.NewBattleRepository(m.db),
		Trainers:   impl.NewTrainerStore(m.db),
		Rewards:    service.NewDefaultRewardResolver(ledger, battleMetrics, logger),
		Capture:    service.NewBallCaptureResolver(rng),
		Encounters: service.NewEncounterGenerator(rng),
		Areas:      service.StaticAreaProvider{},
		Admins:     service.NewStaticAdminAuthorizer(m.cfg.AdminIDs, ketoAdmins),
		Guard:      guard,
		Events:     notify.Publisher{},
		Metrics:    battleMetrics,
		Logger:     logger,
		Rand:       rng,
	}, service.ManagerOptions{
		WinCondition:         m.cfg.DefaultWinCondition,
		WildSwapConsumesTurn: m.cfg.WildSwapConsumesTurn,
		IdleTimeout:          m.cfg.IdleTimeout,
	})
	m.facade = service.NewBattleFacade(m.manager, service.NewAutoBattler(m.manager, m.cfg.AutoBattleTurnCap), logger)

	m.battleHandler = handler.NewBattleHandler(m.facade, m.respWriter)
	m.adminHandler = handler.NewAdminHandler(m.facade, m.respWriter)
	m.battleRPCHandler = handler.NewBattleRPCHandler(m.facade)

	fmt.Println("[Battle Module] Handlers initialized successfully")
}

// startCronTasks starts cron scheduled tasks
func (m *BattleModule) startCronTasks() {
	if !m.cfg.ReaperEnabled {
		fmt.Println("[Battle Module] Idle reaper disabled")
		return
	}

	task := tasks.NewIdleReaperTask(m.manager, m.cfg.ReaperSchedule, log.GetLogger())
	if err := task.Start(); err != nil {
		fmt.Printf("[Battle Module] Failed to start idle reaper: %v\n", err)
		return
	}
	m.idleReaperTask = task

	fmt.Println("[Battle Module] Cron tasks started successfully:")
	fmt.Printf("  ✓ Idle Reaper Task (%s, 闲置 %s)\n", m.cfg.ReaperSchedule, m.cfg.IdleTimeout)
}

// setupRoutes sets up HTTP routes
func (m *BattleModule) setupRoutes() {
	logger := log.GetLogger()
	v1 := m.httpServer.Group("/api/v1")

	// kratosClient 为 nil 时只接受网关注入的 X-User-ID
	var sessions custommiddleware.SessionValidator
	if m.kratosClient != nil {
		sessions = m.kratosClient
	}
	identity := custommiddleware.IdentityMiddleware(sessions, m.sessionCache, m.respWriter, logger)

	handler.RegisterRoutes(v1, m.battleHandler, m.adminHandler, identity,
		custommiddleware.RateLimitMiddleware(m.cfg.RateLimitPerSecond, m.cfg.RateLimitBurst),
	)

	// Swagger UI
	m.httpServer.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health check
	m.httpServer.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status": "ok",
			"module": "battle",
			"nats":   notify.Connected(),
			"redis":  m.redis != nil,
		})
	})

	// Prometheus metrics endpoint
	m.httpServer.GET("/metrics", metrics.EchoHandler())

	fmt.Println("[Battle Module] Routes configured successfully")
	fmt.Println("[Battle Module] Battle API routes: /api/v1/battles/sessions/:session_id/*")
	fmt.Printf("[Battle Module] Swagger UI available at http://localhost:%d/swagger/index.html\n", m.cfg.HTTPPort)
	fmt.Printf("[Battle Module] Prometheus metrics available at http://localhost:%d/metrics\n", m.cfg.HTTPPort)
}

// startHTTPServer starts HTTP server
func (m *BattleModule) startHTTPServer(settings *conf.ModuleSettings) {
	port := strconv.Itoa(m.cfg.HTTPPort)
	if settings != nil && settings.Settings != nil {
		if v, ok := settings.Settings["http_port"].(string); ok && v != "" {
			port = v
		}
	}

	fmt.Printf("[Battle Module] Starting HTTP server on port %s\n", port)

	if err := m.httpServer.Start(":" + port); err != nil {
		fmt.Printf("[Battle Module] HTTP server error: %v\n", err)
	}
}

// Run module run
func (m *BattleModule) Run(closeSig chan bool) {
	fmt.Println("[Battle Module] Started successfully")
	<-closeSig
}

// OnDestroy module destroy
func (m *BattleModule) OnDestroy() {
	if m.idleReaperTask != nil {
		m.idleReaperTask.Stop()
		fmt.Println("[Battle Module] Cron tasks stopped")
	}

	if m.httpServer != nil {
		if err := m.httpServer.Close(); err != nil {
			fmt.Printf("[Battle Module] Failed to close HTTP server: %v\n", err)
		} else {
			fmt.Println("[Battle Module] HTTP server closed")
		}
	}

	if m.ketoClient != nil {
		if err := m.ketoClient.Close(); err != nil {
			fmt.Printf("[Battle Module] Failed to close Keto client: %v\n", err)
		}
	}

	if m.stopMonitor != nil {
		close(m.stopMonitor)
	}

	if m.db != nil {
		if err := m.db.Close(); err != nil {
			fmt.Printf("[Battle Module] Failed to close database: %v\n", err)
		} else {
			fmt.Println("[Battle Module] Database connection closed")
		}
	}

	m.BaseModule.OnDestroy()
	fmt.Println("[Battle Module] Destroyed")
}

// Module creates Battle module instance
func Module() module.Module {
	return new(BattleModule)
}

// startDBPoolMonitoring 启动数据库连接池监控
// 每 30 秒报告一次连接池统计信息到 Prometheus
func (m *BattleModule) startDBPoolMonitoring(db *sql.DB) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopMonitor:
			return
		case <-ticker.C:
			stats := db.Stats()
			metrics.DefaultResourceMetrics.RecordDBPoolStats(
				metrics.GetServiceName(),
				"postgres",
				stats.OpenConnections,
				stats.InUse,
				stats.Idle,
				dbMaxOpenConns,
				stats.WaitCount,
			)
		}
	}
}

// setupRPCMethods 注册 RPC 方法
// 供其他模块（如 Admin Server）调用
func (m *BattleModule) setupRPCMethods() {
	m.GetServer().RegisterGO("ForceWinBattle", m.battleRPCHandler.ForceWinBattle)
	m.GetServer().RegisterGO("ForceLoseBattle", m.battleRPCHandler.ForceLoseBattle)
	m.GetServer().RegisterGO("SetBattleWeather", m.battleRPCHandler.SetBattleWeather)
	m.GetServer().RegisterGO("SetBattleTerrain", m.battleRPCHandler.SetBattleTerrain)
	m.GetServer().RegisterGO("SetWinCondition", m.battleRPCHandler.SetWinCondition)
	m.GetServer().RegisterGO("GetBattleStatus", m.battleRPCHandler.GetBattleStatus)

	fmt.Println("[Battle Module] RPC methods registered:")
	fmt.Println("  ✓ ForceWinBattle - 判定一方获胜")
	fmt.Println("  ✓ ForceLoseBattle - 判定一方落败")
	fmt.Println("  ✓ SetBattleWeather - 修改天气")
	fmt.Println("  ✓ SetBattleTerrain - 修改场地")
	fmt.Println("  ✓ SetWinCondition - 修改胜利条件")
	fmt.Println("  ✓ GetBattleStatus - 查询对战状态")
}
