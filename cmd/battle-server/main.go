package main

import (
	"fmt"
	"strings"
	"time"

	docs "monster-battle/docs/battle"
	"monster-battle/internal/modules/battle"
	"monster-battle/internal/pkg/config"
	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/notify"

	"github.com/liangdas/mqant"
	"github.com/liangdas/mqant/module"
	"github.com/liangdas/mqant/registry"
	"github.com/liangdas/mqant/registry/consul"
	"github.com/nats-io/nats.go"
)

// @title           Monster Battle API
// @version         1.0
// @description     精灵对战服务 API - 基于 mqant 微服务架构

// @host      localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey SessionToken
// @in header
// @name X-Session-Token
// @description Kratos 会话令牌

func main() {
	fmt.Println("==============================================")
	fmt.Println("  Monster Battle Server")
	fmt.Println("  Version: 1.0.0")
	fmt.Println("==============================================")
	fmt.Println()

	cfg, err := config.LoadBattleConfig()
	if err != nil {
		fmt.Printf("[Main] Failed to load config: %v\n", err)
		return
	}
	log.Init(log.ParseLevel(cfg.LogLevel), cfg.Environment)
	log.GetLogger().Info("battle server config loaded", "config", cfg.LogFields())

	fmt.Printf("[Main] Consul address: %s\n", cfg.ConsulAddress)
	fmt.Printf("[Main] NATS address: %s\n", cfg.NatsAddress)

	natsURL := cfg.NatsAddress
	if !strings.Contains(natsURL, "://") {
		natsURL = "nats://" + natsURL
	}
	nc, err := nats.Connect(natsURL,
		nats.MaxReconnects(10),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		fmt.Printf("[Main] Failed to connect to NATS: %v\n", err)
		return
	}
	fmt.Println("[Main] Connected to NATS successfully")
	// 对战事件通过同一条连接发布
	notify.SetNatsConn(nc)

	// Swagger 跟随请求来源
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	rs := consul.NewRegistry(func(options *registry.Options) {
		options.Addrs = []string{cfg.ConsulAddress}
	})

	// RegisterTTL 和 RegisterInterval 在模块的 OnInit 中配置
	app := mqant.CreateApp(
		module.Configure("./configs/server/battle-server.json"),
		module.Debug(!cfg.IsProduction()),
		module.Nats(nc),
		module.Registry(rs),
	)

	fmt.Println("[Main] Configuration loaded")

	app.Run(
		battle.Module(),
	)
}
