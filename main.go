package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/afumu/codash/internal/config"
	"github.com/afumu/codash/internal/platform"
	"github.com/afumu/codash/internal/source"
	"github.com/afumu/codash/pkg/logger"
	"github.com/afumu/codash/web"
	"github.com/afumu/codash/web/api"
	"github.com/rs/zerolog/log"
)

// version 在构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

func main() {
	logger.Setup(logger.Options{})

	// --- 加载配置 ---
	v := config.New(".env")
	config.Read(v)

	conf, err := config.Parse(v)
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	logger.Setup(logger.Options{Level: conf.LogLevel, Format: conf.LogFormat})

	// --- 初始化平台服务 ---
	client := source.NewClient(conf.ClientConfig())
	svc := platform.NewService(source.NewFetchers(client, conf.Endpoints(), nil), nil)
	svc.SetTuning(conf.Tuning)

	// 配置变更时只更新可在线调整的部分，监听地址和数据源地址需要重启生效
	apply := func(next *config.Config) {
		svc.SetTuning(next.Tuning)
		client.SetTimeout(next.HTTPTimeout)
		client.SetRate(next.OutboundRPS, next.OutboundBurst)
		logger.SetLevel(next.LogLevel)
	}
	config.Watch(v, apply)

	// --- 初始化 Web 服务 ---
	webService := web.NewService(svc, &web.Config{
		ListenAddr: conf.ListenAddr,
		API: &api.Config{
			Version: version,
			Viper:   v,
			Apply:   apply,
		},
	})

	// --- 启动服务 ---
	if err := webService.Start(); err != nil {
		log.Fatal().Err(err).Msg("启动 web 服务失败")
	}
	log.Info().Str("version", version).Str("addr", conf.ListenAddr).Msg("服务已启动")

	// --- 等待中断信号以实现优雅关闭 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("接收到关闭信号，正在关闭服务...")

	// --- 关闭服务 ---
	if err := webService.Stop(); err != nil {
		log.Fatal().Err(err).Msg("关闭 web 服务时出错")
	}
	log.Info().Msg("服务已成功关闭。")
}
