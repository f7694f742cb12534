package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/afumu/codash/internal/platform"
	"github.com/afumu/codash/web/api"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
)

// Service 定义了 web 服务。
type Service struct {
	platform *platform.Service
	router   *gin.Engine
	handler  http.Handler
	server   *http.Server
	conf     *Config
	api      *api.API
}

// Config 保存 web 服务的配置。
type Config struct {
	ListenAddr string
	API        *api.Config
}

// NewService 创建一个新的 web 服务。
func NewService(svc *platform.Service, conf *Config) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Service{
		platform: svc,
		router:   router,
		conf:     conf,
		api:      api.NewAPI(svc, conf.API),
	}

	s.setupMiddleware()
	s.setupRoutes()

	// 响应按 Accept-Encoding 压缩
	s.handler = gzhttp.GzipHandler(router)

	return s
}

// Start 开始提供 web 应用服务。
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:              s.conf.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Msg(fmt.Sprintf("在 %s 上启动 web 服务", s.conf.ListenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Web 服务启动失败")
		}
	}()

	return nil
}

// Stop 优雅地关闭 web 服务器。
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("优雅关闭 web 服务器失败")
		return err
	}

	log.Info().Msg("Web 服务已停止")
	return nil
}

func (s *Service) GetRouter() *gin.Engine {
	return s.router
}

// Handler 返回带压缩的完整处理链。
func (s *Service) Handler() http.Handler {
	return s.handler
}
