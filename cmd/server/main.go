package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hrportal/internal/api"
	"hrportal/internal/apiclient"
	"hrportal/internal/config"
	"hrportal/internal/metrics"
	"hrportal/internal/session"
	"hrportal/internal/validation"
	"hrportal/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	messages, err := config.LoadMessages(cfg.MessagesFile)
	if err != nil {
		logrus.WithError(err).Error("failed to load messages")
		return
	}

	metrics.Register(prometheus.DefaultRegisterer)

	client, err := apiclient.New(cfg.APIBase(), cfg.APITimeout, apiclient.WithObserver(metrics.ObserveAPIRequest))
	if err != nil {
		logrus.WithError(err).Error("failed to initialise api client")
		return
	}

	store, err := session.Open(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise session store")
		return
	}
	defer store.Close()

	sessions, err := session.NewManager(store, cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise sessions")
		return
	}

	service := workflow.NewService(client, messages,
		workflow.WithLegacyLoginErrorToast(cfg.LegacyLoginErrorToast),
	)
	validator := validation.New(
		validation.WithRejectUnsetRole(cfg.RejectUnsetRole),
		validation.WithMessages(messages.Validation),
	)

	httpHandler, err := api.NewHTTPHandler(cfg, service, validator, sessions)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sqlStore, ok := store.(*session.SQLStore); ok {
		go purgeSessions(ctx, sqlStore, cfg.SessionTTL)
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpHandler.RegisterRoutes(r)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithFields(logrus.Fields{
		"host":          serverHost,
		"api_base":      cfg.APIBase(),
		"session_store": cfg.SessionStore,
	}).Info("服务器启动")

	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("服务器关闭失败")
		}
	}()

	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("服务器启动失败")
	}
}

// purgeSessions 定期清理数据库中过期的会话
func purgeSessions(ctx context.Context, store *session.SQLStore, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Purge(ctx, now)
			if err != nil {
				logrus.WithError(err).Warn("failed to purge sessions")
				continue
			}
			if n > 0 {
				logrus.WithField("count", n).Info("expired sessions purged")
			}
		}
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
