package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/model"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/provider"
	"github.com/Egoriy286/yandex-cloud-instance-start/web"
)

// serviceName identifies the service in the status endpoint.
const serviceName = "yandex-cloud-instance-start"

// HTTPGinServer is the Gin based dashboard and API server.
type HTTPGinServer struct {
	config  *config.Config
	manager *ServiceManager
	engine  *gin.Engine
	server  *http.Server
}

// NewHTTPGinServer creates the dashboard server bound to a service manager.
func NewHTTPGinServer(cfg *config.Config, manager *ServiceManager) *HTTPGinServer {
	if cfg.Server.HTTP.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	s := &HTTPGinServer{
		config:  cfg,
		manager: manager,
		engine:  engine,
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// registerMiddlewares wires recovery, request id, logging and CORS.
func (s *HTTPGinServer) registerMiddlewares() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestIDMiddleware())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(s.corsMiddleware())
}

// requestIDMiddleware tags every request with an X-Request-ID.
func (s *HTTPGinServer) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware logs every request with its outcome and duration.
func (s *HTTPGinServer) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		logx.Info("HTTP request, method %s, path %s, status %d, duration %s, request_id %s",
			method, path, status, duration, c.GetString("request_id"))
	}
}

// corsMiddleware allows cross-origin access to the API.
func (s *HTTPGinServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// registerRoutes mounts the dashboard and API. When a URL secret is
// configured everything moves under /<secret>, the bare root serves a decoy
// page and robots.txt disallows crawling.
func (s *HTTPGinServer) registerRoutes() {
	root := s.engine.Group("/")

	if secret := s.manager.urlSecret(); secret != "" {
		s.engine.GET("/", s.handleDecoy)
		s.engine.GET("/robots.txt", s.handleRobots)
		s.engine.NoRoute(s.handleNotFound)
		root = s.engine.Group("/" + secret)
	}

	root.GET("/", s.handleDashboard)

	api := root.Group("/api")
	{
		api.GET("/instances", s.handleInstanceList)
		api.GET("/status", s.handleStatus)
		api.POST("/instances/:id/start", s.handleInstanceStart)
		api.POST("/instances/:id/stop", s.handleInstanceStop)
		api.POST("/auto-start", s.handleAutoStartRun)
		api.GET("/auto-start/history", s.handleAutoStartHistory)
	}
}

// Start runs the HTTP server, blocking until shutdown.
func (s *HTTPGinServer) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.config.Server.HTTP.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logx.Info("🛜 Starting HTTP Server (Gin), Addr %s", addr)
	return s.server.ListenAndServe()
}

// Stop shuts the HTTP server down gracefully.
func (s *HTTPGinServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// ==================== Dashboard ====================

func (s *HTTPGinServer) handleDashboard(c *gin.Context) {
	s.servePage(c, http.StatusOK, "index.html")
}

func (s *HTTPGinServer) handleDecoy(c *gin.Context) {
	s.servePage(c, http.StatusOK, "default.html")
}

func (s *HTTPGinServer) handleNotFound(c *gin.Context) {
	s.servePage(c, http.StatusNotFound, "404.html")
}

func (s *HTTPGinServer) handleRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}

func (s *HTTPGinServer) servePage(c *gin.Context, status int, name string) {
	data, err := web.Page(name)
	if err != nil {
		logx.Error("Failed to load embedded page %s: %v", name, err)
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	c.Data(status, "text/html; charset=utf-8", data)
}

// ==================== Instance API ====================

func (s *HTTPGinServer) handleInstanceList(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	pageToken := c.Query("page_token")

	list, err := s.manager.provider.ListInstances(c.Request.Context(), &provider.QueryOptions{
		PageSize:  pageSize,
		PageToken: pageToken,
	})
	if err != nil {
		// The dashboard must render on provider failure: degrade to an
		// empty listing with the error attached, never a 5xx.
		logx.Error("Failed to list instances: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"error":         err.Error(),
			"instances":     []*model.Instance{},
			"nextPageToken": nil,
		})
		return
	}

	instances := list.Instances
	if instances == nil {
		instances = []*model.Instance{}
	}

	var nextPageToken any
	if list.NextPageToken != "" {
		nextPageToken = list.NextPageToken
	}

	c.JSON(http.StatusOK, gin.H{
		"instances":     instances,
		"nextPageToken": nextPageToken,
	})
}

func (s *HTTPGinServer) handleStatus(c *gin.Context) {
	startedAt := s.manager.startedAt

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    serviceName,
		"version":    s.manager.version,
		"folder_id":  s.manager.cred.FolderID,
		"uptime":     formatUptime(time.Since(startedAt)),
		"started_at": startedAt.UTC().Format(time.RFC3339),
	})
}

func (s *HTTPGinServer) handleInstanceStart(c *gin.Context) {
	s.handleInstanceAction(c, "start", s.manager.provider.StartInstance)
}

func (s *HTTPGinServer) handleInstanceStop(c *gin.Context) {
	s.handleInstanceAction(c, "stop", s.manager.provider.StopInstance)
}

func (s *HTTPGinServer) handleInstanceAction(c *gin.Context, action string, fn func(context.Context, string) (string, error)) {
	instanceID := c.Param("id")

	operationID, err := fn(c.Request.Context(), instanceID)
	if err != nil {
		logx.Error("Failed to %s instance %s: %v", action, instanceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	logx.Info("Instance %s %s requested, operation %s", instanceID, action, operationID)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"operation_id": operationID,
		"instance_id":  instanceID,
		"message":      fmt.Sprintf("Instance %s %s requested", instanceID, action),
	})
}

// ==================== Auto-start API ====================

func (s *HTTPGinServer) handleAutoStartRun(c *gin.Context) {
	result := s.manager.controller.Run(c.Request.Context(), model.TriggerManual)
	c.JSON(http.StatusOK, result)
}

func (s *HTTPGinServer) handleAutoStartHistory(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page_num", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, pageInfo, err := s.manager.records.List(pageNum, pageSize)
	if err != nil {
		logx.Error("Failed to list auto-start history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records":   records,
		"page_info": pageInfo,
	})
}

// formatUptime renders a process age as "Nd Nh Nm".
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
