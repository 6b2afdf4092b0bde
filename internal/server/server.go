package server

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/api/controller"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	engine *gin.Engine
}

func NewServer(gameController *controller.GameController) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), routeSpanName(), requestLogger())

	engine.GET("/healthz", gameController.Health)
	engine.POST("/game", gameController.CreateGame)
	engine.GET("/game/:id", gameController.GetGame)
	engine.POST("/move", gameController.MakeMove)

	return &Server{engine: engine}
}

// Engine returns the bare router.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the router wrapped in HTTP server instrumentation.
func (s *Server) Handler(opts ...otelhttp.Option) http.Handler {
	return otelhttp.NewHandler(s.engine, "game-server", opts...)
}

// routeSpanName renames the otelhttp server span after the matched route
// template, so every game id shares one span name.
func routeSpanName() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		span := trace.SpanFromContext(c.Request.Context())
		span.SetName(c.Request.Method + " " + route)
		span.SetAttributes(semconv.HTTPRoute(route))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.route", c.FullPath(),
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}
