package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Product CRUD
	products := s.echo.Group("/products")
	products.GET("", s.handleListProducts)
	products.POST("", s.handleCreateProduct)
	products.GET("/:id", s.handleGetProduct)
	products.PUT("/:id", s.handleUpdateProduct)
	products.DELETE("/:id", s.handleDeleteProduct)
}
