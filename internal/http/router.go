/* Copyright (c) 2025 Lucas Macedo <https://github.com/lucsmac>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucsmac/team-dashboard/internal/config"
	"github.com/lucsmac/team-dashboard/internal/services"
	"github.com/rs/zerolog"
)

type Handlers struct {
	cfg config.Config
	log zerolog.Logger
	svc *services.Service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc *services.Service) *Handlers {
	return &Handlers{cfg: cfg, log: log, svc: svc}
}

func NewRouter(cfg config.Config, log zerolog.Logger, svc *services.Service) *gin.Engine {
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Next()
		log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
	})

	h := NewHandlers(cfg, log, svc)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.Dashboard)

		api.GET("/devs", h.ListDevs)
		api.POST("/devs", h.CreateDev)
		api.GET("/devs/:id", h.GetDev)
		api.PUT("/devs/:id", h.UpdateDev)
		api.DELETE("/devs/:id", h.DeleteDev)

		api.GET("/demands", h.ListDemands)
		api.POST("/demands", h.CreateDemand)
		api.GET("/demands/:id", h.GetDemand)
		api.PUT("/demands/:id", h.UpdateDemand)
		api.DELETE("/demands/:id", h.DeleteDemand)

		api.GET("/deliveries", h.ListDeliveries)
		api.POST("/deliveries", h.CreateDelivery)
		api.GET("/deliveries/:id", h.GetDelivery)
		api.PUT("/deliveries/:id", h.UpdateDelivery)
		api.DELETE("/deliveries/:id", h.DeleteDelivery)

		api.GET("/highlights", h.ListHighlights)
		api.POST("/highlights", h.CreateHighlight)
		api.GET("/highlights/:id", h.GetHighlight)
		api.PUT("/highlights/:id", h.UpdateHighlight)
		api.DELETE("/highlights/:id", h.DeleteHighlight)

		api.GET("/timeline", h.ListTasks)
		api.POST("/timeline", h.CreateTask)
		api.GET("/timeline/:id", h.GetTask)
		api.PUT("/timeline/:id", h.UpdateTask)
		api.DELETE("/timeline/:id", h.DeleteTask)

		api.GET("/dev-allocations", h.ListAllocations)
		api.POST("/dev-allocations", h.UpsertAllocation)
		api.DELETE("/dev-allocations/:id", h.DeleteAllocation)
		api.GET("/dev-allocations/stats/current-week", h.CurrentWeekStats)

		api.GET("/config", h.ListConfig)
		api.GET("/config/:key", h.GetConfig)
		api.POST("/config/:key", h.SetConfig)
		api.DELETE("/config/:key", h.DeleteConfig)

		jira := api.Group("/jira/integrations")
		{
			jira.GET("", h.ListJiraIntegrations)
			jira.POST("", h.CreateJiraIntegration)
			jira.GET("/:id", h.GetJiraIntegration)
			jira.PUT("/:id", h.UpdateJiraIntegration)
			jira.DELETE("/:id", h.DeleteJiraIntegration)
			jira.GET("/:id/test", h.TestJiraIntegration)
			jira.GET("/:id/metrics", h.JiraMetrics)
		}
	}

	return r
}
