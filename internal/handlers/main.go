package handlers

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-records-server/internal/seclog"
	"hospital-records-server/internal/utils"
)

// MainHandler handles the public index and the dashboard.
type MainHandler struct {
	Store PatientStore
	Log   *seclog.Logger
}

// NewMainHandler creates a new MainHandler.
func NewMainHandler(store PatientStore, log *seclog.Logger) *MainHandler {
	return &MainHandler{Store: store, Log: log}
}

// DashboardStats summarizes the patient collection for the dashboard.
type DashboardStats struct {
	TotalPatients int64
	StrokeCases   int64
	StrokeRate    float64
}

// Index renders the home page.
func (h *MainHandler) Index(c *gin.Context) {
	utils.Render(c, http.StatusOK, "index.html", nil)
}

// Dashboard renders patient statistics and quick actions.
func (h *MainHandler) Dashboard(c *gin.Context) {
	utils.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"Stats": dashboardStats(c.Request.Context(), h.Store, h.Log),
	})
}

// dashboardStats gathers the counts; a store failure yields zeroed stats
// rather than a failed page.
func dashboardStats(ctx context.Context, store PatientStore, log *seclog.Logger) DashboardStats {
	total, err := store.Count(ctx)
	if err != nil {
		log.Error("failed to count patients for dashboard", err)
		return DashboardStats{}
	}
	strokeCases, err := store.CountStroke(ctx)
	if err != nil {
		log.Error("failed to count stroke cases for dashboard", err)
		return DashboardStats{TotalPatients: total}
	}

	stats := DashboardStats{TotalPatients: total, StrokeCases: strokeCases}
	if total > 0 {
		stats.StrokeRate = math.Round(float64(strokeCases)/float64(total)*100*100) / 100
	}
	return stats
}
