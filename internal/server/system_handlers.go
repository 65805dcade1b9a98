// Package server provides the HTTP server and routing for Bulwark.
package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/bulwark/internal/database"
)

// SystemHandlers handles system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	db          *database.DB
	startupTime time.Time
	cpuWarnPct  float64
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, db *database.DB, cpuWarnPct float64) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		db:          db,
		startupTime: time.Now(),
		cpuWarnPct:  cpuWarnPct,
	}
}

// SystemHealthResponse represents the system health response
type SystemHealthResponse struct {
	Status      string `json:"status"` // "healthy" or "unhealthy"
	Database    string `json:"database"`
	LastChecked string `json:"last_checked"`
}

// SystemStatsResponse represents runtime statistics of the service
type SystemStatsResponse struct {
	Status        string       `json:"status"` // "ok" or "degraded"
	UptimeSeconds float64      `json:"uptime_seconds"`
	CPUPercent    float64      `json:"cpu_percent"`
	RAMPercent    float64      `json:"ram_percent"`
	Goroutines    int          `json:"goroutines"`
	Database      *DBStatsInfo `json:"database,omitempty"`
}

// DBStatsInfo represents size statistics of the run store
type DBStatsInfo struct {
	Name          string  `json:"name"`
	SizeMB        float64 `json:"size_mb"`
	WALSizeMB     float64 `json:"wal_size_mb"`
	PageCount     int64   `json:"page_count"`
	FreelistCount int64   `json:"freelist_count"`
}

// HandleSystemHealth verifies the run store is reachable and intact
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Checking system health")

	response := SystemHealthResponse{
		Status:      "healthy",
		Database:    "ok",
		LastChecked: time.Now().Format(time.RFC3339),
	}

	status := http.StatusOK
	if err := h.db.QuickCheck(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Database health check failed")
		response.Status = "unhealthy"
		response.Database = err.Error()
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// HandleSystemStats returns CPU, memory, and run store statistics
func (h *SystemHandlers) HandleSystemStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system stats")

	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatsResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
	}
	if cpuPercent > h.cpuWarnPct {
		response.Status = "degraded"
	}

	if stats, err := h.db.GetStats(); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get database stats")
	} else {
		response.Database = &DBStatsInfo{
			Name:          h.db.Name(),
			SizeMB:        float64(stats.SizeBytes) / 1024 / 1024,
			WALSizeMB:     float64(stats.WALSizeBytes) / 1024 / 1024,
			PageCount:     stats.PageCount,
			FreelistCount: stats.FreelistCount,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a 100ms sampling interval so the endpoint stays responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
