package logviewer

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// BuildVersion - will be filled at build process in pipeline
var BuildVersion string

const (
	healthStatusRunning  = "running"
	healthStatusDegraded = "degraded"
)

type healthCheck struct {
	Service      string       `json:"service"`
	Status       string       `json:"status"`
	BuildVersion string       `json:"buildVersion"`
	Storage      storageState `json:"storage"`
	MemStats     memStats     `json:"memStats"`
}

type storageState struct {
	Backend  string `json:"backend"`
	LogCount int    `json:"logCount"`
	Error    string `json:"error,omitempty"`
}

type memStats struct {
	Alloc              string `json:"alloc"`
	Sys                string `json:"sys"`
	HeapInUse          string `json:"heapInUse"`
	NumberOfGoRoutines int    `json:"numberOfGoRoutines"`
}

// Get health
// @Summary Service and storage state
// @Description Answers 503 when the log collection can not be read
// @Tags Health
// @Produce json
// @Success 200 {object} healthCheck
// @Failure 503 {object} healthCheck
// @Router /health [GET]
func (api *api) GetHealth(c *gin.Context) {
	health := healthCheck{
		Service:      api.config.ApplicationName,
		Status:       healthStatusRunning,
		BuildVersion: BuildVersion,
		Storage:      storageState{Backend: api.config.StorageBackend},
		MemStats:     readMemStats(),
	}

	status := http.StatusOK
	logs, err := api.logService.GetLogs(c, LogFilter{})
	if err != nil {
		health.Status = healthStatusDegraded
		health.Storage.Error = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		health.Storage.LogCount = len(logs)
	}

	c.JSON(status, health)
}

func readMemStats() memStats {
	var memStat runtime.MemStats
	runtime.ReadMemStats(&memStat)

	return memStats{
		Alloc:              toMiB(memStat.Alloc),
		Sys:                toMiB(memStat.Sys),
		HeapInUse:          toMiB(memStat.HeapInuse),
		NumberOfGoRoutines: runtime.NumGoroutine(),
	}
}

func toMiB(bytes uint64) string {
	return fmt.Sprintf("%v MiB", bytes/1024/1024)
}
