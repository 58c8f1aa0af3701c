package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/tphakala/fretboard-go/internal/logger"
)

const pingTimeout = 2 * time.Second

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status          string          `json:"status"`
	Version         string          `json:"version"`
	Uptime          string          `json:"uptime"`
	UptimeSeconds   float64         `json:"uptime_seconds"`
	Timestamp       string          `json:"timestamp"`
	Datastore       *DatastoreState `json:"datastore,omitempty"`
	Memory          *MemoryState    `json:"memory,omitempty"`
	ActiveExercises int             `json:"active_exercises"`
}

// DatastoreState reports database reachability
type DatastoreState struct {
	Driver string `json:"driver"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// MemoryState reports process and host memory
type MemoryState struct {
	ResidentMB        uint64  `json:"resident_mb"`
	VirtualMB         uint64  `json:"virtual_mb"`
	SystemUsedPercent float64 `json:"system_used_percent"`
}

// HealthCheck reports service status. A failing datastore degrades the status
// and answers 503.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	uptime := time.Since(c.startTime)
	resp := HealthResponse{
		Status:          "healthy",
		Version:         c.version,
		Uptime:          uptime.Round(time.Second).String(),
		UptimeSeconds:   uptime.Seconds(),
		Timestamp:       time.Now().Format(time.RFC3339),
		ActiveExercises: c.exercises.ItemCount(),
	}

	if c.DS != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request().Context(), pingTimeout)
		defer cancel()

		state := &DatastoreState{Driver: c.DS.Driver(), Status: "ok"}
		if err := c.DS.Ping(pingCtx); err != nil {
			state.Status = "error"
			state.Error = err.Error()
			resp.Status = "degraded"
		}
		resp.Datastore = state
	}

	memory, err := captureMemory()
	if err != nil {
		c.logger.Debug("memory statistics unavailable", logger.Error(err))
	} else {
		resp.Memory = memory
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return ctx.JSON(code, resp)
}

// captureMemory gathers memory usage of this process and the host
func captureMemory() (*MemoryState, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return nil, err
	}

	state := &MemoryState{
		ResidentMB: info.RSS / 1024 / 1024,
		VirtualMB:  info.VMS / 1024 / 1024,
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		state.SystemUsedPercent = vm.UsedPercent
	}
	return state, nil
}
