package server

import (
	"net/http"

	"codeberg.org/mutker/machinesim/internal/machine"
	"codeberg.org/mutker/machinesim/internal/panel"
	"github.com/gin-gonic/gin"
)

// Nominal operating points the original control panel showed deltas
// against.
const (
	nominalVoltage = 240.0
	nominalSpeed   = 1500.0
)

// Dependencies groups objects the HTTP layer needs.
type Dependencies struct {
	Panel *panel.Panel
}

type statusResponse struct {
	State            string  `json:"state"`
	Severity         string  `json:"severity"`
	Running          bool    `json:"running"`
	Message          string  `json:"message"`
	Temperature      float64 `json:"temperature"`
	Voltage          float64 `json:"voltage"`
	Speed            float64 `json:"speed"`
	TemperatureDelta float64 `json:"temperature_delta"`
	VoltageDelta     float64 `json:"voltage_delta"`
	SpeedDelta       float64 `json:"speed_delta"`
	Tick             uint64  `json:"tick"`
}

// NewRouter configures all control API routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/status", func(c *gin.Context) {
		snap, tick := deps.Panel.Status()
		c.JSON(http.StatusOK, statusFromSnapshot(snap, tick))
	})

	r.GET("/api/history", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"entries": deps.Panel.History()})
	})

	ctl := r.Group("/api/machine")
	ctl.POST("/start", func(c *gin.Context) {
		deps.Panel.Start()
		c.JSON(http.StatusOK, gin.H{"requested": "start"})
	})
	ctl.POST("/stop", func(c *gin.Context) {
		deps.Panel.Stop()
		c.JSON(http.StatusOK, gin.H{"requested": "stop"})
	})
	ctl.POST("/reset", func(c *gin.Context) {
		deps.Panel.Reset()
		snap, tick := deps.Panel.Status()
		c.JSON(http.StatusOK, statusFromSnapshot(snap, tick))
	})

	return r
}

func statusFromSnapshot(snap machine.Snapshot, tick uint64) statusResponse {
	return statusResponse{
		State:            snap.State.String(),
		Severity:         severity(snap.State),
		Running:          snap.Running,
		Message:          snap.Message,
		Temperature:      snap.Temperature,
		Voltage:          snap.Voltage,
		Speed:            snap.Speed,
		TemperatureDelta: snap.Temperature - machine.AmbientTemperature,
		VoltageDelta:     snap.Voltage - nominalVoltage,
		SpeedDelta:       snap.Speed - nominalSpeed,
		Tick:             tick,
	}
}

// severity maps a state to the dashboard color tag.
func severity(s machine.State) string {
	switch s {
	case machine.StateActive:
		return "green"
	case machine.StateOverheating:
		return "red"
	case machine.StateRecovery:
		return "yellow"
	default:
		return "gray"
	}
}
