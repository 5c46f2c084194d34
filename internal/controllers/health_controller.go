package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"goodsync/internal/services"
)

const (
	healthStarting = "starting"
	healthOK       = "ok"
	healthFailing  = "failing"
)

type HealthController struct {
	service   services.SyncServiceInterface
	startTime time.Time
	now       func() time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Cycles         int     `json:"cycles"`
	Failures       int     `json:"failures"`
	LastCycleAt    string  `json:"last_cycle_at,omitempty"`
	SinceLastCycle string  `json:"since_last_cycle,omitempty"`
	LastError      string  `json:"last_error,omitempty"`
}

func NewHealthController(service services.SyncServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Health reports poll loop liveness. A failing last cycle answers 503 so a
// probe notices before the next successful poll clears it.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := hc.snapshot()
	code := http.StatusOK
	if resp.Status == healthFailing {
		code = http.StatusServiceUnavailable
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(gson)
}

func (hc *HealthController) snapshot() healthResponse {
	now := hc.now()
	stats := hc.service.Stats()
	uptime := now.Sub(hc.startTime)

	resp := healthResponse{
		Status:        healthOK,
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		Cycles:        stats.Cycles,
		Failures:      stats.Failures,
		LastError:     stats.LastError,
	}
	switch {
	case stats.LastError != "":
		resp.Status = healthFailing
	case stats.Cycles == 0:
		resp.Status = healthStarting
	}
	if !stats.LastCycleAt.IsZero() {
		resp.LastCycleAt = stats.LastCycleAt.UTC().Format(time.RFC3339)
		resp.SinceLastCycle = now.Sub(stats.LastCycleAt).Round(time.Second).String()
	}
	return resp
}
