package handlers

import (
	"net/http"

	"spareparts-backend/internal/monitoring"
	"spareparts-backend/pkg/utils"
)

type MonitoringHandler struct {
	monitor *monitoring.Monitor
}

func NewMonitoringHandler(monitor *monitoring.Monitor) *MonitoringHandler {
	return &MonitoringHandler{monitor: monitor}
}

// SystemStats handles GET /api/admin/monitoring/system
func (h *MonitoringHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.monitor.Snapshot(r.Context()))
}

// Live handles GET /api/admin/monitoring/live as a websocket stream.
func (h *MonitoringHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.monitor.ServeLive(w, r)
}
