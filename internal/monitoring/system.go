package monitoring

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats is one snapshot of the host and database the shop server
// runs on. Shown on the admin dashboard.
type SystemStats struct {
	Timestamp      time.Time `json:"timestamp"`
	CPUPercent     float64   `json:"cpu_percent"`
	MemoryPercent  float64   `json:"memory_percent"`
	MemoryUsed     string    `json:"memory_used"`
	MemoryTotal    string    `json:"memory_total"`
	DiskPercent    float64   `json:"disk_percent"`
	DiskUsed       string    `json:"disk_used"`
	DiskTotal      string    `json:"disk_total"`
	DatabaseStatus string    `json:"database_status"`
	DBConnections  int32     `json:"db_connections"`
	Uptime         string    `json:"uptime"`
}

type Monitor struct {
	db      *pgxpool.Pool
	started time.Time

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewMonitor(db *pgxpool.Pool) *Monitor {
	return &Monitor{
		db:      db,
		started: time.Now(),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Snapshot collects the current system stats.
func (m *Monitor) Snapshot(ctx context.Context) SystemStats {
	s := SystemStats{
		Timestamp:      time.Now(),
		DatabaseStatus: "up",
		Uptime:         time.Since(m.started).Round(time.Second).String(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = vm.UsedPercent
		s.MemoryUsed = formatBytes(vm.Used)
		s.MemoryTotal = formatBytes(vm.Total)
	}
	if du, err := disk.Usage("/"); err == nil {
		s.DiskPercent = du.UsedPercent
		s.DiskUsed = formatBytes(du.Used)
		s.DiskTotal = formatBytes(du.Total)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.db.Ping(pingCtx); err != nil {
		s.DatabaseStatus = "down"
	}
	s.DBConnections = m.db.Stat().TotalConns()

	return s
}

// ServeLive upgrades the connection to a websocket and streams a snapshot
// every 5 seconds until the client disconnects.
func (m *Monitor) ServeLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitor] websocket upgrade failed: %v", err)
		return
	}

	m.clientsMux.Lock()
	m.clients[conn] = true
	m.clientsMux.Unlock()

	defer func() {
		m.clientsMux.Lock()
		delete(m.clients, conn)
		m.clientsMux.Unlock()
		conn.Close()
	}()

	// Drain reads so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	if err := conn.WriteJSON(m.Snapshot(r.Context())); err != nil {
		return
	}
	for range ticker.C {
		if err := conn.WriteJSON(m.Snapshot(context.Background())); err != nil {
			return
		}
	}
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
