package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"
)

// Service holds runtime context for monitoring and reporting.
type Service struct {
	startedAt time.Time
	db        *sql.DB
}

type Snapshot struct {
	TimestampUTC       string `json:"timestamp_utc"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
	HTTPActiveRequests int64  `json:"http_active_requests"`
	HTTPTotalRequests  uint64 `json:"http_total_requests"`
	HTTPClientErrors   uint64 `json:"http_client_errors"`
	HTTPServerErrors   uint64 `json:"http_server_errors"`
	DBOpenConnections  int    `json:"db_open_connections"`
	DBInUseConnections int    `json:"db_in_use_connections"`
	DBWaitCount        int64  `json:"db_wait_count"`
	Goroutines         int    `json:"goroutines"`
	GoMemoryAllocBytes uint64 `json:"go_memory_alloc_bytes"`
	GoMemorySysBytes   uint64 `json:"go_memory_sys_bytes"`
	GoHeapInUseBytes   uint64 `json:"go_heap_in_use_bytes"`
	GoGCCount          uint32 `json:"go_gc_count"`
	UsersTotal         int64  `json:"users_total"`
	GroupsTotal        int64  `json:"groups_total"`
	PostsTotal         int64  `json:"posts_total"`
	PostsLast24h       int64  `json:"posts_last_24h"`

	// Errors names the counters that could not be read.
	Errors []string `json:"errors,omitempty"`
}

// contentCounts holds the table totals shown by ContentText and Snapshot.
type contentCounts struct {
	users, groups, posts, recent int64
	failed                       map[string]bool
	errors                       []string
}

func (s *Service) countContent(ctx context.Context) contentCounts {
	counts := contentCounts{failed: map[string]bool{}}
	for _, q := range []struct {
		name  string
		query string
		dest  *int64
	}{
		{"users", `SELECT COUNT(*) FROM users`, &counts.users},
		{"groups", `SELECT COUNT(*) FROM post_groups`, &counts.groups},
		{"posts", `SELECT COUNT(*) FROM posts`, &counts.posts},
		{"posts_last_24h", `SELECT COUNT(*) FROM posts WHERE pub_date >= NOW() - INTERVAL '24 hours'`, &counts.recent},
	} {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			log.Printf("Error counting %s: %v", q.name, err)
			counts.failed[q.name] = true
			counts.errors = append(counts.errors, fmt.Sprintf("%s: %v", q.name, err))
		}
	}
	return counts
}

func (c contentCounts) line(label, name string, value int64) string {
	if c.failed[name] {
		return label + ": unavailable"
	}
	return fmt.Sprintf("%s: %d", label, value)
}

func NewService(startedAt time.Time, db *sql.DB) *Service {
	return &Service{startedAt: startedAt, db: db}
}

func (s *Service) StatusText(ctx context.Context) string {
	dbState := "ok"
	if err := s.db.PingContext(ctx); err != nil {
		dbState = "error: " + err.Error()
	}

	uptime := time.Since(s.startedAt).Round(time.Second)
	traffic := requests.stats()
	generic := s.db.Stats()

	return strings.Join([]string{
		"Yatube Server Status",
		fmt.Sprintf("Uptime: %s", uptime),
		fmt.Sprintf("DB: %s", dbState),
		fmt.Sprintf("HTTP active requests: %d", traffic.Active),
		fmt.Sprintf("HTTP total requests: %d", traffic.Total),
		fmt.Sprintf("HTTP 4xx/5xx responses: %d/%d", traffic.ClientErrors, traffic.ServerErrors),
		fmt.Sprintf("DB open connections: %d", generic.OpenConnections),
		fmt.Sprintf("Go goroutines: %d", runtime.NumGoroutine()),
	}, "\n")
}

func (s *Service) ContentText(ctx context.Context) string {
	counts := s.countContent(ctx)

	return strings.Join([]string{
		"Yatube Content",
		counts.line("Users total", "users", counts.users),
		counts.line("Groups total", "groups", counts.groups),
		counts.line("Posts total", "posts", counts.posts),
		counts.line("Posts in 24h", "posts_last_24h", counts.recent),
	}, "\n")
}

func (s *Service) RuntimeText() string {
	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	return strings.Join([]string{
		"Yatube Runtime",
		fmt.Sprintf("Go version: %s", runtime.Version()),
		fmt.Sprintf("CPU cores: %d", runtime.NumCPU()),
		fmt.Sprintf("Goroutines: %d", runtime.NumGoroutine()),
		fmt.Sprintf("Memory alloc: %s", formatBytes(int64(memory.Alloc))),
		fmt.Sprintf("Memory sys: %s", formatBytes(int64(memory.Sys))),
		fmt.Sprintf("Heap in use: %s", formatBytes(int64(memory.HeapInuse))),
		fmt.Sprintf("GC cycles: %d", memory.NumGC),
	}, "\n")
}

// AllText joins every report, separated by blank lines.
func (s *Service) AllText(ctx context.Context) string {
	return strings.Join([]string{
		s.StatusText(ctx),
		"",
		s.ContentText(ctx),
		"",
		s.RuntimeText(),
	}, "\n")
}

func (s *Service) Snapshot(ctx context.Context) Snapshot {
	stats := s.db.Stats()
	traffic := requests.stats()
	counts := s.countContent(ctx)

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	snap := Snapshot{
		TimestampUTC:       time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:      int64(time.Since(s.startedAt).Seconds()),
		HTTPActiveRequests: traffic.Active,
		HTTPTotalRequests:  traffic.Total,
		HTTPClientErrors:   traffic.ClientErrors,
		HTTPServerErrors:   traffic.ServerErrors,
		DBOpenConnections:  stats.OpenConnections,
		DBInUseConnections: stats.InUse,
		DBWaitCount:        stats.WaitCount,
		Goroutines:         runtime.NumGoroutine(),
		GoMemoryAllocBytes: memory.Alloc,
		GoMemorySysBytes:   memory.Sys,
		GoHeapInUseBytes:   memory.HeapInuse,
		GoGCCount:          memory.NumGC,
		UsersTotal:         counts.users,
		GroupsTotal:        counts.groups,
		PostsTotal:         counts.posts,
		PostsLast24h:       counts.recent,
		Errors:             counts.errors,
	}
	return snap
}

func formatBytes(value int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(value)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	if unit == 0 {
		return fmt.Sprintf("%d %s", value, units[unit])
	}
	return fmt.Sprintf("%.2f %s", size, units[unit])
}
