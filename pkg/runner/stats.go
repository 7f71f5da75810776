package runner

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// Stats tracks request statistics in real-time
type Stats struct {
	TotalRequests   int64
	SuccessCount    int64
	ErrorStatus     int64
	FailedCount     int64
	Logins          int64
	StartTime       time.Time
	LastRequestTime time.Time
	mu              sync.RWMutex
}

// NewStats creates a new stats tracker
func NewStats() *Stats {
	return &Stats{
		StartTime:       time.Now(),
		LastRequestTime: time.Now(),
	}
}

// IncrementTotal increments total request count
func (s *Stats) IncrementTotal() {
	atomic.AddInt64(&s.TotalRequests, 1)
	s.mu.Lock()
	s.LastRequestTime = time.Now()
	s.mu.Unlock()
}

// RecordStatus counts a response: below 400 is a success, anything else an
// error status.
func (s *Stats) RecordStatus(status int) {
	if status >= 400 {
		atomic.AddInt64(&s.ErrorStatus, 1)
		return
	}
	atomic.AddInt64(&s.SuccessCount, 1)
}

// IncrementFailed counts a request that got no response at all
func (s *Stats) IncrementFailed() {
	atomic.AddInt64(&s.FailedCount, 1)
}

// SetLogins records how many login handshakes the session ran
func (s *Stats) SetLogins(n int64) {
	atomic.StoreInt64(&s.Logins, n)
}

// GetRPS calculates requests per second
func (s *Stats) GetRPS() float64 {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&s.TotalRequests)) / elapsed
}

// GetElapsed returns elapsed time
func (s *Stats) GetElapsed() time.Duration {
	return time.Since(s.StartTime)
}

// GetTotal returns total requests
func (s *Stats) GetTotal() int64 {
	return atomic.LoadInt64(&s.TotalRequests)
}

// GetSuccessCount returns success count
func (s *Stats) GetSuccessCount() int64 {
	return atomic.LoadInt64(&s.SuccessCount)
}

// GetErrorStatusCount returns the number of 4xx/5xx responses
func (s *Stats) GetErrorStatusCount() int64 {
	return atomic.LoadInt64(&s.ErrorStatus)
}

// GetFailedCount returns failed count
func (s *Stats) GetFailedCount() int64 {
	return atomic.LoadInt64(&s.FailedCount)
}

// Print displays stats in a formatted table
func (s *Stats) Print() {
	pterm.DefaultSection.Println("Request Statistics")

	tableData := pterm.TableData{
		{"Metric", "Value"},
		{"Total Requests", fmt.Sprintf("%d", s.GetTotal())},
		{"Successful", fmt.Sprintf("%d", s.GetSuccessCount())},
		{"Error Status", pterm.LightRed(fmt.Sprintf("%d", s.GetErrorStatusCount()))},
		{"Failed", pterm.LightRed(fmt.Sprintf("%d", s.GetFailedCount()))},
		{"Logins", fmt.Sprintf("%d", atomic.LoadInt64(&s.Logins))},
		{"RPS", fmt.Sprintf("%.2f", s.GetRPS())},
		{"Elapsed", s.GetElapsed().Round(time.Millisecond).String()},
	}

	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// PrintSummary returns a compact one-line summary
func (s *Stats) PrintSummary() string {
	return fmt.Sprintf("Requests: %d | Errors: %d | Failed: %d | Logins: %d | Time: %s",
		s.GetTotal(), s.GetErrorStatusCount(), s.GetFailedCount(),
		atomic.LoadInt64(&s.Logins), s.GetElapsed().Round(time.Millisecond))
}
