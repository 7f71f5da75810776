package reporter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"websession/pkg/runner"
	"websession/pkg/utils"

	"github.com/pterm/pterm"
)

const maxExcerpt = 1000

// Reporter collects request results and writes them out
type Reporter struct {
	Entries   []*Entry
	Format    string
	BaseURL   string
	StartTime time.Time
}

// Entry is one request in the report
type Entry struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Method      string        `json:"method"`
	StatusCode  int           `json:"status_code,omitempty"`
	ContentLen  int           `json:"content_length"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Error       string        `json:"error,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	RequestTime time.Duration `json:"request_time"`
}

// Report is the complete run report
type Report struct {
	RunTime       time.Time `json:"run_time"`
	Duration      string    `json:"duration"`
	BaseURL       string    `json:"base_url,omitempty"`
	TotalRequests int       `json:"total_requests"`
	Failed        int       `json:"failed"`
	Logins        int64     `json:"logins"`
	Entries       []*Entry  `json:"entries"`
}

// NewReporter creates a new reporter
func NewReporter(format, baseURL string) *Reporter {
	return &Reporter{
		Format:    format,
		BaseURL:   baseURL,
		StartTime: time.Now(),
		Entries:   make([]*Entry, 0),
	}
}

// AddResult records a runner result
func (r *Reporter) AddResult(result *runner.Result) {
	entry := &Entry{
		ID:          result.Job.ID,
		Path:        result.Job.Path,
		Method:      result.Job.Method,
		StatusCode:  result.StatusCode,
		ContentLen:  result.ContentLen,
		Timestamp:   time.Now(),
		RequestTime: result.Duration,
	}
	if result.Error != nil {
		entry.Error = result.Error.Error()
	}

	entry.Excerpt = excerpt(result.Body)

	r.Entries = append(r.Entries, entry)
}

// excerpt cuts body to at most maxExcerpt bytes on a rune boundary
func excerpt(body string) string {
	if len(body) <= maxExcerpt {
		return body
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "...[truncated]"
}

// GenerateReport writes the report to filename
func (r *Reporter) GenerateReport(filename string, logins int64) error {
	failed := 0
	for _, e := range r.Entries {
		if e.Error != "" {
			failed++
		}
	}

	report := &Report{
		RunTime:       r.StartTime,
		Duration:      time.Since(r.StartTime).Round(time.Millisecond).String(),
		BaseURL:       r.BaseURL,
		TotalRequests: len(r.Entries),
		Failed:        failed,
		Logins:        logins,
		Entries:       r.Entries,
	}

	switch r.Format {
	case "markdown":
		return r.generateMarkdown(filename, report)
	default:
		return r.generateJSON(filename, report)
	}
}

func (r *Reporter) generateJSON(filename string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFile(filename, data)
}

func (r *Reporter) generateMarkdown(filename string, report *Report) error {
	var b strings.Builder
	b.WriteString("# Session Request Report\n\n")
	fmt.Fprintf(&b, "**Run Time:** %s\n", report.RunTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Duration:** %s\n", report.Duration)
	if report.BaseURL != "" {
		fmt.Fprintf(&b, "**Base URL:** %s\n", report.BaseURL)
	}
	fmt.Fprintf(&b, "**Requests:** %d (%d failed)\n", report.TotalRequests, report.Failed)
	fmt.Fprintf(&b, "**Logins:** %d\n\n", report.Logins)

	b.WriteString("## Requests\n\n")
	b.WriteString("| # | Method | Path | Status | Length | Time |\n")
	b.WriteString("|---|--------|------|--------|--------|------|\n")
	for i, e := range report.Entries {
		status := fmt.Sprintf("%d", e.StatusCode)
		if e.Error != "" {
			status = "error: " + e.Error
		}
		fmt.Fprintf(&b, "| %d | %s | `%s` | %s | %d | %s |\n",
			i+1, e.Method, e.Path, status, e.ContentLen, e.RequestTime.Round(time.Millisecond))
	}

	return utils.WriteFile(filename, []byte(b.String()))
}

// PrintSummary prints a summary table to the console
func (r *Reporter) PrintSummary() {
	pterm.DefaultSection.Println("Responses")

	if len(r.Entries) == 0 {
		pterm.Warning.Println("No requests were made")
		return
	}

	tableData := pterm.TableData{
		{"Path", "Method", "Status", "Length"},
	}

	for _, e := range r.Entries {
		status := fmt.Sprintf("%d", e.StatusCode)
		switch {
		case e.Error != "":
			status = pterm.Red("ERROR")
		case e.StatusCode >= 400:
			status = pterm.LightRed(status)
		case e.StatusCode >= 300:
			status = pterm.Yellow(status)
		default:
			status = pterm.Green(status)
		}

		tableData = append(tableData, []string{
			utils.TruncateString(e.Path, 50),
			e.Method,
			status,
			fmt.Sprintf("%d", e.ContentLen),
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
