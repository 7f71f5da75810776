package reporter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"websession/pkg/runner"
)

func sampleResults() []*runner.Result {
	return []*runner.Result{
		{
			Job:        &runner.Job{ID: "job-1", Path: "/dashboard/", Method: "GET"},
			StatusCode: 200,
			ContentLen: 13,
			Body:       "welcome alice",
			Duration:   100 * time.Millisecond,
		},
		{
			Job:      &runner.Job{ID: "job-2", Path: "/reports/", Method: "GET"},
			Error:    errors.New("connection refused"),
			Duration: 5 * time.Millisecond,
		},
	}
}

func TestGenerateReportPermissions(t *testing.T) {
	tmpDir := t.TempDir()
	reportPath := filepath.Join(tmpDir, "report.json")

	r := NewReporter("json", "https://app.example.com")
	for _, res := range sampleResults() {
		r.AddResult(res)
	}

	if err := r.GenerateReport(reportPath, 1); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	info, err := os.Stat(reportPath)
	if err != nil {
		t.Fatalf("Failed to stat report file: %v", err)
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		t.Errorf("Expected file permissions 0600 (rw-------), got %04o", mode)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if report.TotalRequests != 2 || report.Failed != 1 || report.Logins != 1 {
		t.Errorf("Unexpected totals: %+v", report)
	}
	if report.Entries[1].Error != "connection refused" {
		t.Errorf("Expected error to be recorded, got %q", report.Entries[1].Error)
	}
}

func TestGenerateMarkdownReport(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.md")

	r := NewReporter("markdown", "")
	for _, res := range sampleResults() {
		r.AddResult(res)
	}

	if err := r.GenerateReport(reportPath, 0); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	content := string(data)
	for _, want := range []string{"# Session Request Report", "`/dashboard/` | 200", "error: connection refused"} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected markdown report to contain %q", want)
		}
	}
}

func TestAddResultTruncatesExcerpt(t *testing.T) {
	r := NewReporter("json", "")
	r.AddResult(&runner.Result{
		Job:  &runner.Job{ID: "big", Path: "/big", Method: "GET"},
		Body: strings.Repeat("x", 5000),
	})

	if got := len(r.Entries[0].Excerpt); got != maxExcerpt+len("...[truncated]") {
		t.Errorf("Expected truncated excerpt, got length %d", got)
	}
}

func TestAddResultExcerptKeepsRunesWhole(t *testing.T) {
	// 999 ASCII bytes then a 3-byte rune straddling the cut
	body := strings.Repeat("a", maxExcerpt-1) + "€" + "tail"

	r := NewReporter("json", "")
	r.AddResult(&runner.Result{
		Job:  &runner.Job{ID: "utf8", Path: "/utf8", Method: "GET"},
		Body: body,
	})

	got := r.Entries[0].Excerpt
	if !utf8.ValidString(got) {
		t.Fatalf("Excerpt is not valid UTF-8: %q", got[len(got)-20:])
	}
	want := strings.Repeat("a", maxExcerpt-1) + "...[truncated]"
	if got != want {
		t.Errorf("Expected excerpt to stop before the split rune, got suffix %q", got[len(got)-20:])
	}
}
