// Package report turns collected link records into artifacts a downstream
// page-existence checker can consume: a JSON report file and, optionally,
// per-document events on NATS JetStream. No link is fetched or validated
// here.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"git.home.luguber.info/inful/linkrouter/internal/rewrite"
)

// DocumentLinks is the per-document slice of a report.
type DocumentLinks struct {
	Path  string               `json:"path"`
	Route string               `json:"route"`
	Links []rewrite.LinkRecord `json:"links"`
}

// Report is the full link report for one build.
type Report struct {
	BuildID     string          `json:"build_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Base        string          `json:"base"`
	Documents   []DocumentLinks `json:"documents"`
}

// WriteJSON writes the report to path. Null `absolute` values are preserved
// so consumers can distinguish unresolvable links from resolvable ones.
func WriteJSON(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
