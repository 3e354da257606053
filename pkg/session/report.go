package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/crucible/pkg/config"
)

// ArtifactWriter persists a session summary to disk.
type ArtifactWriter struct {
	cfg config.ArtifactConfig
}

// NewArtifactWriter creates a writer for the configured formats.
func NewArtifactWriter(cfg config.ArtifactConfig) *ArtifactWriter {
	return &ArtifactWriter{cfg: cfg}
}

// WriteAll writes all configured artifact formats.
func (w *ArtifactWriter) WriteAll(summary *Summary) error {
	if !w.cfg.Enabled {
		return nil
	}
	if err := os.MkdirAll(w.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.cfg.JSON {
		if err := w.WriteSessionJSON(summary); err != nil {
			return err
		}
	}
	if w.cfg.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return err
		}
	}
	return nil
}

// WriteSessionJSON writes the full session summary as JSON.
func (w *ArtifactWriter) WriteSessionJSON(summary *Summary) error {
	path := filepath.Join(w.cfg.OutputDir, "session.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session summary: %w", err)
	}
	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write session JSON: %w", writeErr)
	}
	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary.
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *Summary) error {
	path := filepath.Join(w.cfg.OutputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Crucible Session Summary\n\n")
	md.WriteString(fmt.Sprintf("**Session:** %s\n\n", summary.SessionID))
	md.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", summary.Reason))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartedAt.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Finished:** %s\n\n", summary.FinishedAt.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Second)))

	md.WriteString("## Goals\n\n")
	if len(summary.Goals) == 0 {
		md.WriteString("No goals were configured.\n\n")
	} else {
		for _, g := range summary.Goals {
			status := "✅"
			if !g.Achieved {
				status = "❌"
			}
			md.WriteString(fmt.Sprintf("%s **%s**", status, g.Name))
			if g.Category != "" {
				md.WriteString(fmt.Sprintf(" (%s)", g.Category))
			}
			md.WriteString("\n")
		}
		md.WriteString("\n")
	}

	if len(summary.Discoveries) > 0 {
		md.WriteString("## Discoveries\n\n")
		for _, name := range summary.Discoveries {
			md.WriteString(fmt.Sprintf("- %s\n", name))
		}
		md.WriteString("\n")
	}

	md.WriteString("## Attempts\n\n")
	for _, a := range summary.Attempts {
		if a.Produced() {
			md.WriteString(fmt.Sprintf("%d. %s → %s\n", a.Seq+1, a.Pair, a.Result))
		} else {
			md.WriteString(fmt.Sprintf("%d. %s → no effect\n", a.Seq+1, a.Pair))
		}
	}
	md.WriteString("\n")

	md.WriteString("## Metrics\n\n")
	md.WriteString(fmt.Sprintf("- **Inventory Size:** %d\n", len(summary.Inventory)))
	md.WriteString(fmt.Sprintf("- **Attempts:** %d\n", len(summary.Attempts)))
	md.WriteString(fmt.Sprintf("- **Discoveries:** %d\n", len(summary.Discoveries)))
	md.WriteString(fmt.Sprintf("- **Reward:** %d\n", summary.Reward))

	if len(summary.Warnings) > 0 {
		md.WriteString("\n## Warnings\n\n")
		for _, warning := range summary.Warnings {
			md.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}
	return nil
}
