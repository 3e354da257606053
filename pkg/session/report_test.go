package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/crucible/pkg/config"
	"github.com/entrhq/crucible/pkg/engine"
)

func sampleSummary() *Summary {
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return &Summary{
		SessionID:  "test-session",
		Reason:     ReasonExhausted,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Duration:   90 * time.Second,
		Attempts: []engine.Attempt{
			{Pair: engine.NewPair("Water", "Fire"), Result: "Steam", Seq: 0},
			{Pair: engine.NewPair("Fire", "Steam"), Seq: 1},
		},
		Goals: []GoalStatus{
			{Name: "Steam", Category: "Elemental", Achieved: true},
			{Name: "Engine", Category: "Mechanical", Achieved: false},
		},
		Unreached:   []string{"Engine"},
		Discoveries: []string{"Steam"},
		Inventory:   []string{"Fire", "Steam", "Water"},
		Reward:      11,
		Warnings:    []string{"something odd happened"},
	}
}

func TestArtifactWriterWriteAll(t *testing.T) {
	dir := t.TempDir()
	writer := NewArtifactWriter(config.ArtifactConfig{
		Enabled:   true,
		OutputDir: dir,
		JSON:      true,
		Markdown:  true,
	})

	require.NoError(t, writer.WriteAll(sampleSummary()))

	// JSON round-trips back into a summary.
	data, err := os.ReadFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	var restored Summary
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, ReasonExhausted, restored.Reason)
	assert.Len(t, restored.Attempts, 2)
	assert.Equal(t, []string{"Engine"}, restored.Unreached)

	// Markdown carries the key facts.
	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	content := string(md)
	assert.Contains(t, content, "Fire + Water") // pair renders in canonical order
	assert.Contains(t, content, "no effect")
	assert.Contains(t, content, "Engine")
	assert.Contains(t, content, "**Reward:** 11")
	assert.Contains(t, content, "something odd happened")
}

func TestArtifactWriterDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	writer := NewArtifactWriter(config.ArtifactConfig{
		Enabled:   false,
		OutputDir: dir,
	})

	require.NoError(t, writer.WriteAll(sampleSummary()))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "disabled writer must not touch disk")
}

func TestArtifactWriterJSONOnly(t *testing.T) {
	dir := t.TempDir()
	writer := NewArtifactWriter(config.ArtifactConfig{
		Enabled:   true,
		OutputDir: dir,
		JSON:      true,
	})

	require.NoError(t, writer.WriteAll(sampleSummary()))

	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "summary.md"))
	assert.True(t, os.IsNotExist(err))
}
