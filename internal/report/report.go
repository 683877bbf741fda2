// Package report defines the run result document and its stdout rendering.
//
// The JSON shape here is consumed by scripts and scheduled jobs; field names
// and the success/error envelope are a compatibility contract and must not
// drift.
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Replacement actions. A dry run records what it would have converted.
const (
	ActionConverted    = "converted_webp_to_jpg"
	ActionWouldConvert = "would_convert_webp_to_jpg"
)

// Replacement describes one WebP screenshot handled during a run.
type Replacement struct {
	SceneID     string `json:"scene_id"`
	Title       string `json:"title"`
	OriginalURL string `json:"original_url"`
	Action      string `json:"action"`
}

// Stats aggregates counters and detail lists for one completed run.
// SuccessfullyReplaced always equals the number of replacements carrying
// ActionConverted; use the Record helpers to keep that so.
type Stats struct {
	TotalScenes          int           `json:"total_scenes"`
	WebPScreenshotsFound int           `json:"webp_screenshots_found"`
	SuccessfullyReplaced int           `json:"successfully_replaced"`
	Replacements         []Replacement `json:"replacements"`
	Errors               []string      `json:"errors"`
}

// NewStats returns stats for a listing of totalScenes scenes. Slices start
// empty rather than nil so the document always carries arrays.
func NewStats(totalScenes int) *Stats {
	return &Stats{
		TotalScenes:  totalScenes,
		Replacements: []Replacement{},
		Errors:       []string{},
	}
}

// RecordWebPFound counts a screenshot identified as WebP.
func (s *Stats) RecordWebPFound() {
	s.WebPScreenshotsFound++
}

// RecordConverted registers a completed conversion and upload.
func (s *Stats) RecordConverted(sceneID, title, originalURL string) {
	s.Replacements = append(s.Replacements, Replacement{
		SceneID:     sceneID,
		Title:       title,
		OriginalURL: originalURL,
		Action:      ActionConverted,
	})
	s.SuccessfullyReplaced++
}

// RecordWouldConvert registers a dry-run candidate without touching the
// replaced counter.
func (s *Stats) RecordWouldConvert(sceneID, title, originalURL string) {
	s.Replacements = append(s.Replacements, Replacement{
		SceneID:     sceneID,
		Title:       title,
		OriginalURL: originalURL,
		Action:      ActionWouldConvert,
	})
}

// RecordError appends a per-scene failure message.
func (s *Stats) RecordError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Result is the document written to stdout when the process exits.
type Result struct {
	Success bool   `json:"success"`
	Stats   *Stats `json:"stats,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Completed wraps stats from a run that made it through the scene listing,
// even when individual scenes failed.
func Completed(stats *Stats) Result {
	return Result{Success: true, Stats: stats}
}

// Failed reports a run that could not start.
func Failed(err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{Success: false, Error: msg}
}

// Write renders the result as indented JSON followed by a newline.
func (r Result) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
