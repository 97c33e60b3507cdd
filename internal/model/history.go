package model

import (
	"fmt"
	"time"
)

// EntryType distinguishes the two history producers.
type EntryType string

const (
	EntryTypeCrop    EntryType = "crop"
	EntryTypeDisease EntryType = "disease"
)

// HistoryEntry is one immutable record of a past analysis. Entries are
// ordered newest-first and only a full-store clear removes them.
type HistoryEntry struct {
	ID      string         `json:"id"`
	Type    EntryType      `json:"type"`
	Summary map[string]any `json:"summary"`
	Date    time.Time      `json:"date"`
}

// RelativeAge renders the entry's age at display time. It is derived, never
// stored.
func (e HistoryEntry) RelativeAge(now time.Time) string {
	d := now.Sub(e.Date)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
