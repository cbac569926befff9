package models

import (
	"encoding/json"
	"time"
)

// Time slots controlling tone and cadence of generated text.
const (
	SlotMorning = "morning"
	SlotEvening = "evening"
)

// VisualSummary is the structured half of a briefing. Unrecognized keys
// from the generation reply are ignored; missing keys stay empty.
type VisualSummary struct {
	Advice          []string `json:"advice"`
	Checklist       []string `json:"checklist"`
	StockRationales []string `json:"stock_rationales,omitempty"`
}

// BriefingResult is one pipeline run's output: the spoken-style script,
// the visual summary, and the portfolio metrics it was derived from.
type BriefingResult struct {
	PortfolioID   int64            `json:"portfolio_id"`
	VillageName   string           `json:"village_name,omitempty"`
	TimeSlot      string           `json:"time_slot"`
	VoiceScript   string           `json:"voice_script"`
	VisualSummary VisualSummary    `json:"visual_summary"`
	Metrics       PortfolioMetrics `json:"metrics"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

// BriefingSnapshot is the persisted, append-only record of one run.
// Latest for a (user, portfolio) pair is the max CreatedAt row.
type BriefingSnapshot struct {
	UserID      int64           `json:"user_id"`
	PortfolioID int64           `json:"portfolio_id"`
	TimeSlot    string          `json:"time_slot"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewBriefingSnapshot serializes a result into a snapshot row.
func NewBriefingSnapshot(userID int64, result *BriefingResult) (*BriefingSnapshot, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &BriefingSnapshot{
		UserID:      userID,
		PortfolioID: result.PortfolioID,
		TimeSlot:    result.TimeSlot,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
