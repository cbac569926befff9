package models

// Requests for briefing HTTP endpoints. Defined in domain for consistency and reuse.

type GenerateBriefingRequest struct {
	UserID       int64   `json:"user_id" validate:"required,gt=0"`
	UserName     string  `json:"user_name" default:"투자자"`
	PortfolioIDs []int64 `json:"portfolio_ids" validate:"required,min=1,dive,gt=0"`
	TimeSlot     string  `json:"time_slot" default:"morning" validate:"oneof=morning evening"`
}

type LatestBriefingRequest struct {
	UserID      int64 `query:"user_id" json:"user_id" validate:"required,gt=0"`
	PortfolioID int64 `query:"portfolio_id" json:"portfolio_id" validate:"required,gt=0"`
}
