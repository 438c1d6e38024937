package planner

import (
	"github.com/yanqian/seven-day-fit/internal/domain/location"
	"github.com/yanqian/seven-day-fit/internal/domain/outfit"
)

// Request is the free-text place description to plan a week for.
type Request struct {
	Input string `json:"input"`
}

// Response is the resolved place plus one outfit per forecast day.
type Response struct {
	Location *location.ResolvedLocation `json:"location"`
	Accepted bool                       `json:"accepted"`
	Advice   *string                    `json:"advice,omitempty"`
	Days     []outfit.DayOutfit         `json:"days"`
}

// ClassifyRequest carries caller supplied days.
type ClassifyRequest struct {
	Days []outfit.DayWeather `json:"days"`
}

// ClassifyResponse mirrors ClassifyRequest with recommendations merged in.
type ClassifyResponse struct {
	Days []outfit.DayOutfit `json:"days"`
}
