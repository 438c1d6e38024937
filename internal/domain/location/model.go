package location

import (
	"time"

	"github.com/yanqian/seven-day-fit/pkg/metrics"
)

// PlaceType is the granularity of a resolved place.
type PlaceType string

const (
	PlaceNeighborhood PlaceType = "neighborhood"
	PlaceCity         PlaceType = "city"
	PlaceRegion       PlaceType = "region"
	PlaceCountry      PlaceType = "country"
)

// Request carries the free-text place description.
type Request struct {
	Input string `json:"input"`
}

// CandidateDisplay is the compact candidate shape cached and returned to clients.
type CandidateDisplay struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Confidence  float64 `json:"confidence"`
}

// LocationParts holds the sanitized name components of a candidate.
type LocationParts struct {
	Name    *string `json:"name,omitempty"`
	Admin1  *string `json:"admin1,omitempty"`
	Country *string `json:"country,omitempty"`
}

// ResolvedLocation is the place selected for the forecast.
type ResolvedLocation struct {
	DisplayName string     `json:"displayName"`
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	Country     string     `json:"country"`
	Admin1      *string    `json:"admin1,omitempty"`
	PlaceType   *PlaceType `json:"placeType,omitempty"`
	Confidence  float64    `json:"confidence"`
	Explanation *string    `json:"explanation,omitempty"`
}

// Response is serialized back to API consumers.
type Response struct {
	Location      *ResolvedLocation   `json:"location,omitempty"`
	Accepted      bool                `json:"accepted"`
	Candidate     *CandidateDisplay   `json:"candidate"`
	Advice        *string             `json:"advice,omitempty"`
	LocationParts *LocationParts      `json:"locationParts,omitempty"`
	Message       string              `json:"message,omitempty"`
	Cached        bool                `json:"cached"`
	TokenUsage    *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Resolution is the cached outcome of one LLM lookup. A nil Candidate means
// the model could not place the input.
type Resolution struct {
	Candidate *CandidateDisplay `json:"candidate"`
	Advice    *string           `json:"advice,omitempty"`
	Parts     *LocationParts    `json:"parts,omitempty"`
	PlaceType *PlaceType        `json:"placeType,omitempty"`
	Rationale *string           `json:"rationale,omitempty"`
	CachedAt  time.Time         `json:"cachedAt"`
}

// TrendingQuery represents a frequently resolved place.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SearchRecord is one row of resolution history.
type SearchRecord struct {
	ID          int64     `json:"id"`
	Input       string    `json:"input"`
	DisplayName string    `json:"displayName"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Confidence  float64   `json:"confidence"`
	Accepted    bool      `json:"accepted"`
	Cached      bool      `json:"cached"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Config wires runtime dependencies for the location domain.
type Config struct {
	Model               string
	Temperature         float32
	MaxCompletionTokens int
	Prompt              string
	AcceptThreshold     float64
	DefaultConfidence   float64
	CacheTTL            time.Duration
	TrendingLimit       int
}
