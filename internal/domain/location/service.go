package location

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yanqian/seven-day-fit/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/seven-day-fit/pkg/errors"
	"github.com/yanqian/seven-day-fit/pkg/metrics"
	"github.com/yanqian/seven-day-fit/pkg/util"
)

const (
	cacheKeyPrefix     = "resolve-location:"
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	noCandidateMessage = "no candidates"
)

const defaultPrompt = "Task: Convert a text input into exactly 1 canonical place candidate with coordinates."

// Service resolves free text into a place.
type Service interface {
	Resolve(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Recent(ctx context.Context, limit int) ([]SearchRecord, error)
}

// ChatClient sends a structured chat completion to the language model.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg      Config
	client   ChatClient
	store    Store
	history  HistoryRepository
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the location domain.
func NewService(cfg Config, client ChatClient, store Store, history HistoryRepository, logger *slog.Logger) Service {
	if cfg.AcceptThreshold <= 0 {
		cfg.AcceptThreshold = 0.6
	}
	if cfg.DefaultConfidence <= 0 {
		cfg.DefaultConfidence = 0.7
	}
	if cfg.TrendingLimit <= 0 {
		cfg.TrendingLimit = 10
	}
	return &service{
		cfg:      cfg,
		client:   client,
		store:    store,
		history:  history,
		validate: validator.New(),
		logger:   logger.With("component", "location.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Resolve(ctx context.Context, req Request) (Response, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "input required", nil)
	}

	key := cacheKey(input)
	res, hit, err := s.store.GetResolution(ctx, key)
	if err != nil {
		s.logger.Warn("resolution cache lookup failed", "key", key, "error", err)
		hit = false
	}

	var usage *metrics.TokenUsage
	cached := hit && res.Candidate != nil
	if !cached {
		res, usage, err = s.askModel(ctx, input)
		if err != nil {
			return Response{}, apperrors.Wrap(apperrors.CodeLLM, "location resolution failed", err)
		}
		if err := s.store.SaveResolution(ctx, key, res, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("resolution cache write failed", "key", key, "error", err)
		}
	}

	if res.Candidate == nil {
		s.logger.Info("location unresolved", "input", input, "cached", cached)
		return Response{
			Accepted:   false,
			Advice:     res.Advice,
			Message:    noCandidateMessage,
			TokenUsage: usage,
		}, nil
	}

	candidate := *res.Candidate
	accepted := candidate.Confidence >= s.cfg.AcceptThreshold
	resp := Response{
		Location:      toResolvedLocation(res),
		Accepted:      accepted,
		Candidate:     &candidate,
		Advice:        res.Advice,
		LocationParts: res.Parts,
		Cached:        cached,
		TokenUsage:    usage,
	}
	s.logger.Info("location resolved", "input", input, "display_name", candidate.DisplayName, "confidence", candidate.Confidence, "accepted", accepted, "cached", cached)

	s.recordSearch(ctx, input, resp)
	return resp, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	items, err := s.store.TopQueries(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCache, "trending lookup failed", err)
	}
	if items == nil {
		items = []TrendingQuery{}
	}
	return items, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]SearchRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeHistory, "history lookup failed", err)
	}
	if records == nil {
		records = []SearchRecord{}
	}
	return records, nil
}

func (s *service) askModel(ctx context.Context, input string) (Resolution, *metrics.TokenUsage, error) {
	req := chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.systemPrompt()},
			{Role: "user", Content: input},
		},
		MaxCompletionTokens: s.cfg.MaxCompletionTokens,
		ResponseFormat:      candidateResponseFormat(),
	}
	if chatgpt.SupportsTemperature(s.cfg.Model) {
		temperature := s.cfg.Temperature
		req.Temperature = &temperature
	}

	completion, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Resolution{}, nil, err
	}
	usage := metrics.NewTokenUsage(completion.Usage.PromptTokens, completion.Usage.CompletionTokens, completion.Usage.TotalTokens)

	res := Resolution{CachedAt: s.now()}
	if len(completion.Choices) == 0 {
		s.logger.Warn("llm returned no choices", "input", input)
		return res, usage, nil
	}
	reply, err := parseReply(completion.Choices[0].Message.Content, s.validate)
	if err != nil {
		// An unusable reply is treated like "no candidate", not a failure.
		s.logger.Warn("llm candidate rejected", "input", input, "error", err)
		return res, usage, nil
	}

	res.Advice = trimmedOrNil(reply.Advice)
	if reply.Candidate == nil {
		return res, usage, nil
	}

	c := reply.Candidate
	confidence := s.cfg.DefaultConfidence
	if c.Confidence != nil {
		confidence = *c.Confidence
	}
	res.Candidate = &CandidateDisplay{
		DisplayName: displayName(c),
		Lat:         c.Lat,
		Lon:         c.Lon,
		Confidence:  confidence,
	}
	res.Parts = &LocationParts{
		Name:    sanitizePart(&c.Name),
		Admin1:  sanitizePart(c.Admin1),
		Country: sanitizePart(c.Country),
	}
	if c.PlaceType != nil {
		pt := PlaceType(*c.PlaceType)
		res.PlaceType = &pt
	}
	res.Rationale = trimmedOrNil(c.Rationale)
	return res, usage, nil
}

func (s *service) recordSearch(ctx context.Context, input string, resp Response) {
	c := resp.Candidate
	if err := s.store.IncrementQuery(ctx, strings.ToLower(c.DisplayName), c.DisplayName); err != nil {
		s.logger.Warn("trending increment failed", "display_name", c.DisplayName, "error", err)
	}
	record := SearchRecord{
		Input:       input,
		DisplayName: c.DisplayName,
		Lat:         c.Lat,
		Lon:         c.Lon,
		Confidence:  c.Confidence,
		Accepted:    resp.Accepted,
		Cached:      resp.Cached,
		CreatedAt:   s.now(),
	}
	if _, err := s.history.Insert(ctx, record); err != nil {
		s.logger.Warn("search history insert failed", "input", input, "error", err)
	}
}

func (s *service) systemPrompt() string {
	if prompt := strings.TrimSpace(s.cfg.Prompt); prompt != "" {
		return prompt
	}
	return defaultPrompt
}

func toResolvedLocation(res Resolution) *ResolvedLocation {
	c := res.Candidate
	loc := &ResolvedLocation{
		DisplayName: c.DisplayName,
		Lat:         c.Lat,
		Lon:         c.Lon,
		PlaceType:   res.PlaceType,
		Confidence:  c.Confidence,
		Explanation: res.Rationale,
	}
	if res.Parts != nil {
		loc.Admin1 = res.Parts.Admin1
		if res.Parts.Country != nil {
			loc.Country = *res.Parts.Country
		}
	}
	return loc
}

func cacheKey(input string) string {
	return cacheKeyPrefix + strings.ToLower(input)
}
