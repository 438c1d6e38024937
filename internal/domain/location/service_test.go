package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/seven-day-fit/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/seven-day-fit/pkg/errors"
)

type stubChat struct {
	reply    string
	choices  bool
	err      error
	calls    int
	requests []chatgpt.ChatCompletionRequest
}

func (s *stubChat) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	resp := chatgpt.ChatCompletionResponse{Usage: chatgpt.Usage{PromptTokens: 12, CompletionTokens: 8}}
	if s.choices {
		resp.Choices = []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: s.reply}}}
	}
	return resp, nil
}

type stubStore struct {
	entries   map[string]Resolution
	getErr    error
	saveErr   error
	incErr    error
	increment []string
	top       []TrendingQuery
}

func newStubStore() *stubStore {
	return &stubStore{entries: map[string]Resolution{}}
}

func (s *stubStore) GetResolution(_ context.Context, key string) (Resolution, bool, error) {
	if s.getErr != nil {
		return Resolution{}, false, s.getErr
	}
	res, ok := s.entries[key]
	return res, ok, nil
}

func (s *stubStore) SaveResolution(_ context.Context, key string, res Resolution, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries[key] = res
	return nil
}

func (s *stubStore) IncrementQuery(_ context.Context, canonical, _ string) error {
	if s.incErr != nil {
		return s.incErr
	}
	s.increment = append(s.increment, canonical)
	return nil
}

func (s *stubStore) TopQueries(_ context.Context, limit int) ([]TrendingQuery, error) {
	if len(s.top) > limit {
		return s.top[:limit], nil
	}
	return s.top, nil
}

type stubHistory struct {
	records []SearchRecord
	err     error
	limit   int
}

func (h *stubHistory) Insert(_ context.Context, record SearchRecord) (SearchRecord, error) {
	if h.err != nil {
		return SearchRecord{}, h.err
	}
	record.ID = int64(len(h.records) + 1)
	h.records = append(h.records, record)
	return record, nil
}

func (h *stubHistory) Recent(_ context.Context, limit int) ([]SearchRecord, error) {
	h.limit = limit
	if h.err != nil {
		return nil, h.err
	}
	return h.records, nil
}

const tokyoReply = `{"candidate":{"lat":35.6762,"lon":139.6503,"name":"Tokyo","admin1":"Tokyo","country":"Japan","placeType":"city","confidence":0.92,"rationale":"Capital of Japan"},"advice":null}`

func newTestService(chat ChatClient, store Store, history HistoryRepository) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{Model: "gpt-4o-mini", Temperature: 0.2, CacheTTL: time.Hour}, chat, store, history, logger)
}

func TestResolveRequiresInput(t *testing.T) {
	svc := newTestService(&stubChat{}, newStubStore(), &stubHistory{})
	_, err := svc.Resolve(context.Background(), Request{Input: "   "})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestResolveAcceptedCandidate(t *testing.T) {
	chat := &stubChat{reply: tokyoReply, choices: true}
	store := newStubStore()
	history := &stubHistory{}
	svc := newTestService(chat, store, history)

	resp, err := svc.Resolve(context.Background(), Request{Input: " Tokyo "})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.False(t, resp.Cached)
	require.Equal(t, "Tokyo, Tokyo, Japan", resp.Candidate.DisplayName)
	require.NotNil(t, resp.Location)
	require.Equal(t, "Japan", resp.Location.Country)
	require.Equal(t, "Tokyo", *resp.Location.Admin1)
	require.Equal(t, PlaceCity, *resp.Location.PlaceType)
	require.Equal(t, "Capital of Japan", *resp.Location.Explanation)
	require.InDelta(t, 0.92, resp.Location.Confidence, 1e-9)
	require.NotNil(t, resp.TokenUsage)
	require.Equal(t, 20, resp.TokenUsage.TotalTokens)

	require.Contains(t, store.entries, "resolve-location:tokyo")
	require.Equal(t, []string{"tokyo, tokyo, japan"}, store.increment)
	require.Len(t, history.records, 1)
	require.Equal(t, "Tokyo", history.records[0].Input)

	req := chat.requests[0]
	require.Len(t, req.Messages, 2)
	require.Equal(t, "system", req.Messages[0].Role)
	require.Equal(t, defaultPrompt, req.Messages[0].Content)
	require.Equal(t, "Tokyo", req.Messages[1].Content)
	require.NotNil(t, req.Temperature)
	require.NotNil(t, req.ResponseFormat)
}

func TestResolveLowConfidenceIsNotAccepted(t *testing.T) {
	reply := `{"candidate":{"lat":51.5,"lon":-0.12,"name":"London","admin1":null,"country":"UK","placeType":"city","confidence":0.4,"rationale":null},"advice":"Did you mean London, Ontario?"}`
	svc := newTestService(&stubChat{reply: reply, choices: true}, newStubStore(), &stubHistory{})

	resp, err := svc.Resolve(context.Background(), Request{Input: "london"})
	require.NoError(t, err)
	require.False(t, resp.Accepted)
	require.NotNil(t, resp.Candidate)
	require.Equal(t, "Did you mean London, Ontario?", *resp.Advice)
}

func TestResolveDefaultsConfidence(t *testing.T) {
	reply := `{"candidate":{"lat":48.85,"lon":2.35,"name":"Paris","admin1":null,"country":"France","placeType":null,"confidence":null,"rationale":null},"advice":null}`
	svc := newTestService(&stubChat{reply: reply, choices: true}, newStubStore(), &stubHistory{})

	resp, err := svc.Resolve(context.Background(), Request{Input: "paris"})
	require.NoError(t, err)
	require.InDelta(t, 0.7, resp.Candidate.Confidence, 1e-9)
	require.True(t, resp.Accepted)
	require.Nil(t, resp.Location.PlaceType)
}

func TestResolveUsesCache(t *testing.T) {
	chat := &stubChat{reply: tokyoReply, choices: true}
	store := newStubStore()
	svc := newTestService(chat, store, &stubHistory{})

	_, err := svc.Resolve(context.Background(), Request{Input: "Tokyo"})
	require.NoError(t, err)
	resp, err := svc.Resolve(context.Background(), Request{Input: "TOKYO"})
	require.NoError(t, err)
	require.True(t, resp.Cached)
	require.Nil(t, resp.TokenUsage)
	require.Equal(t, 1, chat.calls)
}

func TestResolveIgnoresCachedMiss(t *testing.T) {
	chat := &stubChat{reply: tokyoReply, choices: true}
	store := newStubStore()
	store.entries["resolve-location:tokyo"] = Resolution{}
	svc := newTestService(chat, store, &stubHistory{})

	resp, err := svc.Resolve(context.Background(), Request{Input: "tokyo"})
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.Equal(t, 1, chat.calls)
}

func TestResolveNoCandidate(t *testing.T) {
	cases := map[string]*stubChat{
		"null candidate": {reply: `{"candidate":null,"advice":"  Try adding a country. "}`, choices: true},
		"no choices":     {},
		"garbage":        {reply: "not json", choices: true},
	}
	for name, chat := range cases {
		t.Run(name, func(t *testing.T) {
			history := &stubHistory{}
			svc := newTestService(chat, newStubStore(), history)
			resp, err := svc.Resolve(context.Background(), Request{Input: "the blue city"})
			require.NoError(t, err)
			require.False(t, resp.Accepted)
			require.Nil(t, resp.Candidate)
			require.Nil(t, resp.Location)
			require.Equal(t, noCandidateMessage, resp.Message)
			require.Empty(t, history.records)
		})
	}

	svc := newTestService(cases["null candidate"], newStubStore(), &stubHistory{})
	resp, err := svc.Resolve(context.Background(), Request{Input: "the blue city"})
	require.NoError(t, err)
	require.Equal(t, "Try adding a country.", *resp.Advice)
}

func TestResolveLLMFailure(t *testing.T) {
	svc := newTestService(&stubChat{err: errors.New("boom")}, newStubStore(), &stubHistory{})
	_, err := svc.Resolve(context.Background(), Request{Input: "tokyo"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLM))
}

func TestResolveToleratesStoreFailures(t *testing.T) {
	store := newStubStore()
	store.getErr = errors.New("down")
	store.saveErr = errors.New("down")
	store.incErr = errors.New("down")
	svc := newTestService(&stubChat{reply: tokyoReply, choices: true}, store, &stubHistory{err: errors.New("db down")})

	resp, err := svc.Resolve(context.Background(), Request{Input: "tokyo"})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
}

func TestResolveOmitsTemperatureForReasoningModels(t *testing.T) {
	chat := &stubChat{reply: tokyoReply, choices: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(Config{Model: "gpt-5-mini", Temperature: 0.3}, chat, newStubStore(), &stubHistory{}, logger)

	_, err := svc.Resolve(context.Background(), Request{Input: "tokyo"})
	require.NoError(t, err)
	require.Nil(t, chat.requests[0].Temperature)
}

func TestTrending(t *testing.T) {
	store := newStubStore()
	svc := newTestService(&stubChat{}, store, &stubHistory{})

	items, err := svc.Trending(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	store.top = []TrendingQuery{{Query: "Tokyo, Japan", Count: 3}}
	items, err = svc.Trending(context.Background())
	require.NoError(t, err)
	require.Equal(t, store.top, items)
}

func TestRecentClampsLimit(t *testing.T) {
	history := &stubHistory{}
	svc := newTestService(&stubChat{}, newStubStore(), history)

	records, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Equal(t, defaultRecentLimit, history.limit)

	_, err = svc.Recent(context.Background(), 1000)
	require.NoError(t, err)
	require.Equal(t, maxRecentLimit, history.limit)

	history.err = errors.New("db down")
	_, err = svc.Recent(context.Background(), 5)
	require.True(t, apperrors.IsCode(err, apperrors.CodeHistory))
}
