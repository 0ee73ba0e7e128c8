package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"reminder-assistant/internal/conversation/repository"
	"reminder-assistant/internal/model"
	"reminder-assistant/pkg/claim"
	"reminder-assistant/pkg/llmprovider"
	pkgLog "reminder-assistant/pkg/log"
)

type memRepo struct {
	mu         sync.Mutex
	turns      []model.Turn
	selections map[int64]model.ModelSelection
	turnErr    error
}

func newMemRepo() *memRepo {
	return &memRepo{selections: make(map[int64]model.ModelSelection)}
}

func (m *memRepo) CreateTurn(ctx context.Context, t model.Turn) (model.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.turnErr != nil {
		return model.Turn{}, m.turnErr
	}
	m.turns = append(m.turns, t)
	return t, nil
}

func (m *memRepo) ListAnsweredTurns(ctx context.Context, opt repository.ListTurnsOptions) ([]model.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Turn
	for _, t := range m.turns {
		if t.OwnerID == opt.OwnerID && t.Answered() && !t.CreatedAt.Before(opt.From) && t.CreatedAt.Before(opt.To) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) GetSelection(ctx context.Context, ownerID int64) (model.ModelSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.selections[ownerID]
	if !ok {
		return model.ModelSelection{}, repository.ErrSelectionNotFound
	}
	return s, nil
}

func (m *memRepo) SaveSelection(ctx context.Context, s model.ModelSelection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[s.OwnerID] = s
	return nil
}

func (m *memRepo) turnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// fakeTokenizer returns fixed counts per text, else def.
type fakeTokenizer struct {
	counts map[string]int
	def    int
}

func (f fakeTokenizer) Count(model, text string) int {
	if n, ok := f.counts[text]; ok {
		return n
	}
	return f.def
}

// mockLLM answers with reply. When block is set it waits for it or ctx.
type mockLLM struct {
	mu      sync.Mutex
	reply   string
	usage   *llmprovider.Usage
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
	lastReq *llmprovider.Request
}

func (m *mockLLM) Chat(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	block, started := m.block, m.started
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{Content: m.reply, ModelName: req.Model, Usage: m.usage}, nil
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockSink struct {
	mu       sync.Mutex
	typing   int
	replies  []string
	replyErr error
}

func (s *mockSink) SendTyping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typing++
	return nil
}

func (s *mockSink) SendReply(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replyErr != nil {
		return s.replyErr
	}
	s.replies = append(s.replies, text)
	return nil
}

func (s *mockSink) typingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// failingClaims always errors.
type failingClaims struct{}

func (failingClaims) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingClaims) Release(ctx context.Context, key string) error { return nil }

var testConfig = Config{
	Models: map[string]ModelSpec{
		"deepseek-chat": {Name: "deepseek-chat", MaxRequestTokens: 1000, ContextWindow: 200, TimeWindowMinutes: 60},
		"qwen-plus":     {Name: "qwen-plus", MaxRequestTokens: 2000, ContextWindow: 8000, TimeWindowMinutes: 30},
	},
	DefaultModel:      "deepseek-chat",
	Prompts:           map[string]string{"default": "assist"},
	DefaultPrompt:     "default",
	Timeout:           time.Second,
	HeartbeatInterval: 10 * time.Millisecond,
}

func newTestUseCase(repo *memRepo, claims claim.Store, llm *mockLLM, tok Tokenizer, now time.Time) *implUseCase {
	uc := New(pkgLog.NewNop(), repo, claims, llm, tok, nil, testConfig)
	uc.now = func() time.Time { return now }
	return uc
}
