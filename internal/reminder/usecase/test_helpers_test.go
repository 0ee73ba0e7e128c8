package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder/repository"
	"reminder-assistant/pkg/datemath"
	"reminder-assistant/pkg/gcalendar"
	"reminder-assistant/pkg/llmprovider"
	pkgLog "reminder-assistant/pkg/log"
)

// memRepo is an in-memory reminder repository.
type memRepo struct {
	mu      sync.Mutex
	items   map[string]model.Reminder
	nextID  int
	failErr error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]model.Reminder)}
}

func (m *memRepo) Create(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return model.Reminder{}, m.failErr
	}
	if r.ID == "" {
		m.nextID++
		r.ID = fmt.Sprintf("r%d", m.nextID)
	}
	r.Recompute()
	m.items[r.ID] = r
	return r, nil
}

func (m *memRepo) Update(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[r.ID]; !ok {
		return model.Reminder{}, repository.ErrNotFound
	}
	r.Recompute()
	m.items[r.ID] = r
	return r, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return model.Reminder{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) DeleteMany(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.items, id)
	}
	return nil
}

func (m *memRepo) filter(keep func(model.Reminder) bool) []model.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reminder
	for _, r := range m.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAtUTC.Before(out[j].ScheduledAtUTC) })
	return out
}

func (m *memRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Reminder, error) {
	return m.filter(func(r model.Reminder) bool { return r.OwnerID == ownerID }), nil
}

func (m *memRepo) ListInRange(ctx context.Context, opt repository.ListInRangeOptions) ([]model.Reminder, error) {
	return m.filter(func(r model.Reminder) bool {
		return r.OwnerID == opt.OwnerID && r.Scope == opt.Scope &&
			(opt.Scope != model.ScopeGroup || r.GroupChatID == opt.GroupChatID) &&
			!r.ScheduledAtUTC.Before(opt.From) && !r.ScheduledAtUTC.After(opt.To)
	}), nil
}

func (m *memRepo) ListDue(ctx context.Context, opt repository.ListDueOptions) ([]model.Reminder, error) {
	return m.filter(func(r model.Reminder) bool {
		return !r.IsBirthday && r.RemindAt.After(opt.From) && !r.RemindAt.After(opt.To)
	}), nil
}

func (m *memRepo) ListBirthdays(ctx context.Context, opt repository.ListBirthdaysOptions) ([]model.Reminder, error) {
	return m.filter(func(r model.Reminder) bool {
		return r.IsBirthday && r.ScheduledAtUTC.Month() == opt.Month && r.ScheduledAtUTC.Day() == opt.Day &&
			r.ScheduledAtUTC.Before(opt.Before)
	}), nil
}

// mockLLM returns a canned reply and records the last request.
type mockLLM struct {
	reply   string
	err     error
	calls   int
	lastReq *llmprovider.Request
}

func (m *mockLLM) Chat(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{Content: m.reply}, nil
}

type mockCalendar struct {
	created []gcalendar.CreateEventRequest
	deleted []string
	err     error
}

func (m *mockCalendar) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	return &gcalendar.Event{ID: "evt-1"}, nil
}

func (m *mockCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	m.deleted = append(m.deleted, eventID)
	return m.err
}

func newTestUseCase(repo *memRepo, llm LLM, cal Calendar, now time.Time) *implUseCase {
	uc := New(pkgLog.NewNop(), repo, datemath.NewExtractor(), llm, cal, nil, Config{
		NormalizerModel: "deepseek-chat",
		DefaultTimezone: "Europe/Moscow",
		CalendarID:      "group-cal",
	})
	uc.now = func() time.Time { return now }
	return uc
}
