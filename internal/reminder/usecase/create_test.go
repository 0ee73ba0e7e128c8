package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder"
	"reminder-assistant/pkg/datemath"
	pkgErrors "reminder-assistant/pkg/errors"
)

var (
	testNow   = time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	privateSc = model.Scope{UserID: 7, ChatID: 7, Timezone: "Europe/Moscow"}
	groupSc   = model.Scope{UserID: 7, ChatID: 7, GroupChatID: -100, Timezone: "Europe/Moscow"}
)

func TestCreate(t *testing.T) {
	t.Run("Explicit date and weekly param", func(t *testing.T) {
		repo := newMemRepo()
		llm := &mockLLM{}
		uc := newTestUseCase(repo, llm, nil, testNow)

		out, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: "встреча 20.11.2025 17:35, каждую неделю"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r := out.Reminder
		if want := time.Date(2025, 11, 20, 14, 35, 0, 0, time.UTC); !r.ScheduledAtUTC.Equal(want) {
			t.Errorf("ScheduledAtUTC = %v, want %v", r.ScheduledAtUTC, want)
		}
		if r.Text != "Встреча" || r.Recurrence != datemath.RecurrenceWeekly || r.Scope != model.ScopePrivate {
			t.Errorf("unexpected reminder: %+v", r)
		}
		if r.Timezone != "Europe/Moscow" || r.OwnerID != 7 {
			t.Errorf("unexpected owner/timezone: %+v", r)
		}
		if out.Normalized || llm.calls != 0 {
			t.Errorf("normalizer should not run for explicit params")
		}
		if len(repo.items) != 1 {
			t.Errorf("expected 1 stored reminder, got %d", len(repo.items))
		}
	})

	t.Run("Offset param sets RemindAt", func(t *testing.T) {
		uc := newTestUseCase(newMemRepo(), nil, nil, testNow)

		out, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: "созвон 10.01.2026 13:00, за 2 часа"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC); !out.Reminder.RemindAt.Equal(want) {
			t.Errorf("RemindAt = %v, want %v", out.Reminder.RemindAt, want)
		}
	})

	tests := []struct {
		name string
		text string
		code string
		kind pkgErrors.Kind
	}{
		{"Empty input", "   ", reminder.CodeEmptyInput, pkgErrors.KindValidation},
		{"No date", "купить хлеб", reminder.CodeNoDate, pkgErrors.KindValidation},
		{"Explicit past date", "встреча 20.10.2025 17:35", reminder.CodePastDate, pkgErrors.KindValidation},
		{"Offset longer than lead time", "созвон 01.11.2025 13:00, за 5 часов", reminder.CodePastDate, pkgErrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(newMemRepo(), nil, nil, testNow)
			_, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: tt.text})
			if pkgErrors.KindOf(err) != tt.kind || pkgErrors.CodeOf(err) != tt.code {
				t.Errorf("expected %s/%s, got %v", tt.kind, tt.code, err)
			}
		})
	}

	t.Run("Past recurring start rolls to the next occurrence", func(t *testing.T) {
		repo := newMemRepo()
		uc := newTestUseCase(repo, nil, nil, testNow)

		out, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: "планерка 27.10.2025 10:00, каждую неделю"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 10:00 Moscow is 07:00 UTC; Oct 27 + 7 days.
		if want := time.Date(2025, 11, 3, 7, 0, 0, 0, time.UTC); !out.Reminder.ScheduledAtUTC.Equal(want) {
			t.Errorf("ScheduledAtUTC = %v, want %v", out.Reminder.ScheduledAtUTC, want)
		}
		if !out.Reminder.RemindAt.After(testNow) {
			t.Errorf("RemindAt %v is not in the future", out.Reminder.RemindAt)
		}
	})

	t.Run("Store failure is unhandled", func(t *testing.T) {
		repo := newMemRepo()
		repo.failErr = errors.New("disk full")
		uc := newTestUseCase(repo, nil, nil, testNow)

		_, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: "встреча 20.11.2025 17:35"})
		if pkgErrors.KindOf(err) != pkgErrors.KindUnhandled {
			t.Errorf("expected unhandled, got %v", err)
		}
	})
}

func TestCreate_DuplicateGuard(t *testing.T) {
	at := time.Date(2025, 11, 20, 14, 35, 0, 0, time.UTC)

	tests := []struct {
		name     string
		existing model.Reminder
		wantDup  bool
	}{
		{
			name:     "Similar text within window",
			existing: model.Reminder{OwnerID: 7, Scope: model.ScopePrivate, ScheduledAtUTC: at.Add(30 * time.Minute), Text: "Позвонить маме вечером"},
			wantDup:  true,
		},
		{
			name:     "Window edge is inclusive",
			existing: model.Reminder{OwnerID: 7, Scope: model.ScopePrivate, ScheduledAtUTC: at.Add(-60 * time.Minute), Text: "позвонить  МАМЕ"},
			wantDup:  true,
		},
		{
			name:     "Outside window",
			existing: model.Reminder{OwnerID: 7, Scope: model.ScopePrivate, ScheduledAtUTC: at.Add(61 * time.Minute), Text: "Позвонить маме"},
		},
		{
			name:     "Different text",
			existing: model.Reminder{OwnerID: 7, Scope: model.ScopePrivate, ScheduledAtUTC: at, Text: "Купить хлеб"},
		},
		{
			name:     "Other owner",
			existing: model.Reminder{OwnerID: 8, Scope: model.ScopePrivate, ScheduledAtUTC: at, Text: "Позвонить маме"},
		},
		{
			name:     "Other scope",
			existing: model.Reminder{OwnerID: 7, Scope: model.ScopeGroup, GroupChatID: -100, ScheduledAtUTC: at, Text: "Позвонить маме"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			repo.Create(context.Background(), tt.existing)
			uc := newTestUseCase(repo, nil, nil, testNow)

			_, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: "позвонить маме 20.11.2025 17:35"})
			if tt.wantDup {
				if pkgErrors.KindOf(err) != pkgErrors.KindConflict || !errors.Is(err, reminder.ErrDuplicateReminder) {
					t.Fatalf("expected duplicate conflict, got %v", err)
				}
				if len(repo.items) != 1 {
					t.Errorf("duplicate must not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(repo.items) != 2 {
				t.Errorf("expected reminder to be stored")
			}
		})
	}
}

func TestCreate_Normalizer(t *testing.T) {
	text := "полив цветов 01.12.2025 10:00 каждый вторник"

	t.Run("Reply fields in any order", func(t *testing.T) {
		llm := &mockLLM{reply: "W|полив цветов|02.12.2025 10:00|15"}
		uc := newTestUseCase(newMemRepo(), llm, nil, testNow)

		out, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: text})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Normalized || llm.calls != 1 {
			t.Fatalf("expected normalizer to run once")
		}
		prompt := llm.lastReq.Messages[1].Content
		if !strings.Contains(prompt, "01.12.2025 10:00") || !strings.Contains(prompt, "каждый вторник") {
			t.Errorf("unexpected prompt: %q", prompt)
		}
		if llm.lastReq.Model != "deepseek-chat" {
			t.Errorf("unexpected model: %s", llm.lastReq.Model)
		}

		r := out.Reminder
		if want := time.Date(2025, 12, 2, 7, 0, 0, 0, time.UTC); !r.ScheduledAtUTC.Equal(want) {
			t.Errorf("ScheduledAtUTC = %v, want %v", r.ScheduledAtUTC, want)
		}
		if r.Recurrence != datemath.RecurrenceWeekly || r.RemindOffsetMinutes != 15 || r.Text != "Полив цветов" {
			t.Errorf("unexpected reminder: %+v", r)
		}
	})

	t.Run("Unparseable reply fails closed", func(t *testing.T) {
		repo := newMemRepo()
		uc := newTestUseCase(repo, &mockLLM{reply: "Sure! I set it up weekly."}, nil, testNow)

		_, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: text})
		if pkgErrors.KindOf(err) != pkgErrors.KindResponse || !errors.Is(err, reminder.ErrNormalizerReply) {
			t.Fatalf("expected response error, got %v", err)
		}
		if len(repo.items) != 0 {
			t.Errorf("nothing must be stored on normalizer failure")
		}
	})

	t.Run("LLM failure surfaces as transport", func(t *testing.T) {
		uc := newTestUseCase(newMemRepo(), &mockLLM{err: errors.New("connection reset")}, nil, testNow)

		_, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: text})
		if pkgErrors.KindOf(err) != pkgErrors.KindTransport {
			t.Fatalf("expected transport error, got %v", err)
		}
	})

	t.Run("Classified LLM error kept", func(t *testing.T) {
		uc := newTestUseCase(newMemRepo(), &mockLLM{err: pkgErrors.NewResponse("llm_empty", "", errors.New("empty"))}, nil, testNow)

		_, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: text})
		if pkgErrors.KindOf(err) != pkgErrors.KindResponse {
			t.Fatalf("expected response error, got %v", err)
		}
	})
}

func TestCreate_GroupMirrorsToCalendar(t *testing.T) {
	cal := &mockCalendar{}
	repo := newMemRepo()
	uc := newTestUseCase(repo, nil, cal, testNow)

	out, err := uc.Create(context.Background(), groupSc, reminder.CreateInput{Text: "планёрка 20.11.2025 10:00, еженедельно"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Reminder.Scope != model.ScopeGroup || out.Reminder.GroupChatID != -100 {
		t.Errorf("expected group reminder, got %+v", out.Reminder)
	}
	if len(cal.created) != 1 || cal.created[0].Recurrence[0] != "RRULE:FREQ=WEEKLY" || cal.created[0].CalendarID != "group-cal" {
		t.Fatalf("unexpected calendar calls: %+v", cal.created)
	}
	if out.Reminder.CalendarEventID != "evt-1" {
		t.Errorf("event id not stored: %q", out.Reminder.CalendarEventID)
	}

	if _, err := uc.Create(context.Background(), privateSc, reminder.CreateInput{Text: "личное 21.11.2025 10:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cal.created) != 1 {
		t.Errorf("private reminders must not be mirrored")
	}

	cal.err = errors.New("quota")
	out, err = uc.Create(context.Background(), groupSc, reminder.CreateInput{Text: "ретро 22.11.2025 10:00"})
	if err != nil {
		t.Fatalf("calendar failure must not fail creation: %v", err)
	}
	if out.Reminder.CalendarEventID != "" {
		t.Errorf("expected empty event id on calendar failure")
	}
}
