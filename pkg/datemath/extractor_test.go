package datemath_test

import (
	"errors"
	"testing"
	"time"

	"reminder-assistant/pkg/datemath"
)

func TestExtract_ExplicitDateWithRecurrenceParam(t *testing.T) {
	ex := datemath.NewExtractor()
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

	got, err := ex.Extract("встреча 20.11.2025 17:35, каждую неделю", "Europe/Moscow", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msk, _ := time.LoadLocation("Europe/Moscow")
	wantUser := time.Date(2025, 11, 20, 17, 35, 0, 0, msk)
	wantServer := time.Date(2025, 11, 20, 14, 35, 0, 0, time.UTC)

	if !got.UserDate.Equal(wantUser) || got.UserDate.Location().String() != "Europe/Moscow" {
		t.Errorf("UserDate = %v, want %v", got.UserDate, wantUser)
	}
	if _, offset := got.UserDate.Zone(); offset != 3*3600 {
		t.Errorf("UserDate offset = %d, want +03:00", offset)
	}
	if got.ServerDate != wantServer {
		t.Errorf("ServerDate = %v, want %v", got.ServerDate, wantServer)
	}
	if got.Body != "Встреча" {
		t.Errorf("Body = %q, want %q", got.Body, "Встреча")
	}
	if got.Recurrence != datemath.RecurrenceWeekly || !got.RecurrenceExplicit {
		t.Errorf("Recurrence = %q explicit=%v, want W explicit", got.Recurrence, got.RecurrenceExplicit)
	}
	if got.MatchedText != "20.11.2025 17:35" {
		t.Errorf("MatchedText = %q", got.MatchedText)
	}
	if got.NeedsNormalization {
		t.Error("NeedsNormalization should be false when params were explicit")
	}
}

func TestExtract_Explicit(t *testing.T) {
	ex := datemath.NewExtractor()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		text        string
		wantServer  time.Time
		wantBody    string
		wantOffset  int
		wantRec     datemath.Recurrence
		wantBDay    bool
		wantNormFix bool
	}{
		{
			name:       "Missing year prefers future",
			text:       "оплатить интернет 10.03 18:00",
			wantServer: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
			wantBody:   "Оплатить интернет",
			wantRec:    datemath.RecurrenceNone,
		},
		{
			name:       "Missing year still ahead this year",
			text:       "dentist 20/07 at 08:30",
			wantServer: time.Date(2025, 7, 20, 8, 30, 0, 0, time.UTC),
			wantBody:   "Dentist",
			wantRec:    datemath.RecurrenceNone,
		},
		{
			name:       "Date without time uses default hour",
			text:       "сдать отчёт 01.07.2025",
			wantServer: time.Date(2025, 7, 1, datemath.DefaultHour, 0, 0, 0, time.UTC),
			wantBody:   "Сдать отчёт",
			wantRec:    datemath.RecurrenceNone,
		},
		{
			name:       "Time before date is borrowed",
			text:       "в 07:15 20.06 пробежка",
			wantServer: time.Date(2025, 6, 20, 7, 15, 0, 0, time.UTC),
			wantBody:   "Пробежка",
			wantRec:    datemath.RecurrenceNone,
		},
		{
			name:       "Offset and recurrence params in any order",
			text:       "созвон 01.07.2025 10:00; за 30 минут | ежедневно",
			wantServer: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
			wantBody:   "Созвон",
			wantOffset: 30,
			wantRec:    datemath.RecurrenceDaily,
		},
		{
			name:       "Offset in hours",
			text:       "flight 02/07/2025 06:00, 2 hours before",
			wantServer: time.Date(2025, 7, 2, 6, 0, 0, 0, time.UTC),
			wantBody:   "Flight",
			wantOffset: 120,
			wantRec:    datemath.RecurrenceNone,
		},
		{
			name:       "Birthday zeroes time and recurs yearly",
			text:       "день рождения Ани 05.09 12:00",
			wantServer: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
			wantBody:   "День рождения Ани",
			wantRec:    datemath.RecurrenceYearly,
			wantBDay:   true,
		},
		{
			name:        "Prose recurrence flags normalization",
			text:        "полив цветов 01.07.2025 10:00 каждый вторник",
			wantServer:  time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
			wantBody:    "Полив цветов каждый вторник",
			wantRec:     datemath.RecurrenceNone,
			wantNormFix: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.Extract(tt.text, "UTC", now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.ServerDate.Equal(tt.wantServer) {
				t.Errorf("ServerDate = %v, want %v", got.ServerDate, tt.wantServer)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.OffsetMinutes != tt.wantOffset {
				t.Errorf("OffsetMinutes = %d, want %d", got.OffsetMinutes, tt.wantOffset)
			}
			if got.Recurrence != tt.wantRec {
				t.Errorf("Recurrence = %q, want %q", got.Recurrence, tt.wantRec)
			}
			if got.IsBirthday != tt.wantBDay {
				t.Errorf("IsBirthday = %v, want %v", got.IsBirthday, tt.wantBDay)
			}
			if got.NeedsNormalization != tt.wantNormFix {
				t.Errorf("NeedsNormalization = %v, want %v", got.NeedsNormalization, tt.wantNormFix)
			}
		})
	}
}

func TestExtract_FuzzyFallback(t *testing.T) {
	ex := datemath.NewExtractor()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	got, err := ex.Extract("call mom tomorrow", "UTC", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y, m, d := got.ServerDate.Date(); y != 2025 || m != time.June || d != 16 {
		t.Errorf("ServerDate = %v, want 2025-06-16", got.ServerDate)
	}
	if got.Body != "Call mom" {
		t.Errorf("Body = %q, want %q", got.Body, "Call mom")
	}
	if got.ServerDate.Before(now) {
		t.Errorf("fuzzy result %v is in the past", got.ServerDate)
	}
}

func TestExtract_FuzzyDefaultHour(t *testing.T) {
	ex := datemath.NewExtractor()
	moscow, _ := time.LoadLocation("Europe/Moscow")

	tests := []struct {
		name string
		text string
		tz   string
		now  time.Time
		want time.Time
	}{
		{
			name: "date only gets the default hour",
			text: "позвонить маме завтра",
			tz:   "Europe/Moscow",
			now:  time.Date(2025, 6, 15, 15, 0, 0, 0, moscow),
			want: time.Date(2025, 6, 16, datemath.DefaultHour, 0, 0, 0, moscow),
		},
		{
			name: "date only at a whole-minute reference",
			text: "call mom tomorrow",
			tz:   "UTC",
			now:  time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 16, datemath.DefaultHour, 0, 0, 0, time.UTC),
		},
		{
			name: "stated time is kept",
			text: "call mom tomorrow at 5pm",
			tz:   "UTC",
			now:  time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 16, 17, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.Extract(tt.text, tt.tz, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.UserDate.Equal(tt.want) {
				t.Errorf("UserDate = %v, want %v", got.UserDate, tt.want)
			}
		})
	}
}

func TestExtract_NoDate(t *testing.T) {
	ex := datemath.NewExtractor()

	_, err := ex.Extract("купить хлеб", "UTC", time.Now())
	if !errors.Is(err, datemath.ErrNoDate) {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
}

func TestExtract_InvalidTimezone(t *testing.T) {
	ex := datemath.NewExtractor()

	_, err := ex.Extract("встреча 20.11.2025 17:35", "Invalid/Timezone", time.Now())
	if !errors.Is(err, datemath.ErrInvalidTimezone) {
		t.Fatalf("expected ErrInvalidTimezone, got %v", err)
	}
}
