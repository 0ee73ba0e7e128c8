package telegram

import (
	"fmt"
	"strings"
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/pkg/datemath"
)

const displayLayout = "02.01.2006 15:04"

var recurrenceLabels = map[datemath.Recurrence]string{
	datemath.RecurrenceDaily:   "every day",
	datemath.RecurrenceWeekly:  "every week",
	datemath.RecurrenceMonthly: "every month",
	datemath.RecurrenceYearly:  "every year",
}

func presentCreated(r model.Reminder) string {
	var b strings.Builder
	b.WriteString("✅ Reminder saved\n")
	b.WriteString(describe(r))
	if r.Scope == model.ScopeGroup {
		b.WriteString("\nShared with this group.")
	}
	return b.String()
}

func presentList(items []model.Reminder) string {
	if len(items) == 0 {
		return "You have no reminders."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your reminders (%d):\n", len(items))
	for _, r := range items {
		fmt.Fprintf(&b, "\n%s\nid: %s\n", describe(r), r.ID)
	}
	b.WriteString("\nDelete one with /delete <id>.")
	return b.String()
}

// describe renders a reminder in its own timezone.
func describe(r model.Reminder) string {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}

	var b strings.Builder
	b.WriteString(r.Text)
	if r.IsBirthday {
		fmt.Fprintf(&b, "\n🎂 %s, every year", r.ScheduledAtUTC.Format("02.01"))
		return b.String()
	}

	fmt.Fprintf(&b, "\n⏰ %s", r.ScheduledAtUTC.In(loc).Format(displayLayout))
	if label, ok := recurrenceLabels[r.Recurrence]; ok {
		fmt.Fprintf(&b, ", %s", label)
	}
	if r.RemindOffsetMinutes > 0 {
		fmt.Fprintf(&b, "\n🔔 %s before", formatOffset(r.RemindOffsetMinutes))
	}
	return b.String()
}

func formatOffset(minutes int) string {
	d, h, m := minutes/(24*60), minutes/60%24, minutes%60
	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%d d", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%d h", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m))
	}
	return strings.Join(parts, " ")
}
