package scheduler

import (
	"fmt"
	"strings"
	"time"

	"reminder-assistant/internal/model"
)

// renderDigest lists items with their local time and lead time.
func renderDigest(items []model.Reminder, now time.Time) string {
	var b strings.Builder
	if len(items) == 1 {
		b.WriteString("⏰ Reminder:\n")
	} else {
		fmt.Fprintf(&b, "⏰ Reminders (%d):\n", len(items))
	}

	for _, r := range items {
		if r.IsBirthday {
			fmt.Fprintf(&b, "🎂 %s today\n", r.Text)
			continue
		}
		fmt.Fprintf(&b, "• %s at %s, %s\n", r.Text, localTime(r), leadTime(r.ScheduledAtUTC.Sub(now)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func localTime(r model.Reminder) string {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return r.ScheduledAtUTC.In(loc).Format("02.01 15:04")
}

// leadTime renders d as "now", "in 45 min", "in 2 h 5 min" or "in 1 d 3 h".
func leadTime(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	total := int(d / time.Minute)
	days, hours, minutes := total/(24*60), total%(24*60)/60, total%60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d d", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d h", hours))
	}
	if minutes > 0 && days == 0 {
		parts = append(parts, fmt.Sprintf("%d min", minutes))
	}
	if len(parts) == 0 {
		return "now"
	}
	return "in " + strings.Join(parts, " ")
}
