package datemath

import (
	"regexp"
	"strconv"
	"strings"
)

// recurrenceKeywords are the explicit trailing parameters, lowercased.
var recurrenceKeywords = map[string]Recurrence{
	"однократно": RecurrenceNone,
	"разово":     RecurrenceNone,
	"once":       RecurrenceNone,

	"ежедневно":     RecurrenceDaily,
	"каждый день":   RecurrenceDaily,
	"every day":     RecurrenceDaily,
	"daily":         RecurrenceDaily,
	"щодня":         RecurrenceDaily,
	"täglich":       RecurrenceDaily,
	"еженедельно":   RecurrenceWeekly,
	"каждую неделю": RecurrenceWeekly,
	"every week":    RecurrenceWeekly,
	"weekly":        RecurrenceWeekly,
	"щотижня":       RecurrenceWeekly,
	"wöchentlich":   RecurrenceWeekly,
	"ежемесячно":    RecurrenceMonthly,
	"каждый месяц":  RecurrenceMonthly,
	"every month":   RecurrenceMonthly,
	"monthly":       RecurrenceMonthly,
	"щомісяця":      RecurrenceMonthly,
	"monatlich":     RecurrenceMonthly,
	"ежегодно":      RecurrenceYearly,
	"каждый год":    RecurrenceYearly,
	"every year":    RecurrenceYearly,
	"yearly":        RecurrenceYearly,
	"annually":      RecurrenceYearly,
	"щороку":        RecurrenceYearly,
	"jährlich":      RecurrenceYearly,
}

var (
	// "за 30 минут", "за 2 часа", "за 1 день"
	offsetPrefixed = regexp.MustCompile(`^за\s+(\d+)\s*(мин|минуту|минуты|минут|м|ч|час|часа|часов|д|день|дня|дней)$`)
	// "за час", "за сутки"
	offsetWordOnly = regexp.MustCompile(`^за\s+(час|сутки|день)$`)
	// "30 min before", "2 hours before", "1 day before"
	offsetSuffixed = regexp.MustCompile(`^(\d+)\s*(m|min|mins|minute|minutes|h|hour|hours|d|day|days)\s+(before|early|in advance)$`)
)

var unitMinutes = map[string]int{
	"мин": 1, "минуту": 1, "минуты": 1, "минут": 1, "м": 1,
	"m": 1, "min": 1, "mins": 1, "minute": 1, "minutes": 1,
	"ч": 60, "час": 60, "часа": 60, "часов": 60,
	"h": 60, "hour": 60, "hours": 60,
	"д": 1440, "день": 1440, "дня": 1440, "дней": 1440, "сутки": 1440,
	"d": 1440, "day": 1440, "days": 1440,
}

// parseOffset recognizes an explicit offset parameter and returns minutes.
func parseOffset(token string) (int, bool) {
	if m := offsetPrefixed.FindStringSubmatch(token); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * unitMinutes[m[2]], true
	}
	if m := offsetWordOnly.FindStringSubmatch(token); m != nil {
		return unitMinutes[m[1]], true
	}
	if m := offsetSuffixed.FindStringSubmatch(token); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * unitMinutes[m[2]], true
	}
	return 0, false
}

var birthdayWords = []string{
	"день рождения", "дня рождения", "днем рождения", "днём рождения", "днюха", "днюху",
	"birthday", "b-day", "bday",
	"день народження", "дня народження",
	"geburtstag",
}

// birthdayAbbrev matches the standalone "др" / "д.р." abbreviation.
var birthdayAbbrev = regexp.MustCompile(`(?:^|[\s,.!])(?:др|д\.р\.)(?:$|[\s,.!])`)

func isBirthday(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range birthdayWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return birthdayAbbrev.MatchString(lower)
}

// proseCues hint at recurrence or offset phrasing left inside the body.
var proseCues = []string{
	"кажд", "ежедн", "еженед", "ежемес", "ежегод", "по будням", "по выходным",
	"every", "daily", "weekly", "monthly", "yearly", "each ",
	" за ", "заранее", "before", "in advance",
}

func needsNormalization(body string) bool {
	lower := " " + strings.ToLower(body)
	for _, cue := range proseCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
