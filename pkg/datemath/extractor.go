package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"
)

// DefaultHour is the local hour used when a date is given without a time.
const DefaultHour = 9

const paramDelimiters = ",;|"

var (
	// DD.MM and DD.MM.YYYY; rewritten to slashes of the same byte length.
	dottedDate = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})(\.(\d{4}|\d{2}))?\b`)

	// DD/MM[/YYYY] with an optional trailing time.
	explicitDate = regexp.MustCompile(`(?:^|\s)(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?(?:\s+(?:(?:в|at)\s+)?(\d{1,2}):(\d{2}))?\b`)

	// bare HH:MM, optionally preceded by "в"/"at"/"к".
	explicitTime = regexp.MustCompile(`(?:^|\s)(?:(?:в|at|к)\s+)?(\d{1,2}):(\d{2})\b`)
)

// Extractor finds a reminder date in free text. Safe for concurrent use.
type Extractor struct {
	fuzzy *when.Parser
}

// NewExtractor builds an extractor with Russian, English and common fuzzy rules.
func NewExtractor() *Extractor {
	w := when.New(nil)
	w.Add(ru.All...)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Extractor{fuzzy: w}
}

// Extract returns the date found in text, interpreted in the IANA timezone tz
// relative to now. Ambiguous dates resolve to the nearest future occurrence.
// It returns ErrNoDate when the text carries no date at all.
func (e *Extractor) Extract(text, tz string, now time.Time) (*Extraction, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, tz, err)
	}
	ref := now.In(loc)

	body, p := splitParams(text)
	normalized := normalizeDotted(body)

	userDate, spans, ok := matchDate(normalized, ref)
	if !ok {
		userDate, spans, ok = e.matchFuzzy(normalized, ref)
	}
	if !ok {
		userDate, spans, ok = matchTime(normalized, ref)
	}
	if !ok {
		return nil, ErrNoDate
	}

	// normalizeDotted keeps byte offsets, so spans index body directly.
	matched := make([]string, 0, len(spans))
	for _, s := range spans {
		matched = append(matched, strings.TrimSpace(body[s[0]:s[1]]))
	}
	residual := cleanBody(cutSpans(body, spans))

	out := &Extraction{
		UserDate:           userDate,
		ServerDate:         userDate.UTC(),
		Body:               residual,
		MatchedText:        strings.Join(matched, " "),
		IsBirthday:         isBirthday(text),
		Recurrence:         RecurrenceNone,
		RecurrenceExplicit: p.hasRecurrence,
		OffsetMinutes:      p.offset,
		OffsetExplicit:     p.hasOffset,
	}
	if p.hasRecurrence {
		out.Recurrence = p.recurrence
	}
	if out.IsBirthday {
		y, m, d := userDate.Date()
		out.UserDate = time.Date(y, m, d, 0, 0, 0, 0, loc)
		out.ServerDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		out.Recurrence = RecurrenceYearly
	}
	out.NeedsNormalization = needsNormalization(residual)

	return out, nil
}

// splitParams strips trailing delimiter-separated recurrence and offset
// parameters. The first token that is neither stops the scan.
func splitParams(text string) (string, params) {
	var p params
	body := text
	for {
		idx := strings.LastIndexAny(body, paramDelimiters)
		if idx < 0 {
			break
		}
		token := strings.ToLower(strings.Trim(body[idx+1:], " \t\n.!"))
		if token == "" {
			body = body[:idx]
			continue
		}
		if r, ok := recurrenceKeywords[token]; ok && !p.hasRecurrence {
			p.recurrence, p.hasRecurrence = r, true
			body = body[:idx]
			continue
		}
		if minutes, ok := parseOffset(token); ok && !p.hasOffset {
			p.offset, p.hasOffset = minutes, true
			body = body[:idx]
			continue
		}
		break
	}
	return body, p
}

// normalizeDotted rewrites valid DD.MM[.YYYY] tokens as DD/MM[/YYYY].
func normalizeDotted(text string) string {
	return dottedDate.ReplaceAllStringFunc(text, func(tok string) string {
		m := dottedDate.FindStringSubmatch(tok)
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if day < 1 || day > 31 || month < 1 || month > 12 {
			return tok
		}
		return strings.ReplaceAll(tok, ".", "/")
	})
}

// matchDate handles numeric dates. A date without its own time borrows a bare
// HH:MM found elsewhere in the text, else DefaultHour.
func matchDate(text string, ref time.Time) (time.Time, [][2]int, bool) {
	if m := explicitDate.FindStringSubmatchIndex(text); m != nil {
		day := atoiSpan(text, m[2], m[3])
		month := atoiSpan(text, m[4], m[5])
		year, hasYear := ref.Year(), m[6] >= 0
		if hasYear {
			year = atoiSpan(text, m[6], m[7])
			if year < 100 {
				year += 2000
			}
		}

		spans := [][2]int{{m[0], m[1]}}
		hour, minute := DefaultHour, 0
		if m[8] >= 0 {
			hour, minute = atoiSpan(text, m[8], m[9]), atoiSpan(text, m[10], m[11])
		} else if t := explicitTime.FindStringSubmatchIndex(text); t != nil && (t[1] <= m[0] || t[0] >= m[1]) {
			hour, minute = atoiSpan(text, t[2], t[3]), atoiSpan(text, t[4], t[5])
			spans = append(spans, [2]int{t[0], t[1]})
			if t[0] < m[0] {
				spans[0], spans[1] = spans[1], spans[0]
			}
		}

		if date, ok := buildDate(year, month, day, hour, minute, ref.Location()); ok {
			if !hasYear && date.Before(ref) {
				if next, ok := buildDate(year+1, month, day, hour, minute, ref.Location()); ok {
					date = next
				}
			}
			return date, spans, true
		}
	}
	return time.Time{}, nil, false
}

// matchTime handles a bare HH:MM: today, or tomorrow once it has passed.
func matchTime(text string, ref time.Time) (time.Time, [][2]int, bool) {
	if t := explicitTime.FindStringSubmatchIndex(text); t != nil {
		hour, minute := atoiSpan(text, t[2], t[3]), atoiSpan(text, t[4], t[5])
		y, mo, d := ref.Date()
		if date, ok := buildDate(y, int(mo), d, hour, minute, ref.Location()); ok {
			if !date.After(ref) {
				date = date.AddDate(0, 0, 1)
			}
			return date, [][2]int{{t[0], t[1]}}, true
		}
	}

	return time.Time{}, nil, false
}

// matchFuzzy defers to the natural-language rules. A result in the past is
// pushed a day forward, then a year forward if still behind.
func (e *Extractor) matchFuzzy(text string, ref time.Time) (time.Time, [][2]int, bool) {
	r, err := e.fuzzy.Parse(text, ref)
	if err != nil || r == nil {
		return time.Time{}, nil, false
	}

	date := r.Time.In(ref.Location())
	if !e.fuzzyHasTime(text, ref, date) {
		y, m, d := date.Date()
		date = time.Date(y, m, d, DefaultHour, 0, 0, 0, ref.Location())
	}
	if date.Before(ref) {
		if next := date.AddDate(0, 0, 1); !next.Before(ref) {
			date = next
		} else {
			date = addMonthsClamped(date, 12)
		}
	}
	return date, [][2]int{{r.Index, r.Index + len(r.Text)}}, true
}

// fuzzyHasTime reports whether the fuzzy match stated a time of day. Date-only
// matches keep the reference clock, so the text is parsed again at another
// clock on the same day: a stated time stays put, a bare date follows it.
func (e *Extractor) fuzzyHasTime(text string, ref, got time.Time) bool {
	if !sameClock(got, ref) {
		return true
	}
	y, m, d := ref.Date()
	hour := 3
	if ref.Hour() == hour {
		hour = 4
	}
	alt, err := e.fuzzy.Parse(text, time.Date(y, m, d, hour, 17, 43, 0, ref.Location()))
	if err != nil || alt == nil {
		return true
	}
	return sameClock(alt.Time.In(ref.Location()), got)
}

func sameClock(a, b time.Time) bool {
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()
	return ah == bh && am == bm && as == bs && a.Nanosecond() == b.Nanosecond()
}

func buildDate(year, month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	if day > daysIn(year, time.Month(month)) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
}

func atoiSpan(text string, from, to int) int {
	n, _ := strconv.Atoi(text[from:to])
	return n
}

// cutSpans removes ordered, non-overlapping byte spans from text.
func cutSpans(text string, spans [][2]int) string {
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s[0]])
		b.WriteByte(' ')
		prev = s[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

// cleanBody collapses whitespace, trims punctuation and capitalizes.
func cleanBody(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,.;:-|")
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
