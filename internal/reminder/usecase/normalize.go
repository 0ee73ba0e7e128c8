package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"reminder-assistant/internal/reminder"
	"reminder-assistant/pkg/datemath"
	pkgErrors "reminder-assistant/pkg/errors"
	"reminder-assistant/pkg/llmprovider"
)

const (
	canonicalLayout     = "02.01.2006 15:04"
	canonicalDateLayout = "02.01.2006"
)

const defaultNormalizerPrompt = `You convert reminder requests into one line of the form
DD.MM.YYYY HH:MM|offset_minutes|code|text
where code is N (once), D (daily), W (weekly), M (monthly) or Y (yearly),
offset_minutes is how many minutes before the date to remind (0 if not stated)
and text is the reminder itself without date, recurrence or offset words.
Keep the date you are given unless the text clearly moves it. Reply with the line only.`

var dateToken = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}(?: \d{2}:\d{2})?$`)

// normalizedReply is the parsed date|offset|code|body line.
type normalizedReply struct {
	date       time.Time
	offset     int
	recurrence datemath.Recurrence
	body       string
}

// normalize asks the LLM to canonicalize recurrence and offset prose and
// applies the result to ex. Explicit parameters already on ex are kept.
func (uc *implUseCase) normalize(ctx context.Context, text, tz string, ex *datemath.Extraction) error {
	canonical := ex.UserDate.Format(canonicalLayout)
	prompt := canonical + " " + ex.Body
	if ex.MatchedText != "" && strings.Contains(text, ex.MatchedText) {
		prompt = strings.Replace(text, ex.MatchedText, canonical, 1)
	}

	resp, err := uc.llm.Chat(ctx, &llmprovider.Request{
		Model: uc.cfg.NormalizerModel,
		Messages: []llmprovider.Message{
			{Role: llmprovider.RoleSystem, Content: uc.cfg.NormalizerPrompt},
			{Role: llmprovider.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		if pkgErrors.KindOf(err) == pkgErrors.KindUnhandled {
			return pkgErrors.NewTransport("normalizer_call", "normalizer call failed", err)
		}
		return err
	}

	loc := ex.UserDate.Location()
	reply, err := parseNormalizerReply(resp.Content, loc)
	if err != nil {
		return pkgErrors.NewResponse(reminder.CodeNormalizer, resp.Content, err)
	}

	ex.UserDate = reply.date
	ex.ServerDate = reply.date.UTC()
	ex.Body = reply.body
	if !ex.OffsetExplicit {
		ex.OffsetMinutes = reply.offset
	}
	if !ex.RecurrenceExplicit {
		ex.Recurrence = reply.recurrence
	}
	if ex.IsBirthday {
		y, m, d := reply.date.Date()
		ex.UserDate = time.Date(y, m, d, 0, 0, 0, 0, loc)
		ex.ServerDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		ex.Recurrence = datemath.RecurrenceYearly
	}
	return nil
}

// parseNormalizerReply reads "date|offset|code|body" in any field order: the
// date-shaped token is the date, a purely numeric one the offset, a known code
// the recurrence and what is left the body. All four must be present.
func parseNormalizerReply(raw string, loc *time.Location) (normalizedReply, error) {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if strings.Contains(l, "|") {
			line = l
			break
		}
	}
	line = strings.Trim(strings.TrimSpace(line), "`\"'")
	if line == "" {
		return normalizedReply{}, fmt.Errorf("%w: no delimited line", reminder.ErrNormalizerReply)
	}

	var (
		out                               normalizedReply
		hasDate, hasOffset, hasRecurrence bool
		rest                              []string
	)
	for _, tok := range strings.Split(line, "|") {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
			continue
		case !hasDate && dateToken.MatchString(tok):
			layout := canonicalLayout
			if len(tok) == len(canonicalDateLayout) {
				layout = canonicalDateLayout
			}
			d, err := time.ParseInLocation(layout, tok, loc)
			if err != nil {
				return normalizedReply{}, fmt.Errorf("%w: bad date %q", reminder.ErrNormalizerReply, tok)
			}
			out.date, hasDate = d, true
		case !hasOffset && isNumeric(tok):
			n, err := strconv.Atoi(tok)
			if err != nil {
				return normalizedReply{}, fmt.Errorf("%w: bad offset %q", reminder.ErrNormalizerReply, tok)
			}
			out.offset, hasOffset = n, true
		case !hasRecurrence && len(tok) == 1:
			r, ok := datemath.ParseRecurrence(tok)
			if !ok {
				rest = append(rest, tok)
				continue
			}
			out.recurrence, hasRecurrence = r, true
		default:
			rest = append(rest, tok)
		}
	}

	if !hasDate || !hasOffset || !hasRecurrence || len(rest) == 0 {
		return normalizedReply{}, fmt.Errorf("%w: %q", reminder.ErrNormalizerReply, line)
	}
	out.body = capitalize(strings.Join(rest, " | "))
	return out, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
