package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/internal/reminder/repository"
)

// TickResult summarizes one tick.
type TickResult struct {
	Busy      bool // another tick was running
	Due       int
	Birthdays int
	Delivered int
	Failed    int
	Deleted   int
	Advanced  int
}

// Tick delivers everything due at now. Concurrent calls return Busy.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	if !s.mu.TryLock() {
		s.l.Warn(ctx, "scheduler.Tick: previous tick still running")
		return TickResult{Busy: true}
	}
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.lastTick.Store(now.UnixNano())
	s.checkGap(ctx, now.Truncate(time.Minute))
	s.metrics.IncTick()

	var res TickResult
	due, err := s.repo.ListDue(ctx, repository.ListDueOptions{
		From: now.Add(-s.cfg.Lookback),
		To:   now,
	})
	if err != nil {
		s.l.Errorf(ctx, "scheduler.Tick: ListDue: %v", err)
	}
	res.Due = len(due)

	birthdays, birthdayDay, birthdaysOK := s.todaysBirthdays(ctx, now)
	res.Birthdays = len(birthdays)

	if len(due) == 0 && len(birthdays) == 0 {
		if birthdaysOK {
			s.lastBirthday = birthdayDay
		}
		return res
	}

	var (
		deleteIDs []string
		advance   []model.Reminder
	)
	for _, batch := range groupByRecipient(append(due, birthdays...)) {
		text := renderDigest(batch.items, now)
		if _, err := s.sender.Send(ctx, batch.chatID, text, ""); err != nil {
			s.l.Errorf(ctx, "scheduler.Tick: deliver to %d (%d items): %v", batch.chatID, len(batch.items), err)
			s.metrics.IncDelivery(false)
			res.Failed += len(batch.items)
			if hasBirthday(batch.items) {
				birthdaysOK = false
			}
			continue
		}
		s.metrics.IncDelivery(true)
		res.Delivered += len(batch.items)

		for _, r := range batch.items {
			if r.Recurrence.IsRecurring() {
				advance = append(advance, r)
			} else {
				deleteIDs = append(deleteIDs, r.ID)
			}
		}
	}

	if len(deleteIDs) > 0 {
		if err := s.repo.DeleteMany(ctx, deleteIDs); err != nil {
			s.l.Errorf(ctx, "scheduler.Tick: DeleteMany(%d): %v", len(deleteIDs), err)
		} else {
			res.Deleted = len(deleteIDs)
		}
	}

	for _, r := range advance {
		// Step past now so a reminder is never due twice for one occurrence.
		for r.Advance() {
			if r.RemindAt.After(now) {
				break
			}
		}
		if _, err := s.repo.Update(ctx, r); err != nil {
			s.l.Errorf(ctx, "scheduler.Tick: advance %s: %v", r.ID, err)
			continue
		}
		res.Advanced++
	}

	// Failed birthdays are selected again on the next tick.
	if birthdaysOK {
		s.lastBirthday = birthdayDay
	}

	s.l.Infof(ctx, "scheduler.Tick: due=%d birthdays=%d delivered=%d failed=%d deleted=%d advanced=%d",
		res.Due, res.Birthdays, res.Delivered, res.Failed, res.Deleted, res.Advanced)
	return res
}

// checkGap alerts when the tick minute is not the one after the previous tick.
func (s *Scheduler) checkGap(ctx context.Context, minute time.Time) {
	prev := s.lastMinute
	s.lastMinute = minute
	if prev.IsZero() {
		return
	}

	expected := prev.Add(time.Minute)
	switch {
	case minute.Equal(expected):
		return
	case minute.After(expected):
		skipped := int(minute.Sub(expected) / time.Minute)
		msg := fmt.Sprintf("Scheduler skipped %d minute(s): last tick %s, now %s",
			skipped, prev.Format("15:04"), minute.Format("15:04"))
		s.l.Warnf(ctx, "scheduler.checkGap: %s", msg)
		s.metrics.AddSkippedMinutes(skipped)
		s.alert(ctx, msg)
	default:
		s.l.Warnf(ctx, "scheduler.checkGap: tick minute %s is not after previous %s", minute.Format("15:04"), prev.Format("15:04"))
	}
}

// todaysBirthdays selects the undelivered birthdays of the current calendar
// day in cfg.Location. ok reports whether the day may be marked done once
// they are delivered; it is false when the day is already done or the query
// failed.
func (s *Scheduler) todaysBirthdays(ctx context.Context, now time.Time) (items []model.Reminder, day string, ok bool) {
	local := now.In(s.cfg.Location)
	day = local.Format("2006-01-02")
	if day == s.lastBirthday {
		return nil, day, false
	}

	y, m, d := local.Date()
	items, err := s.repo.ListBirthdays(ctx, repository.ListBirthdaysOptions{
		Month:  m,
		Day:    d,
		Before: time.Date(y, m, d+1, 0, 0, 0, 0, s.cfg.Location),
	})
	if err != nil {
		s.l.Errorf(ctx, "scheduler.todaysBirthdays: %v", err)
		return nil, day, false
	}
	return items, day, true
}

func hasBirthday(items []model.Reminder) bool {
	for _, r := range items {
		if r.IsBirthday {
			return true
		}
	}
	return false
}

func (s *Scheduler) alert(ctx context.Context, text string) {
	if s.alerter == nil {
		return
	}
	if err := s.alerter.Alert(ctx, text); err != nil {
		s.l.Errorf(ctx, "scheduler.alert: %v", err)
	}
}

type recipientBatch struct {
	chatID int64
	items  []model.Reminder
}

// groupByRecipient batches reminders per delivery chat, items by schedule.
func groupByRecipient(items []model.Reminder) []recipientBatch {
	index := make(map[int64]int)
	var batches []recipientBatch
	for _, r := range items {
		chatID := r.RecipientChatID()
		i, ok := index[chatID]
		if !ok {
			i = len(batches)
			index[chatID] = i
			batches = append(batches, recipientBatch{chatID: chatID})
		}
		batches[i].items = append(batches[i].items, r)
	}

	for _, b := range batches {
		sort.SliceStable(b.items, func(i, j int) bool {
			return b.items[i].ScheduledAtUTC.Before(b.items[j].ScheduledAtUTC)
		})
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].chatID < batches[j].chatID })
	return batches
}
