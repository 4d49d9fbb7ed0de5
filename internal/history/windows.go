// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/servicebridge/internal/catalog"
)

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// lookbackWindow returns [from, to) covering the configured number of whole
// weeks before the day containing now.
func (a *Aggregator) lookbackWindow(now time.Time) (time.Time, time.Time) {
	to := StartOfDay(now)
	return to.AddDate(0, 0, -7*a.cfg.LookbackWeeks), to
}

func (f Filter) query(from, to time.Time) catalog.BookingQuery {
	q := catalog.BookingQuery{
		CreatedFrom: from,
		CreatedTo:   to,
		City:        f.City,
	}
	if f.CategoryID != 0 {
		q.CategoryIDs = []int64{f.CategoryID}
	}
	return q
}

// WeeklyCounts implements Provider.
//
// Week i covers the seven days ending i weeks before today. A booking counts
// for week i when it was created inside that week on the requested weekday,
// in the location of now.
func (a *Aggregator) WeeklyCounts(ctx context.Context, weekday time.Weekday, f Filter, now time.Time) ([]int, error) {
	from, to := a.lookbackWindow(now)
	list, err := a.bookings(ctx, f.query(from, to))
	if err != nil {
		return nil, fmt.Errorf("weekly counts: %w", err)
	}

	counts := make([]int, a.cfg.LookbackWeeks)
	loc := now.Location()
	for i := range list {
		created := list[i].CreatedAt.In(loc)
		if created.Weekday() != weekday {
			continue
		}
		if week := weekIndex(StartOfDay(created), to, len(counts)); week >= 0 {
			counts[week]++
		}
	}
	return counts, nil
}

// weekIndex returns how many whole weeks day lies before end, or -1 when it
// is outside the first weeks windows.
func weekIndex(day, end time.Time, weeks int) int {
	if !day.Before(end) {
		return -1
	}
	for i := 0; i < weeks; i++ {
		if !day.Before(end.AddDate(0, 0, -7*(i+1))) {
			return i
		}
	}
	return -1
}

// HourlyCounts implements Provider. Hours are taken from the scheduled time
// in the location of now.
func (a *Aggregator) HourlyCounts(ctx context.Context, f Filter, now time.Time) ([24]int, error) {
	var counts [24]int

	from, to := a.lookbackWindow(now)
	list, err := a.bookings(ctx, f.query(from, to))
	if err != nil {
		return counts, fmt.Errorf("hourly counts: %w", err)
	}

	loc := now.Location()
	for i := range list {
		if list[i].ScheduledAt.IsZero() {
			continue
		}
		counts[list[i].ScheduledAt.In(loc).Hour()]++
	}
	return counts, nil
}
