// Package progress turns log entries and goals into calendar, week and
// statistics views. Every function is pure and safe for concurrent use.
package progress

import (
	"sort"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// DailyAggregate is the sum of one owner's entries on one calendar date.
type DailyAggregate struct {
	Date         domain.LocalDate   `json:"date"`
	TotalMinutes int                `json:"total_minutes"`
	EntryCount   int                `json:"entry_count"`
	HasNotes     bool               `json:"has_notes"`
	Entries      []*domain.LogEntry `json:"-"`
}

// Normalize groups entries by calendar date. Entries within a day keep
// creation order; days are returned in ascending date order. Dates are used
// as stored, with no zone conversion.
func Normalize(entries []*domain.LogEntry) []DailyAggregate {
	byDate := make(map[domain.LocalDate]*DailyAggregate)
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		agg, ok := byDate[entry.Date()]
		if !ok {
			agg = &DailyAggregate{Date: entry.Date()}
			byDate[entry.Date()] = agg
		}
		agg.TotalMinutes += entry.DurationMinutes()
		agg.EntryCount++
		agg.HasNotes = agg.HasNotes || entry.HasNote()
		agg.Entries = append(agg.Entries, entry)
	}

	result := make([]DailyAggregate, 0, len(byDate))
	for _, agg := range byDate {
		sort.SliceStable(agg.Entries, func(i, j int) bool {
			return agg.Entries[i].CreatedAt().Before(agg.Entries[j].CreatedAt())
		})
		result = append(result, *agg)
	}
	sortAggregates(result)

	return result
}

func sortAggregates(aggregates []DailyAggregate) {
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Date.Before(aggregates[j].Date)
	})
}

// Index keys aggregates by date for lookups.
func Index(aggregates []DailyAggregate) map[domain.LocalDate]DailyAggregate {
	index := make(map[domain.LocalDate]DailyAggregate, len(aggregates))
	for _, agg := range aggregates {
		if existing, ok := index[agg.Date]; ok {
			existing.TotalMinutes += agg.TotalMinutes
			existing.EntryCount += agg.EntryCount
			existing.HasNotes = existing.HasNotes || agg.HasNotes
			existing.Entries = append(existing.Entries, agg.Entries...)
			index[agg.Date] = existing
			continue
		}
		index[agg.Date] = agg
	}
	return index
}
