package storage

import (
	"sort"

	"github.com/shopspring/decimal"

	"wlog/internal/billing"
	"wlog/pkg/models"
)

// MonthTotalHours sums the hours a client logged in month.
func MonthTotalHours(client *models.Client, month billing.MonthKey) float64 {
	total := decimal.Zero
	for _, entry := range client.Logs[month.String()] {
		total = total.Add(decimal.NewFromFloat(entry.Hours))
	}
	return total.InexactFloat64()
}

// MonthEntries returns a client's entries for month in ascending date order,
// whatever order they were logged in.
func MonthEntries(client *models.Client, month billing.MonthKey) []models.WorkLogEntry {
	logs := client.Logs[month.String()]
	entries := make([]models.WorkLogEntry, 0, len(logs))
	for date, entry := range logs {
		entries = append(entries, models.WorkLogEntry{
			Date:    date,
			Hours:   entry.Hours,
			Message: entry.Message,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries
}
