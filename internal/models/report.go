package models

import (
	"github.com/shopspring/decimal"
)

// WeeklyBucket is a derived view of one 7-day reporting window. Buckets are
// recomputed on every aggregation pass and never persisted.
type WeeklyBucket struct {
	WeekStart         Date                       `json:"weekStart"`
	WeekEnd           Date                       `json:"weekEnd"`
	Transactions      []CategorizedTransaction   `json:"transactions,omitempty"`
	TotalInflow       decimal.Decimal            `json:"totalInflow"`
	TotalOutflow      decimal.Decimal            `json:"totalOutflow"`
	NetFlow           decimal.Decimal            `json:"netFlow"`
	RunningBalance    decimal.Decimal            `json:"runningBalance"`
	CategoryBreakdown map[string]decimal.Decimal `json:"categoryBreakdown,omitempty"`
}

// Contains reports whether a date falls inside the bucket's window.
func (b WeeklyBucket) Contains(d Date) bool {
	return !d.Before(b.WeekStart) && !d.After(b.WeekEnd)
}

// Summary holds the global reductions over a set of weekly buckets.
type Summary struct {
	TotalInflow      decimal.Decimal `json:"totalInflow"`
	TotalOutflow     decimal.Decimal `json:"totalOutflow"`
	NetFlow          decimal.Decimal `json:"netFlow"`
	TransactionCount int             `json:"transactionCount"`
	CategoryCount    int             `json:"categoryCount"`
}

// CategoryBucket groups transactions of one category across the whole list,
// with the category's share of total transaction volume.
type CategoryBucket struct {
	Name         string                   `json:"name"`
	Total        decimal.Decimal          `json:"total"`
	Count        int                      `json:"count"`
	Percentage   float64                  `json:"percentage"`
	Transactions []CategorizedTransaction `json:"transactions,omitempty"`
}
