// Package aggregator groups categorized transactions into Sunday-anchored
// weekly buckets and computes per-bucket and overall cash-flow statistics.
// Every function is a pure transform: same input, same output.
package aggregator

import (
	"sort"

	"fjacquet/cashflow-csv/internal/dateutils"
	"fjacquet/cashflow-csv/internal/models"

	"github.com/shopspring/decimal"
)

// Report is the output of one aggregation pass: ordered weekly buckets plus
// global summary reductions.
type Report struct {
	Buckets []models.WeeklyBucket `json:"weeks"`
	Summary models.Summary        `json:"summary"`
}

// Breakdown buckets every transaction into contiguous weekly windows from
// the earliest transaction's week through the latest. Gap weeks appear with
// zero totals. The running balance is seeded by startingBalance.
func Breakdown(txs []models.CategorizedTransaction, startingBalance decimal.Decimal) Report {
	if len(txs) == 0 {
		return Report{Buckets: []models.WeeklyBucket{}}
	}

	earliest, latest := txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	anchor := dateutils.StartOfWeek(earliest)
	weeks := dateutils.WeeksBetween(anchor, latest) + 1
	return aggregate(txs, startingBalance, anchor, weeks)
}

// Forecast produces exactly `weeks` consecutive buckets starting at the week
// containing anchor, regardless of whether transactions exist in every
// bucket. Transactions outside the window are excluded, not an error.
func Forecast(txs []models.CategorizedTransaction, startingBalance decimal.Decimal, anchor models.Date, weeks int) Report {
	if weeks < 1 {
		return Report{Buckets: []models.WeeklyBucket{}}
	}
	return aggregate(txs, startingBalance, dateutils.StartOfWeek(anchor), weeks)
}

func aggregate(txs []models.CategorizedTransaction, startingBalance decimal.Decimal, anchor models.Date, weeks int) Report {
	buckets := make([]models.WeeklyBucket, weeks)
	for i := range buckets {
		start := anchor.AddDays(i * 7)
		buckets[i] = models.WeeklyBucket{
			WeekStart:         start,
			WeekEnd:           dateutils.EndOfWeek(start),
			TotalInflow:       decimal.Zero,
			TotalOutflow:      decimal.Zero,
			NetFlow:           decimal.Zero,
			CategoryBreakdown: map[string]decimal.Decimal{},
		}
	}

	categories := map[string]struct{}{}
	summary := models.Summary{
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
	}

	for _, tx := range txs {
		idx := dateutils.WeeksBetween(anchor, tx.Date)
		if idx < 0 || idx >= weeks {
			continue
		}
		bucket := &buckets[idx]

		bucket.Transactions = append(bucket.Transactions, tx)
		if tx.Direction == models.DirectionOutflow {
			bucket.TotalOutflow = bucket.TotalOutflow.Add(tx.Amount)
			summary.TotalOutflow = summary.TotalOutflow.Add(tx.Amount)
		} else {
			bucket.TotalInflow = bucket.TotalInflow.Add(tx.Amount)
			summary.TotalInflow = summary.TotalInflow.Add(tx.Amount)
		}

		category := tx.Category
		if category == "" {
			category = models.CategoryUncategorized
		}
		bucket.CategoryBreakdown[category] = bucket.CategoryBreakdown[category].Add(tx.Amount)
		categories[category] = struct{}{}
		summary.TransactionCount++
	}

	balance := startingBalance
	for i := range buckets {
		buckets[i].NetFlow = buckets[i].TotalInflow.Sub(buckets[i].TotalOutflow)
		balance = balance.Add(buckets[i].NetFlow)
		buckets[i].RunningBalance = balance
	}

	summary.NetFlow = summary.TotalInflow.Sub(summary.TotalOutflow)
	summary.CategoryCount = len(categories)

	return Report{Buckets: buckets, Summary: summary}
}

// GroupByCategory groups the whole transaction list by category, with each
// group's share of total transaction volume, sorted by total descending.
func GroupByCategory(txs []models.CategorizedTransaction) []models.CategoryBucket {
	groups := map[string]*models.CategoryBucket{}
	total := decimal.Zero

	for _, tx := range txs {
		category := tx.Category
		if category == "" {
			category = models.CategoryUncategorized
		}
		group, ok := groups[category]
		if !ok {
			group = &models.CategoryBucket{Name: category, Total: decimal.Zero}
			groups[category] = group
		}
		group.Total = group.Total.Add(tx.Amount)
		group.Count++
		group.Transactions = append(group.Transactions, tx)
		total = total.Add(tx.Amount)
	}

	buckets := make([]models.CategoryBucket, 0, len(groups))
	for _, group := range groups {
		if total.IsPositive() {
			pct, _ := group.Total.Div(total).Mul(decimal.NewFromInt(100)).Float64()
			group.Percentage = pct
		}
		buckets = append(buckets, *group)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Total.Equal(buckets[j].Total) {
			return buckets[i].Name < buckets[j].Name
		}
		return buckets[i].Total.GreaterThan(buckets[j].Total)
	})

	return buckets
}
