// Package normalizer turns loosely formatted spreadsheet rows into canonical
// transaction records. It never reads files itself; callers feed it rows from
// whatever source they parse.
package normalizer

import (
	"strings"
	"time"

	"fjacquet/cashflow-csv/internal/dateutils"
	"fjacquet/cashflow-csv/internal/logging"
	"fjacquet/cashflow-csv/internal/models"

	"github.com/shopspring/decimal"
)

// RawRow is one spreadsheet row keyed by column header. Header names and
// casing vary between bank exports, so lookups are tolerant.
type RawRow map[string]string

// Result is the outcome of one normalization pass. Dropped counts the rows
// discarded as noise so callers can decide whether to warn the user.
type Result struct {
	Transactions []models.Transaction
	Dropped      int
}

// Header variants recognized per field, tried in order.
var (
	dateHeaders        = []string{"Date", "date", "DATE", "Transaction Date", "transaction_date", "Posting Date"}
	descriptionHeaders = []string{"Description", "description", "DESCRIPTION", "Memo", "Details", "Narrative"}
	amountHeaders      = []string{"Amount", "amount", "AMOUNT", "Value", "value"}
	txTypeHeaders      = []string{"Type", "type", "Transaction Type", "transaction_type"}
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDropBadDates makes the normalizer discard rows whose date cannot be
// parsed instead of substituting today's date.
func WithDropBadDates(drop bool) Option {
	return func(n *Normalizer) {
		n.dropBadDates = drop
	}
}

// WithClock overrides the time source used for the bad-date fallback.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// Normalizer converts raw rows to canonical transactions.
type Normalizer struct {
	dropBadDates bool
	now          func() time.Time
	logger       logging.Logger
}

// New creates a Normalizer. By default an unparseable date falls back to
// today's date, matching the historical behavior of the upload pipeline.
func New(logger logging.Logger, opts ...Option) *Normalizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	n := &Normalizer{
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts rows into canonical transactions. Rows with no
// recognizable date header or an unparseable amount are dropped silently;
// the function never fails, it only returns fewer rows.
func (n *Normalizer) Normalize(rows []RawRow) Result {
	result := Result{Transactions: make([]models.Transaction, 0, len(rows))}

	for _, row := range rows {
		tx, ok := n.normalizeRow(row)
		if !ok {
			result.Dropped++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	n.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: logging.FieldDropped, Value: result.Dropped},
	).Info("Normalized CSV rows")

	return result
}

func (n *Normalizer) normalizeRow(row RawRow) (models.Transaction, bool) {
	rawDate, ok := lookup(row, dateHeaders)
	if !ok || strings.TrimSpace(rawDate) == "" {
		return models.Transaction{}, false
	}

	rawAmount, ok := lookup(row, amountHeaders)
	if !ok {
		return models.Transaction{}, false
	}

	signed, err := ParseAmount(rawAmount)
	if err != nil {
		n.logger.WithError(err).WithField("amount", rawAmount).Debug("Dropping row with unparseable amount")
		return models.Transaction{}, false
	}

	date, _, err := dateutils.ParseDate(rawDate)
	if err != nil {
		if n.dropBadDates {
			n.logger.WithError(err).WithField("date", rawDate).Debug("Dropping row with unparseable date")
			return models.Transaction{}, false
		}
		// Historical fallback: substitute today. Corrupts week placement for
		// bad rows, so WithDropBadDates exists as the safer alternative.
		date = models.DateOf(n.now())
		n.logger.WithField("date", rawDate).Warn("Unparseable date, substituting today")
	}

	description, _ := lookup(row, descriptionHeaders)
	txType, _ := lookup(row, txTypeHeaders)

	return models.Transaction{
		Date:        date,
		Description: strings.TrimSpace(description),
		Amount:      signed.Abs(),
		Direction:   models.DirectionOf(signed),
		TxType:      strings.TrimSpace(txType),
	}, true
}

// amountCleaner strips currency symbols, thousands separators and the
// parenthesis notation some exports use around negative values.
var amountCleaner = strings.NewReplacer(
	"$", "",
	"£", "",
	"€", "",
	",", "",
	"(", "",
	")", "",
	" ", "",
)

// ParseAmount parses a raw amount field into a signed decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	clean := amountCleaner.Replace(strings.TrimSpace(raw))
	return decimal.NewFromString(clean)
}

// lookup resolves a field by trying the known header variants, first with an
// exact match and then case-insensitively against every header in the row.
func lookup(row RawRow, variants []string) (string, bool) {
	for _, name := range variants {
		if v, ok := row[name]; ok {
			return v, true
		}
	}
	for _, name := range variants {
		for header, v := range row {
			if strings.EqualFold(strings.TrimSpace(header), name) {
				return v, true
			}
		}
	}
	return "", false
}
