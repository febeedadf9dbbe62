// Package models defines the canonical transaction record and the derived
// weekly reporting views shared by the normalizer, categorizer and aggregator.
package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction indicates which way cash moves in a transaction.
type Direction string

const (
	// DirectionInflow increases the cash position.
	DirectionInflow Direction = "inflow"
	// DirectionOutflow decreases the cash position.
	DirectionOutflow Direction = "outflow"
)

// DirectionOf derives the direction from a signed amount. A zero amount
// counts as an inflow, matching the >= 0 convention of bank exports.
func DirectionOf(signed decimal.Decimal) Direction {
	if signed.IsNegative() {
		return DirectionOutflow
	}
	return DirectionInflow
}

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// Signed applies the direction's sign to a magnitude.
func (d Direction) Signed(magnitude decimal.Decimal) decimal.Decimal {
	if d == DirectionOutflow {
		return magnitude.Neg()
	}
	return magnitude
}

// Transaction is the canonical, immutable record produced by normalization.
// Amount is always a non-negative magnitude; the sign lives in Direction.
type Transaction struct {
	Date        Date            `json:"date" csv:"Date"`
	Description string          `json:"description" csv:"Description"`
	Amount      decimal.Decimal `json:"amount" csv:"Amount"`
	Direction   Direction       `json:"direction" csv:"Direction"`
	TxType      string          `json:"txType,omitempty" csv:"Type"`
}

// SignedAmount returns the amount with its original sign restored.
func (t Transaction) SignedAmount() decimal.Decimal {
	return t.Direction.Signed(t.Amount)
}

// Validate checks the canonical-record invariants.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction has no date")
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount %s is negative", t.Amount)
	}
	if !t.Direction.Valid() {
		return fmt.Errorf("transaction direction %q is not inflow or outflow", t.Direction)
	}
	return nil
}

// CategorizedTransaction augments a Transaction with classification output.
// The underlying transaction fields are never modified by classification.
type CategorizedTransaction struct {
	Transaction
	Category   string  `json:"category" csv:"Category"`
	Confidence float64 `json:"confidence" csv:"Confidence"`
}

// Validate checks the classification invariants on top of the transaction ones.
func (t CategorizedTransaction) Validate() error {
	if err := t.Transaction.Validate(); err != nil {
		return err
	}
	if t.Category == "" {
		return fmt.Errorf("transaction has no category")
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", t.Confidence)
	}
	return nil
}
