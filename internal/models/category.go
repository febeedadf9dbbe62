package models

// Business category names. The vocabulary is closed: both classification
// strategies must only ever emit labels from this set, so rule files and
// prompts reference these constants rather than redefining strings.
const (
	CategoryReimbursements = "Reimbursements"
	CategoryPayroll        = "Payroll"
	CategoryVendorPayments = "Vendor Payments"
	CategoryEquityFunding  = "Equity or Funding Proceeds"
	CategoryCustomer       = "Customer Receipts"
	CategoryOtherMisc      = "Other / Misc"

	// CategoryUncategorized labels transactions that reach reporting without
	// a category. It is a display default, not part of the vocabulary.
	CategoryUncategorized = "Uncategorized"
)

// DefaultCategories is the closed vocabulary in display order.
var DefaultCategories = []string{
	CategoryReimbursements,
	CategoryPayroll,
	CategoryVendorPayments,
	CategoryEquityFunding,
	CategoryCustomer,
	CategoryOtherMisc,
}
