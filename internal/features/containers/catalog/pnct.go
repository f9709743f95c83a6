package catalog

// PNCTAvailableRule derives availability from the PNCT numeric code; 2 means
// the container is ready for pickup.
type PNCTAvailableRule struct{}

// Apply implements Rule.
func (PNCTAvailableRule) Apply(raw map[string]any, mapped map[string]any) {
	if getNumber(raw, "Available") == 2 {
		mapped["available"] = "YES"
	} else {
		mapped["available"] = "NO"
	}
}

// PNCTDemurrageRule flags demurrage when the terminal reports any owed amount.
type PNCTDemurrageRule struct{}

// Apply implements Rule.
func (PNCTDemurrageRule) Apply(raw map[string]any, mapped map[string]any) {
	if getNumber(raw, "DemurrageAmount") > 0 {
		mapped["demurrage_amount"] = "YES"
	} else {
		mapped["demurrage_amount"] = "NO"
	}
}

// PNCTChargesRule totals terminal and line demurrage into a single charge.
type PNCTChargesRule struct{}

// Apply implements Rule.
func (PNCTChargesRule) Apply(raw map[string]any, mapped map[string]any) {
	terminalAmt := getNumber(raw, "DemurrageAmount")
	lineAmt := getNumber(raw, "LineDemurrageAmount")
	mapped["charges"] = terminalAmt + lineAmt
}

// PNCTHoldsRule flags holds when any of the customs, carrier, or miscellaneous
// release indicators reads HOLD.
type PNCTHoldsRule struct{}

// Apply implements Rule.
func (PNCTHoldsRule) Apply(raw map[string]any, mapped map[string]any) {
	if getString(raw, "CustomReleaseStatus") == "HOLD" ||
		getString(raw, "CarrierReleaseStatus") == "HOLD" ||
		getString(raw, "MiscHoldStatus") == "HOLD" {
		mapped["holds"] = "YES"
	} else {
		mapped["holds"] = "NO"
	}
}

// PNCTTypeCodeRule copies the size/type/height code.
type PNCTTypeCodeRule struct{}

// Apply implements Rule.
func (PNCTTypeCodeRule) Apply(raw map[string]any, mapped map[string]any) {
	mapped["type_code"] = getString(raw, "SizeTypeHeight")
}
