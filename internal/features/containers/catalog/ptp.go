package catalog

// PTPAvailableRule derives availability from the terminal status: a container
// still on the vessel is never available; one in the yard is available unless
// any hold indicator reads HOLD. Other statuses leave the field untouched.
type PTPAvailableRule struct{}

// Apply implements Rule.
func (PTPAvailableRule) Apply(raw map[string]any, mapped map[string]any) {
	switch getString(raw, "Status") {
	case "ON VESSEL":
		mapped["available"] = "NO"
	case "IN YARD":
		holds := []string{
			getString(raw, "Freight"),
			getString(raw, "Customs"),
			getString(raw, "Hold"),
		}
		mapped["available"] = "YES"
		for _, h := range holds {
			if h == "HOLD" {
				mapped["available"] = "NO"
				break
			}
		}
	}
}

// PTPDemurrageRule flags demurrage past the good-through date when no carrier
// status has been recorded.
type PTPDemurrageRule struct{}

// Apply implements Rule.
func (PTPDemurrageRule) Apply(raw map[string]any, mapped map[string]any) {
	currentDate := getString(raw, "LocalDateTime")
	goodThru := getString(raw, "GoodThru")
	carrierStatus := getString(raw, "CarrierStatus")
	if carrierStatus == "" {
		carrierStatus = sentinel
	}

	if currentDate > goodThru && carrierStatus == sentinel {
		mapped["demurrage_amount"] = "YES"
	} else {
		mapped["demurrage_amount"] = "NO"
	}
}

// PTPHoldsRule flags holds when any of customs, freight, or the miscellaneous
// hold indicator reads HOLD.
type PTPHoldsRule struct{}

// Apply implements Rule.
func (PTPHoldsRule) Apply(raw map[string]any, mapped map[string]any) {
	if getString(raw, "Customs") == "HOLD" ||
		getString(raw, "Freight") == "HOLD" ||
		getString(raw, "Hold") == "HOLD" {
		mapped["holds"] = "YES"
	} else {
		mapped["holds"] = "NO"
	}
}

// PTPDepartedTerminalRule marks the yard release status when a departure
// carrier has been recorded.
type PTPDepartedTerminalRule struct{}

// Apply implements Rule.
func (PTPDepartedTerminalRule) Apply(raw map[string]any, mapped map[string]any) {
	carrier := getString(raw, "DepartureCarrier")
	if carrier != "" && carrier != sentinel {
		mapped["yard_terminal_release_status"] = "YES"
	} else {
		mapped["yard_terminal_release_status"] = "NO"
	}
}

// PTPTransitStateRule copies the terminal status into the transit state.
type PTPTransitStateRule struct{}

// Apply implements Rule.
func (PTPTransitStateRule) Apply(raw map[string]any, mapped map[string]any) {
	if status := getString(raw, "Status"); status != "" {
		mapped["transit_state"] = status
	} else {
		mapped["transit_state"] = sentinel
	}
}

// PTPUSDAStatusRule pulls the USDA status from the customs hold entry.
type PTPUSDAStatusRule struct{}

// Apply implements Rule.
func (PTPUSDAStatusRule) Apply(raw map[string]any, mapped map[string]any) {
	mapped["usda_status"] = holdStatus(raw, "CUSTOMS")
}

// PTPLastFreeDateRule pulls the last free date from the current condition info.
type PTPLastFreeDateRule struct{}

// Apply implements Rule.
func (PTPLastFreeDateRule) Apply(raw map[string]any, mapped map[string]any) {
	mapped["last_free_date"] = conditionInfo(raw, "lastfree_dttm")
}

// PTPLocationRule pulls the yard location from the current condition info.
type PTPLocationRule struct{}

// Apply implements Rule.
func (PTPLocationRule) Apply(raw map[string]any, mapped map[string]any) {
	mapped["location"] = conditionInfo(raw, "yard_loc")
}

// PTPCustomReleaseStatusRule pulls the customs release from the hold entries.
type PTPCustomReleaseStatusRule struct{}

// Apply implements Rule.
func (PTPCustomReleaseStatusRule) Apply(raw map[string]any, mapped map[string]any) {
	mapped["custom_release_status"] = holdStatus(raw, "CUSTOMS")
}

// PTPCarrierReleaseStatusRule pulls the freight release from the hold entries.
type PTPCarrierReleaseStatusRule struct{}

// Apply implements Rule.
func (PTPCarrierReleaseStatusRule) Apply(raw map[string]any, mapped map[string]any) {
	mapped["carrier_release_status"] = holdStatus(raw, "FREIGHT")
}
