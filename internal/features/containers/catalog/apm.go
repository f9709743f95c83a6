package catalog

// APMDemurrageRule flags demurrage when the terminal clock has passed the
// good-through date and the container has not gated out. Dates arrive as
// ISO-formatted strings, so lexical comparison is ordering-correct.
type APMDemurrageRule struct{}

// Apply implements Rule.
func (APMDemurrageRule) Apply(raw map[string]any, mapped map[string]any) {
	currentDate := getString(raw, "LocalDateTime")
	gateOutDate := getString(raw, "GateOutDate")
	goodThru := getString(raw, "GoodThru")

	if currentDate > goodThru && gateOutDate == "" {
		mapped["demurrage_amount"] = "YES"
	} else {
		mapped["demurrage_amount"] = "NO"
	}
}

// APMHoldsRule flags holds when any of the freight, customs, or miscellaneous
// hold indicators reads HOLD.
type APMHoldsRule struct{}

// Apply implements Rule.
func (APMHoldsRule) Apply(raw map[string]any, mapped map[string]any) {
	freight := getString(raw, "Freight")
	customs := getString(raw, "Customs")
	hold := getString(raw, "Hold")

	if freight == "HOLD" || customs == "HOLD" || hold == "HOLD" {
		mapped["holds"] = "YES"
	} else {
		mapped["holds"] = "NO"
	}
}

// APMTransitStateRule fills the transit state from the vessel ETA, but only
// while the container has no yard location yet.
type APMTransitStateRule struct{}

// Apply implements Rule.
func (APMTransitStateRule) Apply(raw map[string]any, mapped map[string]any) {
	if getString(raw, "YardLocation") == "" {
		mapped["transit_state"] = getString(raw, "VesselEta")
	}
}
