package wizard

import "math"

// Total derives the trip total from the current selections, each charged per
// member: the package tier (or the legacy flat per-person price when no tier
// sub-object exists), the chosen train class, and every selected add-on.
// Absent selections and zero-coerced prices contribute 0, never NaN.
// INVARIANT: Draft fields are not mutated
func Total(d *Draft) float64 {
	n := float64(len(d.Members))
	var total float64

	if p := d.SelectedPackage; p != nil {
		if p.SelectedPricing != nil {
			total += p.SelectedPricing.PerPersonPrice * n
		} else {
			total += p.LegacyPricePerPerson * n
		}
	}
	if t := d.SelectedTrain; t != nil && t.SelectedClass != nil {
		total += t.SelectedClass.Price * n
	}
	for _, a := range d.SelectedAddOns {
		total += a.Price * n
	}
	return total
}

// AdvanceAmount computes the partial up-front payment. It is defined only
// for percentages strictly between 0 and 100; for 0, 100, or anything
// outside that range the full total is due and ok is false.
func AdvanceAmount(total, percentage float64) (amount float64, ok bool) {
	if math.IsNaN(percentage) || percentage <= 0 || percentage >= 100 {
		return 0, false
	}
	return math.Round(total * percentage / 100), true
}
