package wizard

import "errors"

// Wizard steps. The flow is linear except for one conditional skip: step 5
// (train selection) is bypassed entirely when the pilgrim does not want a
// train booking.
const (
	StepInfo          = 1
	StepContact       = 2
	StepDocuments     = 3
	StepAccommodation = 4
	StepTrain         = 5
	StepPackage       = 6
	StepPayment       = 7
	StepReview        = 8

	StepCount = 8
)

// ErrAtFinalStep signals that advance was called on the review step, where
// the only forward action is submission.
var ErrAtFinalStep = errors.New("already at the review step; submit instead")

// Advance moves the draft forward one step, gated on the current step's
// validation. From step 4 with train booking declined, the target is step 6
// and any leftover train selection is dropped.
// PRE: CurrentStep is a valid step id
// POST: CurrentStep advanced on success; unchanged when validation fails
func (d *Draft) Advance() error {
	if d.CurrentStep >= StepReview {
		return ErrAtFinalStep
	}
	if err := CheckStep(d, d.CurrentStep); err != nil {
		return err
	}
	if d.CurrentStep == StepAccommodation && !d.Accommodation.WantsTrainBooking {
		// Taking the skip while a train selection lingers (a restored
		// snapshot, or the preference flipped after step 5) discards it.
		d.SelectedTrain = nil
		d.CurrentStep = StepPackage
		return nil
	}
	d.CurrentStep++
	return nil
}

// Retreat moves the draft back one step. From step 1 it is a no-op; from
// step 6 with train booking declined, the target is step 4, mirroring the
// forward skip.
// POST: CurrentStep is a valid step id
func (d *Draft) Retreat() {
	if d.CurrentStep <= StepInfo {
		return
	}
	if d.CurrentStep == StepPackage && !d.Accommodation.WantsTrainBooking {
		d.CurrentStep = StepAccommodation
		return
	}
	d.CurrentStep--
}
