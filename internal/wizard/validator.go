package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"yatra/internal/domain/registration"
)

// StepError is a validation failure for one step: the step it occurred on
// and a single human-readable reason. Only the first violated rule is
// reported; rule ordering is fixed and documented on CheckStep.
type StepError struct {
	Step   int
	Reason string
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return e.Reason
}

func stepErr(step int, format string, args ...any) error {
	return &StepError{Step: step, Reason: fmt.Sprintf(format, args...)}
}

// CheckStep validates the draft for one step and returns the first violated
// rule, or nil when the step passes. It never mutates the draft.
//
// Rule order per step:
//   - 1, 4, 5, 6, 8: always pass (step 5 passes even with no train offerings,
//     and train selection stays optional when offerings exist).
//   - 2: contact email format; contact phone exactly 10 digits; then per
//     member in order: name non-blank, age an integer in [1,120], gender set,
//     mobile (when present) exactly 10 digits.
//   - 3: every member has an attached identity document, checked in member
//     order.
//   - 7: a payment screenshot is attached.
func CheckStep(d *Draft, step int) error {
	switch step {
	case StepContact:
		return checkContactAndMembers(d)
	case StepDocuments:
		return checkDocuments(d)
	case StepPayment:
		if d.PaymentScreenshot == nil {
			return stepErr(StepPayment, "please attach a screenshot of your payment")
		}
	}
	return nil
}

func checkContactAndMembers(d *Draft) error {
	if !registration.ValidEmail(d.PrimaryContact.Email) {
		return stepErr(StepContact, "please enter a valid email address")
	}
	if !registration.ValidMobile(d.PrimaryContact.Phone) {
		return stepErr(StepContact, "contact phone number must be exactly 10 digits")
	}
	for i, m := range d.Members {
		if strings.TrimSpace(m.Name) == "" {
			return stepErr(StepContact, "%s: name is required", memberLabel(m, i))
		}
		age, err := strconv.Atoi(strings.TrimSpace(m.Age))
		if err != nil || age < registration.MinAge || age > registration.MaxAge {
			return stepErr(StepContact, "%s: age must be a whole number between 1 and 120", memberLabel(m, i))
		}
		if m.Gender == "" {
			return stepErr(StepContact, "%s: please select a gender", memberLabel(m, i))
		}
		if m.MobileNumber != "" && !registration.ValidMobile(m.MobileNumber) {
			return stepErr(StepContact, "%s: mobile number must be exactly 10 digits", memberLabel(m, i))
		}
	}
	return nil
}

func checkDocuments(d *Draft) error {
	for i, m := range d.Members {
		if m.Aadhaar == nil {
			return stepErr(StepDocuments, "%s: Aadhaar document is required", memberLabel(m, i))
		}
	}
	return nil
}
