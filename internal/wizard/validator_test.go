package wizard

import (
	"errors"
	"strings"
	"testing"
)

// validDraft returns a draft satisfying steps 2, 3, and 7.
func validDraft() *Draft {
	d := NewDraft()
	completedContact(d)
	completedDocuments(d)
	d.AttachPaymentScreenshot(&FileAttachment{Filename: "upi.png", Content: []byte("x")})
	return d
}

// TestCheckStep_AlwaysPassingSteps tests that the structural steps never fail.
func TestCheckStep_AlwaysPassingSteps(t *testing.T) {
	d := NewDraft() // completely empty
	for _, step := range []int{StepInfo, StepAccommodation, StepTrain, StepPackage, StepReview} {
		if err := CheckStep(d, step); err != nil {
			t.Errorf("step %d: expected pass on an empty draft, got %v", step, err)
		}
	}
}

// TestCheckStep_ContactRuleOrder tests that step 2 reports the first violated
// rule in its fixed order.
func TestCheckStep_ContactRuleOrder(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(d *Draft)
		wantReason string
	}{
		{
			name:       "bad email reported before bad phone",
			mutate:     func(d *Draft) { d.PrimaryContact = Contact{Email: "nope", Phone: "12"} },
			wantReason: "valid email",
		},
		{
			name: "bad phone reported before member issues",
			mutate: func(d *Draft) {
				d.PrimaryContact.Phone = "12345"
			},
			wantReason: "contact phone",
		},
		{
			name: "blank member name",
			mutate: func(d *Draft) {
				d.Members[0].Name = " "
			},
			wantReason: "Member 1: name is required",
		},
		{
			name: "age not a number",
			mutate: func(d *Draft) {
				d.Members[0].Age = "forty"
			},
			wantReason: "age must be a whole number",
		},
		{
			name: "age out of range",
			mutate: func(d *Draft) {
				d.Members[0].Age = "121"
			},
			wantReason: "age must be a whole number",
		},
		{
			name: "missing gender",
			mutate: func(d *Draft) {
				d.Members[0].Gender = ""
			},
			wantReason: "select a gender",
		},
		{
			name: "bad member mobile",
			mutate: func(d *Draft) {
				d.Members[0].MobileNumber = "98765"
			},
			wantReason: "mobile number must be exactly 10 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			err := CheckStep(d, StepContact)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantReason) {
				t.Errorf("expected reason containing %q, got %q", tt.wantReason, err.Error())
			}
		})
	}
}

// TestCheckStep_Deterministic tests that repeated checks on the same draft
// report the same first failure.
func TestCheckStep_Deterministic(t *testing.T) {
	d := validDraft()
	d.Members[0].Name = ""
	d.Members[0].Gender = "" // two violations on the same member

	first := CheckStep(d, StepContact).Error()
	for i := 0; i < 5; i++ {
		if got := CheckStep(d, StepContact).Error(); got != first {
			t.Fatalf("run %d: expected %q, got %q", i, first, got)
		}
	}
	if !strings.Contains(first, "name is required") {
		t.Errorf("expected the name rule to win, got %q", first)
	}
}

// TestCheckStep_MemberNameInMessage tests that a named member is identified by
// name, not position.
func TestCheckStep_MemberNameInMessage(t *testing.T) {
	d := validDraft()
	d.AddMember()
	d.Members[1] = Member{Name: "Ravi", Age: "abc", Gender: "Male"}

	err := CheckStep(d, StepContact)
	if err == nil || !strings.Contains(err.Error(), "Ravi:") {
		t.Errorf("expected message naming Ravi, got %v", err)
	}
}

// TestCheckStep_Documents tests that step 3 demands a document per member, in order.
func TestCheckStep_Documents(t *testing.T) {
	d := validDraft()
	d.AddMember()
	d.Members[1] = Member{Name: "Ravi", Age: "30", Gender: "Male"}

	err := CheckStep(d, StepDocuments)
	if err == nil || !strings.Contains(err.Error(), "Ravi: Aadhaar document is required") {
		t.Errorf("expected missing document for Ravi, got %v", err)
	}

	d.Members[1].Aadhaar = &FileAttachment{Filename: "a.jpg", Content: []byte("x")}
	if err := CheckStep(d, StepDocuments); err != nil {
		t.Errorf("expected pass with all documents attached, got %v", err)
	}
}

// TestCheckStep_Payment tests the screenshot requirement on step 7.
func TestCheckStep_Payment(t *testing.T) {
	d := validDraft()
	d.PaymentScreenshot = nil
	if err := CheckStep(d, StepPayment); err == nil {
		t.Fatal("expected error with no payment screenshot")
	}
	d.AttachPaymentScreenshot(&FileAttachment{Filename: "upi.png", Content: []byte("x")})
	if err := CheckStep(d, StepPayment); err != nil {
		t.Errorf("expected pass, got %v", err)
	}
}

// TestStepError_CarriesStep tests the step metadata on validation failures.
func TestStepError_CarriesStep(t *testing.T) {
	d := NewDraft()
	err := CheckStep(d, StepContact)
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if se.Step != StepContact {
		t.Errorf("expected step %d, got %d", StepContact, se.Step)
	}
}
