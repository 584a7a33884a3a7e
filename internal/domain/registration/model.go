package registration

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Business rule constants
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	MinAge = 1
	MaxAge = 120
)

// Registration status constants
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrAlreadyConfirmed = errors.New("registration is already confirmed")
	ErrAlreadyCancelled = errors.New("registration is already cancelled")
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidMobile reports whether s is exactly 10 digits.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// Member is one pilgrim on a registration.
type Member struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	City         string `json:"city,omitempty"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is populated
// POST: Returns the first violated rule as an error, nil if valid
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("member name cannot be empty")
	}
	if m.Age < MinAge || m.Age > MaxAge {
		return errors.New("member age must be between 1 and 120")
	}
	if m.Gender != GenderMale && m.Gender != GenderFemale && m.Gender != GenderOther {
		return errors.New("member gender must be 'Male', 'Female', or 'Other'")
	}
	if m.MobileNumber != "" && !ValidMobile(m.MobileNumber) {
		return errors.New("member mobile number must be exactly 10 digits")
	}
	return nil
}

// TrainChoice is the resolved train selection, denormalized at submission:
// only the chosen class and stations, never the route catalog.
type TrainChoice struct {
	Name             string  `json:"name"`
	Number           string  `json:"number"`
	BoardingStation  string  `json:"boardingStation"`
	AlightingStation string  `json:"alightingStation"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
}

// PackageChoice is the resolved accommodation package selection.
type PackageChoice struct {
	Name           string  `json:"name"`
	TierType       string  `json:"tierType"`
	PerPersonPrice float64 `json:"perPersonPrice"`
	TotalCost      float64 `json:"totalCost"`
}

// AddOnChoice is one selected optional extra, charged per member.
type AddOnChoice struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Registration holds a submitted booking for one offering.
type Registration struct {
	ID         string
	OfferingID string
	Email      string
	Phone      string
	Members    []Member

	SameRoomPreference bool
	WantsTrainBooking  bool
	AccommodationNotes string

	Train   *TrainChoice
	Package *PackageChoice
	AddOns  []AddOnChoice

	TotalAmount           float64
	IsAdvancePayment      bool
	AdvancedPaymentAmount float64

	PaymentScreenshotPath string
	MemberDocumentPaths   []string
	Suggestions           string

	Status    string
	CreatedAt time.Time
}

// Validate checks if the Registration has valid data.
// PRE: Registration struct is populated
// POST: Returns the first violated rule as an error, nil if valid
func (r *Registration) Validate() error {
	if r.OfferingID == "" {
		return errors.New("registration must reference an offering")
	}
	if !ValidEmail(r.Email) {
		return errors.New("contact email must be valid")
	}
	if !ValidMobile(r.Phone) {
		return errors.New("contact phone must be exactly 10 digits")
	}
	if len(r.Members) < 1 {
		return errors.New("registration must have at least one member")
	}
	for i := range r.Members {
		if err := r.Members[i].Validate(); err != nil {
			return err
		}
	}
	if r.Status != StatusPending && r.Status != StatusConfirmed && r.Status != StatusCancelled {
		return errors.New("status must be 'pending', 'confirmed', or 'cancelled'")
	}
	if r.TotalAmount < 0 {
		return errors.New("total amount cannot be negative")
	}
	return nil
}

// Confirm marks the registration as confirmed by an organizer.
// PRE: Registration is pending
// POST: Status is set to confirmed
func (r *Registration) Confirm() error {
	if r.Status == StatusConfirmed {
		return ErrAlreadyConfirmed
	}
	r.Status = StatusConfirmed
	return nil
}

// Cancel marks the registration as cancelled.
// PRE: Registration is not already cancelled
// POST: Status is set to cancelled
func (r *Registration) Cancel() error {
	if r.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	r.Status = StatusCancelled
	return nil
}

// HeadCount returns the number of pilgrims on this registration.
// INVARIANT: Registration fields are not mutated
func (r *Registration) HeadCount() int {
	return len(r.Members)
}

// AmountDue returns the amount payable up front: the advance amount when an
// advance applies, otherwise the full total.
// INVARIANT: Registration fields are not mutated
func (r *Registration) AmountDue() float64 {
	if r.IsAdvancePayment {
		return r.AdvancedPaymentAmount
	}
	return r.TotalAmount
}
