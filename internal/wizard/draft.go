// Package wizard implements the multi-step registration flow a pilgrim walks
// through for one offering: the draft aggregate, step sequencing, per-step
// validation, price aggregation, local draft persistence, and the final
// submission to the booking API.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"yatra/internal/domain/offering"
)

// Domain errors
var (
	ErrLastMember       = errors.New("a registration must keep at least one member")
	ErrMemberIndex      = errors.New("no member at that position")
	ErrNoTrainSelected  = errors.New("no train has been selected")
	ErrStationsNotSet   = errors.New("choose boarding and alighting stations before a class")
	ErrNoMatchingRoute  = errors.New("this train has no route between the chosen stations")
	ErrUnknownClass     = errors.New("the chosen class is not offered on this route")
	ErrUnknownTier      = errors.New("the chosen pricing tier does not exist on this package")
)

// FileAttachment is an opaque uploaded file held in memory. Attachments are
// never serialized into draft snapshots.
type FileAttachment struct {
	Filename string
	Content  []byte
}

// Contact is the single primary contact for a registration.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Member is one pilgrim as entered on the form. Age is kept as the raw form
// value and parsed during validation.
type Member struct {
	Name         string          `json:"name"`
	Age          string          `json:"age"`
	Gender       string          `json:"gender"`
	MobileNumber string          `json:"mobileNumber,omitempty"`
	City         string          `json:"city,omitempty"`
	Aadhaar      *FileAttachment `json:"-"`
}

// Accommodation holds the room and travel preferences collected at step 4.
type Accommodation struct {
	SameRoomPreference bool   `json:"sameRoomPreference"`
	WantsTrainBooking  bool   `json:"wantsTrainBooking"`
	Notes              string `json:"notes,omitempty"`
}

// ClassChoice is the travel class picked for a train route.
type ClassChoice struct {
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// TrainSelection tracks an in-progress train choice. SelectedClass is only
// set once both stations are chosen and an exact matching route exists;
// changing either station clears it.
type TrainSelection struct {
	Name             string       `json:"name"`
	Number           string       `json:"number"`
	BoardingStation  string       `json:"boardingStation,omitempty"`
	AlightingStation string       `json:"alightingStation,omitempty"`
	SelectedClass    *ClassChoice `json:"selectedClass,omitempty"`
}

// TierChoice is the pricing tier picked within a package.
type TierChoice struct {
	TierType       string  `json:"tierType"`
	PerPersonPrice float64 `json:"perPersonPrice"`
}

// PackageSelection tracks the single active accommodation package. For legacy
// packages without tiers, SelectedPricing is nil and LegacyPricePerPerson
// carries the flat rate. When both could apply, the tier is authoritative.
type PackageSelection struct {
	PackageName          string      `json:"packageName"`
	Description          string      `json:"description,omitempty"`
	SelectedPricing      *TierChoice `json:"selectedPricing,omitempty"`
	LegacyPricePerPerson float64     `json:"pricePerPerson,omitempty"`
}

// AddOnSelection is one toggled-on optional extra, keyed by name.
type AddOnSelection struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Draft is the mutable registration being filled out by one user for one
// offering. It is exclusively owned by one wizard session; all mutation goes
// through its methods.
type Draft struct {
	CurrentStep       int               `json:"currentStep"`
	PrimaryContact    Contact           `json:"primaryContact"`
	Members           []Member          `json:"members"`
	Accommodation     Accommodation     `json:"accommodation"`
	SelectedTrain     *TrainSelection   `json:"selectedTrain,omitempty"`
	SelectedPackage   *PackageSelection `json:"selectedPackage,omitempty"`
	SelectedAddOns    []AddOnSelection  `json:"selectedAddOns,omitempty"`
	PaymentScreenshot *FileAttachment   `json:"-"`
	Suggestions       string            `json:"suggestions,omitempty"`
}

// NewDraft creates a draft in its pristine initial shape: step 1, empty
// contact, exactly one blank member.
func NewDraft() *Draft {
	return &Draft{
		CurrentStep: StepInfo,
		Members:     []Member{{}},
	}
}

// IsPristine reports whether the draft is still in its exact initial shape.
// Pristine drafts are never persisted, so a freshly initialized wizard cannot
// clobber a just-restored snapshot.
func (d *Draft) IsPristine() bool {
	return d.CurrentStep == StepInfo &&
		d.PrimaryContact == (Contact{}) &&
		len(d.Members) == 1 &&
		d.Members[0] == (Member{}) &&
		d.Accommodation == (Accommodation{}) &&
		d.SelectedTrain == nil &&
		d.SelectedPackage == nil &&
		len(d.SelectedAddOns) == 0 &&
		d.PaymentScreenshot == nil &&
		d.Suggestions == ""
}

// MemberCount returns the number of members on the draft.
func (d *Draft) MemberCount() int {
	return len(d.Members)
}

// AddMember appends a new blank member.
// POST: Members grows by one
func (d *Draft) AddMember() {
	d.Members = append(d.Members, Member{})
}

// RemoveMember removes the member at position i.
// PRE: i is a valid index and at least two members exist
// POST: Members shrinks by one; the last member can never be removed
func (d *Draft) RemoveMember(i int) error {
	if i < 0 || i >= len(d.Members) {
		return ErrMemberIndex
	}
	if len(d.Members) == 1 {
		return ErrLastMember
	}
	d.Members = append(d.Members[:i], d.Members[i+1:]...)
	return nil
}

// AttachMemberDocument attaches an identity document to the member at i.
// PRE: i is a valid index
func (d *Draft) AttachMemberDocument(i int, f *FileAttachment) error {
	if i < 0 || i >= len(d.Members) {
		return ErrMemberIndex
	}
	d.Members[i].Aadhaar = f
	return nil
}

// AttachPaymentScreenshot records the uploaded payment evidence.
func (d *Draft) AttachPaymentScreenshot(f *FileAttachment) {
	d.PaymentScreenshot = f
}

// SetWantsTrainBooking records the train booking preference. Declining the
// booking discards any train selection: a train can only be present while
// the pilgrim wants one, so a declined train is never billed or submitted.
func (d *Draft) SetWantsTrainBooking(v bool) {
	d.Accommodation.WantsTrainBooking = v
	if !v {
		d.SelectedTrain = nil
	}
}

// ChooseTrain starts a train selection for the given offering train.
// Choosing a different train discards any prior stations and class.
func (d *Draft) ChooseTrain(t offering.TrainOffering) {
	if d.SelectedTrain != nil && d.SelectedTrain.Name == t.Name && d.SelectedTrain.Number == t.Number {
		return
	}
	d.SelectedTrain = &TrainSelection{Name: t.Name, Number: t.Number}
}

// ClearTrain discards the train selection entirely.
func (d *Draft) ClearTrain() {
	d.SelectedTrain = nil
}

// SetBoardingStation sets the boarding station on the current train selection.
// PRE: a train has been chosen
// POST: boarding station updated; any chosen class is cleared
func (d *Draft) SetBoardingStation(station string) error {
	if d.SelectedTrain == nil {
		return ErrNoTrainSelected
	}
	if d.SelectedTrain.BoardingStation != station {
		d.SelectedTrain.BoardingStation = station
		d.SelectedTrain.SelectedClass = nil
	}
	return nil
}

// SetAlightingStation sets the alighting station on the current train selection.
// PRE: a train has been chosen
// POST: alighting station updated; any chosen class is cleared
func (d *Draft) SetAlightingStation(station string) error {
	if d.SelectedTrain == nil {
		return ErrNoTrainSelected
	}
	if d.SelectedTrain.AlightingStation != station {
		d.SelectedTrain.AlightingStation = station
		d.SelectedTrain.SelectedClass = nil
	}
	return nil
}

// SelectClass picks a travel class for the current train selection.
// PRE: a train is chosen, both stations are set, and t carries the route catalog
// POST: SelectedClass holds the category and fare from the exact matching route
func (d *Draft) SelectClass(t offering.TrainOffering, category string) error {
	sel := d.SelectedTrain
	if sel == nil || sel.Name != t.Name || sel.Number != t.Number {
		return ErrNoTrainSelected
	}
	if sel.BoardingStation == "" || sel.AlightingStation == "" {
		return ErrStationsNotSet
	}
	route, ok := t.FindRoute(sel.BoardingStation, sel.AlightingStation)
	if !ok {
		return ErrNoMatchingRoute
	}
	for _, c := range route.Classes {
		if c.Category == category {
			sel.SelectedClass = &ClassChoice{Category: c.Category, Price: float64(c.Price)}
			return nil
		}
	}
	return ErrUnknownClass
}

// SelectPackage picks an accommodation package, replacing any prior selection.
// For tiered packages tierType must name an existing tier; legacy packages
// without tiers ignore tierType and carry the flat per-person price.
func (d *Draft) SelectPackage(p offering.PackageOffering, tierType string) error {
	sel := &PackageSelection{
		PackageName: p.Name,
		Description: p.Description,
	}
	if len(p.Tiers) > 0 {
		tier, ok := p.FindTier(tierType)
		if !ok {
			return ErrUnknownTier
		}
		sel.SelectedPricing = &TierChoice{TierType: tier.Type, PerPersonPrice: float64(tier.PerPersonPrice)}
	} else {
		sel.LegacyPricePerPerson = float64(p.PricePerPerson)
	}
	d.SelectedPackage = sel
	return nil
}

// ClearPackage discards the package selection.
func (d *Draft) ClearPackage() {
	d.SelectedPackage = nil
}

// ToggleAddOn flips the add-on with the given name: present means removed,
// absent means added. Toggling is idempotent per state and keyed by name.
func (d *Draft) ToggleAddOn(a offering.AddOnOffering) {
	for i, sel := range d.SelectedAddOns {
		if sel.Name == a.Name {
			d.SelectedAddOns = append(d.SelectedAddOns[:i], d.SelectedAddOns[i+1:]...)
			return
		}
	}
	d.SelectedAddOns = append(d.SelectedAddOns, AddOnSelection{
		Name:        a.Name,
		Price:       float64(a.Price),
		Description: a.Description,
	})
}

// HasAddOn reports whether the named add-on is currently selected.
func (d *Draft) HasAddOn(name string) bool {
	for _, sel := range d.SelectedAddOns {
		if sel.Name == name {
			return true
		}
	}
	return false
}

// memberLabel names a member for validation messages: the entered name, or
// "Member N" when the name is still blank.
func memberLabel(m Member, i int) string {
	if strings.TrimSpace(m.Name) != "" {
		return m.Name
	}
	return fmt.Sprintf("Member %d", i+1)
}
