package wizard

import (
	"errors"
	"testing"

	"yatra/internal/domain/offering"
)

func testTrain() offering.TrainOffering {
	return offering.TrainOffering{
		Name:   "Mahanagari Express",
		Number: "11094",
		Routes: []offering.Route{
			{
				BoardingStation:  "Mumbai CSMT",
				AlightingStation: "Varanasi Jn",
				Classes: []offering.ClassPrice{
					{Category: "Sleeper", Price: 540},
					{Category: "3A", Price: 1420},
				},
			},
			{
				BoardingStation:  "Nashik Road",
				AlightingStation: "Varanasi Jn",
				Classes: []offering.ClassPrice{
					{Category: "Sleeper", Price: 480},
				},
			},
		},
	}
}

func tieredPackage() offering.PackageOffering {
	return offering.PackageOffering{
		Name: "Standard Dharamshala",
		Tiers: []offering.Tier{
			{Type: "Double Sharing", PerPersonPrice: 2700},
			{Type: "Triple Sharing", PerPersonPrice: 2200},
		},
	}
}

// TestNewDraft_Pristine tests the initial draft shape.
func TestNewDraft_Pristine(t *testing.T) {
	d := NewDraft()
	if d.CurrentStep != StepInfo {
		t.Errorf("expected step %d, got %d", StepInfo, d.CurrentStep)
	}
	if len(d.Members) != 1 {
		t.Fatalf("expected 1 blank member, got %d", len(d.Members))
	}
	if !d.IsPristine() {
		t.Error("expected new draft to be pristine")
	}
}

// TestIsPristine_AfterEdit tests that any edit makes the draft non-pristine.
func TestIsPristine_AfterEdit(t *testing.T) {
	d := NewDraft()
	d.PrimaryContact.Email = "a@b.in"
	if d.IsPristine() {
		t.Error("expected draft with contact email to be non-pristine")
	}

	d = NewDraft()
	d.AddMember()
	if d.IsPristine() {
		t.Error("expected draft with two members to be non-pristine")
	}
}

// TestRemoveMember_LastMemberRefused tests the at-least-one-member invariant.
func TestRemoveMember_LastMemberRefused(t *testing.T) {
	d := NewDraft()
	if err := d.RemoveMember(0); !errors.Is(err, ErrLastMember) {
		t.Errorf("expected ErrLastMember, got %v", err)
	}
	if d.MemberCount() != 1 {
		t.Errorf("expected 1 member after refused removal, got %d", d.MemberCount())
	}

	d.AddMember()
	if err := d.RemoveMember(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.RemoveMember(0); !errors.Is(err, ErrLastMember) {
		t.Errorf("expected ErrLastMember back at one member, got %v", err)
	}
}

// TestRemoveMember_BadIndex tests index bounds.
func TestRemoveMember_BadIndex(t *testing.T) {
	d := NewDraft()
	d.AddMember()
	for _, i := range []int{-1, 2, 99} {
		if err := d.RemoveMember(i); !errors.Is(err, ErrMemberIndex) {
			t.Errorf("index %d: expected ErrMemberIndex, got %v", i, err)
		}
	}
}

// TestStationChange_ClearsClass tests that changing a station invalidates the
// chosen class.
func TestStationChange_ClearsClass(t *testing.T) {
	d := NewDraft()
	train := testTrain()
	d.ChooseTrain(train)
	if err := d.SetBoardingStation("Mumbai CSMT"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetAlightingStation("Varanasi Jn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SelectClass(train, "Sleeper"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SelectedTrain.SelectedClass == nil || d.SelectedTrain.SelectedClass.Price != 540 {
		t.Fatalf("expected Sleeper at 540, got %+v", d.SelectedTrain.SelectedClass)
	}

	if err := d.SetBoardingStation("Nashik Road"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SelectedTrain.SelectedClass != nil {
		t.Error("expected class cleared after boarding station change")
	}

	// Setting the same station again is a no-op and must not clear anything.
	if err := d.SelectClass(train, "Sleeper"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetBoardingStation("Nashik Road"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SelectedTrain.SelectedClass == nil {
		t.Error("expected class kept when station is unchanged")
	}
}

// TestSelectClass_Preconditions tests class selection error paths.
func TestSelectClass_Preconditions(t *testing.T) {
	d := NewDraft()
	train := testTrain()

	if err := d.SelectClass(train, "Sleeper"); !errors.Is(err, ErrNoTrainSelected) {
		t.Errorf("expected ErrNoTrainSelected, got %v", err)
	}

	d.ChooseTrain(train)
	if err := d.SelectClass(train, "Sleeper"); !errors.Is(err, ErrStationsNotSet) {
		t.Errorf("expected ErrStationsNotSet, got %v", err)
	}

	// Station pair with no exact route match
	_ = d.SetBoardingStation("Varanasi Jn")
	_ = d.SetAlightingStation("Mumbai CSMT")
	if err := d.SelectClass(train, "Sleeper"); !errors.Is(err, ErrNoMatchingRoute) {
		t.Errorf("expected ErrNoMatchingRoute for reversed stations, got %v", err)
	}

	_ = d.SetBoardingStation("Nashik Road")
	_ = d.SetAlightingStation("Varanasi Jn")
	if err := d.SelectClass(train, "2A"); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("expected ErrUnknownClass, got %v", err)
	}
}

// TestChooseTrain_SwitchDiscardsProgress tests that choosing a different
// train resets stations and class.
func TestChooseTrain_SwitchDiscardsProgress(t *testing.T) {
	d := NewDraft()
	train := testTrain()
	d.ChooseTrain(train)
	_ = d.SetBoardingStation("Mumbai CSMT")

	// Re-choosing the same train keeps progress.
	d.ChooseTrain(train)
	if d.SelectedTrain.BoardingStation != "Mumbai CSMT" {
		t.Error("expected boarding station kept when re-choosing the same train")
	}

	d.ChooseTrain(offering.TrainOffering{Name: "Kashi Express", Number: "15017"})
	if d.SelectedTrain.BoardingStation != "" || d.SelectedTrain.SelectedClass != nil {
		t.Error("expected stations and class discarded when switching trains")
	}
}

// TestSelectPackage_TierAuthoritative tests tier selection on a package that
// also carries a legacy flat price.
func TestSelectPackage_TierAuthoritative(t *testing.T) {
	d := NewDraft()
	p := tieredPackage()
	p.PricePerPerson = 999 // stale legacy field alongside tiers

	if err := d.SelectPackage(p, "Triple Sharing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel := d.SelectedPackage
	if sel.SelectedPricing == nil || sel.SelectedPricing.PerPersonPrice != 2200 {
		t.Fatalf("expected tier price 2200, got %+v", sel.SelectedPricing)
	}
	if sel.LegacyPricePerPerson != 0 {
		t.Errorf("expected legacy price unset when tiers exist, got %v", sel.LegacyPricePerPerson)
	}
}

// TestSelectPackage_LegacyFlatPrice tests packages without tiers.
func TestSelectPackage_LegacyFlatPrice(t *testing.T) {
	d := NewDraft()
	p := offering.PackageOffering{Name: "Budget Hall", PricePerPerson: 900}

	if err := d.SelectPackage(p, "ignored"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SelectedPackage.SelectedPricing != nil {
		t.Error("expected no tier on a legacy package")
	}
	if d.SelectedPackage.LegacyPricePerPerson != 900 {
		t.Errorf("expected legacy price 900, got %v", d.SelectedPackage.LegacyPricePerPerson)
	}
}

// TestSelectPackage_UnknownTier tests that a bad tier name is rejected and
// the prior selection survives.
func TestSelectPackage_UnknownTier(t *testing.T) {
	d := NewDraft()
	if err := d.SelectPackage(tieredPackage(), "Double Sharing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SelectPackage(tieredPackage(), "Quad Sharing"); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("expected ErrUnknownTier, got %v", err)
	}
	if d.SelectedPackage == nil || d.SelectedPackage.SelectedPricing.TierType != "Double Sharing" {
		t.Error("expected prior selection kept after rejected tier")
	}
}

// TestToggleAddOn tests add-on toggling keyed by name.
func TestToggleAddOn(t *testing.T) {
	d := NewDraft()
	addon := offering.AddOnOffering{Name: "Sarnath Excursion", Price: 350}

	d.ToggleAddOn(addon)
	if !d.HasAddOn("Sarnath Excursion") {
		t.Fatal("expected add-on selected after first toggle")
	}
	d.ToggleAddOn(addon)
	if d.HasAddOn("Sarnath Excursion") {
		t.Fatal("expected add-on removed after second toggle")
	}
}

// TestAttachMemberDocument tests document attachment bounds.
func TestAttachMemberDocument(t *testing.T) {
	d := NewDraft()
	doc := &FileAttachment{Filename: "aadhaar.jpg", Content: []byte("img")}

	if err := d.AttachMemberDocument(1, doc); !errors.Is(err, ErrMemberIndex) {
		t.Errorf("expected ErrMemberIndex, got %v", err)
	}
	if err := d.AttachMemberDocument(0, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Members[0].Aadhaar == nil {
		t.Error("expected document attached to member 0")
	}
}

// TestSetWantsTrainBooking_DiscardsSelection tests that declining the train
// booking drops the train selection, so it neither bills nor ships: a train
// selection only exists while the booking is wanted.
func TestSetWantsTrainBooking_DiscardsSelection(t *testing.T) {
	d := finalDraft()
	d.SelectedTrain.SelectedClass.Price = 300

	d.SetWantsTrainBooking(false)
	if d.SelectedTrain != nil {
		t.Fatal("expected train selection discarded when booking declined")
	}
	// Two members at tier 1000 plus add-on 100 each; no train component.
	if got := Total(d); got != 2200 {
		t.Errorf("expected total 2200 without the train, got %v", got)
	}

	form, err := parsePayload(t, d, advanceOffering())
	if err != nil {
		t.Fatalf("reading form: %v", err)
	}
	defer form.RemoveAll()
	if _, ok := form.Value[FieldSelectedTrain]; ok {
		t.Error("expected selectedTrain omitted after booking declined")
	}
	if got := form.Value[FieldWantsTrainBooking][0]; got != "false" {
		t.Errorf("expected wantsTrainBooking false, got %s", got)
	}

	// Re-enabling the booking does not resurrect the old choice.
	d.SetWantsTrainBooking(true)
	if d.SelectedTrain != nil {
		t.Error("expected no train selection after re-enabling the booking")
	}
}
