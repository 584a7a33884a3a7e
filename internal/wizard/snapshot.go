package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Session lifecycle states. Draft writes are only permitted in ready: the
// explicit machine replaces the implicit restore-vs-save ordering race of a
// boolean "initial load" flag.
const (
	StateUninitialized = "uninitialized"
	StateRestoring     = "restoring"
	StateReady         = "ready"
)

var lifecycleTransitions = map[string][]string{
	StateUninitialized: {StateRestoring},
	StateRestoring:     {StateReady},
	StateReady:         {},
}

// DraftStore is the local durability slot for draft snapshots: one value per
// key, overwritten on every qualifying change. Implementations live in
// internal/adapters/draftstore; tests substitute an in-memory store.
type DraftStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// snapshotEnvelope is the read side of the snapshot contract. Every field is
// a pointer so that snapshots written by an older, narrower schema restore
// partially: absent fields stay nil and the in-memory default survives.
type snapshotEnvelope struct {
	CurrentStep     *int               `json:"currentStep"`
	PrimaryContact  *Contact           `json:"primaryContact"`
	Members         *[]Member          `json:"members"`
	Accommodation   *Accommodation     `json:"accommodation"`
	SelectedTrain   *TrainSelection    `json:"selectedTrain"`
	SelectedPackage *PackageSelection  `json:"selectedPackage"`
	SelectedAddOns  *[]AddOnSelection  `json:"selectedAddOns"`
	Suggestions     *string            `json:"suggestions"`
}

// Session owns one Draft for one offering, the store it persists to, and the
// lifecycle machine gating writes.
type Session struct {
	offeringID string
	store      DraftStore
	machine    *fsm.Machine
	Draft      *Draft
}

// NewSession creates an uninitialized wizard session for the given offering.
// Call Restore before editing so a saved draft is not lost.
func NewSession(store DraftStore, offeringID string, handler slog.Handler) (*Session, error) {
	machine, err := fsm.New(handler, StateUninitialized, lifecycleTransitions)
	if err != nil {
		return nil, fmt.Errorf("creating session lifecycle: %w", err)
	}
	return &Session{
		offeringID: offeringID,
		store:      store,
		machine:    machine,
		Draft:      NewDraft(),
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() string {
	return s.machine.GetState()
}

func draftKey(offeringID string) string {
	return "registration-draft:" + offeringID
}

// Restore performs the one-time load of a saved snapshot into the draft and
// moves the session to ready. A missing or unparseable snapshot leaves the
// pristine draft in place; parse failures are logged, never surfaced.
// POST: session is in the ready state
func (s *Session) Restore(ctx context.Context) error {
	if err := s.machine.Transition(StateRestoring); err != nil {
		return fmt.Errorf("restore already performed: %w", err)
	}

	raw, ok, err := s.store.Get(ctx, draftKey(s.offeringID))
	if err != nil {
		slog.Warn("draft_restore_failed", "offering_id", s.offeringID, "error", err)
	} else if ok {
		s.applySnapshot(raw)
	}

	return s.machine.Transition(StateReady)
}

// applySnapshot restores each top-level field independently and only when
// present in the snapshot. Member documents are always cleared: file handles
// cannot survive serialization, so the documents step must be passed again.
func (s *Session) applySnapshot(raw []byte) {
	var env snapshotEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("draft_snapshot_unparseable", "offering_id", s.offeringID, "error", err)
		return
	}

	d := s.Draft
	if env.CurrentStep != nil && *env.CurrentStep >= StepInfo && *env.CurrentStep <= StepReview {
		d.CurrentStep = *env.CurrentStep
	}
	if env.PrimaryContact != nil {
		d.PrimaryContact = *env.PrimaryContact
	}
	if env.Members != nil && len(*env.Members) >= 1 {
		d.Members = *env.Members
		for i := range d.Members {
			d.Members[i].Aadhaar = nil
		}
	}
	if env.Accommodation != nil {
		d.Accommodation = *env.Accommodation
	}
	if env.SelectedTrain != nil {
		d.SelectedTrain = env.SelectedTrain
	}
	if env.SelectedPackage != nil {
		d.SelectedPackage = env.SelectedPackage
	}
	if env.SelectedAddOns != nil {
		d.SelectedAddOns = *env.SelectedAddOns
	}
	if env.Suggestions != nil {
		d.Suggestions = *env.Suggestions
	}
}

// Persist writes the current draft snapshot to the store. Writes are
// suppressed outside the ready state and for the pristine initial shape, so
// neither the restore pass nor a double initialization can overwrite a saved
// draft with defaults. File attachments are excluded from the snapshot.
func (s *Session) Persist(ctx context.Context) error {
	if s.machine.GetState() != StateReady {
		return nil
	}
	if s.Draft.IsPristine() {
		return nil
	}
	raw, err := json.Marshal(s.Draft)
	if err != nil {
		return fmt.Errorf("serializing draft snapshot: %w", err)
	}
	return s.store.Put(ctx, draftKey(s.offeringID), raw)
}

// Close abandons the wizard: the saved snapshot for this offering is removed
// and the draft is discarded. This is a deliberate action, distinct from
// simply navigating away.
func (s *Session) Close(ctx context.Context) error {
	return s.store.Delete(ctx, draftKey(s.offeringID))
}
