package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	storeOffering "yatra/internal/adapters/storage/offering"
	"yatra/internal/domain/offering"

	"github.com/google/uuid"
)

// OfferingStoreForSeed defines the store interface needed by offering seeding.
type OfferingStoreForSeed interface {
	Save(ctx context.Context, o offering.Offering) error
	Count(ctx context.Context, filter storeOffering.ListFilter) (int, error)
}

// SeedOfferingsDeps holds dependencies for SeedOfferings.
type SeedOfferingsDeps struct {
	OfferingStore OfferingStoreForSeed
}

// ExecuteSeedOfferings creates a sample published offering for development.
// It is idempotent — any existing offering means seeding is skipped.
// PRE: Database is migrated; never call in production
// POST: One published offering with trains, packages, and add-ons exists
func ExecuteSeedOfferings(ctx context.Context, deps SeedOfferingsDeps) error {
	count, err := deps.OfferingStore.Count(ctx, storeOffering.ListFilter{})
	if err != nil {
		return fmt.Errorf("seed offerings: counting: %w", err)
	}
	if count > 0 {
		return nil
	}

	o := sampleOffering()
	if err := o.Validate(); err != nil {
		return fmt.Errorf("seed offerings: %w", err)
	}
	if err := deps.OfferingStore.Save(ctx, o); err != nil {
		return fmt.Errorf("seed offerings: save: %w", err)
	}

	slog.Info("seed_event", "event", "offering_seeded", "offering_id", o.ID, "title", o.Title)
	return nil
}

// sampleOffering returns a development fixture exercising every catalog
// shape: tiered and legacy flat-priced packages, a multi-route train, and
// per-member add-ons.
func sampleOffering() offering.Offering {
	return offering.Offering{
		ID:          uuid.New().String(),
		Title:       "Kashi Vishwanath Yatra",
		ImageURL:    "/static/img/kashi.jpg",
		DisplayDate: "15–19 November 2026",
		Location:    "Varanasi, Uttar Pradesh",
		Duration:    "5 days / 4 nights",
		Eligibility: "Open to all devotees aged 1 to 120",
		Description: "A guided pilgrimage to **Kashi Vishwanath** with Ganga aarti,\n" +
			"temple darshan, and an optional Sarnath excursion.\n\n" +
			"- All transfers within Varanasi included\n" +
			"- Vegetarian meals throughout\n",
		TicketPriceText:          "From ₹4,500 per person",
		AdvancePaymentPercentage: 20,
		Trains: []offering.TrainOffering{
			{
				Name:   "Mahanagari Express",
				Number: "11094",
				Routes: []offering.Route{
					{
						BoardingStation:  "Mumbai CSMT",
						AlightingStation: "Varanasi Jn",
						Classes: []offering.ClassPrice{
							{Category: "Sleeper", Price: 540},
							{Category: "3A", Price: 1420},
							{Category: "2A", Price: 2080},
						},
					},
					{
						BoardingStation:  "Nashik Road",
						AlightingStation: "Varanasi Jn",
						Classes: []offering.ClassPrice{
							{Category: "Sleeper", Price: 480},
							{Category: "3A", Price: 1260},
						},
					},
				},
			},
		},
		Packages: []offering.PackageOffering{
			{
				Name:        "Standard Dharamshala",
				Description: "Shared rooms near the ghats, *walking distance* to the temple.",
				Tiers: []offering.Tier{
					{Type: "Double Sharing", PerPersonPrice: 2700},
					{Type: "Triple Sharing", PerPersonPrice: 2200},
				},
			},
			{
				Name:           "Budget Hall",
				Description:    "Dormitory accommodation with common facilities.",
				PricePerPerson: 900,
			},
		},
		AddOns: []offering.AddOnOffering{
			{Name: "Sarnath Excursion", Price: 350, Description: "Half-day guided visit"},
			{Name: "VIP Darshan Pass", Price: 500},
		},
		Status:    offering.StatusPublished,
		CreatedAt: time.Now(),
	}
}
