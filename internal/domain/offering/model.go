package offering

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 200
)

// Offering status constants
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusClosed    = "closed"
)

// Domain errors
var (
	ErrAlreadyPublished = errors.New("offering is already published")
	ErrNotPublished     = errors.New("offering is not published")
)

// Rupees is a price field that tolerates sloppy upstream data: JSON numbers,
// numeric strings, and garbage all decode, with anything unparseable
// coercing to 0 rather than failing the whole document.
type Rupees float64

// UnmarshalJSON decodes a number, a numeric string, or anything else as 0.
func (r *Rupees) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Rupees(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Rupees(ParseAmount(s))
		return nil
	}
	*r = 0
	return nil
}

// ParseAmount converts a free-form amount string to a float, returning 0 for
// anything that does not parse cleanly.
func ParseAmount(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return n
}

// ClassPrice is one travel class with its per-person fare.
type ClassPrice struct {
	Category string `json:"category"`
	Price    Rupees `json:"price"`
}

// Route is a boarding/alighting station pair with its class fares.
// Fare lookup requires an exact station-pair match.
type Route struct {
	BoardingStation  string       `json:"boardingStation"`
	AlightingStation string       `json:"alightingStation"`
	Classes          []ClassPrice `json:"classes"`
}

// TrainOffering is one train option on a pilgrimage, with its route catalog.
type TrainOffering struct {
	Name   string  `json:"name"`
	Number string  `json:"number"`
	Routes []Route `json:"routes"`
}

// FindRoute returns the route matching the exact station pair, if any.
// INVARIANT: TrainOffering fields are not mutated
func (t *TrainOffering) FindRoute(boarding, alighting string) (Route, bool) {
	for _, rt := range t.Routes {
		if rt.BoardingStation == boarding && rt.AlightingStation == alighting {
			return rt, true
		}
	}
	return Route{}, false
}

// Tier is a named pricing option within a package (e.g. "Double Sharing").
type Tier struct {
	Type           string `json:"tierType"`
	PerPersonPrice Rupees `json:"perPersonPrice"`
}

// PackageOffering is one accommodation package. PricePerPerson is the legacy
// flat price used by older offering records that predate tiered pricing;
// when tiers exist they are authoritative.
type PackageOffering struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Tiers          []Tier `json:"tiers,omitempty"`
	PricePerPerson Rupees `json:"pricePerPerson,omitempty"`
}

// FindTier returns the tier with the given type, if any.
// INVARIANT: PackageOffering fields are not mutated
func (p *PackageOffering) FindTier(tierType string) (Tier, bool) {
	for _, t := range p.Tiers {
		if t.Type == tierType {
			return t, true
		}
	}
	return Tier{}, false
}

// AddOnOffering is an optional extra charged per member.
type AddOnOffering struct {
	Name        string `json:"name"`
	Price       Rupees `json:"price"`
	Description string `json:"description,omitempty"`
}

// Offering holds state for one pilgrimage trip that registrations are
// collected against. The wizard treats it as an immutable snapshot.
type Offering struct {
	ID                       string            `json:"id"`
	Title                    string            `json:"title"`
	ImageURL                 string            `json:"imageUrl"`
	DisplayDate              string            `json:"displayDate"`
	Location                 string            `json:"location"`
	Duration                 string            `json:"duration"`
	Eligibility              string            `json:"eligibility"`
	Description              string            `json:"description"`
	TicketPriceText          string            `json:"ticketPriceText"`
	AdvancePaymentPercentage Rupees            `json:"advancePaymentPercentage"`
	Trains                   []TrainOffering   `json:"trains,omitempty"`
	Packages                 []PackageOffering `json:"packages,omitempty"`
	AddOns                   []AddOnOffering   `json:"addOns,omitempty"`
	Status                   string            `json:"status"`
	CreatedAt                time.Time         `json:"createdAt"`
}

// Validate checks if the Offering has valid data.
// PRE: Offering struct is populated
// POST: Returns error if validation fails, nil otherwise
func (o *Offering) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return errors.New("offering title cannot be empty")
	}
	if len(o.Title) > MaxTitleLength {
		return errors.New("offering title cannot exceed 200 characters")
	}
	if o.Status != StatusDraft && o.Status != StatusPublished && o.Status != StatusClosed {
		return errors.New("status must be 'draft', 'published', or 'closed'")
	}
	pct := float64(o.AdvancePaymentPercentage)
	if pct < 0 || pct >= 100 {
		return errors.New("advance payment percentage must be 0 (disabled) or between 0 and 100")
	}
	for _, t := range o.Trains {
		if strings.TrimSpace(t.Name) == "" {
			return errors.New("train name cannot be empty")
		}
	}
	for _, p := range o.Packages {
		if strings.TrimSpace(p.Name) == "" {
			return errors.New("package name cannot be empty")
		}
	}
	for _, a := range o.AddOns {
		if strings.TrimSpace(a.Name) == "" {
			return errors.New("add-on name cannot be empty")
		}
	}
	return nil
}

// IsPublished returns true if the offering is open for registration.
// INVARIANT: Status field is not mutated
func (o *Offering) IsPublished() bool {
	return o.Status == StatusPublished
}

// HasAdvancePayment returns true if a partial up-front payment applies.
// The advance concept only exists for percentages strictly between 0 and 100.
func (o *Offering) HasAdvancePayment() bool {
	pct := float64(o.AdvancePaymentPercentage)
	return pct > 0 && pct < 100
}

// Publish opens the offering for registration.
// PRE: Offering is not already published
// POST: Status is set to published
func (o *Offering) Publish() error {
	if o.Status == StatusPublished {
		return ErrAlreadyPublished
	}
	o.Status = StatusPublished
	return nil
}

// Close stops further registrations.
// PRE: Offering is published
// POST: Status is set to closed
func (o *Offering) Close() error {
	if o.Status != StatusPublished {
		return ErrNotPublished
	}
	o.Status = StatusClosed
	return nil
}
