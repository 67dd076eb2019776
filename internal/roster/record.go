package roster

import "time"

// CakeStatus tracks the cake-preparation workflow for a celebration.
// Transitions are user-triggered only; a date elapsing never moves the status.
type CakeStatus string

const (
	CakeNotOrdered CakeStatus = "not-ordered"
	CakeOrdered    CakeStatus = "ordered"
	CakeReady      CakeStatus = "ready"
	CakeDelivered  CakeStatus = "delivered"
)

// cakeOrder defines the cyclic transition order for Advance.
var cakeOrder = []CakeStatus{CakeNotOrdered, CakeOrdered, CakeReady, CakeDelivered}

// ParseCakeStatus maps a raw string to a CakeStatus.
// Unknown or empty values fall back to CakeNotOrdered; the second return
// reports whether the input was recognized.
func ParseCakeStatus(s string) (CakeStatus, bool) {
	for _, c := range cakeOrder {
		if s == string(c) {
			return c, true
		}
	}
	return CakeNotOrdered, false
}

// Advance returns the next status in the fixed cyclic order
// (delivered wraps back to not-ordered). Every transition is legal.
func (c CakeStatus) Advance() CakeStatus {
	for i, s := range cakeOrder {
		if s == c {
			return cakeOrder[(i+1)%len(cakeOrder)]
		}
	}
	return CakeNotOrdered
}

// CelebrationStatus is the planning workflow state of a celebration.
type CelebrationStatus string

const (
	StatusPlanned    CelebrationStatus = "Planned"
	StatusInProgress CelebrationStatus = "In Progress"
	StatusCompleted  CelebrationStatus = "Completed"
)

var statusOrder = []CelebrationStatus{StatusPlanned, StatusInProgress, StatusCompleted}

// ParseCelebrationStatus maps a raw string to a CelebrationStatus.
func ParseCelebrationStatus(s string) (CelebrationStatus, bool) {
	for _, c := range statusOrder {
		if s == string(c) {
			return c, true
		}
	}
	return StatusPlanned, false
}

// Advance returns the next status in the fixed cyclic order.
func (c CelebrationStatus) Advance() CelebrationStatus {
	for i, s := range statusOrder {
		if s == c {
			return statusOrder[(i+1)%len(statusOrder)]
		}
	}
	return StatusPlanned
}

// CelebrationType distinguishes the kinds of events the calendar can hold.
type CelebrationType string

const (
	TypeBirthday        CelebrationType = "Birthday"
	TypeWorkAnniversary CelebrationType = "Work Anniversary"
	TypeMilestone       CelebrationType = "Milestone"
)

var typeOrder = []CelebrationType{TypeBirthday, TypeWorkAnniversary, TypeMilestone}

// ParseCelebrationType maps a raw string to a CelebrationType.
func ParseCelebrationType(s string) (CelebrationType, bool) {
	for _, c := range typeOrder {
		if s == string(c) {
			return c, true
		}
	}
	return TypeBirthday, false
}

// CelebrationPreferences captures how a staff member prefers to celebrate.
type CelebrationPreferences struct {
	Cake  string `json:"cakePreference,omitempty"`
	Gift  string `json:"giftPreference,omitempty"`
	Party string `json:"partyPreference,omitempty"`
}

// StaffRecord is the canonical, normalized staff entry all aggregations
// consume. Records without a usable birth date keep HasBirthDate=false and
// appear only in identity listings, never in date-based views.
type StaffRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position,omitempty"`

	// BirthDate carries month/day as the recurring celebration key.
	// The year is only meaningful when BirthYearKnown is true.
	BirthDate      time.Time `json:"birthDate"`
	HasBirthDate   bool      `json:"hasBirthDate"`
	BirthYearKnown bool      `json:"birthYearKnown"`

	Image string `json:"image,omitempty"`
	Alt   string `json:"alt,omitempty"`

	CakeStatus CakeStatus `json:"cakeStatus"`
	Notes      string     `json:"notes,omitempty"`

	// CelebrationTime is the HH:MM slot used by the day view.
	// The normalizer guarantees it is always set.
	CelebrationTime string `json:"celebrationTime"`

	DietaryRestrictions []string               `json:"dietaryRestrictions,omitempty"`
	Preferences         CelebrationPreferences `json:"celebrationPreferences"`
}
