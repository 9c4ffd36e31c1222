// Package validate holds request-level validation helpers shared by the
// HTTP handlers.
package validate

import (
	"fmt"
	"regexp"

	"github.com/platelog/platelog-backend/internal/model"
)

// dateRx matches calendar dates in YYYY-MM-DD form. Range checking is left
// to time.Parse at the call sites that need it; here we only gate shape.
var dateRx = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// clockRx matches times of day in 24h HH:MM form.
var clockRx = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// userIdRx matches Firebase-style uids: letters, digits, hyphen, underscore.
var userIdRx = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

func UserID(v string) error {
	if v == "" {
		return fmt.Errorf("userId is required")
	}
	if !userIdRx.MatchString(v) {
		return fmt.Errorf("userId must match %s", userIdRx.String())
	}
	return nil
}

func Date(v string) error {
	if v == "" {
		return fmt.Errorf("date is required")
	}
	if !dateRx.MatchString(v) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}

func ClockTime(v string) error {
	if v == "" {
		return nil
	}
	if !clockRx.MatchString(v) {
		return fmt.Errorf("time must be HH:MM")
	}
	return nil
}

func EntryType(v model.EntryType) error {
	switch v {
	case "", model.EntryMeal, model.EntrySnack, model.EntryDrink:
		return nil
	}
	return fmt.Errorf("unknown entryType %q", v)
}

func Location(v model.Location) error {
	switch v {
	case "", model.LocationHome, model.LocationWork, model.LocationRestaurant,
		model.LocationOutside, model.LocationOther:
		return nil
	}
	return fmt.Errorf("unknown location %q", v)
}

func Company(v model.Company) error {
	switch v {
	case "", model.CompanyAlone, model.CompanyFamily, model.CompanyFriends,
		model.CompanyColleagues, model.CompanyOther:
		return nil
	}
	return fmt.Errorf("unknown company %q", v)
}

// -------- Request specific helpers ----------

// CreateEntry validates input for a new diary entry.
func CreateEntry(e *model.DiaryEntry) error {
	if err := NonEmpty("content", e.Content); err != nil {
		return err
	}
	if err := MaxLen("content", e.Content, 4000); err != nil {
		return err
	}
	if err := MaxLen("feeling", e.Feeling, 500); err != nil {
		return err
	}
	if err := Date(e.Date); err != nil {
		return err
	}
	if err := ClockTime(e.Time); err != nil {
		return err
	}
	if err := EntryType(e.EntryType); err != nil {
		return err
	}
	if err := Location(e.Location); err != nil {
		return err
	}
	if err := Company(e.Company); err != nil {
		return err
	}
	if len(e.Behaviors) > 20 {
		return fmt.Errorf("behaviors exceeds 20 items")
	}
	for _, b := range e.Behaviors {
		if err := MaxLen("behavior", b, 100); err != nil {
			return err
		}
	}
	return nil
}

// MergeRequest validates input for a guest account merge. Entry ids are
// optional: an empty list is a legitimate no-op merge.
func MergeRequest(guestUserID string, entryIDs []string) error {
	if err := UserID(guestUserID); err != nil {
		return fmt.Errorf("guest %w", err)
	}
	if len(entryIDs) > 1000 {
		return fmt.Errorf("entryIds exceeds 1000 items")
	}
	for _, id := range entryIDs {
		if id == "" {
			return fmt.Errorf("entryIds must not contain empty ids")
		}
	}
	return nil
}
