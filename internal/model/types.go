package model

import "time"

// EntryType classifies what kind of intake a diary entry records.
type EntryType string

const (
	EntryMeal  EntryType = "meal"
	EntrySnack EntryType = "snack"
	EntryDrink EntryType = "drink"
)

// Location is where the entry happened.
type Location string

const (
	LocationHome       Location = "home"
	LocationWork       Location = "work"
	LocationRestaurant Location = "restaurant"
	LocationOutside    Location = "outside"
	LocationOther      Location = "other"
)

// Company is who the user ate with.
type Company string

const (
	CompanyAlone      Company = "alone"
	CompanyFamily     Company = "family"
	CompanyFriends    Company = "friends"
	CompanyColleagues Company = "colleagues"
	CompanyOther      Company = "other"
)

// DiaryEntry is a single food-diary record. Exactly one user owns an entry
// at any time; ownership changes only through the identity merge, never by
// editing other fields.
type DiaryEntry struct {
	EntryID    string     `json:"entryId"`
	UserID     string     `json:"userId"`
	EntryType  EntryType  `json:"entryType"`
	Content    string     `json:"content"`
	Feeling    string     `json:"feeling,omitempty"`
	Location   Location   `json:"location,omitempty"`
	Company    Company    `json:"company,omitempty"`
	Behaviors  []string   `json:"behaviors,omitempty"`
	Bookmarked bool       `json:"bookmarked"`
	Date       string     `json:"date"` // calendar date, YYYY-MM-DD, no zone
	Time       string     `json:"time"` // time of day, HH:MM
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// AnalysisQuota is the per-user daily usage document. The document id is the
// user id. Count is only meaningful while Date is "today"; a stale date reads
// as zero.
type AnalysisQuota struct {
	UserID         string     `json:"userId"`
	Date           string     `json:"date"` // UTC date, YYYY-MM-DD
	Count          int        `json:"count"`
	LastAnalysisAt *time.Time `json:"lastAnalysisAt,omitempty"`
}

// QuotaStatus is the outcome of a quota check.
type QuotaStatus struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

// MergeResult reports a guest-entry merge. MergedCount only counts entries
// whose ownership patch succeeded; FailedEntryIDs lists ids whose patch was
// attempted and failed (ids never attempted because the batch aborted early
// appear in neither).
type MergeResult struct {
	MergedCount    int      `json:"mergedCount"`
	FailedEntryIDs []string `json:"failedEntryIds,omitempty"`
}

// MealAnalysis is the AI assessment of one diary entry.
type MealAnalysis struct {
	EntryID   string    `json:"entryId"`
	Summary   string    `json:"summary"`
	Model     string    `json:"model"`
	Remaining int       `json:"remaining"`
	CreatedAt time.Time `json:"createdAt"`
}
