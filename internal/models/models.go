package models

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity statuses. Listings are either accepting applications or not;
// anything richer lives on the submission/report lifecycles.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

type Opportunity struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Description   string     `json:"description"`
	Location      string     `json:"location"` // "Region,City" or "Region", empty when unknown
	Deadline      *time.Time `json:"deadline"`
	Status        string     `json:"status"`
	CategoryID    int        `json:"category_id"`
	CategoryName  string     `json:"category_name,omitempty"`
	AvgRating     *float64   `json:"avg_rating"`
	SourceLink    string     `json:"source_link,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type OppCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type Student struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	Major     string    `json:"major"`
	Phone     string    `json:"phone"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

type Bookmark struct {
	StudentID     uuid.UUID    `json:"student_id"`
	OpportunityID uuid.UUID    `json:"opportunity_id"`
	CreatedAt     time.Time    `json:"created_at"`
	Opportunity   *Opportunity `json:"opportunity,omitempty"`
}

// Rating holds up to four sub-scores (1..5). Overall is derived at write
// time as the mean of the provided sub-scores, rounded to two decimals.
type Rating struct {
	ID            uuid.UUID `json:"id"`
	StudentID     uuid.UUID `json:"student_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	LearningValue *int      `json:"learning_value"`
	WorkEnv       *int      `json:"work_env"`
	Mentorship    *int      `json:"mentorship"`
	Outcome       *int      `json:"outcome"`
	Overall       float64   `json:"overall"`
	CreatedAt     time.Time `json:"created_at"`
}

// Report types and statuses.
const (
	ReportSpam      = "spam"
	ReportDuplicate = "duplicate"
	ReportExpired   = "expired"
	ReportWrongInfo = "wrong_info"
	ReportScam      = "scam"
	ReportOther     = "other"

	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
)

func ValidReportType(t string) bool {
	switch t {
	case ReportSpam, ReportDuplicate, ReportExpired, ReportWrongInfo, ReportScam, ReportOther:
		return true
	}
	return false
}

type Report struct {
	ID            uuid.UUID `json:"id"`
	StudentID     uuid.UUID `json:"student_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	ReportType    string    `json:"report_type"`
	Details       string    `json:"details"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmitterType tags who proposed a submission. A submission always has
// exactly one submitter; the pair (type, id) is the whole reference.
type SubmitterType string

const (
	SubmitterStudent SubmitterType = "student"
	SubmitterAdmin   SubmitterType = "admin"
)

type Submitter struct {
	Type SubmitterType `json:"type"`
	ID   uuid.UUID     `json:"id"`
}

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

type Submission struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Deadline    *time.Time `json:"deadline"`
	CategoryID  int        `json:"category_id"`
	CVLink      string     `json:"cv_link"`
	Notes       string     `json:"notes"`
	Submitter   Submitter  `json:"submitter"`
	Status      string     `json:"status"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewedBy  *uuid.UUID `json:"reviewed_by"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OpportunityVersion is an append-only snapshot of a listing's source page
// content, recorded by the importer and the link checker when the content
// hash changes.
type OpportunityVersion struct {
	ID              uuid.UUID `json:"id"`
	OpportunityID   uuid.UUID `json:"opportunity_id"`
	SourceLink      string    `json:"source_link"`
	DescriptionText string    `json:"description_text"`
	ContentHash     string    `json:"content_hash"`
	Changed         bool      `json:"changed"`
	FetchedAt       time.Time `json:"fetched_at"`
}
