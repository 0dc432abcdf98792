package borrowing

import (
	"fmt"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
)

type Status string

const (
	StatusWaiting  Status = "Waiting"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

const (
	// MaxBooksPerRequest caps the details of a single request.
	MaxBooksPerRequest = 5
	// MonthlyRequestLimit is the number of requests a user may submit per
	// calendar month, whatever their size.
	MonthlyRequestLimit = 3
)

// Table: borrowing_requests
type Request struct {
	ID            string     `gorm:"column:id;type:char(32);primaryKey"`
	RequestorID   string     `gorm:"column:requestor_id;type:char(32);not null;index:idx_borrowing_requests_requestor_date,priority:1"`
	Requestor     *user.User `gorm:"foreignKey:RequestorID"`
	RequestedDate time.Time  `gorm:"column:requested_date;not null;index:idx_borrowing_requests_requestor_date,priority:2"`
	Status        Status     `gorm:"column:status;size:16;not null;default:'Waiting'"`
	ApproverID    *string    `gorm:"column:approver_id;type:char(32)"`
	Approver      *user.User `gorm:"foreignKey:ApproverID"`
	Details       []Detail   `gorm:"foreignKey:RequestID"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string { return "borrowing_requests" }

// Table: borrowing_request_details
type Detail struct {
	ID        string     `gorm:"column:id;type:char(32);primaryKey"`
	RequestID string     `gorm:"column:request_id;type:char(32);not null;index:idx_borrowing_request_details_request"`
	BookID    string     `gorm:"column:book_id;type:char(32);not null;index:idx_borrowing_request_details_book"`
	LineNo    int        `gorm:"column:line_no;not null"`
	Book      *book.Book `gorm:"foreignKey:BookID"`
}

func (Detail) TableName() string { return "borrowing_request_details" }

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Approve moves a waiting request to Approved.
func (r *Request) Approve(approverID string) error {
	switch r.Status {
	case StatusApproved:
		return fmt.Errorf("%w: request is already approved", ErrInvalidTransition)
	case StatusRejected:
		return fmt.Errorf("%w: rejected request cannot be approved", ErrInvalidTransition)
	}
	r.Status = StatusApproved
	r.ApproverID = &approverID
	return nil
}

// Reject moves a waiting request to Rejected. Inventory is restored by the caller.
func (r *Request) Reject(approverID string) error {
	switch r.Status {
	case StatusRejected:
		return fmt.Errorf("%w: request is already rejected", ErrInvalidTransition)
	case StatusApproved:
		return fmt.Errorf("%w: approved request cannot be rejected", ErrInvalidTransition)
	}
	r.Status = StatusRejected
	r.ApproverID = &approverID
	return nil
}

// BookIDs lists the referenced book ids in detail order.
func (r *Request) BookIDs() []string {
	out := make([]string, 0, len(r.Details))
	for _, d := range r.Details {
		out = append(out, d.BookID)
	}
	return out
}

// MonthWindow returns [start, end) of the UTC calendar month containing ref.
func MonthWindow(ref time.Time) (time.Time, time.Time) {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
