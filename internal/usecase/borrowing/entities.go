package borrowing

import (
	"time"

	"library-backend/internal/domain/borrowing"
)

type CreateInput struct {
	RequestorID string
	BookIDs     []string
}

type DetailDTO struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	BookTitle string `json:"book_title"`
}

type RequestDTO struct {
	ID            string      `json:"id"`
	RequestorID   string      `json:"requestor_id"`
	RequestorName string      `json:"requestor_name"`
	RequestedDate time.Time   `json:"requested_date"`
	Status        string      `json:"status"`
	ApproverID    *string     `json:"approver_id"`
	ApproverName  string      `json:"approver_name,omitempty"`
	Details       []DetailDTO `json:"details"`
}

func toDTO(r *borrowing.Request) RequestDTO {
	dto := RequestDTO{
		ID:            r.ID,
		RequestorID:   r.RequestorID,
		RequestorName: r.Requestor.Name(),
		RequestedDate: r.RequestedDate.UTC(),
		Status:        string(r.Status),
		ApproverID:    r.ApproverID,
		ApproverName:  r.Approver.Name(),
		Details:       make([]DetailDTO, 0, len(r.Details)),
	}
	for _, d := range r.Details {
		dd := DetailDTO{ID: d.ID, BookID: d.BookID}
		if d.Book != nil {
			dd.BookTitle = d.Book.Title
		}
		dto.Details = append(dto.Details, dd)
	}
	return dto
}

func toDTOs(rs []borrowing.Request) []RequestDTO {
	out := make([]RequestDTO, 0, len(rs))
	for i := range rs {
		out = append(out, toDTO(&rs[i]))
	}
	return out
}
