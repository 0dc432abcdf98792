package borrowing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/borrowing"
	"library-backend/internal/domain/uow"
	"library-backend/internal/domain/user"
	"library-backend/internal/usecase/inventory"
	"library-backend/internal/usecase/quota"
	"library-backend/pkg/id"
)

type Usecase struct {
	requests borrowing.Repository
	uow      uow.UnitOfWork
	now      func() time.Time
}

type Option func(*Usecase)

// WithClock replaces time.Now as the source of requested dates and quota windows.
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// NewUsecase: reads go through requests, every write through tx.
func NewUsecase(requests borrowing.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{requests: requests, uow: tx, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	return u
}

func validateCreate(in CreateInput) error {
	if strings.TrimSpace(in.RequestorID) == "" {
		return fmt.Errorf("%w: requestor is required", borrowing.ErrValidation)
	}
	if n := len(in.BookIDs); n < 1 || n > borrowing.MaxBooksPerRequest {
		return fmt.Errorf("%w: a request must name between 1 and %d books, got %d",
			borrowing.ErrValidation, borrowing.MaxBooksPerRequest, n)
	}
	for i, b := range in.BookIDs {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("%w: book id #%d is blank", borrowing.ErrValidation, i+1)
		}
	}
	return nil
}

// Create reserves one copy of every listed book and records a Waiting request.
// Nothing is written unless every step succeeds.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*RequestDTO, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	now := u.now().UTC()

	var created *borrowing.Request
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// serializes concurrent creates of one user so the quota count stays exact
		requestor, err := r.Users.GetByIDForUpdate(ctx, in.RequestorID)
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("%w: unknown requestor", borrowing.ErrValidation)
		}
		if err != nil {
			return err
		}

		if err := quota.NewCounter(r.Requests).Check(ctx, in.RequestorID, now); err != nil {
			return err
		}

		ledger := inventory.NewLedger(r.Books)
		req := &borrowing.Request{
			ID:            id.NewID32(),
			RequestorID:   in.RequestorID,
			RequestedDate: now,
			Status:        borrowing.StatusWaiting,
			Details:       make([]borrowing.Detail, 0, len(in.BookIDs)),
		}
		for _, bookID := range in.BookIDs {
			b, err := ledger.CheckAndReserve(ctx, bookID)
			if err != nil {
				return err
			}
			req.Details = append(req.Details, borrowing.Detail{ID: id.NewID32(), BookID: bookID, Book: b})
		}

		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		req.Requestor = requestor
		created = req
		return nil
	})
	if err != nil {
		slog.Warn("borrowing request refused", "requestor_id", in.RequestorID, "books", len(in.BookIDs), "err", err)
		return nil, err
	}

	slog.Info("borrowing request created", "request_id", created.ID, "requestor_id", created.RequestorID, "books", len(created.Details))
	dto := toDTO(created)
	return &dto, nil
}

// Approve moves a Waiting request to Approved. Inventory is untouched.
func (u *Usecase) Approve(ctx context.Context, requestID, approverID string) (*RequestDTO, error) {
	return u.decide(ctx, requestID, approverID, borrowing.StatusApproved)
}

// Reject moves a Waiting request to Rejected and returns every reserved copy.
func (u *Usecase) Reject(ctx context.Context, requestID, approverID string) (*RequestDTO, error) {
	return u.decide(ctx, requestID, approverID, borrowing.StatusRejected)
}

func (u *Usecase) decide(ctx context.Context, requestID, approverID string, to borrowing.Status) (*RequestDTO, error) {
	if strings.TrimSpace(requestID) == "" || strings.TrimSpace(approverID) == "" {
		return nil, fmt.Errorf("%w: request and approver are required", borrowing.ErrValidation)
	}

	var out *borrowing.Request
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var (
			req *borrowing.Request
			err error
		)
		if to == borrowing.StatusRejected {
			req, err = r.Requests.GetWithDetailsForUpdate(ctx, requestID)
		} else {
			req, err = r.Requests.GetByIDForUpdate(ctx, requestID)
		}
		if err != nil {
			return err
		}

		if to == borrowing.StatusApproved {
			err = req.Approve(approverID)
		} else {
			err = req.Reject(approverID)
		}
		if err != nil {
			return err
		}
		if err := r.Requests.UpdateStatus(ctx, requestID, borrowing.StatusWaiting, to, approverID); err != nil {
			return err
		}

		if to == borrowing.StatusRejected {
			if err := restoreAll(ctx, r, req); err != nil {
				return err
			}
		}

		out, err = r.Requests.GetWithDetails(ctx, requestID)
		return err
	})
	if err != nil {
		slog.Warn("borrowing transition refused", "request_id", requestID, "to", to, "err", err)
		return nil, err
	}

	slog.Info("borrowing request decided", "request_id", requestID, "status", to, "approver_id", approverID)
	dto := toDTO(out)
	return &dto, nil
}

func restoreAll(ctx context.Context, r uow.Repos, req *borrowing.Request) error {
	ledger := inventory.NewLedger(r.Books)
	for _, d := range req.Details {
		if d.Book == nil {
			if _, err := r.Books.GetByID(ctx, d.BookID); err != nil {
				return err
			}
		}
		if err := ledger.Restore(ctx, d.BookID); err != nil {
			if errors.Is(err, book.ErrNotFound) {
				return fmt.Errorf("%w: %s", book.ErrNotFound, d.BookID)
			}
			return err
		}
	}
	return nil
}

func (u *Usecase) ListForUser(ctx context.Context, userID string) ([]RequestDTO, error) {
	rs, err := u.requests.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTOs(rs), nil
}

func (u *Usecase) ListAll(ctx context.Context) ([]RequestDTO, error) {
	rs, err := u.requests.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(rs), nil
}
