package mysql

import (
	"context"
	"errors"
	"time"

	"library-backend/internal/domain/borrowing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BorrowingRepository struct{ db *gorm.DB }

func NewBorrowingRepository(db *gorm.DB) *BorrowingRepository {
	return &BorrowingRepository{db: db}
}

// Create inserts the header, then its details. Runs in a nested transaction
// (savepoint) when called inside a unit of work.
func (r *BorrowingRepository) Create(ctx context.Context, req *borrowing.Request) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(req).Error; err != nil {
			return err
		}
		if len(req.Details) == 0 {
			return nil
		}
		for i := range req.Details {
			req.Details[i].RequestID = req.ID
			req.Details[i].LineNo = i + 1
		}
		return tx.Omit(clause.Associations).Create(&req.Details).Error
	})
}

func (r *BorrowingRepository) GetByID(ctx context.Context, id string) (*borrowing.Request, error) {
	return first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *BorrowingRepository) GetByIDForUpdate(ctx context.Context, id string) (*borrowing.Request, error) {
	return first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *BorrowingRepository) GetWithDetailsForUpdate(ctx context.Context, id string) (*borrowing.Request, error) {
	req, err := r.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).
		Preload("Book").
		Where("request_id = ?", id).
		Order("line_no ASC").
		Find(&req.Details).Error
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *BorrowingRepository) GetWithDetails(ctx context.Context, id string) (*borrowing.Request, error) {
	return first(r.joined(ctx).Where("id = ?", id))
}

func (r *BorrowingRepository) ListByRequestor(ctx context.Context, requestorID string) ([]borrowing.Request, error) {
	var out []borrowing.Request
	err := r.joined(ctx).
		Where("requestor_id = ?", requestorID).
		Order("requested_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *BorrowingRepository) ListAll(ctx context.Context) ([]borrowing.Request, error) {
	var out []borrowing.Request
	err := r.joined(ctx).
		Order("requested_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *BorrowingRepository) CountRequestedBetween(ctx context.Context, requestorID string, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&borrowing.Request{}).
		Where("requestor_id = ? AND requested_date >= ? AND requested_date < ?", requestorID, from.UTC(), to.UTC()).
		Count(&n).Error
	return n, err
}

func (r *BorrowingRepository) CountByBook(ctx context.Context, bookID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&borrowing.Detail{}).Where("book_id = ?", bookID).Count(&n).Error
	return n, err
}

func (r *BorrowingRepository) UpdateStatus(ctx context.Context, id string, from, to borrowing.Status, approverID string) error {
	res := r.db.WithContext(ctx).Model(&borrowing.Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "approver_id": approverID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return borrowing.ErrInvalidTransition
	}
	return nil
}

// joined preloads everything the list projections display.
func (r *BorrowingRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Requestor").
		Preload("Approver").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Details.Book")
}

func first(q *gorm.DB) (*borrowing.Request, error) {
	var out borrowing.Request
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, borrowing.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
