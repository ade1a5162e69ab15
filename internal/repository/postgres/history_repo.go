package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/history"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// List reads one user's ledger from the audience's union view. Rows are
// ordered newest first; row_id is the deterministic tie-break for rows
// sharing a timestamp.
func (r *HistoryRepository) List(ctx context.Context, audience history.Audience, userID string, offset, limit int) ([]history.Entry, int64, error) {
	view, err := viewFor(audience)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Table(view).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]history.Entry, 0)
	err = r.db.WithContext(ctx).Table(view).
		Where("user_id = ?", userID).
		Order("date DESC, row_id ASC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func viewFor(audience history.Audience) (string, error) {
	switch audience {
	case history.AudienceInvestor:
		return "history_investor", nil
	case history.AudienceBorrower:
		return "history_borrower", nil
	default:
		return "", fmt.Errorf("unknown history audience %q", audience)
	}
}
