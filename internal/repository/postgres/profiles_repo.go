package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListByRole pages profiles of one role (borrowers or investors) with
// the usual filter set.
func (r *ProfileRepository) ListByRole(ctx context.Context, role models.ProfileRole, q listquery.Params) ([]models.UserProfile, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("role = ?", role)
	}

	var count int64
	if err := q.ApplyFilters(base()).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	profiles := make([]models.UserProfile, 0)
	err := q.Apply(base()).
		Preload("Wallet").
		Preload("EntityAccount").
		Preload("EntrepreneurAccount").
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, count, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	out := &models.UserProfile{}
	err := r.db.WithContext(ctx).
		Preload("Wallet").
		Preload("EntityAccount").
		Preload("EntrepreneurAccount").
		First(out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// UpdateTx saves the profile and its nested accounts in one transaction.
func (r *ProfileRepository) UpdateTx(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		if profile.EntityAccount != nil {
			if err := tx.Save(profile.EntityAccount).Error; err != nil {
				return err
			}
		}
		if profile.EntrepreneurAccount != nil {
			if err := tx.Save(profile.EntrepreneurAccount).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProfileRepository) UpdateStatus(ctx context.Context, id string, status models.ProfileStatus) error {
	return r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.UserProfile{}, "id = ?", id).Error
}

// OutstandingDebt reports whether a borrower profile still has loans
// that are not repaid; such profiles cannot be removed.
func (r *ProfileRepository) OutstandingDebt(ctx context.Context, profileID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("profile_id = ? AND status IN ?", profileID,
			[]string{string(models.LoanStatusActive), string(models.LoanStatusArrears), string(models.LoanStatusDefaulted)}).
		Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) CountByRole(ctx context.Context, role models.ProfileRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}
