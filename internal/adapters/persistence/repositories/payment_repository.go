package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateIdempotent inserts the payment unless one already exists for its
// (loan_id, week) pair. The check-then-insert runs inside a transaction
// and the insert itself rides on the unique index with conflict handling,
// so concurrent retries of the same weekly collection converge on one row.
func (r *paymentRepository) CreateIdempotent(ctx context.Context, payment *models.Payment) (*models.Payment, bool, error) {
	var result *models.Payment
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		err := tx.Where("loan_id = ? AND week = ?", payment.LoanID, payment.Week).
			First(&existing).Error
		if err == nil {
			result = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "loan_id"}, {Name: "week"}},
			DoNothing: true,
		}).Create(payment)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent insert won the race. The row it committed is
			// newer than this transaction's read snapshot, so a plain
			// read would miss it; a locking read sees the latest version.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("loan_id = ? AND week = ?", payment.LoanID, payment.Week).
				First(&existing).Error; err != nil {
				return err
			}
			result = &existing
			return nil
		}

		result = payment
		created = true
		return nil
	})

	return result, created, err
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update updates a payment
func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete deletes a payment by ID
func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll wipes every payment
func (r *paymentRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Payment{}).Error
}

// List lists all payments ordered by (loan_id, week)
func (r *paymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).Order("loan_id ASC, week ASC").Find(&payments).Error
	return payments, err
}

// ListByLoanIDs lists payments for the given loans ordered by (loan_id, week)
func (r *paymentRepository) ListByLoanIDs(ctx context.Context, loanIDs []uint) ([]*models.Payment, error) {
	payments := []*models.Payment{}
	if len(loanIDs) == 0 {
		return payments, nil
	}
	err := r.db.WithContext(ctx).
		Where("loan_id IN ?", loanIDs).
		Order("loan_id ASC, week ASC").
		Find(&payments).Error
	return payments, err
}
