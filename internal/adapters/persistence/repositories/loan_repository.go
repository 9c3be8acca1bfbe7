package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// List lists all loans, newest first
func (r *loanRepository) List(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).Order("id DESC").Find(&loans).Error
	return loans, err
}

// ListByBorrower lists a borrower's loans, newest first
func (r *loanRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("id DESC").
		Find(&loans).Error
	return loans, err
}

// DeleteCascade deletes a loan's payments first, then the loan, inside
// one transaction. The ordering guarantees a crash mid-operation never
// leaves a payment referencing a deleted loan.
func (r *loanRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Loan{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteAll wipes every payment then every loan in one transaction.
func (r *loanRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Loan{}).Error
	})
}
