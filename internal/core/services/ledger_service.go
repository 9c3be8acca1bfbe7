package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/models"
	"github.com/spmcdev/Daily-Collection/internal/adapters/persistence/repositories"
	"github.com/spmcdev/Daily-Collection/internal/core/domain"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LedgerService owns the loan and payment ledger: validation, uniqueness
// and cascade invariants, and the derived installment values.
type LedgerService struct {
	loanRepo    repositories.LoanRepository
	paymentRepo repositories.PaymentRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(loanRepo repositories.LoanRepository, paymentRepo repositories.PaymentRepository) *LedgerService {
	return &LedgerService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
	}
}

// LoanInput represents loan creation input
type LoanInput struct {
	BorrowerID string  `json:"borrower_id"`
	Borrower   string  `json:"borrower"`
	Amount     float64 `json:"amount"`
	Interest   float64 `json:"interest"`
	Weeks      int     `json:"weeks"`
	StartDate  string  `json:"start_date"`
}

// Validate checks all loan fields for creation
func (in *LoanInput) Validate() error {
	if in.BorrowerID == "" {
		return domain.NewValidationError("borrower_id", "is required")
	}
	if in.Borrower == "" {
		return domain.NewValidationError("borrower", "is required")
	}
	if in.Amount <= 0 {
		return domain.NewValidationError("amount", "must be a positive number")
	}
	if in.Interest < 0 {
		return domain.NewValidationError("interest", "must be a non-negative number")
	}
	if in.Weeks <= 0 {
		return domain.NewValidationError("weeks", "must be a positive integer")
	}
	if !ValidDate(in.StartDate) {
		return domain.NewValidationError("start_date", "must be in YYYY-MM-DD format")
	}
	return nil
}

// LoanPatch represents a partial loan update; only supplied fields are
// validated and applied.
type LoanPatch struct {
	BorrowerID *string  `json:"borrower_id"`
	Borrower   *string  `json:"borrower"`
	Amount     *float64 `json:"amount"`
	Interest   *float64 `json:"interest"`
	Weeks      *int     `json:"weeks"`
	StartDate  *string  `json:"start_date"`
}

// Validate checks only the supplied fields, with the same rules as create
func (p *LoanPatch) Validate() error {
	if p.BorrowerID != nil && *p.BorrowerID == "" {
		return domain.NewValidationError("borrower_id", "is required")
	}
	if p.Borrower != nil && *p.Borrower == "" {
		return domain.NewValidationError("borrower", "is required")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return domain.NewValidationError("amount", "must be a positive number")
	}
	if p.Interest != nil && *p.Interest < 0 {
		return domain.NewValidationError("interest", "must be a non-negative number")
	}
	if p.Weeks != nil && *p.Weeks <= 0 {
		return domain.NewValidationError("weeks", "must be a positive integer")
	}
	if p.StartDate != nil && !ValidDate(*p.StartDate) {
		return domain.NewValidationError("start_date", "must be in YYYY-MM-DD format")
	}
	return nil
}

// PaymentInput represents payment creation input
type PaymentInput struct {
	LoanID uint    `json:"loan_id"`
	Week   int     `json:"week"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// Validate checks payment fields; Date is optional and defaults later.
func (in *PaymentInput) Validate() error {
	if in.LoanID == 0 {
		return domain.NewValidationError("loan_id", "must be a positive integer")
	}
	if in.Week <= 0 {
		return domain.NewValidationError("week", "must be a positive integer")
	}
	if in.Amount <= 0 {
		return domain.NewValidationError("amount", "must be a positive number")
	}
	if in.Date != "" && !ValidDate(in.Date) {
		return domain.NewValidationError("date", "must be in YYYY-MM-DD format")
	}
	return nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if !dateFormat.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// BorrowerSummary aggregates a borrower's loans and their payments.
type BorrowerSummary struct {
	Loans    []*models.Loan    `json:"loans"`
	Payments []*models.Payment `json:"payments"`
}

// CreateLoan validates and persists a new loan.
func (s *LedgerService) CreateLoan(ctx context.Context, input *LoanInput) (*models.Loan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		BorrowerID: input.BorrowerID,
		Borrower:   input.Borrower,
		Amount:     input.Amount,
		Interest:   input.Interest,
		Weeks:      input.Weeks,
		StartDate:  input.StartDate,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan created: id=%d borrower=%s amount=%.2f", loan.ID, loan.BorrowerID, loan.Amount)
	return loan, nil
}

// GetLoan returns a loan by id.
func (s *LedgerService) GetLoan(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListLoans returns every loan, newest first.
func (s *LedgerService) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.loanRepo.List(ctx)
}

// UpdateLoan applies a partial update to an existing loan.
func (s *LedgerService) UpdateLoan(ctx context.Context, id uint, patch *LoanPatch) (*models.Loan, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	loan, err := s.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.BorrowerID != nil {
		loan.BorrowerID = *patch.BorrowerID
	}
	if patch.Borrower != nil {
		loan.Borrower = *patch.Borrower
	}
	if patch.Amount != nil {
		loan.Amount = *patch.Amount
	}
	if patch.Interest != nil {
		loan.Interest = *patch.Interest
	}
	if patch.Weeks != nil {
		loan.Weeks = *patch.Weeks
	}
	if patch.StartDate != nil {
		loan.StartDate = *patch.StartDate
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// DeleteLoan removes a loan and all its payments, payments first, in one
// transaction.
func (s *LedgerService) DeleteLoan(ctx context.Context, id uint) error {
	if err := s.loanRepo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLoanNotFound
		}
		return err
	}
	log.Printf("🗑️ Loan deleted with its payments: id=%d", id)
	return nil
}

// DeleteAllLoans wipes the entire ledger (payments then loans). Callers
// must require an explicit confirmation before invoking this.
func (s *LedgerService) DeleteAllLoans(ctx context.Context) error {
	if err := s.loanRepo.DeleteAll(ctx); err != nil {
		return err
	}
	log.Printf("🗑️ All loans and payments deleted")
	return nil
}

// CreatePayment records a weekly collection. If a payment already exists
// for (loan_id, week) the existing record is returned unchanged and the
// bool is false, so retries are safe.
func (s *LedgerService) CreatePayment(ctx context.Context, input *PaymentInput) (*models.Payment, bool, error) {
	if err := input.Validate(); err != nil {
		return nil, false, err
	}

	// The loan must exist before any payment can reference it.
	if _, err := s.GetLoan(ctx, input.LoanID); err != nil {
		return nil, false, err
	}

	date := input.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	payment := &models.Payment{
		LoanID: input.LoanID,
		Week:   input.Week,
		Amount: input.Amount,
		Date:   date,
	}

	result, created, err := s.paymentRepo.CreateIdempotent(ctx, payment)
	if err != nil {
		return nil, false, err
	}

	if created {
		log.Printf("✅ Payment recorded: loan=%d week=%d amount=%.2f", result.LoanID, result.Week, result.Amount)
	}
	return result, created, nil
}

// RecordInstallment materializes the loan's computed weekly installment
// as that week's payment, through the same idempotent path.
func (s *LedgerService) RecordInstallment(ctx context.Context, loanID uint, week int) (*models.Payment, bool, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, false, err
	}

	return s.CreatePayment(ctx, &PaymentInput{
		LoanID: loanID,
		Week:   week,
		Amount: loan.Installment(),
	})
}

// UpdatePayment applies new fields to an existing payment.
func (s *LedgerService) UpdatePayment(ctx context.Context, id uint, input *PaymentInput) (*models.Payment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if _, err := s.GetLoan(ctx, input.LoanID); err != nil {
		return nil, err
	}

	payment.LoanID = input.LoanID
	payment.Week = input.Week
	payment.Amount = input.Amount
	if input.Date != "" {
		payment.Date = input.Date
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, err
	}

	return payment, nil
}

// DeletePayment removes one payment; its loan is untouched.
func (s *LedgerService) DeletePayment(ctx context.Context, id uint) error {
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return err
	}
	return nil
}

// DeleteAllPayments wipes every payment. Callers must require an explicit
// confirmation before invoking this.
func (s *LedgerService) DeleteAllPayments(ctx context.Context) error {
	if err := s.paymentRepo.DeleteAll(ctx); err != nil {
		return err
	}
	log.Printf("🗑️ All payments deleted")
	return nil
}

// ListPayments returns every payment ordered by (loan_id, week).
func (s *LedgerService) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.paymentRepo.List(ctx)
}

// GetBorrowerSummary returns a borrower's loans (newest first) and the
// payments of those loans ordered by (loan_id, week). A borrower with no
// loans gets empty collections, never an error.
func (s *LedgerService) GetBorrowerSummary(ctx context.Context, borrowerID string) (*BorrowerSummary, error) {
	loans, err := s.loanRepo.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []*models.Loan{}
	}

	loanIDs := make([]uint, 0, len(loans))
	for _, loan := range loans {
		loanIDs = append(loanIDs, loan.ID)
	}

	payments, err := s.paymentRepo.ListByLoanIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}

	return &BorrowerSummary{Loans: loans, Payments: payments}, nil
}
