package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// ── In-memory credit ledger shared by the credit/payment fakes ──────────────

type fakeLedger struct {
	mu           sync.Mutex
	accounts     map[string]*models.CreditAccount
	transactions []*models.CreditTransaction
	settlements  map[string]*models.Settlement
	payments     map[string]*models.PartialPayment
	extras       []*models.ExtraCredit
	nextID       uint
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:    make(map[string]*models.CreditAccount),
		settlements: make(map[string]*models.Settlement),
		payments:    make(map[string]*models.PartialPayment),
		nextID:      1,
	}
}

func (l *fakeLedger) id() uint {
	id := l.nextID
	l.nextID++
	return id
}

func (l *fakeLedger) outstanding(creditAccountID uint) []*models.CreditTransaction {
	var rows []*models.CreditTransaction
	for _, row := range l.transactions {
		if row.CreditAccountID == creditAccountID && row.Remaining.IsPositive() {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

func (l *fakeLedger) transactionByID(transactionID string) (*models.CreditTransaction, error) {
	for _, row := range l.transactions {
		if row.TransactionID == transactionID {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── CreditRepository fake ───────────────────────────────────────────────────

type fakeCreditRepo struct {
	l *fakeLedger
}

func (r *fakeCreditRepo) CreateAccount(_ context.Context, account *models.CreditAccount) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if account.ID == 0 {
		account.ID = r.l.id()
	}
	r.l.accounts[account.CID] = account
	return nil
}

func (r *fakeCreditRepo) GetAccountByCID(_ context.Context, cid string) (*models.CreditAccount, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if account, ok := r.l.accounts[cid]; ok {
		return account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCreditRepo) GetAccountByCreditID(_ context.Context, creditID string) (*models.CreditAccount, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	for _, account := range r.l.accounts {
		if account.CreditID == creditID {
			return account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCreditRepo) UpdateAccount(_ context.Context, account *models.CreditAccount) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	r.l.accounts[account.CID] = account
	return nil
}

func (r *fakeCreditRepo) ListAccounts(_ context.Context, offset, limit int) ([]*models.CreditAccount, int64, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var accounts []*models.CreditAccount
	for _, account := range r.l.accounts {
		accounts = append(accounts, account)
	}
	return accounts, int64(len(accounts)), nil
}

func (r *fakeCreditRepo) CreateTransaction(_ context.Context, tx *models.CreditTransaction) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if tx.ID == 0 {
		tx.ID = r.l.id()
	}
	r.l.transactions = append(r.l.transactions, tx)
	return nil
}

func (r *fakeCreditRepo) GetTransactionByID(_ context.Context, transactionID string) (*models.CreditTransaction, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	return r.l.transactionByID(transactionID)
}

func (r *fakeCreditRepo) GetTransactions(_ context.Context, creditAccountID uint) ([]*models.CreditTransaction, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var rows []*models.CreditTransaction
	for _, row := range r.l.transactions {
		if row.CreditAccountID == creditAccountID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *fakeCreditRepo) GetOutstandingTransactions(_ context.Context, creditAccountID uint) ([]*models.CreditTransaction, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	return r.l.outstanding(creditAccountID), nil
}

func (r *fakeCreditRepo) UpdateTransaction(_ context.Context, tx *models.CreditTransaction) error {
	return nil
}

func (r *fakeCreditRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var flagged int64
	for _, row := range r.l.transactions {
		if row.Remaining.IsPositive() && !row.IsOverdue && row.DueDate.Before(asOf) {
			row.IsOverdue = true
			flagged++
		}
	}
	return flagged, nil
}

func (r *fakeCreditRepo) GetOverdueTransactions(_ context.Context) ([]*models.CreditTransaction, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var rows []*models.CreditTransaction
	for _, row := range r.l.transactions {
		if row.IsOverdue && row.Remaining.IsPositive() {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *fakeCreditRepo) CreateExtraCredit(_ context.Context, extra *models.ExtraCredit) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if extra.ID == 0 {
		extra.ID = r.l.id()
	}
	r.l.extras = append(r.l.extras, extra)
	return nil
}

func (r *fakeCreditRepo) GetExtraCredits(_ context.Context, creditAccountID uint) ([]*models.ExtraCredit, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var extras []*models.ExtraCredit
	for _, extra := range r.l.extras {
		if extra.CreditAccountID == creditAccountID {
			extras = append(extras, extra)
		}
	}
	return extras, nil
}

// ── PaymentRepository fake ──────────────────────────────────────────────────

type fakePaymentRepo struct {
	l *fakeLedger
}

func (r *fakePaymentRepo) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if settlement.ID == 0 {
		settlement.ID = r.l.id()
	}
	r.l.settlements[settlement.SettlementID] = settlement
	return nil
}

func (r *fakePaymentRepo) GetSettlementByID(_ context.Context, settlementID string) (*models.Settlement, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if settlement, ok := r.l.settlements[settlementID]; ok {
		return settlement, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) UpdateSettlement(_ context.Context, settlement *models.Settlement) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	r.l.settlements[settlement.SettlementID] = settlement
	return nil
}

func (r *fakePaymentRepo) ListSettlements(_ context.Context, creditAccountID uint) ([]*models.Settlement, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var settlements []*models.Settlement
	for _, settlement := range r.l.settlements {
		if settlement.CreditAccountID == creditAccountID {
			settlements = append(settlements, settlement)
		}
	}
	return settlements, nil
}

func (r *fakePaymentRepo) CreatePartialPayment(_ context.Context, payment *models.PartialPayment) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if payment.ID == 0 {
		payment.ID = r.l.id()
	}
	r.l.payments[payment.PaymentID] = payment
	return nil
}

func (r *fakePaymentRepo) GetPartialPaymentByID(_ context.Context, paymentID string) (*models.PartialPayment, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	if payment, ok := r.l.payments[paymentID]; ok {
		return payment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) UpdatePartialPayment(_ context.Context, payment *models.PartialPayment) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	r.l.payments[payment.PaymentID] = payment
	return nil
}

func (r *fakePaymentRepo) ListPartialPayments(_ context.Context, creditAccountID uint) ([]*models.PartialPayment, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var payments []*models.PartialPayment
	for _, payment := range r.l.payments {
		if payment.CreditAccountID == creditAccountID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (r *fakePaymentRepo) ListPendingVerification(_ context.Context) ([]*models.PartialPayment, []*models.Settlement, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	var payments []*models.PartialPayment
	for _, payment := range r.l.payments {
		if payment.Status == "PENDING_VERIFICATION" && payment.VerificationStatus == "" {
			payments = append(payments, payment)
		}
	}
	var settlements []*models.Settlement
	for _, settlement := range r.l.settlements {
		if settlement.Status == "PENDING" && settlement.VerificationStatus == "" &&
			settlement.PaymentMethod != "CASH" {
			settlements = append(settlements, settlement)
		}
	}
	return payments, settlements, nil
}

// ── TxRunner fake ───────────────────────────────────────────────────────────

// fakeTxRunner applies every write directly; tests only drive flows that
// commit, so rollback emulation is not needed.
type fakeTxRunner struct {
	l *fakeLedger
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(store repositories.LedgerStore) error) error {
	return fn(&fakeLedgerStore{l: r.l})
}

type fakeLedgerStore struct {
	l *fakeLedger
}

func (s *fakeLedgerStore) CreateTransaction(entry *models.CreditTransaction) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if entry.ID == 0 {
		entry.ID = s.l.id()
	}
	s.l.transactions = append(s.l.transactions, entry)
	return nil
}

func (s *fakeLedgerStore) SaveTransaction(row *models.CreditTransaction) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for i, existing := range s.l.transactions {
		if existing.TransactionID == row.TransactionID {
			s.l.transactions[i] = row
			return nil
		}
	}
	s.l.transactions = append(s.l.transactions, row)
	return nil
}

func (s *fakeLedgerStore) TransactionByID(transactionID string) (*models.CreditTransaction, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.l.transactionByID(transactionID)
}

func (s *fakeLedgerStore) OutstandingTransactions(creditAccountID uint) ([]*models.CreditTransaction, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return s.l.outstanding(creditAccountID), nil
}

func (s *fakeLedgerStore) CreateSettlement(settlement *models.Settlement) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if settlement.ID == 0 {
		settlement.ID = s.l.id()
	}
	s.l.settlements[settlement.SettlementID] = settlement
	return nil
}

func (s *fakeLedgerStore) SaveSettlement(settlement *models.Settlement) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.settlements[settlement.SettlementID] = settlement
	return nil
}

func (s *fakeLedgerStore) CreatePayment(payment *models.PartialPayment) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if payment.ID == 0 {
		payment.ID = s.l.id()
	}
	s.l.payments[payment.PaymentID] = payment
	return nil
}

func (s *fakeLedgerStore) SavePayment(payment *models.PartialPayment) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.payments[payment.PaymentID] = payment
	return nil
}

func (s *fakeLedgerStore) SaveClearing(clearing *models.ClearedTransaction) error {
	return nil
}

func (s *fakeLedgerStore) SaveAccount(account *models.CreditAccount) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.l.accounts[account.CID] = account
	return nil
}
