package billing

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"ironhold/internal/database"
	"ironhold/internal/model"
)

// txnStore is an in-memory TransactionStore whose ActivateSubscription is a
// compare-and-set, like the real backends.
type txnStore struct {
	mu          sync.Mutex
	txns        map[string]*model.Transaction
	activations map[string]int
	expires     map[string]time.Time
	plans       map[string]model.Plan

	createErr   error
	findErr     error
	listErr     error
	activateErr error
}

var _ database.TransactionStore = (*txnStore)(nil)

func newTxnStore(txns ...model.Transaction) *txnStore {
	s := &txnStore{
		txns:        map[string]*model.Transaction{},
		activations: map[string]int{},
		expires:     map[string]time.Time{},
		plans:       map[string]model.Plan{},
	}
	for i := range txns {
		t := txns[i]
		s.txns[t.SessionID] = &t
	}
	return s
}

func (s *txnStore) CreateTransaction(_ context.Context, t *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	cp := *t
	s.txns[t.SessionID] = &cp
	return nil
}

func (s *txnStore) FindTransaction(_ context.Context, sessionID string) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if t, ok := s.txns[sessionID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (s *txnStore) ListPendingTransactions(_ context.Context, since time.Time) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.Transaction
	for _, t := range s.txns {
		if !t.Paid() && t.CreatedAt.After(since) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *txnStore) ActivateSubscription(_ context.Context, a database.Activation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activateErr != nil {
		return false, s.activateErr
	}
	t, ok := s.txns[a.SessionID]
	if !ok || t.Paid() {
		return false, nil
	}
	paidAt := a.PaidAt
	t.PaymentStatus = model.PaymentPaid
	t.Status = model.TransactionComplete
	t.PaidAt = &paidAt
	s.activations[a.SessionID]++
	s.expires[a.UserID] = a.Expires
	s.plans[a.UserID] = a.Plan
	return true, nil
}

func (s *txnStore) activationCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activations[sessionID]
}

type MockProvider struct {
	mock.Mock
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockProvider) GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutStatus), args.Error(1)
}

func (m *MockProvider) ParseWebhook(body []byte, signature string) (*WebhookEvent, error) {
	args := m.Called(body, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WebhookEvent), args.Error(1)
}
