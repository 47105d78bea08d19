// Package memory provides a mutex-guarded in-memory store with the same
// semantics as the PostgreSQL storage. It backs unit tests and the
// "memory" storage driver for local runs.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
	"github.com/saulmartinx/wolk/internal/storage"
)

type Store struct {
	mu           sync.Mutex
	jobs         map[string]model.Job
	swipes       []model.Swipe
	users        map[string]model.LinkedUser
	transactions map[string]model.Transaction
	err          error
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		jobs:         make(map[string]model.Job),
		users:        make(map[string]model.LinkedUser),
		transactions: make(map[string]model.Transaction),
		now:          time.Now,
	}
}

// WithError makes every subsequent call fail with err wrapped as a storage error.
// Passing nil restores normal behavior.
func (s *Store) WithError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// WithClock overrides the time source used for timestamps
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) failure() error {
	if s.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, s.err)
}

func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure()
}

func (s *Store) ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	jobs := []model.Job{}
	for _, job := range s.jobs {
		if filter.Category != "" && job.Category != filter.Category {
			continue
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if filter.Limit >= 0 && len(jobs) > filter.Limit {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, job := range s.jobs {
		if _, ok := seen[job.Category]; ok {
			continue
		}
		seen[job.Category] = struct{}{}
		categories = append(categories, job.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Store) CountJobs(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return 0, err
	}
	return len(s.jobs), nil
}

func (s *Store) InsertJobs(ctx context.Context, jobs []model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return err
	}

	for _, job := range jobs {
		if _, exists := s.jobs[job.ID]; exists {
			return fmt.Errorf("%w: duplicate job id %s", domain.ErrStorage, job.ID)
		}
	}
	for _, job := range jobs {
		s.jobs[job.ID] = job
	}
	return nil
}

func (s *Store) CreateSwipe(ctx context.Context, swipe *model.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return err
	}

	s.swipes = append(s.swipes, *swipe)
	return nil
}

// Swipes returns a copy of every recorded swipe in insertion order
func (s *Store) Swipes() []model.Swipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Swipe(nil), s.swipes...)
}

func (s *Store) UpsertUser(ctx context.Context, user *model.LinkedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return err
	}

	stored, ok := s.users[user.UID]
	if !ok {
		stored = model.LinkedUser{UID: user.UID, CreatedAt: user.LastSeenAt}
	}
	stored.Username = user.Username
	stored.AccessToken = user.AccessToken
	stored.LastSeenAt = user.LastSeenAt
	s.users[user.UID] = stored
	return nil
}

// User returns the linked user with uid, if present
func (s *Store) User(uid string) (model.LinkedUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[uid]
	return user, ok
}

func (s *Store) UpsertApproved(ctx context.Context, paymentID string) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tx, ok := s.transactions[paymentID]
	if !ok {
		tx = model.Transaction{
			PaymentID: paymentID,
			Status:    domain.TransactionStatusApproved,
			CreatedAt: now,
		}
	}
	if tx.Status.CanTransitionTo(domain.TransactionStatusApproved) {
		tx.UpdatedAt = now
		s.transactions[paymentID] = tx
	}
	return &tx, nil
}

func (s *Store) UpsertCompleted(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stored, ok := s.transactions[tx.PaymentID]
	if !ok {
		stored = model.Transaction{PaymentID: tx.PaymentID, CreatedAt: now}
	}
	stored.Status = domain.TransactionStatusCompleted
	stored.Amount = tx.Amount
	stored.TxID = tx.TxID
	stored.PaymentData = append([]byte(nil), tx.PaymentData...)
	stored.UpdatedAt = now
	if !stored.CompletedAt.Valid {
		stored.CompletedAt = sql.NullTime{Time: now, Valid: true}
	}
	s.transactions[tx.PaymentID] = stored
	return &stored, nil
}

func (s *Store) GetTransaction(ctx context.Context, paymentID string) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	tx, ok := s.transactions[paymentID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(); err != nil {
		return nil, err
	}

	txs := []model.Transaction{}
	for _, tx := range s.transactions {
		if c := filter.Cursor; c != nil {
			before := tx.CreatedAt.Before(c.CreatedAt) ||
				(tx.CreatedAt.Equal(c.CreatedAt) && tx.PaymentID < c.PaymentID)
			if !before {
				continue
			}
		}
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].PaymentID > txs[j].PaymentID
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})

	if len(txs) > filter.Limit+1 {
		txs = txs[:filter.Limit+1]
	}
	return txs, nil
}

// TransactionCount returns the number of stored transactions
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}
