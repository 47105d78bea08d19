package handler

import (
	"context"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/model"
	"github.com/saulmartinx/wolk/internal/storage"
	"github.com/saulmartinx/wolk/internal/workflow"
)

// Request-scoped values set by handlers and written to the access log
const (
	ContextKeyJobID           = "job_id"
	ContextKeyUserID          = "user_id"
	ContextKeyPaymentID       = "payment_id"
	ContextKeyReconcileAction = "reconcile_action"
)

// LogContextKeys lists the context keys the access log reports when set
var LogContextKeys = []string{
	ContextKeyJobID,
	ContextKeyUserID,
	ContextKeyPaymentID,
	ContextKeyReconcileAction,
}

type JobStore interface {
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type UserStore interface {
	UpsertUser(ctx context.Context, user *model.LinkedUser) error
}

type TransactionStore interface {
	ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]model.Transaction, error)
}

// Workflow is the swipe and payment workflow the handlers delegate to
type Workflow interface {
	RecordSwipe(ctx context.Context, in workflow.SwipeInput) (*workflow.SwipeResult, error)
	ApprovePayment(ctx context.Context, paymentID string) (*model.Transaction, error)
	CompletePayment(ctx context.Context, paymentID, txid string) (*model.Transaction, error)
	ReconcileIncomplete(ctx context.Context, raw []byte) workflow.ReconcileResult
	DeferReconcile(ctx context.Context, raw []byte) error
}

// HealthChecker is implemented by dependencies that can report their health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	ServiceName  string
	Jobs         JobStore
	Users        UserStore
	Transactions TransactionStore
	Workflow     Workflow
	HealthChecks map[string]HealthChecker
}

// JobHandler handles job listing and lookup
type JobHandler struct {
	logger *slog.Logger
	jobs   JobStore
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}
