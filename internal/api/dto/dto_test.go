package dto

import (
	"database/sql"
	"testing"
	"time"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewJobDTO_NonUTCZone(t *testing.T) {
	// lib/pq hands back timestamps in the session time zone
	eastern := time.FixedZone("UTC-4", -4*60*60)
	deadline := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC).In(eastern)
	created := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC).In(eastern)

	job := &model.Job{
		ID:             "job-1",
		Title:          "Chop Firewood",
		Description:    "Winter stock",
		Payment:        decimal.RequireFromString("50.5"),
		Location:       "Tallinn, Estonia",
		Employer:       "John Smith",
		EmployerRating: 4.8,
		Category:       "Manual Labor",
		ImageURL:       "https://example.org/wood.jpg",
		Deadline:       deadline,
		CreatedAt:      created,
	}

	assert.Equal(t, JobDTO{
		ID:             "job-1",
		Title:          "Chop Firewood",
		Description:    "Winter stock",
		Payment:        50.5,
		Location:       "Tallinn, Estonia",
		Employer:       "John Smith",
		EmployerRating: 4.8,
		Category:       "Manual Labor",
		ImageURL:       "https://example.org/wood.jpg",
		Deadline:       "2025-03-20",
		CreatedAt:      "2025-03-15T00:00:00Z",
	}, NewJobDTO(job))
}

func TestNewTransactionDTO_NonUTCZone(t *testing.T) {
	western := time.FixedZone("UTC-7", -7*60*60)
	created := time.Date(2025, 3, 15, 1, 30, 0, 0, time.UTC).In(western)
	completed := created.Add(time.Minute)

	tx := &model.Transaction{
		PaymentID:   "P1",
		Status:      domain.TransactionStatusCompleted,
		Amount:      decimal.NewNullDecimal(decimal.RequireFromString("3.14")),
		TxID:        sql.NullString{String: "T1", Valid: true},
		PaymentData: []byte(`{"identifier":"P1"}`),
		CreatedAt:   created,
		UpdatedAt:   completed,
		CompletedAt: sql.NullTime{Time: completed, Valid: true},
	}

	out := NewTransactionDTO(tx)
	assert.Equal(t, "2025-03-15T01:30:00Z", out.CreatedAt)
	assert.Equal(t, "2025-03-15T01:31:00Z", out.UpdatedAt)
	assert.Equal(t, "2025-03-15T01:31:00Z", out.CompletedAt)
	assert.Equal(t, "T1", out.TxID)
	if assert.NotNil(t, out.Amount) {
		assert.Equal(t, 3.14, *out.Amount)
	}
	assert.JSONEq(t, `{"identifier":"P1"}`, string(out.PaymentData))
}

func TestNewTransactionDTO_Approved(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	out := NewTransactionDTO(&model.Transaction{
		PaymentID: "P2",
		Status:    domain.TransactionStatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	})

	assert.Equal(t, "approved", out.Status)
	assert.Nil(t, out.Amount)
	assert.Empty(t, out.TxID)
	assert.Empty(t, out.CompletedAt)
	assert.Nil(t, out.PaymentData)
}
