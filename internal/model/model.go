package model

import (
	"database/sql"
	"time"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/shopspring/decimal"
)

type Job struct {
	ID             string          `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	Payment        decimal.Decimal `db:"payment"`
	Location       string          `db:"location"`
	Employer       string          `db:"employer"`
	EmployerRating float64         `db:"employer_rating"`
	Category       string          `db:"category"`
	ImageURL       string          `db:"image_url"`
	Deadline       time.Time       `db:"deadline"`
	CreatedAt      time.Time       `db:"created_at"`
}

type Swipe struct {
	ID        string    `db:"id"`
	JobID     string    `db:"job_id"`
	UserID    string    `db:"user_id"`
	Action    string    `db:"action"`
	CreatedAt time.Time `db:"created_at"`
}

type LinkedUser struct {
	UID         string    `db:"uid"`
	Username    string    `db:"username"`
	AccessToken string    `db:"access_token"`
	CreatedAt   time.Time `db:"created_at"`
	LastSeenAt  time.Time `db:"last_seen_at"`
}

type Transaction struct {
	PaymentID   string                   `db:"payment_id"`
	Status      domain.TransactionStatus `db:"status"`
	Amount      decimal.NullDecimal      `db:"amount"`
	TxID        sql.NullString           `db:"txid"`
	PaymentData []byte                   `db:"payment_data"`
	CreatedAt   time.Time                `db:"created_at"`
	UpdatedAt   time.Time                `db:"updated_at"`
	CompletedAt sql.NullTime             `db:"completed_at"`
}
