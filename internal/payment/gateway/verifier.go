package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"kuku/internal/config"
	"kuku/internal/domain"
)

// Verdict is a gateway's answer for one payment. Response is the raw payload
// kept on the payment for audit.
type Verdict struct {
	Approved bool
	Response string
}

// Verifier decides whether a pending payment has been settled.
type Verifier interface {
	Verify(ctx context.Context, order domain.Order, payment domain.Payment) (Verdict, error)
}

type verificationRecord struct {
	Gateway       string    `json:"gateway"`
	Approved      bool      `json:"approved"`
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	CheckedAt     time.Time `json:"checkedAt"`
}

func record(gateway string, approved bool, p domain.Payment) (Verdict, error) {
	b, err := json.Marshal(verificationRecord{
		Gateway:       gateway,
		Approved:      approved,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		CheckedAt:     time.Now().UTC(),
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("encoding gateway response: %w", err)
	}
	return Verdict{Approved: approved, Response: string(b)}, nil
}

// AlwaysApprove settles every payment. Used in development and tests.
type AlwaysApprove struct{}

func (AlwaysApprove) Verify(_ context.Context, _ domain.Order, p domain.Payment) (Verdict, error) {
	return record("always", true, p)
}

// Simulated approves a fixed share of payments at random.
type Simulated struct {
	rate   float64
	random func() float64
}

func NewSimulated(rate float64) *Simulated {
	return &Simulated{rate: rate, random: rand.Float64}
}

func (s *Simulated) Verify(_ context.Context, _ domain.Order, p domain.Payment) (Verdict, error) {
	return record("simulated", s.random() < s.rate, p)
}

// NewVerifier builds the verifier selected in cfg.
func NewVerifier(cfg config.PaymentConfig) (Verifier, error) {
	switch cfg.Verifier {
	case config.VerifierAlways:
		return AlwaysApprove{}, nil
	case config.VerifierSimulated:
		return NewSimulated(cfg.ApprovalRate), nil
	default:
		return nil, fmt.Errorf("unsupported payment verifier %q", cfg.Verifier)
	}
}
