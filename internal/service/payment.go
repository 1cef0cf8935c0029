package service

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// LocalGateway is a stand-in payment provider for environments without
// a real acquirer.  It issues a unique payment reference per pending
// registration; settlement arrives later through the callback endpoint
// carrying that reference.
type LocalGateway struct{}

// NewLocalGateway returns the stand-in gateway.
func NewLocalGateway() *LocalGateway {
	return &LocalGateway{}
}

// CreatePendingPayment mints a reference the member pays against.
func (g *LocalGateway) CreatePendingPayment(_ context.Context, registrationID uint64, amountCents int64) (string, error) {
	ref := "pay_" + uuid.NewString()
	log.Printf("payment: pending ref=%s registration=%d amount_cents=%d", ref, registrationID, amountCents)
	return ref, nil
}

var _ PaymentGateway = (*LocalGateway)(nil)
