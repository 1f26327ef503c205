package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	merchantName  = "Fashion Hub"
	merchantUPIID = "fashionhub@upi"
)

// UPIPayment is the payment descriptor handed back to the client so it can
// render the simulated UPI payment screen.
type UPIPayment struct {
	TransactionID string    `json:"transactionId"`
	UPIID         string    `json:"upiId"`
	Amount        float64   `json:"amount"`
	Merchant      string    `json:"merchant"`
	Timestamp     time.Time `json:"timestamp"`
	ReferenceID   string    `json:"referenceId"`
}

// generateUPITransaction synthesizes a transaction descriptor. No gateway is
// called; the reference id is 8 random bytes hex-encoded (16 chars).
func generateUPITransaction(amount float64) (*UPIPayment, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate UPI transaction: %w", err)
	}

	return &UPIPayment{
		TransactionID: fmt.Sprintf("UPI%d%s", time.Now().UnixMilli(), hex.EncodeToString(buf[8:])),
		UPIID:         merchantUPIID,
		Amount:        amount,
		Merchant:      merchantName,
		Timestamp:     time.Now(),
		ReferenceID:   hex.EncodeToString(buf[:8]),
	}, nil
}

// PaymentVerifier checks a claimed payment against the gateway. A real
// integration implements this interface; the order service never needs to
// change.
type PaymentVerifier interface {
	VerifyUPI(ctx context.Context, transactionID string, amount float64) (bool, error)
}

// AlwaysSucceedVerifier is the stand-in for a real gateway webhook. Every
// transaction verifies successfully.
type AlwaysSucceedVerifier struct{}

func (AlwaysSucceedVerifier) VerifyUPI(ctx context.Context, transactionID string, amount float64) (bool, error) {
	return true, nil
}
