package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/utils"
)

func TestAssembleVoucherUnknownType(t *testing.T) {
	_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
		VoucherType: "XX",
		SequenceNo:  1,
		VoucherDate: time.Now(),
	})
	if err == nil {
		t.Fatal("expected an error for an unknown voucher type")
	}
}

func TestAssembleVoucherMissingSequence(t *testing.T) {
	_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
		VoucherType: models.VoucherTypeSalesInvoice,
		VoucherDate: time.Now(),
	})
	if !errors.Is(err, utils.ErrMissingVoucherNumber) {
		t.Fatalf("expected ErrMissingVoucherNumber, got %v", err)
	}
}

func TestAssembleVoucherEmptyLines(t *testing.T) {
	_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
		VoucherType: models.VoucherTypeSalesInvoice,
		SequenceNo:  1,
		VoucherDate: time.Now(),
	})
	if !errors.Is(err, utils.ErrEmptyPostingSet) {
		t.Fatalf("expected ErrEmptyPostingSet, got %v", err)
	}
}

func TestAssembleVoucherJournalWithoutPostings(t *testing.T) {
	_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
		VoucherType: models.VoucherTypeJournalEntry,
		SequenceNo:  1,
		VoucherDate: time.Now(),
	})
	if !errors.Is(err, utils.ErrEmptyPostingSet) {
		t.Fatalf("expected ErrEmptyPostingSet, got %v", err)
	}
}

func TestAssembleVoucherSettlementNeedsPositiveAmount(t *testing.T) {
	_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
		VoucherType:        models.VoucherTypeReceipt,
		SequenceNo:         1,
		VoucherDate:        time.Now(),
		SettlementLedgerId: 3,
		Amount:             decimal.Zero,
	})
	if err == nil {
		t.Fatal("expected an error for a zero settlement amount")
	}
}

func TestAssembleVoucherNoDistributor(t *testing.T) {
	_, err := assembleVoucher(context.Background(), "", &models.NewVoucher{
		VoucherType: models.VoucherTypeSalesInvoice,
		SequenceNo:  1,
		VoucherDate: time.Now(),
	})
	if err == nil {
		t.Fatal("expected an error for a blank distributor id")
	}
}

func TestGuardTransition(t *testing.T) {
	allowed := []struct {
		current, next models.VoucherStatus
	}{
		{models.VoucherStatusDraft, models.VoucherStatusConfirmed},
		{models.VoucherStatusConfirmed, models.VoucherStatusCancelled},
	}
	for _, tc := range allowed {
		if err := guardTransition(tc.current, tc.next); err != nil {
			t.Fatalf("%s -> %s must be allowed, got %v", tc.current, tc.next, err)
		}
	}

	rejected := []struct {
		current, next models.VoucherStatus
	}{
		{models.VoucherStatusDraft, models.VoucherStatusCancelled},
		{models.VoucherStatusConfirmed, models.VoucherStatusConfirmed},
		{models.VoucherStatusCancelled, models.VoucherStatusConfirmed},
		{models.VoucherStatusCancelled, models.VoucherStatusCancelled},
		{models.VoucherStatusCancelled, models.VoucherStatusDraft},
	}
	for _, tc := range rejected {
		if err := guardTransition(tc.current, tc.next); !errors.Is(err, utils.ErrInvalidStateTransition) {
			t.Fatalf("%s -> %s: expected ErrInvalidStateTransition, got %v", tc.current, tc.next, err)
		}
	}
}

func TestAssembleVoucherKasarOnlyOnPartySettlements(t *testing.T) {
	for _, vt := range []models.VoucherType{
		models.VoucherTypeGstPayment,
		models.VoucherTypeGstExpense,
		models.VoucherTypeGstIncome,
		models.VoucherTypeTcsPayment,
		models.VoucherTypeTdsPayment,
	} {
		_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
			VoucherType:        vt,
			SequenceNo:         1,
			VoucherDate:        time.Now(),
			Amount:             decimal.NewFromInt(5000),
			KasarAmount:        decimal.NewFromInt(100),
			SettlementLedgerId: 3,
		})
		var validationErr *utils.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: kasar must be rejected, got %v", vt, err)
		}
	}
}

func TestAssembleVoucherKasarMustBeSmallerThanAmount(t *testing.T) {
	_, err := assembleVoucher(context.Background(), testDistributorId, &models.NewVoucher{
		VoucherType:        models.VoucherTypeReceipt,
		SequenceNo:         1,
		VoucherDate:        time.Now(),
		Amount:             decimal.NewFromInt(1000),
		KasarAmount:        decimal.NewFromInt(1000),
		SettlementLedgerId: 3,
	})
	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}
