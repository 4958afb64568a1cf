package workflow

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/utils"
)

const testDistributorId = "7f9c24e8-3b12-4a5d-9e01-simplefixture"

func testLedger(id int, name string) *models.Ledger {
	return &models.Ledger{ID: id, DistributorId: testDistributorId, Name: name}
}

func salesLedgers() PostingLedgers {
	return PostingLedgers{
		Party:      testLedger(1, "Bharat Traders"),
		Sales:      testLedger(2, "Sales Account"),
		OutputCgst: testLedger(3, "Output CGST"),
		OutputSgst: testLedger(4, "Output SGST"),
		OutputIgst: testLedger(5, "Output IGST"),
		Tcs:        testLedger(6, "TCS Payable"),
		RoundOff:   testLedger(7, "Round Off"),
	}
}

func postingFor(t *testing.T, postings []models.LedgerPosting, ledgerId int) models.LedgerPosting {
	t.Helper()
	for _, p := range postings {
		if p.LedgerId == ledgerId {
			return p
		}
	}
	t.Fatalf("no posting against ledger %d", ledgerId)
	return models.LedgerPosting{}
}

func TestDerivePostingsSalesInvoice(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeSalesInvoice,
		VoucherNumber: "INV/25/1",
		TaxableAmount: decimal.NewFromInt(900),
		CgstAmount:    decimal.NewFromInt(81),
		SgstAmount:    decimal.NewFromInt(81),
		NetAmount:     decimal.NewFromInt(1062),
	}

	postings, err := DerivePostings(voucher, nil, salesLedgers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 4 {
		t.Fatalf("expected 4 postings, got %d", len(postings))
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}

	party := postingFor(t, postings, 1)
	if !party.Debit.Equal(decimal.NewFromInt(1062)) || !party.Credit.IsZero() {
		t.Fatalf("party: expected Dr 1062, got Dr %s Cr %s", party.Debit, party.Credit)
	}
	sales := postingFor(t, postings, 2)
	if !sales.Credit.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("sales: expected Cr 900, got %s", sales.Credit)
	}
	cgst := postingFor(t, postings, 3)
	if !cgst.Credit.Equal(decimal.NewFromInt(81)) {
		t.Fatalf("output cgst: expected Cr 81, got %s", cgst.Credit)
	}
}

func TestDerivePostingsNegativeRoundOffFlipsSide(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeSalesInvoice,
		VoucherNumber: "INV/25/2",
		TaxableAmount: decimal.NewFromFloat(1000.30),
		RoundOff:      decimal.NewFromFloat(-0.30),
		NetAmount:     decimal.NewFromInt(1000),
	}

	postings, err := DerivePostings(voucher, nil, salesLedgers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}
	roundOff := postingFor(t, postings, 7)
	if !roundOff.Debit.Equal(decimal.NewFromFloat(0.30)) || !roundOff.Credit.IsZero() {
		t.Fatalf("negative round-off must debit, got Dr %s Cr %s", roundOff.Debit, roundOff.Credit)
	}
}

func TestDerivePostingsReceiptWithKasar(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeReceipt,
		VoucherNumber: "RCT/25/9",
		NetAmount:     decimal.NewFromInt(10000),
		KasarAmount:   decimal.NewFromInt(100),
	}
	ledgers := PostingLedgers{
		Party:      testLedger(1, "Patel Distributors"),
		Settlement: testLedger(8, "HDFC Bank"),
		Kasar:      testLedger(9, "Kasar Discount"),
	}

	postings, err := DerivePostings(voucher, nil, ledgers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 3 {
		t.Fatalf("expected 3 postings, got %d", len(postings))
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}

	bank := postingFor(t, postings, 8)
	if !bank.Debit.Equal(decimal.NewFromInt(9900)) {
		t.Fatalf("bank: expected Dr 9900, got %s", bank.Debit)
	}
	kasar := postingFor(t, postings, 9)
	if !kasar.Debit.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("kasar: expected Dr 100, got %s", kasar.Debit)
	}
	party := postingFor(t, postings, 1)
	if !party.Credit.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("party: expected Cr 10000, got %s", party.Credit)
	}
}

func TestDerivePostingsReceiptWithoutKasar(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeReceipt,
		VoucherNumber: "RCT/25/10",
		NetAmount:     decimal.NewFromInt(5000),
	}
	ledgers := PostingLedgers{
		Party:      testLedger(1, "Patel Distributors"),
		Settlement: testLedger(8, "HDFC Bank"),
	}

	postings, err := DerivePostings(voucher, nil, ledgers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("zero kasar must not emit a posting, got %d postings", len(postings))
	}
}

func TestDerivePostingsPurchaseInvoice(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypePurchaseInvoice,
		VoucherNumber: "PINV/25/3",
		TaxableAmount: decimal.NewFromInt(2000),
		IgstAmount:    decimal.NewFromInt(360),
		NetAmount:     decimal.NewFromInt(2360),
	}
	ledgers := PostingLedgers{
		Party:     testLedger(1, "Mehta Agencies"),
		Purchase:  testLedger(10, "Purchase Account"),
		InputIgst: testLedger(11, "Input IGST"),
	}

	postings, err := DerivePostings(voucher, nil, ledgers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}
	party := postingFor(t, postings, 1)
	if !party.Credit.Equal(decimal.NewFromInt(2360)) {
		t.Fatalf("party: expected Cr 2360, got %s", party.Credit)
	}
	purchase := postingFor(t, postings, 10)
	if !purchase.Debit.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("purchase: expected Dr 2000, got %s", purchase.Debit)
	}
}

func TestDerivePostingsCreditNoteWithTcs(t *testing.T) {
	// a sales return refunds the TCS collected on the original invoice
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeCreditNote,
		VoucherNumber: "CRN/25/2",
		TaxableAmount: decimal.NewFromInt(1000),
		CgstAmount:    decimal.NewFromInt(90),
		SgstAmount:    decimal.NewFromInt(90),
		TcsAmount:     decimal.NewFromFloat(11.8),
		NetAmount:     decimal.NewFromFloat(1191.8),
	}

	postings, err := DerivePostings(voucher, nil, salesLedgers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}
	party := postingFor(t, postings, 1)
	if !party.Credit.Equal(decimal.NewFromFloat(1191.8)) {
		t.Fatalf("party: expected Cr 1191.8, got %s", party.Credit)
	}
	tcs := postingFor(t, postings, 6)
	if !tcs.Debit.Equal(decimal.NewFromFloat(11.8)) || !tcs.Credit.IsZero() {
		t.Fatalf("tcs: expected Dr 11.8, got Dr %s Cr %s", tcs.Debit, tcs.Credit)
	}
}

func TestDerivePostingsDebitNoteWithTcs(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeDebitNote,
		VoucherNumber: "DBN/25/5",
		TaxableAmount: decimal.NewFromInt(2000),
		IgstAmount:    decimal.NewFromInt(360),
		TcsAmount:     decimal.NewFromFloat(23.6),
		NetAmount:     decimal.NewFromFloat(2383.6),
	}
	ledgers := PostingLedgers{
		Party:     testLedger(1, "Mehta Agencies"),
		Purchase:  testLedger(10, "Purchase Account"),
		InputIgst: testLedger(11, "Input IGST"),
		Tcs:       testLedger(12, "TCS Receivable"),
	}

	postings, err := DerivePostings(voucher, nil, ledgers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}
	tcs := postingFor(t, postings, 12)
	if !tcs.Credit.Equal(decimal.NewFromFloat(23.6)) || !tcs.Debit.IsZero() {
		t.Fatalf("tcs: expected Cr 23.6, got Dr %s Cr %s", tcs.Debit, tcs.Credit)
	}
}

func TestDerivePostingsJournalEntry(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeJournalEntry,
		VoucherNumber: "JRN/25/4",
	}
	journal := []models.NewJournalPosting{
		{LedgerId: 20, Narration: "opening adjustment", Debit: decimal.NewFromInt(500)},
		{LedgerId: 21, Credit: decimal.NewFromInt(500)},
	}

	postings, err := DerivePostings(voucher, journal, PostingLedgers{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("postings must balance: %v", err)
	}
	if postings[0].Narration != "opening adjustment" {
		t.Fatalf("journal narration must carry through, got %q", postings[0].Narration)
	}
}

func TestDerivePostingsJournalEntryBothSidesRejected(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeJournalEntry,
	}
	journal := []models.NewJournalPosting{
		{LedgerId: 20, Debit: decimal.NewFromInt(500), Credit: decimal.NewFromInt(500)},
	}

	_, err := DerivePostings(voucher, journal, PostingLedgers{})
	if !errors.Is(err, utils.ErrDebitAndCreditTogether) {
		t.Fatalf("expected ErrDebitAndCreditTogether, got %v", err)
	}
}

func TestDerivePostingsDocumentTypesEmitNothing(t *testing.T) {
	for _, vt := range []models.VoucherType{
		models.VoucherTypeSalesQuotation,
		models.VoucherTypeSalesOrder,
		models.VoucherTypeDeliveryChallan,
	} {
		voucher := &models.Voucher{
			DistributorId: testDistributorId,
			VoucherType:   vt,
			NetAmount:     decimal.NewFromInt(1000),
		}
		postings, err := DerivePostings(voucher, nil, salesLedgers())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", vt, err)
		}
		if len(postings) != 0 {
			t.Fatalf("%s is a document type, expected no postings, got %d", vt, len(postings))
		}
	}
}

func TestDerivePostingsMissingLedger(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeSalesInvoice,
		TaxableAmount: decimal.NewFromInt(900),
		NetAmount:     decimal.NewFromInt(900),
	}
	ledgers := salesLedgers()
	ledgers.Sales = nil

	_, err := DerivePostings(voucher, nil, ledgers)
	if err == nil {
		t.Fatal("expected an error for a missing sales ledger")
	}
	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestValidateBalanceUnbalanced(t *testing.T) {
	postings := []models.LedgerPosting{
		{LedgerId: 1, Debit: decimal.NewFromInt(100)},
		{LedgerId: 2, Credit: decimal.NewFromInt(99)},
	}

	err := ValidateBalance(postings)
	var unbalanced *utils.UnbalancedError
	if !errors.As(err, &unbalanced) {
		t.Fatalf("expected UnbalancedError, got %v", err)
	}
	if !unbalanced.Delta.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("delta: expected 1, got %s", unbalanced.Delta)
	}
}

func TestValidateBalanceWithinEpsilon(t *testing.T) {
	postings := []models.LedgerPosting{
		{LedgerId: 1, Debit: decimal.NewFromFloat(100.0001)},
		{LedgerId: 2, Credit: decimal.NewFromInt(100)},
	}
	if err := ValidateBalance(postings); err != nil {
		t.Fatalf("a single-tick delta must pass: %v", err)
	}
}

func TestValidateBalancePostingShape(t *testing.T) {
	err := ValidateBalance([]models.LedgerPosting{{LedgerId: 1}})
	if !errors.Is(err, utils.ErrMissingDebitOrCredit) {
		t.Fatalf("expected ErrMissingDebitOrCredit, got %v", err)
	}

	err = ValidateBalance([]models.LedgerPosting{
		{LedgerId: 1, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
	})
	if !errors.Is(err, utils.ErrDebitAndCreditTogether) {
		t.Fatalf("expected ErrDebitAndCreditTogether, got %v", err)
	}
}

func TestReversalNetsToZeroPerLedger(t *testing.T) {
	voucher := &models.Voucher{
		DistributorId: testDistributorId,
		VoucherType:   models.VoucherTypeSalesInvoice,
		VoucherNumber: "INV/25/5",
		TaxableAmount: decimal.NewFromInt(900),
		CgstAmount:    decimal.NewFromInt(81),
		SgstAmount:    decimal.NewFromInt(81),
		NetAmount:     decimal.NewFromInt(1062),
	}
	originals, err := DerivePostings(voucher, nil, salesLedgers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	combined := make([]models.LedgerPosting, 0, 2*len(originals))
	combined = append(combined, originals...)
	for _, orig := range originals {
		combined = append(combined, models.LedgerPosting{
			LedgerId:   orig.LedgerId,
			Debit:      orig.Credit,
			Credit:     orig.Debit,
			IsReversal: true,
		})
	}

	net := map[int]decimal.Decimal{}
	for _, p := range combined {
		net[p.LedgerId] = net[p.LedgerId].Add(p.Debit).Sub(p.Credit)
	}
	for ledgerId, balance := range net {
		if !balance.IsZero() {
			t.Fatalf("ledger %d must net to zero after reversal, got %s", ledgerId, balance)
		}
	}
	if err := ValidateBalance(combined); err != nil {
		t.Fatalf("combined postings must still balance: %v", err)
	}
}
