package workflow

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/utils"
)

// balanceEpsilon is the currency-precision tolerance (decimal(20,4) columns).
var balanceEpsilon = decimal.New(1, -4)

// PostingLedgers are the resolved accounts a derivation may post against.
// Only the ledgers a voucher type actually uses need to be present.
type PostingLedgers struct {
	Party      *models.Ledger
	Settlement *models.Ledger
	Sales      *models.Ledger
	Purchase   *models.Ledger
	OutputCgst *models.Ledger
	OutputSgst *models.Ledger
	OutputIgst *models.Ledger
	InputCgst  *models.Ledger
	InputSgst  *models.Ledger
	InputIgst  *models.Ledger
	Kasar      *models.Ledger
	RoundOff   *models.Ledger
	Tcs        *models.Ledger
	Tds        *models.Ledger
	GstPayable *models.Ledger
	GstExpense *models.Ledger
	GstIncome  *models.Ledger
}

// postingBuilder accumulates one voucher's postings, skipping zero amounts
// and flipping sides for negative amounts (round-off can go either way).
type postingBuilder struct {
	distributorId string
	narration     string
	postings      []models.LedgerPosting
	missing       string
}

func (b *postingBuilder) debit(ledger *models.Ledger, amount decimal.Decimal, role string) {
	b.add(ledger, amount, decimal.Zero, role)
}

func (b *postingBuilder) credit(ledger *models.Ledger, amount decimal.Decimal, role string) {
	b.add(ledger, decimal.Zero, amount, role)
}

func (b *postingBuilder) add(ledger *models.Ledger, debit, credit decimal.Decimal, role string) {
	if debit.IsZero() && credit.IsZero() {
		return
	}
	if ledger == nil {
		if b.missing == "" {
			b.missing = role
		}
		return
	}
	// negative amounts post to the opposite side
	if debit.IsNegative() {
		credit = debit.Neg()
		debit = decimal.Zero
	} else if credit.IsNegative() {
		debit = credit.Neg()
		credit = decimal.Zero
	}
	b.postings = append(b.postings, models.LedgerPosting{
		DistributorId: b.distributorId,
		LedgerId:      ledger.ID,
		PostingOrder:  len(b.postings),
		Narration:     b.narration,
		Debit:         debit,
		Credit:        credit,
	})
}

func (b *postingBuilder) result() ([]models.LedgerPosting, error) {
	if b.missing != "" {
		return nil, &utils.ValidationError{
			Err:     utils.ErrorRecordNotFound,
			Details: b.missing + " ledger is not configured",
		}
	}
	return b.postings, nil
}

// DerivePostings maps a voucher's monetary effect to debit/credit postings.
// The mapping is keyed purely by voucher type; it is a table, not a state
// machine. Document-only types yield an empty set.
func DerivePostings(voucher *models.Voucher, journalPostings []models.NewJournalPosting, ledgers PostingLedgers) ([]models.LedgerPosting, error) {
	if !voucher.VoucherType.IsPosting() {
		return nil, nil
	}

	b := &postingBuilder{
		distributorId: voucher.DistributorId,
		narration:     voucher.VoucherNumber,
	}
	settled := voucher.NetAmount.Sub(voucher.KasarAmount)

	switch voucher.VoucherType {
	case models.VoucherTypeSalesInvoice:
		b.debit(ledgers.Party, voucher.NetAmount, "party")
		b.credit(ledgers.Sales, voucher.TaxableAmount, "sales")
		b.credit(ledgers.OutputCgst, voucher.CgstAmount, "output cgst")
		b.credit(ledgers.OutputSgst, voucher.SgstAmount, "output sgst")
		b.credit(ledgers.OutputIgst, voucher.IgstAmount, "output igst")
		b.credit(ledgers.Tcs, voucher.TcsAmount, "tcs")
		b.credit(ledgers.RoundOff, voucher.RoundOff, "round-off")

	case models.VoucherTypePurchaseInvoice:
		b.credit(ledgers.Party, voucher.NetAmount, "party")
		b.debit(ledgers.Purchase, voucher.TaxableAmount, "purchase")
		b.debit(ledgers.InputCgst, voucher.CgstAmount, "input cgst")
		b.debit(ledgers.InputSgst, voucher.SgstAmount, "input sgst")
		b.debit(ledgers.InputIgst, voucher.IgstAmount, "input igst")
		b.debit(ledgers.Tcs, voucher.TcsAmount, "tcs")
		b.debit(ledgers.RoundOff, voucher.RoundOff, "round-off")

	case models.VoucherTypeDebitNote:
		// issued against a supplier: winds back a purchase
		b.debit(ledgers.Party, voucher.NetAmount, "party")
		b.credit(ledgers.Purchase, voucher.TaxableAmount, "purchase")
		b.credit(ledgers.InputCgst, voucher.CgstAmount, "input cgst")
		b.credit(ledgers.InputSgst, voucher.SgstAmount, "input sgst")
		b.credit(ledgers.InputIgst, voucher.IgstAmount, "input igst")
		b.credit(ledgers.Tcs, voucher.TcsAmount, "tcs")
		b.credit(ledgers.RoundOff, voucher.RoundOff, "round-off")

	case models.VoucherTypeCreditNote:
		// issued to a customer: winds back a sale
		b.credit(ledgers.Party, voucher.NetAmount, "party")
		b.debit(ledgers.Sales, voucher.TaxableAmount, "sales")
		b.debit(ledgers.OutputCgst, voucher.CgstAmount, "output cgst")
		b.debit(ledgers.OutputSgst, voucher.SgstAmount, "output sgst")
		b.debit(ledgers.OutputIgst, voucher.IgstAmount, "output igst")
		b.debit(ledgers.Tcs, voucher.TcsAmount, "tcs")
		b.debit(ledgers.RoundOff, voucher.RoundOff, "round-off")

	case models.VoucherTypeReceipt:
		b.debit(ledgers.Settlement, settled, "settlement")
		b.debit(ledgers.Kasar, voucher.KasarAmount, "kasar")
		b.credit(ledgers.Party, voucher.NetAmount, "party")

	case models.VoucherTypePayment:
		b.debit(ledgers.Party, voucher.NetAmount, "party")
		b.credit(ledgers.Settlement, settled, "settlement")
		b.credit(ledgers.Kasar, voucher.KasarAmount, "kasar")

	case models.VoucherTypeJournalEntry:
		for _, jp := range journalPostings {
			if jp.Debit.IsZero() && jp.Credit.IsZero() {
				return nil, &utils.ValidationError{Err: utils.ErrMissingDebitOrCredit}
			}
			if !jp.Debit.IsZero() && !jp.Credit.IsZero() {
				return nil, &utils.ValidationError{Err: utils.ErrDebitAndCreditTogether}
			}
			b.postings = append(b.postings, models.LedgerPosting{
				DistributorId: voucher.DistributorId,
				LedgerId:      jp.LedgerId,
				PostingOrder:  len(b.postings),
				Narration:     jp.Narration,
				Debit:         jp.Debit,
				Credit:        jp.Credit,
			})
		}

	case models.VoucherTypeGstPayment:
		b.debit(ledgers.GstPayable, voucher.NetAmount, "gst payable")
		b.credit(ledgers.Settlement, voucher.NetAmount, "settlement")

	case models.VoucherTypeGstExpense:
		b.debit(ledgers.GstExpense, voucher.NetAmount, "gst expense")
		b.credit(ledgers.Settlement, voucher.NetAmount, "settlement")

	case models.VoucherTypeGstIncome:
		b.debit(ledgers.Settlement, voucher.NetAmount, "settlement")
		b.credit(ledgers.GstIncome, voucher.NetAmount, "gst income")

	case models.VoucherTypeTcsPayment:
		b.debit(ledgers.Tcs, voucher.NetAmount, "tcs")
		b.credit(ledgers.Settlement, voucher.NetAmount, "settlement")

	case models.VoucherTypeTdsPayment:
		b.debit(ledgers.Tds, voucher.NetAmount, "tds")
		b.credit(ledgers.Settlement, voucher.NetAmount, "settlement")

	default:
		return nil, fmt.Errorf("no posting mapping for voucher type %s", voucher.VoucherType)
	}

	return b.result()
}

// ValidateBalance is the single mandatory gate before persistence: every
// posting carries exactly one side, and debits equal credits within the
// currency-precision epsilon.
func ValidateBalance(postings []models.LedgerPosting) error {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, p := range postings {
		if p.Debit.IsZero() && p.Credit.IsZero() {
			return &utils.ValidationError{Err: utils.ErrMissingDebitOrCredit}
		}
		if !p.Debit.IsZero() && !p.Credit.IsZero() {
			return &utils.ValidationError{Err: utils.ErrDebitAndCreditTogether}
		}
		debits = debits.Add(p.Debit)
		credits = credits.Add(p.Credit)
	}
	delta := debits.Sub(credits)
	if delta.Abs().GreaterThan(balanceEpsilon) {
		return &utils.UnbalancedError{Delta: delta}
	}
	return nil
}
