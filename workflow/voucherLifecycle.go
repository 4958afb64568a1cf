package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/utils"
)

// lineItemTypes carry priced line items and run through the line valuator.
var lineItemTypes = map[models.VoucherType]bool{
	models.VoucherTypeSalesInvoice:    true,
	models.VoucherTypePurchaseInvoice: true,
	models.VoucherTypeDebitNote:       true,
	models.VoucherTypeCreditNote:      true,
	models.VoucherTypeSalesQuotation:  true,
	models.VoucherTypeSalesOrder:      true,
	models.VoucherTypeSalesEnquiry:    true,
	models.VoucherTypeDeliveryChallan: true,
	models.VoucherTypeStockPacking:    true,
}

// settlementTypes carry a single amount against a cash/bank ledger.
var settlementTypes = map[models.VoucherType]bool{
	models.VoucherTypeReceipt:    true,
	models.VoucherTypePayment:    true,
	models.VoucherTypeGstPayment: true,
	models.VoucherTypeGstExpense: true,
	models.VoucherTypeGstIncome:  true,
	models.VoucherTypeTcsPayment: true,
	models.VoucherTypeTdsPayment: true,
}

func purchaseSide(t models.VoucherType) bool {
	return t == models.VoucherTypePurchaseInvoice || t == models.VoucherTypeDebitNote
}

// guardTransition allows Draft -> Confirmed and Confirmed -> Cancelled,
// nothing else. Cancelled is terminal.
func guardTransition(current, next models.VoucherStatus) error {
	if current == models.VoucherStatusDraft && next == models.VoucherStatusConfirmed {
		return nil
	}
	if current == models.VoucherStatusConfirmed && next == models.VoucherStatusCancelled {
		return nil
	}
	return utils.ErrInvalidStateTransition
}

// CreateVoucherAtomic validates, values, numbers, posts and persists a
// voucher in one database transaction. Nothing is visible to readers
// until the voucher, its lines, its postings and the updated ledger
// balances are all in place. Duplicate voucher numbers surface as
// ErrDuplicateVoucherNumber from the unique index, never from a
// pre-check query.
func CreateVoucherAtomic(ctx context.Context, distributorId string, input *models.NewVoucher) (*models.Voucher, error) {
	voucher, err := assembleVoucher(ctx, distributorId, input)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	voucher.VoucherNumber, err = BuildVoucherNumber(ctx, tx, distributorId, input.VoucherType, input.SequenceNo, input.VoucherDate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Create(voucher).Error; err != nil {
		tx.Rollback()
		if IsDuplicateNumberError(err) {
			return nil, utils.ErrDuplicateVoucherNumber
		}
		return nil, err
	}

	// Postings are derived and recorded for drafts too; ledger balances
	// only move once the voucher is confirmed.
	if voucher.VoucherType.IsPosting() {
		ledgers, err := resolvePostingLedgers(ctx, tx, distributorId, voucher)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		postings, err := DerivePostings(voucher, input.JournalPostings, ledgers)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if len(postings) == 0 {
			tx.Rollback()
			return nil, &utils.ValidationError{Err: utils.ErrEmptyPostingSet}
		}
		if err := ValidateBalance(postings); err != nil {
			tx.Rollback()
			return nil, err
		}
		for i := range postings {
			postings[i].VoucherId = voucher.ID
		}
		if err := tx.Create(&postings).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		voucher.Postings = postings

		if voucher.Status == models.VoucherStatusConfirmed {
			if err := ApplyPostings(ctx, tx, distributorId, postings); err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		if IsDuplicateNumberError(err) {
			return nil, utils.ErrDuplicateVoucherNumber
		}
		return nil, err
	}
	return voucher, nil
}

// ConfirmVoucher moves a draft to Confirmed and folds its recorded
// postings into ledger balances. Any other starting status is rejected.
func ConfirmVoucher(ctx context.Context, distributorId string, id int) (*models.Voucher, error) {
	voucher, err := models.GetVoucher(ctx, distributorId, id)
	if err != nil {
		return nil, err
	}
	if err := guardTransition(voucher.Status, models.VoucherStatusConfirmed); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if voucher.VoucherType.IsPosting() {
		if len(voucher.Postings) == 0 {
			tx.Rollback()
			return nil, &utils.ValidationError{Err: utils.ErrEmptyPostingSet}
		}
		if err := ValidateBalance(voucher.Postings); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := ApplyPostings(ctx, tx, distributorId, voucher.Postings); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	res := tx.Model(voucher).
		Where("distributor_id = ? AND status = ?", distributorId, models.VoucherStatusDraft).
		Updates(models.Voucher{Status: models.VoucherStatusConfirmed})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.ErrInvalidStateTransition
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	voucher.Status = models.VoucherStatusConfirmed
	return voucher, nil
}

// CancelVoucher reverses a confirmed voucher. The original postings are
// kept untouched; mirror-image reversal rows are appended, ledger
// balances are wound back and the status moves to Cancelled. History
// stays complete: nothing is deleted.
func CancelVoucher(ctx context.Context, distributorId string, id int, reason string) (*models.Voucher, error) {
	voucher, err := models.GetVoucher(ctx, distributorId, id)
	if err != nil {
		return nil, err
	}
	if err := guardTransition(voucher.Status, models.VoucherStatusCancelled); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	originals := make([]models.LedgerPosting, 0, len(voucher.Postings))
	for _, p := range voucher.Postings {
		if !p.IsReversal {
			originals = append(originals, p)
		}
	}
	if len(originals) > 0 {
		reversals := make([]models.LedgerPosting, 0, len(originals))
		for i, orig := range originals {
			origId := orig.ID
			reversals = append(reversals, models.LedgerPosting{
				DistributorId:     distributorId,
				VoucherId:         voucher.ID,
				LedgerId:          orig.LedgerId,
				PostingOrder:      len(originals) + i,
				Narration:         "Reversal of " + voucher.VoucherNumber,
				Debit:             orig.Credit,
				Credit:            orig.Debit,
				IsReversal:        true,
				ReversesPostingId: &origId,
			})
		}
		if err := tx.Create(&reversals).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := ReversePostings(ctx, tx, distributorId, originals); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	now := time.Now()
	res := tx.Model(voucher).
		Where("distributor_id = ? AND status = ?", distributorId, models.VoucherStatusConfirmed).
		Updates(models.Voucher{
			Status:             models.VoucherStatusCancelled,
			CancelledAt:        &now,
			CancellationReason: &reason,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.ErrInvalidStateTransition
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	voucher.Status = models.VoucherStatusCancelled
	voucher.CancelledAt = &now
	voucher.CancellationReason = &reason
	return voucher, nil
}

// assembleVoucher runs validation, tax resolution and valuation and
// returns an unsaved voucher ready for numbering and posting.
func assembleVoucher(ctx context.Context, distributorId string, input *models.NewVoucher) (*models.Voucher, error) {
	if distributorId == "" {
		return nil, &utils.ValidationError{Err: utils.ErrorRecordNotFound, Details: "distributor id is required"}
	}
	if !input.VoucherType.IsValid() {
		return nil, &utils.ValidationError{Err: utils.ErrorRecordNotFound, Details: "unknown voucher type " + string(input.VoucherType)}
	}
	if input.SequenceNo <= 0 {
		return nil, &utils.ValidationError{Err: utils.ErrMissingVoucherNumber}
	}
	treatment := input.GstTreatment
	if treatment == "" {
		treatment = models.GstTreatmentIntraState
	}
	if input.PartyId != 0 {
		if err := utils.ValidateResourceId[models.Party](ctx, distributorId, input.PartyId); err != nil {
			return nil, err
		}
	}

	status := models.VoucherStatusConfirmed
	if input.SaveAsDraft {
		status = models.VoucherStatusDraft
	}

	voucher := &models.Voucher{
		DistributorId:      distributorId,
		VoucherType:        input.VoucherType,
		SequenceNo:         input.SequenceNo,
		VoucherDate:        input.VoucherDate,
		PartyId:            input.PartyId,
		GstTreatment:       treatment,
		Narration:          input.Narration,
		Status:             status,
		TcsPercent:         input.TcsPercent,
		EnableRoundOff:     &input.EnableRoundOff,
		SettlementLedgerId: input.SettlementLedgerId,
		KasarAmount:        input.KasarAmount,
	}

	switch {
	case lineItemTypes[input.VoucherType]:
		if len(input.LineItems) == 0 {
			return nil, &utils.ValidationError{Err: utils.ErrEmptyPostingSet, Details: "at least one line item is required"}
		}
		valuations := make([]LineValuation, 0, len(input.LineItems))
		for i, line := range input.LineItems {
			if !line.Quantity.IsPositive() {
				return nil, &utils.ValidationError{Err: utils.ErrZeroQuantityLine}
			}
			item, err := models.GetItem(ctx, distributorId, line.ItemId)
			if err != nil {
				return nil, err
			}
			rate := line.Rate
			if rate.IsZero() {
				if purchaseSide(input.VoucherType) {
					rate = item.PurchasePrice
				} else {
					rate = item.SalePrice
				}
			}
			split, err := ResolveTax(ctx, distributorId, item.HsnCode, item.TaxPercent, treatment)
			if err != nil {
				return nil, err
			}
			valuation := ComputeLine(line.Quantity, rate, line.DiscountPct, split.Rate, treatment)
			valuations = append(valuations, valuation)
			unit := line.Unit
			if unit == "" {
				unit = item.Unit
			}
			voucher.LineItems = append(voucher.LineItems, models.VoucherLineItem{
				DistributorId:  distributorId,
				LineOrder:      i,
				ItemId:         item.ID,
				ItemName:       item.Name,
				Quantity:       line.Quantity,
				Unit:           unit,
				Rate:           rate,
				DiscountPct:    line.DiscountPct,
				HsnCode:        item.HsnCode,
				TaxPercent:     split.Rate,
				Amount:         valuation.Amount,
				DiscountAmount: valuation.DiscountAmount,
				TaxableAmount:  valuation.TaxableAmount,
				Cgst:           valuation.Cgst,
				Sgst:           valuation.Sgst,
				Igst:           valuation.Igst,
				LineTotal:      valuation.LineTotal,
			})
		}
		totals := ComputeTotals(valuations, input.TcsPercent, input.EnableRoundOff)
		voucher.SubTotal = totals.SubTotal
		voucher.DiscountAmount = totals.DiscountAmount
		voucher.TaxableAmount = totals.TaxableAmount
		voucher.CgstAmount = totals.Cgst
		voucher.SgstAmount = totals.Sgst
		voucher.IgstAmount = totals.Igst
		voucher.TcsAmount = totals.TcsAmount
		voucher.RoundOff = totals.RoundOff
		voucher.NetAmount = totals.NetAmount

	case settlementTypes[input.VoucherType]:
		if !input.Amount.IsPositive() {
			return nil, &utils.ValidationError{Err: utils.ErrMissingDebitOrCredit, Details: "settlement amount must be positive"}
		}
		// Kasar only exists for party settlements; the GST/TCS/TDS
		// mappings post the full amount and would silently drop it.
		if !input.KasarAmount.IsZero() &&
			input.VoucherType != models.VoucherTypeReceipt &&
			input.VoucherType != models.VoucherTypePayment {
			return nil, &utils.ValidationError{Err: utils.ErrMissingDebitOrCredit, Details: "kasar applies to receipt and payment vouchers only"}
		}
		if input.KasarAmount.IsNegative() || input.KasarAmount.GreaterThanOrEqual(input.Amount) {
			return nil, &utils.ValidationError{Err: utils.ErrMissingDebitOrCredit, Details: "kasar must be non-negative and smaller than the settled amount"}
		}
		if input.SettlementLedgerId == 0 {
			return nil, &utils.ValidationError{Err: utils.ErrorRecordNotFound, Details: "settlement ledger is required"}
		}
		if err := utils.ValidateResourceId[models.Ledger](ctx, distributorId, input.SettlementLedgerId); err != nil {
			return nil, err
		}
		voucher.NetAmount = input.Amount

	case input.VoucherType == models.VoucherTypeJournalEntry:
		if len(input.JournalPostings) == 0 {
			return nil, &utils.ValidationError{Err: utils.ErrEmptyPostingSet}
		}
		if err := validateJournalPostings(ctx, distributorId, input.JournalPostings); err != nil {
			return nil, err
		}
		debits := decimal.Zero
		for _, jp := range input.JournalPostings {
			debits = debits.Add(jp.Debit)
		}
		voucher.NetAmount = debits
	}

	return voucher, nil
}

func validateJournalPostings(ctx context.Context, distributorId string, postings []models.NewJournalPosting) error {
	ids := make([]int, 0, len(postings))
	for _, jp := range postings {
		ids = append(ids, jp.LedgerId)
	}
	return utils.ValidateResourcesId[models.Ledger](ctx, distributorId, utils.UniqueSlice(ids))
}

// resolvePostingLedgers looks up the accounts a voucher type posts to,
// inside the active transaction. A ledger that is missing only matters
// if the derivation actually posts a non-zero amount to it.
func resolvePostingLedgers(ctx context.Context, tx *gorm.DB, distributorId string, voucher *models.Voucher) (PostingLedgers, error) {
	ledgers := PostingLedgers{}

	// A failing lookup is a store problem and must not masquerade as
	// missing configuration; the first one wins and aborts the resolve.
	var sysErr error
	sys := func(code models.SystemLedgerCode) *models.Ledger {
		if sysErr != nil {
			return nil
		}
		ledger, err := models.GetSystemLedger(ctx, tx, distributorId, code)
		if err != nil {
			if !errors.Is(err, utils.ErrorRecordNotFound) {
				sysErr = err
			}
			return nil
		}
		return ledger
	}

	if voucher.PartyId != 0 {
		party, err := utils.FetchModel[models.Party](ctx, distributorId, voucher.PartyId)
		if err != nil {
			return ledgers, err
		}
		partyLedger, err := utils.FetchModel[models.Ledger](ctx, distributorId, party.LedgerId)
		if err != nil {
			return ledgers, err
		}
		ledgers.Party = partyLedger
	}
	if voucher.SettlementLedgerId != 0 {
		settlement, err := utils.FetchModel[models.Ledger](ctx, distributorId, voucher.SettlementLedgerId)
		if err != nil {
			return ledgers, err
		}
		ledgers.Settlement = settlement
	}

	switch voucher.VoucherType {
	case models.VoucherTypeSalesInvoice, models.VoucherTypeCreditNote:
		ledgers.Sales = sys(models.SystemLedgerSales)
		ledgers.OutputCgst = sys(models.SystemLedgerOutputCgst)
		ledgers.OutputSgst = sys(models.SystemLedgerOutputSgst)
		ledgers.OutputIgst = sys(models.SystemLedgerOutputIgst)
		ledgers.Tcs = sys(models.SystemLedgerTcs)
		ledgers.RoundOff = sys(models.SystemLedgerRoundOff)
	case models.VoucherTypePurchaseInvoice, models.VoucherTypeDebitNote:
		ledgers.Purchase = sys(models.SystemLedgerPurchase)
		ledgers.InputCgst = sys(models.SystemLedgerInputCgst)
		ledgers.InputSgst = sys(models.SystemLedgerInputSgst)
		ledgers.InputIgst = sys(models.SystemLedgerInputIgst)
		ledgers.Tcs = sys(models.SystemLedgerTcs)
		ledgers.RoundOff = sys(models.SystemLedgerRoundOff)
	case models.VoucherTypeReceipt, models.VoucherTypePayment:
		ledgers.Kasar = sys(models.SystemLedgerKasar)
	case models.VoucherTypeGstPayment:
		ledgers.GstPayable = sys(models.SystemLedgerGstPayable)
	case models.VoucherTypeGstExpense:
		ledgers.GstExpense = sys(models.SystemLedgerGstExpense)
	case models.VoucherTypeGstIncome:
		ledgers.GstIncome = sys(models.SystemLedgerGstIncome)
	case models.VoucherTypeTcsPayment:
		ledgers.Tcs = sys(models.SystemLedgerTcs)
	case models.VoucherTypeTdsPayment:
		ledgers.Tds = sys(models.SystemLedgerTds)
	}
	if sysErr != nil {
		return ledgers, sysErr
	}

	return ledgers, nil
}
