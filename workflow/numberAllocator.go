package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/models"
	"gorm.io/gorm"
)

// The business numbers vouchers manually (pre-printed stationery, legacy
// series), so the allocator validates and suggests rather than generates.
// Uniqueness is enforced by the composite unique index on
// (distributor_id, voucher_type, voucher_number) inside the create
// transaction; a pre-check query would be race-prone between two sessions.

const mysqlDuplicateEntry = 1062

// Hard-coded fallbacks for distributors with no prefix configured for a type.
var defaultVoucherPrefix = map[models.VoucherType]string{
	models.VoucherTypeSalesInvoice:    "INV",
	models.VoucherTypePurchaseInvoice: "PINV",
	models.VoucherTypeSalesQuotation:  "QTN",
	models.VoucherTypeSalesOrder:      "ORD",
	models.VoucherTypeSalesEnquiry:    "ENQ",
	models.VoucherTypeDeliveryChallan: "DCH",
	models.VoucherTypeDebitNote:       "DBN",
	models.VoucherTypeCreditNote:      "CRN",
	models.VoucherTypePayment:         "PAY",
	models.VoucherTypeReceipt:         "RCT",
	models.VoucherTypeJournalEntry:    "JRN",
	models.VoucherTypeGstPayment:      "GSTP",
	models.VoucherTypeGstExpense:      "GSTE",
	models.VoucherTypeGstIncome:       "GSTI",
	models.VoucherTypeTcsPayment:      "TCSP",
	models.VoucherTypeTdsPayment:      "TDSP",
	models.VoucherTypeStockPacking:    "PKG",
}

type prefixChoice struct {
	Prefix      string
	Separator   string
	YearFormat  string
	AutoStartNo int64
}

// selectPrefix picks the default prefix, else the first active one, else the
// hard-coded fallback (surfacing a warning).
func selectPrefix(prefixes []*models.VoucherPrefix, voucherType models.VoucherType, logger *logrus.Logger) prefixChoice {
	for _, p := range prefixes {
		if p.IsDefault != nil && *p.IsDefault {
			return prefixChoice{Prefix: p.Prefix, Separator: p.Separator, YearFormat: p.YearFormat, AutoStartNo: p.AutoStartNo}
		}
	}
	if len(prefixes) > 0 {
		p := prefixes[0]
		return prefixChoice{Prefix: p.Prefix, Separator: p.Separator, YearFormat: p.YearFormat, AutoStartNo: p.AutoStartNo}
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"module":      "numberAllocator",
			"voucherType": voucherType,
		}).Warn("no voucher prefix configured; using built-in default")
	}
	return prefixChoice{Prefix: defaultVoucherPrefix[voucherType], Separator: "/", AutoStartNo: 1}
}

// FormatVoucherNumber combines prefix + separator + sequence, with an
// optional year token (a Go time layout applied to the voucher date, e.g.
// "06" for a two-digit year).
func FormatVoucherNumber(choice prefixChoice, sequenceNo int64, voucherDate time.Time) string {
	if choice.YearFormat != "" {
		return fmt.Sprintf("%s%s%s%s%d", choice.Prefix, choice.Separator,
			voucherDate.Format(choice.YearFormat), choice.Separator, sequenceNo)
	}
	return fmt.Sprintf("%s%s%d", choice.Prefix, choice.Separator, sequenceNo)
}

// BuildVoucherNumber formats the full number for a user-supplied sequence.
// tx lets the lifecycle manager read prefix config on its own transaction.
func BuildVoucherNumber(ctx context.Context, tx *gorm.DB, distributorId string, voucherType models.VoucherType, sequenceNo int64, voucherDate time.Time) (string, error) {
	prefixes, err := models.GetVoucherPrefixes(ctx, tx, distributorId, voucherType)
	if err != nil {
		return "", err
	}
	choice := selectPrefix(prefixes, voucherType, config.GetLogger())
	return FormatVoucherNumber(choice, sequenceNo, voucherDate), nil
}

// SuggestVoucherNumber proposes the next sequence for a type: one past the
// highest used, floored at the configured starting number. The suggestion is
// advisory; only the unique index decides at commit time.
func SuggestVoucherNumber(ctx context.Context, distributorId string, voucherType models.VoucherType, voucherDate time.Time) (string, int64, error) {
	db := config.GetDB()
	prefixes, err := models.GetVoucherPrefixes(ctx, db, distributorId, voucherType)
	if err != nil {
		return "", 0, err
	}
	choice := selectPrefix(prefixes, voucherType, config.GetLogger())

	var maxSeq *int64
	if err := db.WithContext(ctx).Model(&models.Voucher{}).
		Select("max(sequence_no)").
		Where("distributor_id = ? AND voucher_type = ?", distributorId, voucherType).
		Scan(&maxSeq).Error; err != nil {
		return "", 0, err
	}

	next := choice.AutoStartNo
	if maxSeq != nil && *maxSeq+1 > next {
		next = *maxSeq + 1
	}
	return FormatVoucherNumber(choice, next, voucherDate), next, nil
}

// IsDuplicateNumberError reports whether a create failed on the voucher
// number unique index.
func IsDuplicateNumberError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
