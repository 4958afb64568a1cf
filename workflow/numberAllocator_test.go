package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/utils"
)

func TestFormatVoucherNumberWithYear(t *testing.T) {
	choice := prefixChoice{Prefix: "INV", Separator: "/", YearFormat: "06"}
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	got := FormatVoucherNumber(choice, 42, date)
	if got != "INV/25/42" {
		t.Fatalf("expected INV/25/42, got %s", got)
	}
}

func TestFormatVoucherNumberWithoutYear(t *testing.T) {
	choice := prefixChoice{Prefix: "RCT", Separator: "-"}
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	got := FormatVoucherNumber(choice, 7, date)
	if got != "RCT-7" {
		t.Fatalf("expected RCT-7, got %s", got)
	}
}

func TestSelectPrefixDefaultWins(t *testing.T) {
	prefixes := []*models.VoucherPrefix{
		{Prefix: "OLD", Separator: "/", IsDefault: utils.NewFalse()},
		{Prefix: "NEW", Separator: "-", YearFormat: "2006", AutoStartNo: 100, IsDefault: utils.NewTrue()},
	}

	choice := selectPrefix(prefixes, models.VoucherTypeSalesInvoice, nil)
	if choice.Prefix != "NEW" || choice.Separator != "-" || choice.AutoStartNo != 100 {
		t.Fatalf("default prefix must win, got %+v", choice)
	}
}

func TestSelectPrefixFirstActiveFallback(t *testing.T) {
	prefixes := []*models.VoucherPrefix{
		{Prefix: "SER1", Separator: "/", IsDefault: utils.NewFalse()},
		{Prefix: "SER2", Separator: "/", IsDefault: utils.NewFalse()},
	}

	choice := selectPrefix(prefixes, models.VoucherTypeSalesInvoice, nil)
	if choice.Prefix != "SER1" {
		t.Fatalf("expected first configured prefix, got %s", choice.Prefix)
	}
}

func TestSelectPrefixBuiltInFallback(t *testing.T) {
	choice := selectPrefix(nil, models.VoucherTypeSalesInvoice, nil)
	if choice.Prefix != "INV" || choice.Separator != "/" || choice.AutoStartNo != 1 {
		t.Fatalf("expected built-in INV fallback, got %+v", choice)
	}

	choice = selectPrefix(nil, models.VoucherTypeReceipt, nil)
	if choice.Prefix != "RCT" {
		t.Fatalf("expected built-in RCT fallback, got %s", choice.Prefix)
	}
}

func TestIsDuplicateNumberError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'INV/25/1' for key 'idx_voucher_identity'"}
	if !IsDuplicateNumberError(dup) {
		t.Fatal("error 1062 must be recognised as a duplicate voucher number")
	}
	if !IsDuplicateNumberError(fmt.Errorf("create voucher: %w", dup)) {
		t.Fatal("wrapped 1062 must still be recognised")
	}

	if IsDuplicateNumberError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"}) {
		t.Fatal("other mysql errors are not duplicates")
	}
	if IsDuplicateNumberError(errors.New("broken pipe")) {
		t.Fatal("non-mysql errors are not duplicates")
	}
}
