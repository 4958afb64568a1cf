package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/models"
)

type VoucherRegisterRow struct {
	VoucherId     int             `json:"VoucherId"`
	VoucherType   string          `json:"VoucherType"`
	VoucherNumber string          `json:"VoucherNumber"`
	VoucherDate   time.Time       `json:"VoucherDate"`
	PartyName     *string         `json:"PartyName,omitempty"`
	Status        string          `json:"Status"`
	TaxableAmount decimal.Decimal `json:"TaxableAmount"`
	TaxAmount     decimal.Decimal `json:"TaxAmount"`
	NetAmount     decimal.Decimal `json:"NetAmount"`
}

// GetVoucherRegisterReport lists vouchers of a period in document order,
// with party names resolved. Cancelled vouchers stay in the register; the
// status column tells them apart.
func GetVoucherRegisterReport(ctx context.Context, distributorId string, voucherType *models.VoucherType, fromDate time.Time, toDate time.Time) ([]*VoucherRegisterRow, error) {

	sql := `
SELECT
    vouchers.id AS voucher_id,
    vouchers.voucher_type,
    vouchers.voucher_number,
    vouchers.voucher_date,
    vouchers.status,
    vouchers.taxable_amount,
    vouchers.cgst_amount + vouchers.sgst_amount + vouchers.igst_amount AS tax_amount,
    vouchers.net_amount,
    parties.name AS party_name
FROM
    vouchers
        LEFT JOIN
    parties ON parties.id = vouchers.party_id
WHERE
    vouchers.distributor_id = @distributorId
        AND vouchers.voucher_date BETWEEN @fromDate AND @toDate
        AND (@voucherType = '' OR vouchers.voucher_type = @voucherType)
ORDER BY vouchers.voucher_date , vouchers.sequence_no;
`

	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}
	typeFilter := ""
	if voucherType != nil {
		typeFilter = string(*voucherType)
	}

	var records []*VoucherRegisterRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"distributorId": distributorId,
		"fromDate":      fromDate,
		"toDate":        toDate,
		"voucherType":   typeFilter,
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// ExportVoucherRegisterXlsx streams the register as a spreadsheet.
func ExportVoucherRegisterXlsx(w io.Writer, rows []*VoucherRegisterRow) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Add headers
	headings := []string{"Date", "Type", "Number", "Party", "Status", "Taxable", "Tax", "Net"}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	// Add data
	for i, r := range rows {
		rowNo := fmt.Sprint(i + 2)
		partyName := ""
		if r.PartyName != nil {
			partyName = *r.PartyName
		}
		f.SetCellValue(sheetName, "A"+rowNo, r.VoucherDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, "B"+rowNo, r.VoucherType)
		f.SetCellValue(sheetName, "C"+rowNo, r.VoucherNumber)
		f.SetCellValue(sheetName, "D"+rowNo, partyName)
		f.SetCellValue(sheetName, "E"+rowNo, r.Status)
		f.SetCellValue(sheetName, "F"+rowNo, r.TaxableAmount.InexactFloat64())
		f.SetCellValue(sheetName, "G"+rowNo, r.TaxAmount.InexactFloat64())
		f.SetCellValue(sheetName, "H"+rowNo, r.NetAmount.InexactFloat64())
	}

	return f.Write(w)
}
