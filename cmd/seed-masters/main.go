// seed-masters provisions a distributor with its default chart of accounts
// and voucher number prefixes, then prints an API token for it.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/seed-masters -name "Shree Traders" -gstin 24AAACS1234A1Z5 -state 24
//
// Rerunning against an existing distributor only fills in whatever is
// missing; seeded rows are never overwritten.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/models"
	"github.com/vittabooks/distributor_backend/utils"
)

type systemLedgerSeed struct {
	Code  models.SystemLedgerCode
	Name  string
	Group models.LedgerGroup
}

var systemLedgerSeeds = []systemLedgerSeed{
	{models.SystemLedgerCash, "Cash in Hand", models.LedgerGroupCash},
	{models.SystemLedgerBank, "Bank Account", models.LedgerGroupBank},
	{models.SystemLedgerSales, "Sales Account", models.LedgerGroupSales},
	{models.SystemLedgerPurchase, "Purchase Account", models.LedgerGroupPurchase},
	{models.SystemLedgerOutputCgst, "Output CGST", models.LedgerGroupTax},
	{models.SystemLedgerOutputSgst, "Output SGST", models.LedgerGroupTax},
	{models.SystemLedgerOutputIgst, "Output IGST", models.LedgerGroupTax},
	{models.SystemLedgerInputCgst, "Input CGST", models.LedgerGroupTax},
	{models.SystemLedgerInputSgst, "Input SGST", models.LedgerGroupTax},
	{models.SystemLedgerInputIgst, "Input IGST", models.LedgerGroupTax},
	{models.SystemLedgerKasar, "Kasar Discount", models.LedgerGroupDiscount},
	{models.SystemLedgerRoundOff, "Round Off", models.LedgerGroupIncome},
	{models.SystemLedgerTcs, "TCS Payable", models.LedgerGroupTax},
	{models.SystemLedgerTds, "TDS Payable", models.LedgerGroupTax},
	{models.SystemLedgerGstPayable, "GST Payable", models.LedgerGroupTax},
	{models.SystemLedgerGstExpense, "GST Expense", models.LedgerGroupExpense},
	{models.SystemLedgerGstIncome, "GST Income", models.LedgerGroupIncome},
}

type prefixSeed struct {
	VoucherType models.VoucherType
	Prefix      string
}

var prefixSeeds = []prefixSeed{
	{models.VoucherTypeSalesInvoice, "INV"},
	{models.VoucherTypePurchaseInvoice, "PINV"},
	{models.VoucherTypeSalesQuotation, "QTN"},
	{models.VoucherTypeSalesOrder, "ORD"},
	{models.VoucherTypeSalesEnquiry, "ENQ"},
	{models.VoucherTypeDeliveryChallan, "DCH"},
	{models.VoucherTypeDebitNote, "DBN"},
	{models.VoucherTypeCreditNote, "CRN"},
	{models.VoucherTypePayment, "PAY"},
	{models.VoucherTypeReceipt, "RCT"},
	{models.VoucherTypeJournalEntry, "JRN"},
	{models.VoucherTypeGstPayment, "GSTP"},
	{models.VoucherTypeGstExpense, "GSTE"},
	{models.VoucherTypeGstIncome, "GSTI"},
	{models.VoucherTypeTcsPayment, "TCSP"},
	{models.VoucherTypeTdsPayment, "TDSP"},
	{models.VoucherTypeStockPacking, "PKG"},
}

func main() {
	name := flag.String("name", "", "distributor name (required)")
	gstin := flag.String("gstin", "", "distributor GSTIN")
	stateCode := flag.String("state", "", "distributor GST state code")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "-name is required")
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var distributor models.Distributor
	err := db.WithContext(ctx).Where("name = ?", *name).First(&distributor).Error
	if err == gorm.ErrRecordNotFound {
		created, createErr := models.CreateDistributor(ctx, *name, *gstin, *stateCode)
		if createErr != nil {
			fmt.Fprintf(os.Stderr, "failed to create distributor: %v\n", createErr)
			os.Exit(1)
		}
		distributor = *created
		fmt.Printf("created distributor %s (%s)\n", distributor.Name, distributor.ID)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to lookup distributor: %v\n", err)
		os.Exit(1)
	} else {
		fmt.Printf("distributor %s already exists (%s)\n", distributor.Name, distributor.ID)
	}
	distributorId := distributor.ID.String()

	for _, seed := range systemLedgerSeeds {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Ledger{}).
			Where("distributor_id = ? AND system_code = ?", distributorId, seed.Code).
			Count(&count).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to check ledger %s: %v\n", seed.Code, err)
			os.Exit(1)
		}
		if count > 0 {
			continue
		}
		ledger := models.Ledger{
			DistributorId:   distributorId,
			Name:            seed.Name,
			LedgerGroup:     seed.Group,
			SystemCode:      seed.Code,
			IsSystemDefault: utils.NewTrue(),
			IsActive:        utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&ledger).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed ledger %s: %v\n", seed.Name, err)
			os.Exit(1)
		}
		fmt.Printf("seeded ledger %-20s [%s]\n", seed.Name, seed.Code)
	}

	for _, seed := range prefixSeeds {
		var count int64
		if err := db.WithContext(ctx).Model(&models.VoucherPrefix{}).
			Where("distributor_id = ? AND voucher_type = ?", distributorId, seed.VoucherType).
			Count(&count).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to check prefix for %s: %v\n", seed.VoucherType, err)
			os.Exit(1)
		}
		if count > 0 {
			continue
		}
		prefix := models.VoucherPrefix{
			DistributorId: distributorId,
			VoucherType:   seed.VoucherType,
			Prefix:        seed.Prefix,
			Separator:     "/",
			YearFormat:    "06",
			AutoStartNo:   1,
			IsDefault:     utils.NewTrue(),
			IsActive:      utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&prefix).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed prefix %s: %v\n", seed.Prefix, err)
			os.Exit(1)
		}
		fmt.Printf("seeded prefix %-5s for %s\n", seed.Prefix, seed.VoucherType)
	}

	token, err := utils.JwtGenerate(0, distributorId)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\ndistributor_id: %s\ntoken: %s\n", distributorId, token)
}
