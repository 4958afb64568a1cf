package models

import (
	"log"

	"github.com/vittabooks/distributor_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Distributor{},
		&Ledger{}, &LedgerPosting{},
		&Voucher{}, &VoucherLineItem{}, &VoucherPrefix{},
		&Party{}, &Item{}, &HsnCode{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
