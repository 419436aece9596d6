package models

import (
	"log"

	"bitbucket.org/artplim/erp_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Company{}, &User{}, &Role{},
		&FinancialEntry{},
		&Customer{},
		&Product{}, &ProductCategory{},
		&Quote{}, &QuoteItem{},
		&ServiceOrder{}, &ServiceOrderItem{},
		&StockMovement{},
		&History{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
