package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withRowLock はSELECT ... FOR UPDATEを付ける。
// sqliteはFOR UPDATE構文を持たない（DB全体ロックで直列化される）ので付けない。
func withRowLock(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
