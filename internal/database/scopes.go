package database

import (
	"gorm.io/gorm"
)

// Paginate applies limit/offset to a query. A non-positive limit leaves the
// query unbounded.
func Paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset > 0 {
			db = db.Offset(offset)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
