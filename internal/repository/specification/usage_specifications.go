package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByDay filters usage rows by their day column (date precision).
type ByDay struct {
	Day time.Time
}

func (s ByDay) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("day = ?", s.Day.Format("2006-01-02"))
}

// DayRange filters usage rows to [From, To] inclusive.
type DayRange struct {
	From time.Time
	To   time.Time
}

func (s DayRange) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("day BETWEEN ? AND ?", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
}

// ByKey filters settings by their unique key.
type ByKey struct {
	Key string
}

func (s ByKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}
