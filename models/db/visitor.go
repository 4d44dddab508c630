package dbmodels

import (
	"time"
)

// Visitor - выданный временный пропуск посетителя.
// Создаётся только при согласовании запроса, после выдачи не меняется.
type Visitor struct {
	BaseModel
	Name      string `gorm:"type:varchar(255)"`
	Dob       string `gorm:"type:varchar(10)"`
	PhotoKey  string `gorm:"type:varchar(255)"`
	QrCodeURL string `gorm:"type:varchar(512)"`
	EntryTime time.Time
	ValidUntil time.Time
	Lat       float64
	Lng       float64
}

// IsActive - пропуск действует, свойство вычисляемое, не хранится
func (r Visitor) IsActive(now time.Time) bool {
	return r.ValidUntil.After(now)
}
