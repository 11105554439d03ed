package models

// Role is one entry of the fixed permission catalog. Lower level means more
// authority: OWNER=1, ADMIN=2, MEMBER=3, VIEWER=4.
type Role struct {
	ID          int16  `gorm:"primaryKey"`
	Name        string `gorm:"type:text;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Level       int    `gorm:"not null;uniqueIndex"`
}
