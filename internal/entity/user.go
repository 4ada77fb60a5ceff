package entity

import "database/sql"

type User struct {
	Base

	Name  string
	Email string `gorm:"unique"`

	// ReferredBy is set once at account creation and never changes here.
	ReferredBy     sql.NullString `gorm:"index"`
	ReferredByUser *User          `gorm:"foreignKey:ReferredBy"`
}
