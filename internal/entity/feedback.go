package entity

import "database/sql"

type Feedback struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	CourseCode string `gorm:"index"`
	Rating     int

	Comment    sql.NullString `gorm:"type:text"`
	ApprovedAt sql.NullTime
}
