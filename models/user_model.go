package models

import "gorm.io/gorm"

// User is a dispatcher account allowed to call the API when auth is enabled.
type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Password  string `json:"-" gorm:"size:100;not null"`
	Name      string `json:"name" gorm:"size:120"`
	Active    bool   `json:"active" gorm:"not null"`
	CreatedBy int
	UpdatedBy int
}
