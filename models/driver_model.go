package models

import "gorm.io/gorm"

type Driver struct {
	gorm.Model
	Name      string  `json:"name" gorm:"size:120;not null"`
	HomeBase  *string `json:"home_base" gorm:"size:120"`
	Active    bool    `json:"active" gorm:"not null"`
	CreatedBy int
	UpdatedBy int
}
