package models

import "gorm.io/gorm"

// Unit is a tractor or straight truck in the roster. Code is indexed but not
// unique: retired units keep their code and a replacement may reuse it.
type Unit struct {
	gorm.Model
	Code      string  `json:"code" gorm:"size:40;index;not null"`
	Type      *string `json:"type" gorm:"size:40"`
	HomeBase  *string `json:"home_base" gorm:"size:120"`
	Active    bool    `json:"active" gorm:"not null"`
	CreatedBy int
	UpdatedBy int
}
