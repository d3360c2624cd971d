package models

const RoleAdmin = "admin"

type Admin struct {
	Base
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;not null" json:"role"`
}
