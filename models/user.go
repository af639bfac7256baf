package models

import (
	"time"
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	Phone        *string    `gorm:"column:phone" json:"phone,omitempty"`
	Roll         *int       `gorm:"column:roll;unique" json:"roll,omitempty"`
	StaffID      *int       `gorm:"column:staff_id;unique" json:"staff_id,omitempty"`
	DOB          *time.Time `gorm:"column:dob" json:"dob,omitempty"`
	Gender       *string    `gorm:"column:gender" json:"gender,omitempty"`
	DepartmentID *int       `gorm:"column:department_id" json:"department_id,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Groups     []Group     `gorm:"many2many:user_groups;foreignKey:UserID;joinForeignKey:user_id;References:GroupID;joinReferences:group_id" json:"groups,omitempty"`
}

// Group is a role group (admin, teacher, student).
type Group struct {
	GroupID  int        `gorm:"primaryKey;column:group_id" json:"group_id"`
	Name     string     `gorm:"column:name;unique" json:"name"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

// UserGroup is the membership index row joining users to role groups.
type UserGroup struct {
	UserID  int `gorm:"primaryKey;column:user_id" json:"user_id"`
	GroupID int `gorm:"primaryKey;column:group_id" json:"group_id"`
}

type Department struct {
	DepartmentID int        `gorm:"primaryKey;column:department_id" json:"department_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	HeadID       *int       `gorm:"column:head_id" json:"head_id,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Head *User `gorm:"foreignKey:HeadID" json:"head,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Group) TableName() string {
	return "groups"
}

func (UserGroup) TableName() string {
	return "user_groups"
}

func (Department) TableName() string {
	return "departments"
}
