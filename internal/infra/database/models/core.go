package models

import "time"

// These map onto tables created by the external seeding step; nothing here
// is auto-migrated.

type User struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:text;not null;uniqueIndex"`
	Password string `gorm:"type:text;not null"`
}

func (User) TableName() string { return "users" }

type Customer struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null"`
	ImageURL string `gorm:"column:image_url;type:varchar(255);not null"`
}

func (Customer) TableName() string { return "customers" }

type Invoice struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	CustomerID string    `gorm:"type:uuid;not null"`
	Amount     int64     `gorm:"type:int;not null"`
	Status     string    `gorm:"type:varchar(255);not null"`
	Date       time.Time `gorm:"type:date;not null"`
}

func (Invoice) TableName() string { return "invoices" }

type Revenue struct {
	Month   string `gorm:"type:varchar(4);not null;uniqueIndex"`
	Revenue int64  `gorm:"type:int;not null"`
}

func (Revenue) TableName() string { return "revenue" }

// InvoiceRow is the listing projection joined with customers.
type InvoiceRow struct {
	ID       string
	Amount   int64
	Date     time.Time
	Status   string
	Name     string
	Email    string
	ImageURL string
}
