package gormstore

import "time"

// Park mirrors the parks table. Reservations reference a park by name, not
// by its surrogate id.
type Park struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"not null;uniqueIndex:uniq_parks_name"`
}

func (Park) TableName() string { return "parks" }

// Reservation mirrors the reservations table. Date-time columns are TEXT;
// ordering over them is lexicographic.
type Reservation struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	ParkName         string `gorm:"not null;index:idx_reservations_park_name"`
	StartDatetime    string `gorm:"not null;index:idx_reservations_start"`
	EndDatetime      string `gorm:"not null"`
	IsExclusive      bool   `gorm:"not null"`
	Purpose          string `gorm:"not null"`
	OrganizationName string `gorm:"not null"`
	Grade            string `gorm:""`
	NumberOfPeople   int    `gorm:"not null"`
	ContactInfo      string `gorm:"not null"`
	Status           string `gorm:"not null;default:pending"`
	CreatedAt        string `gorm:"not null"`
	UpdatedAt        string `gorm:"not null"`
}

func (Reservation) TableName() string { return "reservations" }

// Admin mirrors the admins table.
type Admin struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"not null;uniqueIndex:uniq_admins_username"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (Admin) TableName() string { return "admins" }

// Announcement mirrors the announcements table. The HTTP surface exposes no
// operations over it; the table is part of the schema.
type Announcement struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	StartDate string    `gorm:"not null"`
	EndDate   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Announcement) TableName() string { return "announcements" }
