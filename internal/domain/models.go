// Package domain defines the persistence model for registered schools and the
// upload value handed to media relays. School is mapped with GORM for the SQL
// store and serialized as-is by the hosted store and the HTTP layer.
package domain

import (
	"time"
)

// School is a single registered school as listed by the directory.
//
// Fields:
//   - ID: store-assigned identifier (auto increment / bigserial), never reused.
//   - Name, Address, City, State: free text, validated at intake.
//   - Contact: exactly ten ASCII digits.
//   - EmailID: contact email address.
//   - Image: optional public URL or "/schoolImages/..." path; null when absent.
//   - CreatedAt: store-assigned creation time, the listing sort key.
//
// Records are only ever created; there is no UpdatedAt and no soft delete.
type School struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	Address   string    `json:"address"    gorm:"type:text;not null"`
	City      string    `json:"city"       gorm:"type:varchar(100);not null"`
	State     string    `json:"state"      gorm:"type:varchar(100);not null"`
	Contact   string    `json:"contact"    gorm:"type:varchar(20);not null"`
	EmailID   string    `json:"email_id"   gorm:"column:email_id;type:varchar(255);not null"`
	Image     *string   `json:"image"      gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_schools_created"`
}

// TableName returns the database table name for School.
func (School) TableName() string { return "schools" }

// NewSchool is the validated input for inserting a school. The store assigns
// ID and CreatedAt.
type NewSchool struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Contact string  `json:"contact"`
	EmailID string  `json:"email_id"`
	Image   *string `json:"image"`
}

// Record builds the persistence row for n stamped with createdAt.
func (n NewSchool) Record(createdAt time.Time) *School {
	return &School{
		Name:      n.Name,
		Address:   n.Address,
		City:      n.City,
		State:     n.State,
		Contact:   n.Contact,
		EmailID:   n.EmailID,
		Image:     n.Image,
		CreatedAt: createdAt,
	}
}
