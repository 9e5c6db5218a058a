package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"column:full_name;size:120;not null" json:"name"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Phone        *string   `gorm:"column:phone;size:30" json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`

	Preferences *UserPreferences `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RidePosts   []RidePost       `gorm:"foreignKey:CreatorUserID;constraint:OnDelete:CASCADE" json:"-"`
	Bookings    []Booking        `gorm:"foreignKey:PassengerUserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// SafeDict is the projection shown to other users.
func (u *User) SafeDict() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.FullName,
		"created_at": u.CreatedAt.Format(time.RFC3339),
	}
}

// PublicDict is the projection for "me" endpoints only.
func (u *User) PublicDict() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.FullName,
		"email":      u.Email,
		"phone":      u.Phone,
		"created_at": u.CreatedAt.Format(time.RFC3339),
	}
}
