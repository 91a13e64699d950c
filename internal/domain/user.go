package domain

import "time"

type User struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirebaseUID string    `json:"-" gorm:"column:firebase_uid;size:128;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Email       string    `json:"email" gorm:"size:255"`
	Phone       string    `json:"phone" gorm:"size:32"`
	Role        Role      `json:"role" gorm:"size:16;not null;default:'buyer'"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// Identity is what a verified bearer token says about its holder.
type Identity struct {
	UID   string
	Email string
	Name  string
}
