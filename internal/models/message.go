package models

import "time"

// Message is a single chat line. Username is free text, not a reference to a User.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"size:150;not null" json:"username"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}
