package models

import "time"

// Appointment is a booking owned by a user. Date and Time are stored as given by the client.
type Appointment struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	Date        string `gorm:"size:50;not null"`
	Time        string `gorm:"size:50;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time

	// Owner, nil once the user has been deleted
	User *User `gorm:"foreignKey:UserID"`
}

// AppointmentResponse is the JSON shape returned by GET /appointments
type AppointmentResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Username    string `json:"username"`
}

func (a *Appointment) ToResponse() AppointmentResponse {
	resp := AppointmentResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Date:        a.Date,
		Time:        a.Time,
		Description: a.Description,
	}
	if a.User != nil {
		resp.Username = a.User.Username
	}
	return resp
}
