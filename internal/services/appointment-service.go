package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"gorm.io/gorm"
)

// AppointmentService provides role-scoped access to appointments
type AppointmentService interface {
	// ListAppointments returns every appointment to admins and only their own to everyone else
	ListAppointments(ctx context.Context, caller *models.User) ([]models.Appointment, error)
	// CreateAppointment books an appointment owned by caller. Date and time are stored verbatim.
	CreateAppointment(ctx context.Context, caller *models.User, date, time, description string) (*models.Appointment, error)
	// GetAppointmentByID retrieves an appointment by its ID
	GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error)
	// DeleteAppointment removes an appointment owned by caller, or any appointment when caller is admin
	DeleteAppointment(ctx context.Context, caller *models.User, id uint) error
}

// appointmentService is the implementation of the AppointmentService interface
type appointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates a new instance of AppointmentService
func NewAppointmentService(db *gorm.DB) AppointmentService {
	return &appointmentService{db: db}
}

func (s *appointmentService) ListAppointments(ctx context.Context, caller *models.User) ([]models.Appointment, error) {
	query := s.db.WithContext(ctx).Preload("User").Order("id")

	// Non-admins are always restricted to their own records
	if !caller.IsAdmin() {
		query = query.Where("user_id = ?", caller.ID)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *appointmentService) CreateAppointment(ctx context.Context, caller *models.User, date, time, description string) (*models.Appointment, error) {
	appointment := &models.Appointment{
		UserID:      caller.ID,
		Date:        date,
		Time:        time,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	appointment.User = caller
	return appointment, nil
}

func (s *appointmentService) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.WithContext(ctx).Preload("User").First(&appointment, id).Error; err != nil {
		return nil, notFound(err, ErrAppointmentNotFound)
	}
	return &appointment, nil
}

func (s *appointmentService) DeleteAppointment(ctx context.Context, caller *models.User, id uint) error {
	appointment, err := s.GetAppointmentByID(ctx, id)
	if err != nil {
		return err
	}

	if !caller.IsAdmin() && appointment.UserID != caller.ID {
		return ErrForbidden
	}

	result := s.db.WithContext(ctx).Delete(&models.Appointment{}, appointment.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
