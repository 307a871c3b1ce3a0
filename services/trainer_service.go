package services

import (
	"errors"

	"github.com/mdAli87/ISF-admin/models"

	"gorm.io/gorm"
)

type TrainerService struct{ db *gorm.DB }

func NewTrainerService(db *gorm.DB) *TrainerService { return &TrainerService{db: db} }

type TrainerInput struct {
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

func (s *TrainerService) Create(in TrainerInput) (*models.Trainer, error) {
	t := models.Trainer{
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		Specialty: in.Specialty,
		Active:    true,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, storageErr("insert trainer", err)
	}
	return &t, nil
}

func (s *TrainerService) Get(id uint) (*models.Trainer, error) {
	var t models.Trainer
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, storageErr("load trainer", err)
	}
	return &t, nil
}

func (s *TrainerService) List(activeOnly bool) ([]models.Trainer, error) {
	q := s.db.Order("full_name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []models.Trainer
	if err := q.Find(&out).Error; err != nil {
		return nil, storageErr("list trainers", err)
	}
	return out, nil
}

func (s *TrainerService) Update(id uint, in TrainerInput) (*models.Trainer, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		t.FullName = in.FullName
	}
	if in.Email != "" {
		t.Email = in.Email
	}
	if in.Phone != "" {
		t.Phone = in.Phone
	}
	if in.Specialty != "" {
		t.Specialty = in.Specialty
	}
	if err := s.db.Save(t).Error; err != nil {
		return nil, storageErr("update trainer", err)
	}
	return t, nil
}

// Deactivate retires a trainer without deleting history; inactive trainers
// drop out of scheduling and dispatch recipient sets.
func (s *TrainerService) Deactivate(id uint) error {
	res := s.db.Model(&models.Trainer{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return storageErr("deactivate trainer", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
