package services

import (
	"errors"
	"fmt"

	"github.com/mdAli87/ISF-admin/models"
	"github.com/mdAli87/ISF-admin/utils"

	"gorm.io/gorm"
)

type DocumentService struct{ db *gorm.DB }

func NewDocumentService(db *gorm.DB) *DocumentService { return &DocumentService{db: db} }

type UploadDocumentInput struct {
	Title      string
	Category   string
	DataBase64 string // "data:<mime>;base64,<data>"
}

func (s *DocumentService) Upload(uploadedBy uint, in UploadDocumentInput) (*models.Document, error) {
	prefix := fmt.Sprintf("documents/%s", in.Category)
	obj, err := utils.UploadBase64ToS3(in.DataBase64, prefix)
	if err != nil {
		return nil, fmt.Errorf("document upload failed: %w", err)
	}

	doc := models.Document{
		UploadedBy:  uploadedBy,
		Title:       in.Title,
		Category:    in.Category,
		Key:         obj.Key,
		URL:         obj.URL,
		ContentType: obj.ContentType,
		SizeBytes:   obj.SizeBytes,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return nil, storageErr("insert document", err)
	}
	return &doc, nil
}

func (s *DocumentService) List(category string) ([]models.Document, error) {
	q := s.db.Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var docs []models.Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, storageErr("list documents", err)
	}
	return docs, nil
}

// Delete removes the metadata row (soft delete); the S3 object stays for audit.
func (s *DocumentService) Delete(id uint) error {
	res := s.db.Delete(&models.Document{}, id)
	if res.Error != nil {
		return storageErr("delete document", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *DocumentService) Get(id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, storageErr("load document", err)
	}
	return &doc, nil
}
