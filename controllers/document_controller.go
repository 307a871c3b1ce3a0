package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mdAli87/ISF-admin/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DocumentController struct {
	Svc *services.DocumentService
}

func NewDocumentController(svc *services.DocumentService) *DocumentController {
	return &DocumentController{Svc: svc}
}

type uploadDocumentReq struct {
	Title      string `json:"title" binding:"required"`
	Category   string `json:"category"`
	DataBase64 string `json:"data_base64" binding:"required"`
}

// POST /documents
func (dc *DocumentController) Upload(c *gin.Context) {
	uid := c.GetUint("userID")

	var req uploadDocumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	doc, err := dc.Svc.Upload(uid, services.UploadDocumentInput{
		Title:      req.Title,
		Category:   req.Category,
		DataBase64: req.DataBase64,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GET /documents?category=...
func (dc *DocumentController) List(c *gin.Context) {
	docs, err := dc.Svc.List(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// GET /documents/:id
func (dc *DocumentController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	doc, err := dc.Svc.Get(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DELETE /documents/:id
func (dc *DocumentController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := dc.Svc.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
