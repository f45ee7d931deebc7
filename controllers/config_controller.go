package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/services"
)

// ====== INPUT STRUCTS ======
type SetMasterKeyInput struct {
	MasterKey string `json:"master_key" binding:"required"`
}

type VerifyMasterKeyInput struct {
	MasterKey string `json:"master_key" binding:"required"`
}

type SetAPIKeyInput struct {
	APIKey    string `json:"api_key" binding:"required"`
	MasterKey string `json:"master_key" binding:"required"`
}

type SetModelInput struct {
	ModelName string `json:"model_name" binding:"required"`
}

// ====== HANDLERS ======

// GET /api/config/status
func GetConfigStatus(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	svc := services.NewConfigService(db)

	status, err := svc.GetStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc trạng thái cấu hình"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /api/config/master-key
func SetMasterKey(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	svc := services.NewConfigService(db)

	var input SetMasterKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Master key là bắt buộc"})
		return
	}
	if len(input.MasterKey) < services.MinMasterKeyLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Master key phải có tối thiểu 16 ký tự"})
		return
	}

	if err := svc.SetMasterKey(c.Request.Context(), input.MasterKey); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Master key phải có tối thiểu 16 ký tự"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu master key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã đặt master key thành công"})
}

// POST /api/config/verify-master-key
func VerifyMasterKey(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	svc := services.NewConfigService(db)

	var input VerifyMasterKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Master key là bắt buộc"})
		return
	}

	valid, err := svc.VerifyMasterKey(c.Request.Context(), input.MasterKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xác minh master key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// POST /api/config/api-key
func SetAPIKey(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	svc := services.NewConfigService(db)

	var input SetAPIKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "API key và master key là bắt buộc"})
		return
	}

	ok, err := svc.SetAPIKey(c.Request.Context(), input.APIKey, input.MasterKey)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "API key là bắt buộc"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu API key"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Master key không đúng"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã lưu API key thành công"})
}

// GET /api/config/model
func GetModel(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	svc := services.NewConfigService(db)

	model, err := svc.GetModel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": model})
}

// PUT /api/config/model
func SetModel(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	svc := services.NewConfigService(db)

	var input SetModelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên model là bắt buộc"})
		return
	}

	if err := svc.SetModel(c.Request.Context(), input.ModelName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu model"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã lưu model thành công"})
}
