package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/models"
)

type AddLanguageInput struct {
	DisplayName      string `json:"display_name" binding:"required"`
	TechnologyTypeID uint   `json:"technology_type_id" binding:"required"`
}

// GET /api/languages/technology-types
func GetTechnologyTypes(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var types []models.TechnologyType
	if err := db.Order("id").Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc loại công nghệ"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// GET /api/languages
func GetLanguages(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var languages []models.ProgrammingLanguage
	if err := db.Where("is_active = ?", true).Order("display_name").Find(&languages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc danh sách ngôn ngữ"})
		return
	}
	c.JSON(http.StatusOK, languages)
}

// GET /api/languages/:type — lọc theo tên loại công nghệ (backend/frontend)
func GetLanguagesByType(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var techType models.TechnologyType
	if err := db.Where("name = ?", c.Param("type")).First(&techType).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy loại công nghệ"})
		return
	}

	var languages []models.ProgrammingLanguage
	err := db.Where("technology_type_id = ? AND is_active = ?", techType.ID, true).
		Order("display_name").
		Find(&languages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc danh sách ngôn ngữ"})
		return
	}
	c.JSON(http.StatusOK, languages)
}

// GET /api/languages/categories/:type
func GetCategoriesByType(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var techType models.TechnologyType
	if err := db.Where("name = ?", c.Param("type")).First(&techType).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy loại công nghệ"})
		return
	}

	var categories []models.Category
	err := db.Where("technology_type_id = ? AND is_active = ?", techType.ID, true).
		Order("id").
		Find(&categories).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc danh mục"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GET /api/languages/difficulty-levels
func GetDifficultyLevels(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var levels []models.DifficultyLevel
	if err := db.Order("sort_order").Find(&levels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc độ khó"})
		return
	}
	c.JSON(http.StatusOK, levels)
}

// POST /api/languages — thêm ngôn ngữ tuỳ chỉnh do người dùng nhập
func AddLanguage(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input AddLanguageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "display_name và technology_type_id là bắt buộc"})
		return
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên ngôn ngữ không được để trống"})
		return
	}

	var techType models.TechnologyType
	if err := db.First(&techType, input.TechnologyTypeID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Loại công nghệ không hợp lệ"})
		return
	}

	// Tên nội bộ sinh từ display name: "C++ / Qt" -> "c-qt"
	name := slug.Make(displayName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên ngôn ngữ không hợp lệ"})
		return
	}

	var existing models.ProgrammingLanguage
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ngôn ngữ này đã tồn tại"})
		return
	}

	language := models.ProgrammingLanguage{
		Name:             name,
		DisplayName:      displayName,
		TechnologyTypeID: techType.ID,
		IsActive:         true,
		IsCustom:         true,
	}
	if err := db.Create(&language).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể thêm ngôn ngữ"})
		return
	}
	c.JSON(http.StatusCreated, language)
}

// DELETE /api/languages/:id — chỉ xoá được ngôn ngữ tuỳ chỉnh
func DeleteLanguage(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var language models.ProgrammingLanguage
	if err := db.First(&language, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy ngôn ngữ"})
		return
	}
	if !language.IsCustom {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không thể xoá ngôn ngữ mặc định"})
		return
	}

	if err := db.Delete(&language).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá ngôn ngữ"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá ngôn ngữ"})
}
