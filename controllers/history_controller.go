package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/services"
)

func historyServiceFrom(c *gin.Context) *services.HistoryService {
	db := c.MustGet("db").(*gorm.DB)
	return services.NewHistoryService(db)
}

// GET /api/history
func GetHistory(c *gin.Context) {
	svc := historyServiceFrom(c)

	items, err := svc.GetHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc lịch sử"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/history/stats
func GetHistoryStats(c *gin.Context) {
	svc := historyServiceFrom(c)

	stats, err := svc.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tính thống kê"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/history/:sessionGuid
func GetHistoryItem(c *gin.Context) {
	svc := historyServiceFrom(c)

	item, err := svc.GetHistoryItem(c.Request.Context(), c.Param("sessionGuid"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy mục lịch sử"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc mục lịch sử"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/history/:sessionGuid
func DeleteHistoryItem(c *gin.Context) {
	svc := historyServiceFrom(c)

	deleted, err := svc.DeleteHistoryItem(c.Request.Context(), c.Param("sessionGuid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá mục lịch sử"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy mục lịch sử"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá mục lịch sử"})
}
