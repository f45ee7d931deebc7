package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/interquiz-backend/controllers"
	"github.com/vnkhanh/interquiz-backend/middleware"
	"gorm.io/gorm"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	//Cấu hình master key, API key, model
	cfg := api.Group("/config")
	{
		cfg.GET("/status", controllers.GetConfigStatus)
		cfg.POST("/master-key", controllers.SetMasterKey)
		cfg.POST("/verify-master-key", controllers.VerifyMasterKey)
		cfg.POST("/api-key", controllers.SetAPIKey)
		cfg.GET("/model", controllers.GetModel)
		cfg.PUT("/model", controllers.SetModel)
	}

	//Danh mục ngôn ngữ, loại công nghệ, độ khó
	languages := api.Group("/languages")
	{
		languages.GET("/technology-types", controllers.GetTechnologyTypes)
		languages.GET("/difficulty-levels", controllers.GetDifficultyLevels)
		languages.GET("/categories/:type", controllers.GetCategoriesByType)
		languages.GET("", controllers.GetLanguages)
		languages.GET("/:type", controllers.GetLanguagesByType)
		languages.POST("", controllers.AddLanguage)
		languages.DELETE("/:id", controllers.DeleteLanguage)
	}

	//Tạo và làm quiz
	quiz := api.Group("/quiz")
	{
		quiz.POST("/generate", controllers.GenerateQuiz)
		quiz.POST("/generate-offline", controllers.GenerateOfflineQuiz)
		quiz.POST("/repeat", controllers.RepeatQuiz)
		quiz.GET("/stored-count", controllers.GetStoredQuestionCount)
		quiz.GET("/:sessionGuid", controllers.GetQuizSession)
		quiz.GET("/:sessionGuid/questions/:questionNumber", controllers.GetQuizQuestion)
		quiz.POST("/:sessionGuid/answer", controllers.SubmitAnswer)
		quiz.POST("/:sessionGuid/complete", controllers.CompleteQuiz)
		quiz.GET("/:sessionGuid/results", controllers.GetQuizResults)
	}

	//Lịch sử làm quiz
	history := api.Group("/history")
	{
		history.GET("", controllers.GetHistory)
		history.GET("/stats", controllers.GetHistoryStats)
		history.GET("/:sessionGuid", controllers.GetHistoryItem)
		history.DELETE("/:sessionGuid", controllers.DeleteHistoryItem)
	}

	return r
}
