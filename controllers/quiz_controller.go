package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/services"
)

// generator dùng chung cho mọi request; test có thể thay bằng fake
var generator services.QuizGenerator = services.NewGeminiGenerator()

type GenerateQuizInputBody struct {
	LanguageID        uint   `json:"language_id" binding:"required"`
	CategoryID        uint   `json:"category_id" binding:"required"`
	DifficultyLevelID uint   `json:"difficulty_level_id" binding:"required"`
	Hint              string `json:"hint"`
	MasterKey         string `json:"master_key"`
	QuizLanguage      string `json:"quiz_language"`
}

type RepeatQuizInput struct {
	SessionGuid string `json:"session_guid" binding:"required"`
}

func quizServiceFrom(c *gin.Context) *services.QuizService {
	db := c.MustGet("db").(*gorm.DB)
	return services.NewQuizService(db, generator)
}

// POST /api/quiz/generate
func GenerateQuiz(c *gin.Context) {
	svc := quizServiceFrom(c)

	var input GenerateQuizInputBody
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu gửi lên không hợp lệ"})
		return
	}
	if input.QuizLanguage == "" {
		input.QuizLanguage = "vi"
	}

	session, err := svc.GenerateQuiz(c.Request.Context(), services.GenerateQuizInput{
		LanguageID:        input.LanguageID,
		CategoryID:        input.CategoryID,
		DifficultyLevelID: input.DifficultyLevelID,
		Hint:              input.Hint,
		MasterKey:         input.MasterKey,
		QuizLanguage:      input.QuizLanguage,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Master key không đúng hoặc chưa cấu hình API key"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ngôn ngữ, danh mục hoặc độ khó không hợp lệ"})
		case errors.Is(err, services.ErrGenerationFailed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Không thể tạo quiz. Kiểm tra master key và cấu hình API."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo quiz"})
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// POST /api/quiz/generate-offline
func GenerateOfflineQuiz(c *gin.Context) {
	svc := quizServiceFrom(c)

	var input GenerateQuizInputBody
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu gửi lên không hợp lệ"})
		return
	}

	session, err := svc.GenerateOfflineQuiz(c.Request.Context(), services.GenerateQuizInput{
		LanguageID:        input.LanguageID,
		CategoryID:        input.CategoryID,
		DifficultyLevelID: input.DifficultyLevelID,
		Hint:              input.Hint,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotEnoughQuestions):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Chưa đủ câu hỏi đã lưu. Hãy tạo quiz online trước."})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ngôn ngữ, danh mục hoặc độ khó không hợp lệ"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo quiz offline"})
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// POST /api/quiz/repeat
func RepeatQuiz(c *gin.Context) {
	svc := quizServiceFrom(c)

	var input RepeatQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_guid là bắt buộc"})
		return
	}

	session, err := svc.RepeatQuiz(c.Request.Context(), input.SessionGuid)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy session gốc"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lặp lại quiz"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /api/quiz/stored-count?language_id=&category_id=&difficulty_level_id=
func GetStoredQuestionCount(c *gin.Context) {
	svc := quizServiceFrom(c)

	languageID, err1 := strconv.ParseUint(c.Query("language_id"), 10, 32)
	categoryID, err2 := strconv.ParseUint(c.Query("category_id"), 10, 32)
	difficultyID, err3 := strconv.ParseUint(c.Query("difficulty_level_id"), 10, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tham số lọc không hợp lệ"})
		return
	}

	count, err := svc.StoredQuestionCount(c.Request.Context(),
		uint(languageID), uint(categoryID), uint(difficultyID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm câu hỏi"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":                count,
		"can_generate_offline": count >= services.MinOfflineQuestions,
	})
}

// GET /api/quiz/:sessionGuid
func GetQuizSession(c *gin.Context) {
	svc := quizServiceFrom(c)

	session, err := svc.GetSession(c.Request.Context(), c.Param("sessionGuid"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc session"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /api/quiz/:sessionGuid/questions/:questionNumber
func GetQuizQuestion(c *gin.Context) {
	svc := quizServiceFrom(c)

	questionNumber, err := strconv.Atoi(c.Param("questionNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Số thứ tự câu hỏi không hợp lệ"})
		return
	}

	question, err := svc.GetQuestion(c.Request.Context(), c.Param("sessionGuid"), questionNumber)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy câu hỏi"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc câu hỏi"})
		return
	}
	c.JSON(http.StatusOK, question)
}

// POST /api/quiz/:sessionGuid/answer
func SubmitAnswer(c *gin.Context) {
	svc := quizServiceFrom(c)

	var input services.SubmitAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil || input.QuestionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id là bắt buộc"})
		return
	}

	ok, err := svc.SubmitAnswer(c.Request.Context(), c.Param("sessionGuid"), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu câu trả lời"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không thể lưu câu trả lời"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã lưu câu trả lời"})
}

// POST /api/quiz/:sessionGuid/complete
func CompleteQuiz(c *gin.Context) {
	svc := quizServiceFrom(c)

	results, err := svc.CompleteQuiz(c.Request.Context(), c.Param("sessionGuid"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể hoàn thành quiz"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/quiz/:sessionGuid/results
func GetQuizResults(c *gin.Context) {
	svc := quizServiceFrom(c)

	results, err := svc.GetResults(c.Request.Context(), c.Param("sessionGuid"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đọc kết quả"})
		return
	}
	c.JSON(http.StatusOK, results)
}
