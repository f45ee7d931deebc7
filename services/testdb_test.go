package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/interquiz-backend/models"
)

// newTestDB mở sqlite in-memory riêng cho từng test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("mở sqlite in-memory thất bại: %v", err)
	}

	err = db.AutoMigrate(
		&models.AppSetting{},
		&models.APIConfiguration{},
		&models.TechnologyType{},
		&models.ProgrammingLanguage{},
		&models.Category{},
		&models.DifficultyLevel{},
		&models.Question{},
		&models.Answer{},
		&models.QuizSession{},
		&models.QuizSessionQuestion{},
		&models.QuizResult{},
	)
	if err != nil {
		t.Fatalf("automigrate thất bại: %v", err)
	}
	return db
}

type testCatalog struct {
	LanguageID        uint
	CategoryID        uint
	DifficultyLevelID uint
}

func seedTestCatalog(t *testing.T, db *gorm.DB) testCatalog {
	t.Helper()

	techType := models.TechnologyType{Name: "backend", DisplayName: "Backend"}
	if err := db.Create(&techType).Error; err != nil {
		t.Fatalf("seed technology type thất bại: %v", err)
	}

	language := models.ProgrammingLanguage{
		Name:             "go",
		DisplayName:      "Go",
		TechnologyTypeID: techType.ID,
		IsActive:         true,
	}
	if err := db.Create(&language).Error; err != nil {
		t.Fatalf("seed language thất bại: %v", err)
	}

	category := models.Category{
		Name:             "fundamentals",
		DisplayName:      "Nền tảng ngôn ngữ",
		TechnologyTypeID: techType.ID,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category thất bại: %v", err)
	}

	difficulty := models.DifficultyLevel{
		Name:        "junior",
		DisplayName: "Junior",
		SortOrder:   1,
	}
	if err := db.Create(&difficulty).Error; err != nil {
		t.Fatalf("seed difficulty thất bại: %v", err)
	}

	return testCatalog{
		LanguageID:        language.ID,
		CategoryID:        category.ID,
		DifficultyLevelID: difficulty.ID,
	}
}

// seedStoredQuestions tạo n câu hỏi trong ngân hàng, mỗi câu 5 đáp án,
// đáp án đúng luôn ở vị trí thứ 2.
func seedStoredQuestions(t *testing.T, db *gorm.DB, cat testCatalog, n int) []models.Question {
	t.Helper()

	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		q := models.Question{
			ExternalID:        uuid.NewString(),
			LanguageID:        cat.LanguageID,
			CategoryID:        cat.CategoryID,
			DifficultyLevelID: cat.DifficultyLevelID,
			QuestionText:      fmt.Sprintf("Câu hỏi số %d?", i+1),
			IsVerified:        true,
		}
		for j := 0; j < AnswersPerQuestion; j++ {
			q.Answers = append(q.Answers, models.Answer{
				AnswerText: fmt.Sprintf("Đáp án %d", j+1),
				IsCorrect:  j == 1,
				SortOrder:  j + 1,
			})
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed question thất bại: %v", err)
		}
		questions = append(questions, q)
	}
	return questions
}

// fakeGenerator thay Gemini trong test; ghi lại request cuối cùng.
type fakeGenerator struct {
	questions []GeneratedQuestion
	err       error
	lastReq   QuizGenerationRequest
	calls     int
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, _ string, _ string, req QuizGenerationRequest) ([]GeneratedQuestion, error) {
	f.calls++
	f.lastReq = req
	return f.questions, f.err
}

func makeGeneratedQuestions(n int) []GeneratedQuestion {
	out := make([]GeneratedQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := GeneratedQuestion{
			QuestionText: fmt.Sprintf("Câu sinh ra số %d?", i+1),
			Explanation:  "Vì đáp án B đúng",
			SourceURL:    "https://go.dev/doc",
			SourceTitle:  "Tài liệu Go",
		}
		for j := 0; j < AnswersPerQuestion; j++ {
			q.Answers = append(q.Answers, GeneratedAnswer{
				Text:      fmt.Sprintf("Lựa chọn %d", j+1),
				IsCorrect: j == 1,
			})
		}
		out = append(out, q)
	}
	return out
}

// setupAuthorized đặt master key + API key để test đường online.
func setupAuthorized(t *testing.T, db *gorm.DB, masterKey, apiKey string) {
	t.Helper()

	svc := NewConfigService(db)
	if err := svc.SetMasterKey(context.Background(), masterKey); err != nil {
		t.Fatalf("đặt master key thất bại: %v", err)
	}
	ok, err := svc.SetAPIKey(context.Background(), apiKey, masterKey)
	if err != nil || !ok {
		t.Fatalf("đặt API key thất bại: ok=%v err=%v", ok, err)
	}
}
