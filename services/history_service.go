package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/models"
)

type HistoryItemDTO struct {
	SessionGuid        string     `json:"session_guid"`
	Language           string     `json:"language"`
	Category           string     `json:"category"`
	DifficultyLevel    string     `json:"difficulty_level"`
	TotalQuestions     int        `json:"total_questions"`
	CorrectAnswers     int        `json:"correct_answers"`
	ScorePercentage    float64    `json:"score_percentage"`
	IsOfflineGenerated bool       `json:"is_offline_generated"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	LanguageID         uint       `json:"language_id"`
	CategoryID         uint       `json:"category_id"`
	DifficultyLevelID  uint       `json:"difficulty_level_id"`
	Hint               *string    `json:"hint"`
}

type HistoryStatsDTO struct {
	TotalQuizzes             int                `json:"total_quizzes"`
	CompletedQuizzes         int                `json:"completed_quizzes"`
	AverageScore             float64            `json:"average_score"`
	TotalQuestions           int                `json:"total_questions"`
	TotalCorrectAnswers      int                `json:"total_correct_answers"`
	QuizzesByLanguage        map[string]int     `json:"quizzes_by_language"`
	AverageScoreByDifficulty map[string]float64 `json:"average_score_by_difficulty"`
}

// HistoryService duyệt và xoá lịch sử làm quiz, tính thống kê tổng hợp.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

func historyItem(s models.QuizSession) HistoryItemDTO {
	correct := 0
	for _, r := range s.Results {
		if r.IsCorrect {
			correct++
		}
	}
	score := 0.0
	if s.TotalQuestions > 0 {
		score = float64(correct) / float64(s.TotalQuestions) * 100
	}
	return HistoryItemDTO{
		SessionGuid:        s.SessionGuid,
		Language:           s.Language.DisplayName,
		Category:           s.Category.DisplayName,
		DifficultyLevel:    s.DifficultyLevel.DisplayName,
		TotalQuestions:     s.TotalQuestions,
		CorrectAnswers:     correct,
		ScorePercentage:    score,
		IsOfflineGenerated: s.IsOfflineGenerated,
		StartedAt:          s.StartedAt,
		CompletedAt:        s.CompletedAt,
		LanguageID:         s.LanguageID,
		CategoryID:         s.CategoryID,
		DifficultyLevelID:  s.DifficultyLevelID,
		Hint:               s.Hint,
	}
}

// GetHistory trả về mọi session, mới nhất trước.
func (s *HistoryService) GetHistory(ctx context.Context) ([]HistoryItemDTO, error) {
	var sessions []models.QuizSession
	err := s.db.WithContext(ctx).
		Preload("Language").Preload("Category").Preload("DifficultyLevel").
		Preload("Results").
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItemDTO, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, historyItem(session))
	}
	return items, nil
}

func (s *HistoryService) GetHistoryItem(ctx context.Context, sessionGuid string) (*HistoryItemDTO, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).
		Preload("Language").Preload("Category").Preload("DifficultyLevel").
		Preload("Results").
		Where("session_guid = ?", sessionGuid).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	item := historyItem(session)
	return &item, nil
}

// DeleteHistoryItem xoá session cùng liên kết câu hỏi và đáp án trong 1 tx.
// Bản thân các Question được giữ lại — chúng dùng chung giữa nhiều session.
func (s *HistoryService) DeleteHistoryItem(ctx context.Context, sessionGuid string) (bool, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).
		Where("session_guid = ?", sessionGuid).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.QuizResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.QuizSessionQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetStats tổng hợp trên các session đã hoàn thành.
func (s *HistoryService) GetStats(ctx context.Context) (*HistoryStatsDTO, error) {
	var sessions []models.QuizSession
	err := s.db.WithContext(ctx).
		Preload("Language").Preload("DifficultyLevel").
		Preload("Results").
		Where("is_completed = ?", true).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	stats := &HistoryStatsDTO{
		QuizzesByLanguage:        make(map[string]int),
		AverageScoreByDifficulty: make(map[string]float64),
	}

	type diffAgg struct{ total, correct int }
	byDifficulty := make(map[string]*diffAgg)

	for _, session := range sessions {
		correct := 0
		for _, r := range session.Results {
			if r.IsCorrect {
				correct++
			}
		}

		stats.TotalQuizzes++
		stats.CompletedQuizzes++
		stats.TotalQuestions += session.TotalQuestions
		stats.TotalCorrectAnswers += correct
		stats.QuizzesByLanguage[session.Language.DisplayName]++

		agg, ok := byDifficulty[session.DifficultyLevel.DisplayName]
		if !ok {
			agg = &diffAgg{}
			byDifficulty[session.DifficultyLevel.DisplayName] = agg
		}
		agg.total += session.TotalQuestions
		agg.correct += correct
	}

	if stats.TotalQuestions > 0 {
		stats.AverageScore = float64(stats.TotalCorrectAnswers) / float64(stats.TotalQuestions) * 100
	}
	for name, agg := range byDifficulty {
		if agg.total > 0 {
			stats.AverageScoreByDifficulty[name] = float64(agg.correct) / float64(agg.total) * 100
		} else {
			stats.AverageScoreByDifficulty[name] = 0
		}
	}

	return stats, nil
}
