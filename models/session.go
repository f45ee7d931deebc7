package models

import "time"

// QuizSession là một lượt làm quiz. SessionGuid là token công khai cho client.
type QuizSession struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	SessionGuid       string     `gorm:"size:36;uniqueIndex;not null" json:"session_guid"`
	LanguageID        uint       `gorm:"not null" json:"language_id"`
	CategoryID        uint       `gorm:"not null" json:"category_id"`
	DifficultyLevelID uint       `gorm:"not null" json:"difficulty_level_id"`
	Hint              *string    `gorm:"type:text" json:"hint"`
	TotalQuestions    int        `gorm:"not null" json:"total_questions"`
	IsCompleted       bool       `gorm:"default:false" json:"is_completed"`
	IsOfflineGenerated bool      `gorm:"default:false" json:"is_offline_generated"`
	StartedAt         time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`

	Language        ProgrammingLanguage   `gorm:"foreignKey:LanguageID" json:"-"`
	Category        Category              `gorm:"foreignKey:CategoryID" json:"-"`
	DifficultyLevel DifficultyLevel       `gorm:"foreignKey:DifficultyLevelID" json:"-"`
	SessionQuestions []QuizSessionQuestion `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE;" json:"-"`
	Results          []QuizResult          `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE;" json:"-"`
}

// QuizSessionQuestion gắn câu hỏi vào session theo thứ tự phục vụ (1-based).
// QuestionOrder là thứ tự duy nhất quyết định mọi việc phục vụ và chấm điểm.
type QuizSessionQuestion struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	SessionID     uint `gorm:"not null;uniqueIndex:idx_session_order" json:"session_id"`
	QuestionID    uint `gorm:"not null" json:"question_id"`
	QuestionOrder int  `gorm:"not null;uniqueIndex:idx_session_order" json:"question_order"`

	Question Question `gorm:"foreignKey:QuestionID" json:"-"`
}

// QuizResult lưu câu trả lời của 1 câu hỏi trong 1 session.
// Mỗi cặp (session, question) chỉ có 1 dòng — nộp lại sẽ ghi đè.
type QuizResult struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SessionID        uint      `gorm:"not null;uniqueIndex:idx_session_question" json:"session_id"`
	QuestionID       uint      `gorm:"not null;uniqueIndex:idx_session_question" json:"question_id"`
	SelectedAnswerID *uint     `json:"selected_answer_id"`
	IsCorrect        bool      `gorm:"default:false" json:"is_correct"`
	AnsweredAt       time.Time `gorm:"autoCreateTime" json:"answered_at"`
}
