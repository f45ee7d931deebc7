package models

import "time"

// Question là câu hỏi đã lưu trong ngân hàng câu hỏi.
// ExternalID là mã công khai cho client, tách biệt với khoá số nội bộ.
type Question struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ExternalID        string    `gorm:"size:36;uniqueIndex;not null" json:"external_id"`
	LanguageID        uint      `gorm:"not null;index:idx_question_filter" json:"language_id"`
	CategoryID        uint      `gorm:"not null;index:idx_question_filter" json:"category_id"`
	DifficultyLevelID uint      `gorm:"not null;index:idx_question_filter" json:"difficulty_level_id"`
	QuestionText      string    `gorm:"type:text;not null" json:"question_text"`
	Explanation       *string   `gorm:"type:text" json:"explanation"`
	SourceURL         *string   `gorm:"type:text" json:"source_url"`
	SourceTitle       *string   `gorm:"type:text" json:"source_title"`
	Hint              *string   `gorm:"type:text" json:"hint"`
	IsVerified        bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	Language        ProgrammingLanguage `gorm:"foreignKey:LanguageID" json:"-"`
	Category        Category            `gorm:"foreignKey:CategoryID" json:"-"`
	DifficultyLevel DifficultyLevel     `gorm:"foreignKey:DifficultyLevelID" json:"-"`
	Answers         []Answer            `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;" json:"answers"`
}

type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	AnswerText string `gorm:"type:text;not null" json:"answer_text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
	SortOrder  int    `gorm:"not null" json:"sort_order"`
}
