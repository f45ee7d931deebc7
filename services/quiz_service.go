package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/models"
)

const (
	// OnlineQuestionCount là số câu yêu cầu AI sinh mỗi lượt
	OnlineQuestionCount = 20
	// MinOfflineQuestions là ngưỡng tối thiểu để tạo quiz offline
	MinOfflineQuestions = 10
	// MaxOfflineQuestions là số câu tối đa lấy từ ngân hàng câu hỏi
	MaxOfflineQuestions = 20
)

// GenerateQuizInput là tham số chung cho cả tạo online lẫn offline.
type GenerateQuizInput struct {
	LanguageID        uint
	CategoryID        uint
	DifficultyLevelID uint
	Hint              string
	MasterKey         string
	QuizLanguage      string
}

type QuizSessionDTO struct {
	SessionGuid        string    `json:"session_guid"`
	Language           string    `json:"language"`
	Category           string    `json:"category"`
	DifficultyLevel    string    `json:"difficulty_level"`
	Hint               *string   `json:"hint"`
	TotalQuestions     int       `json:"total_questions"`
	IsCompleted        bool      `json:"is_completed"`
	IsOfflineGenerated bool      `json:"is_offline_generated"`
	StartedAt          time.Time `json:"started_at"`
}

type AnswerOptionDTO struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// QuestionDTO là câu hỏi đang phục vụ — tuyệt đối không kèm cờ đúng/sai.
type QuestionDTO struct {
	QuestionNumber int               `json:"question_number"`
	QuestionID     string            `json:"question_id"`
	QuestionText   string            `json:"question_text"`
	Answers        []AnswerOptionDTO `json:"answers"`
}

type SubmitAnswerInput struct {
	QuestionID       string `json:"question_id"`
	SelectedAnswerID *uint  `json:"selected_answer_id"`
}

type AnswerResultDTO struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
	IsSelected bool   `json:"is_selected"`
}

type QuestionResultDTO struct {
	QuestionNumber   int               `json:"question_number"`
	QuestionText     string            `json:"question_text"`
	Answers          []AnswerResultDTO `json:"answers"`
	SelectedAnswerID *uint             `json:"selected_answer_id"`
	IsCorrect        bool              `json:"is_correct"`
	Explanation      *string           `json:"explanation"`
	SourceURL        *string           `json:"source_url"`
	SourceTitle      *string           `json:"source_title"`
}

type QuizResultsDTO struct {
	SessionGuid     string              `json:"session_guid"`
	Language        string              `json:"language"`
	Category        string              `json:"category"`
	DifficultyLevel string              `json:"difficulty_level"`
	TotalQuestions  int                 `json:"total_questions"`
	CorrectAnswers  int                 `json:"correct_answers"`
	ScorePercentage float64             `json:"score_percentage"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     *time.Time          `json:"completed_at"`
	Questions       []QuestionResultDTO `json:"questions"`
}

// QuizService điều phối vòng đời quiz: tạo session (online / offline / lặp lại),
// phục vụ từng câu hỏi, ghi đáp án và chấm điểm.
type QuizService struct {
	db        *gorm.DB
	config    *ConfigService
	generator QuizGenerator
}

func NewQuizService(db *gorm.DB, generator QuizGenerator) *QuizService {
	return &QuizService{db: db, config: NewConfigService(db), generator: generator}
}

type catalogRefs struct {
	language   models.ProgrammingLanguage
	category   models.Category
	difficulty models.DifficultyLevel
}

func (s *QuizService) loadCatalogRefs(ctx context.Context, input GenerateQuizInput) (*catalogRefs, error) {
	var refs catalogRefs
	db := s.db.WithContext(ctx)

	if err := db.First(&refs.language, input.LanguageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if err := db.First(&refs.category, input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if err := db.First(&refs.difficulty, input.DifficultyLevelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	return &refs, nil
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GenerateQuiz: xác minh master key qua GetDecryptedAPIKey, gọi AI,
// rồi lưu câu hỏi + session + liên kết trong MỘT transaction.
// AI thất bại hoặc bị huỷ giữa chừng thì không có session nào được tạo.
func (s *QuizService) GenerateQuiz(ctx context.Context, input GenerateQuizInput) (*QuizSessionDTO, error) {
	apiKey, err := s.config.GetDecryptedAPIKey(ctx, input.MasterKey)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, ErrUnauthorized
	}

	modelName, err := s.config.GetModel(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadCatalogRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	categoryDesc := ""
	if refs.category.Description != nil {
		categoryDesc = *refs.category.Description
	}
	difficultyDesc := ""
	if refs.difficulty.Description != nil {
		difficultyDesc = *refs.difficulty.Description
	}

	generated, err := s.generator.GenerateQuiz(ctx, apiKey, modelName, QuizGenerationRequest{
		Language:              refs.language.Name,
		LanguageDisplay:       refs.language.DisplayName,
		Category:              refs.category.DisplayName,
		CategoryDescription:   categoryDesc,
		Difficulty:            refs.difficulty.DisplayName,
		DifficultyDescription: difficultyDesc,
		Hint:                  input.Hint,
		QuizLanguage:          input.QuizLanguage,
		QuestionCount:         OnlineQuestionCount,
	})
	if err != nil || len(generated) == 0 {
		return nil, ErrGenerationFailed
	}

	// AI có thể trả ít hơn số câu yêu cầu; dùng số thực tế
	session := models.QuizSession{
		SessionGuid:        uuid.NewString(),
		LanguageID:         input.LanguageID,
		CategoryID:         input.CategoryID,
		DifficultyLevelID:  input.DifficultyLevelID,
		Hint:               optionalText(input.Hint),
		TotalQuestions:     len(generated),
		IsOfflineGenerated: false,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questionIDs := make([]uint, 0, len(generated))
		for _, gen := range generated {
			question := models.Question{
				ExternalID:        uuid.NewString(),
				LanguageID:        input.LanguageID,
				CategoryID:        input.CategoryID,
				DifficultyLevelID: input.DifficultyLevelID,
				QuestionText:      gen.QuestionText,
				Explanation:       optionalText(gen.Explanation),
				SourceURL:         optionalText(gen.SourceURL),
				SourceTitle:       optionalText(gen.SourceTitle),
				Hint:              optionalText(input.Hint),
				IsVerified:        true,
			}
			for i, ans := range gen.Answers {
				question.Answers = append(question.Answers, models.Answer{
					AnswerText: ans.Text,
					IsCorrect:  ans.IsCorrect,
					SortOrder:  i + 1,
				})
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			questionIDs = append(questionIDs, question.ID)
		}

		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		for i, qid := range questionIDs {
			link := models.QuizSessionQuestion{
				SessionID:     session.ID,
				QuestionID:    qid,
				QuestionOrder: i + 1,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &QuizSessionDTO{
		SessionGuid:        session.SessionGuid,
		Language:           refs.language.DisplayName,
		Category:           refs.category.DisplayName,
		DifficultyLevel:    refs.difficulty.DisplayName,
		Hint:               session.Hint,
		TotalQuestions:     session.TotalQuestions,
		IsCompleted:        false,
		IsOfflineGenerated: false,
		StartedAt:          session.StartedAt,
	}, nil
}

// GenerateOfflineQuiz lấy ngẫu nhiên tối đa 20 câu từ ngân hàng câu hỏi.
// Dưới 10 câu phù hợp thì từ chối.
func (s *QuizService) GenerateOfflineQuiz(ctx context.Context, input GenerateQuizInput) (*QuizSessionDTO, error) {
	refs, err := s.loadCatalogRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	var questions []models.Question
	err = s.db.WithContext(ctx).
		Where("language_id = ? AND category_id = ? AND difficulty_level_id = ?",
			input.LanguageID, input.CategoryID, input.DifficultyLevelID).
		Order("random()").
		Limit(MaxOfflineQuestions).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if len(questions) < MinOfflineQuestions {
		return nil, ErrNotEnoughQuestions
	}

	session := models.QuizSession{
		SessionGuid:        uuid.NewString(),
		LanguageID:         input.LanguageID,
		CategoryID:         input.CategoryID,
		DifficultyLevelID:  input.DifficultyLevelID,
		Hint:               optionalText(input.Hint),
		TotalQuestions:     len(questions),
		IsOfflineGenerated: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		for i, q := range questions {
			link := models.QuizSessionQuestion{
				SessionID:     session.ID,
				QuestionID:    q.ID,
				QuestionOrder: i + 1,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &QuizSessionDTO{
		SessionGuid:        session.SessionGuid,
		Language:           refs.language.DisplayName,
		Category:           refs.category.DisplayName,
		DifficultyLevel:    refs.difficulty.DisplayName,
		Hint:               session.Hint,
		TotalQuestions:     session.TotalQuestions,
		IsCompleted:        false,
		IsOfflineGenerated: true,
		StartedAt:          session.StartedAt,
	}, nil
}

// RepeatQuiz tạo session mới với đúng bộ câu hỏi và thứ tự của session gốc,
// token mới, chưa có đáp án nào. Luôn đánh dấu offline vì không sinh mới.
func (s *QuizService) RepeatQuiz(ctx context.Context, originalGuid string) (*QuizSessionDTO, error) {
	var original models.QuizSession
	err := s.db.WithContext(ctx).
		Preload("Language").Preload("Category").Preload("DifficultyLevel").
		Preload("SessionQuestions").
		Where("session_guid = ?", originalGuid).
		First(&original).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	newSession := models.QuizSession{
		SessionGuid:        uuid.NewString(),
		LanguageID:         original.LanguageID,
		CategoryID:         original.CategoryID,
		DifficultyLevelID:  original.DifficultyLevelID,
		Hint:               original.Hint,
		TotalQuestions:     original.TotalQuestions,
		IsOfflineGenerated: true,
	}

	links := append([]models.QuizSessionQuestion(nil), original.SessionQuestions...)
	sort.Slice(links, func(i, j int) bool { return links[i].QuestionOrder < links[j].QuestionOrder })

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newSession).Error; err != nil {
			return err
		}
		for _, sq := range links {
			link := models.QuizSessionQuestion{
				SessionID:     newSession.ID,
				QuestionID:    sq.QuestionID,
				QuestionOrder: sq.QuestionOrder,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &QuizSessionDTO{
		SessionGuid:        newSession.SessionGuid,
		Language:           original.Language.DisplayName,
		Category:           original.Category.DisplayName,
		DifficultyLevel:    original.DifficultyLevel.DisplayName,
		Hint:               newSession.Hint,
		TotalQuestions:     newSession.TotalQuestions,
		IsCompleted:        false,
		IsOfflineGenerated: true,
		StartedAt:          newSession.StartedAt,
	}, nil
}

func (s *QuizService) GetSession(ctx context.Context, sessionGuid string) (*QuizSessionDTO, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).
		Preload("Language").Preload("Category").Preload("DifficultyLevel").
		Where("session_guid = ?", sessionGuid).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &QuizSessionDTO{
		SessionGuid:        session.SessionGuid,
		Language:           session.Language.DisplayName,
		Category:           session.Category.DisplayName,
		DifficultyLevel:    session.DifficultyLevel.DisplayName,
		Hint:               session.Hint,
		TotalQuestions:     session.TotalQuestions,
		IsCompleted:        session.IsCompleted,
		IsOfflineGenerated: session.IsOfflineGenerated,
		StartedAt:          session.StartedAt,
	}, nil
}

// GetQuestion phục vụ câu thứ n (1-based) theo thứ tự của session.
// Cờ đúng/sai bị loại khỏi payload.
func (s *QuizService) GetQuestion(ctx context.Context, sessionGuid string, questionNumber int) (*QuestionDTO, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).
		Where("session_guid = ?", sessionGuid).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sq models.QuizSessionQuestion
	err = s.db.WithContext(ctx).
		Preload("Question.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("session_id = ? AND question_order = ?", session.ID, questionNumber).
		First(&sq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	answers := make([]AnswerOptionDTO, 0, len(sq.Question.Answers))
	for _, a := range sq.Question.Answers {
		answers = append(answers, AnswerOptionDTO{ID: a.ID, Text: a.AnswerText, Order: a.SortOrder})
	}

	return &QuestionDTO{
		QuestionNumber: questionNumber,
		QuestionID:     sq.Question.ExternalID,
		QuestionText:   sq.Question.QuestionText,
		Answers:        answers,
	}, nil
}

// SubmitAnswer trả về false (không phải lỗi) khi session không tồn tại,
// đã hoàn thành, hoặc câu hỏi không thuộc session. Nộp lại thì ghi đè.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionGuid string, input SubmitAnswerInput) (bool, error) {
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
	if session.IsCompleted {
		return false, nil
	}

	// tìm câu hỏi theo external id trong phạm vi session này
	var sq models.QuizSessionQuestion
	err = s.db.WithContext(ctx).
		Joins("JOIN questions ON questions.id = quiz_session_questions.question_id").
		Where("quiz_session_questions.session_id = ? AND questions.external_id = ?", session.ID, input.QuestionID).
		First(&sq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var correctAnswer models.Answer
	err = s.db.WithContext(ctx).
		Where("question_id = ? AND is_correct = ?", sq.QuestionID, true).
		First(&correctAnswer).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	// không chọn gì thì luôn tính là sai
	isCorrect := input.SelectedAnswerID != nil &&
		correctAnswer.ID != 0 &&
		*input.SelectedAnswerID == correctAnswer.ID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.QuizResult
		err := tx.Where("session_id = ? AND question_id = ?", session.ID, sq.QuestionID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result := models.QuizResult{
				SessionID:        session.ID,
				QuestionID:       sq.QuestionID,
				SelectedAnswerID: input.SelectedAnswerID,
				IsCorrect:        isCorrect,
				AnsweredAt:       time.Now(),
			}
			return tx.Create(&result).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"selected_answer_id": input.SelectedAnswerID,
			"is_correct":         isCorrect,
			"answered_at":        time.Now(),
		}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// CompleteQuiz là idempotent: gọi lại trên session đã hoàn thành
// vẫn trả về đúng kết quả đã chấm, không dời completed_at.
func (s *QuizService) CompleteQuiz(ctx context.Context, sessionGuid string) (*QuizResultsDTO, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).
		Where("session_guid = ?", sessionGuid).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !session.IsCompleted {
		now := time.Now()
		err = s.db.WithContext(ctx).Model(&session).Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
		}).Error
		if err != nil {
			return nil, err
		}
	}

	return s.GetResults(ctx, sessionGuid)
}

// GetResults chấm theo thứ tự phục vụ; câu chưa trả lời tính là sai.
func (s *QuizService) GetResults(ctx context.Context, sessionGuid string) (*QuizResultsDTO, error) {
	var session models.QuizSession
	err := s.db.WithContext(ctx).
		Preload("Language").Preload("Category").Preload("DifficultyLevel").
		Preload("SessionQuestions.Question.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Results").
		Where("session_guid = ?", sessionGuid).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	resultByQuestion := make(map[uint]models.QuizResult, len(session.Results))
	for _, r := range session.Results {
		resultByQuestion[r.QuestionID] = r
	}

	links := append([]models.QuizSessionQuestion(nil), session.SessionQuestions...)
	sort.Slice(links, func(i, j int) bool { return links[i].QuestionOrder < links[j].QuestionOrder })

	questions := make([]QuestionResultDTO, 0, len(links))
	correctCount := 0

	for _, sq := range links {
		result, answered := resultByQuestion[sq.QuestionID]

		var selectedID *uint
		isCorrect := false
		if answered {
			selectedID = result.SelectedAnswerID
			isCorrect = result.IsCorrect
		}
		if isCorrect {
			correctCount++
		}

		answers := make([]AnswerResultDTO, 0, len(sq.Question.Answers))
		for _, a := range sq.Question.Answers {
			answers = append(answers, AnswerResultDTO{
				ID:         a.ID,
				Text:       a.AnswerText,
				IsCorrect:  a.IsCorrect,
				IsSelected: selectedID != nil && a.ID == *selectedID,
			})
		}

		questions = append(questions, QuestionResultDTO{
			QuestionNumber:   sq.QuestionOrder,
			QuestionText:     sq.Question.QuestionText,
			Answers:          answers,
			SelectedAnswerID: selectedID,
			IsCorrect:        isCorrect,
			Explanation:      sq.Question.Explanation,
			SourceURL:        sq.Question.SourceURL,
			SourceTitle:      sq.Question.SourceTitle,
		})
	}

	score := 0.0
	if session.TotalQuestions > 0 {
		score = float64(correctCount) / float64(session.TotalQuestions) * 100
	}

	return &QuizResultsDTO{
		SessionGuid:     session.SessionGuid,
		Language:        session.Language.DisplayName,
		Category:        session.Category.DisplayName,
		DifficultyLevel: session.DifficultyLevel.DisplayName,
		TotalQuestions:  session.TotalQuestions,
		CorrectAnswers:  correctCount,
		ScorePercentage: score,
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
		Questions:       questions,
	}, nil
}

// StoredQuestionCount đếm số câu hỏi đã lưu khớp đủ 3 khoá lọc.
func (s *QuizService) StoredQuestionCount(ctx context.Context, languageID, categoryID, difficultyLevelID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("language_id = ? AND category_id = ? AND difficulty_level_id = ?",
			languageID, categoryID, difficultyLevelID).
		Count(&count).Error
	return count, err
}
