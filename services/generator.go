package services

import "context"

// AnswersPerQuestion là số đáp án bắt buộc của mỗi câu hỏi sinh ra
const AnswersPerQuestion = 5

// QuizGenerationRequest mô tả yêu cầu gửi cho AI sinh câu hỏi.
type QuizGenerationRequest struct {
	Language              string
	LanguageDisplay       string
	Category              string
	CategoryDescription   string
	Difficulty            string
	DifficultyDescription string
	Hint                  string
	QuizLanguage          string // mã ngôn ngữ đầu ra, vd "vi" hoặc "en"
	QuestionCount         int
}

type GeneratedAnswer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type GeneratedQuestion struct {
	QuestionText string            `json:"questionText"`
	Answers      []GeneratedAnswer `json:"answers"`
	Explanation  string            `json:"explanation"`
	SourceURL    string            `json:"sourceUrl"`
	SourceTitle  string            `json:"sourceTitle"`
}

// QuizGenerator là ranh giới với dịch vụ AI bên ngoài.
// API key được truyền theo từng lần gọi, không giữ trong struct.
// Trả về lỗi hoặc danh sách rỗng đều được xử lý như sinh thất bại.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, apiKey, modelName string, req QuizGenerationRequest) ([]GeneratedQuestion, error)
}

// usableQuestion lọc câu hỏi đạt hợp đồng sinh: có nội dung,
// đúng 5 đáp án và đúng 1 đáp án đúng.
func usableQuestion(q GeneratedQuestion) bool {
	if q.QuestionText == "" || len(q.Answers) != AnswersPerQuestion {
		return false
	}
	correct := 0
	for _, a := range q.Answers {
		if a.Text == "" {
			return false
		}
		if a.IsCorrect {
			correct++
		}
	}
	return correct == 1
}
