package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator gọi Gemini để sinh câu hỏi trắc nghiệm.
type GeminiGenerator struct{}

func NewGeminiGenerator() *GeminiGenerator {
	return &GeminiGenerator{}
}

func (g *GeminiGenerator) GenerateQuiz(ctx context.Context, apiKey, modelName string, req QuizGenerationRequest) ([]GeneratedQuestion, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("không thể tạo Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(buildQuizPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("lỗi Gemini xử lý: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini không trả kết quả hợp lệ")
	}

	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return parseQuizJSON(raw)
}

func buildQuizPrompt(req QuizGenerationRequest) string {
	outputLang := "tiếng Việt"
	if req.QuizLanguage == "en" {
		outputLang = "tiếng Anh"
	}

	hintText := ""
	if req.Hint != "" {
		hintText = fmt.Sprintf("\nGỢI Ý THÊM: Tập trung đặc biệt vào: %s", req.Hint)
	}

	return fmt.Sprintf(`Bạn là chuyên gia kỹ thuật tạo quiz chuẩn bị phỏng vấn.

NHIỆM VỤ: Tạo đúng %d câu hỏi trắc nghiệm cho lập trình viên %s, viết bằng %s.

NGỮ CẢNH:
- Công nghệ: %s
- Danh mục: %s - %s
- Độ khó: %s - %s
%s

YÊU CẦU:
1. Mỗi câu hỏi PHẢI có đúng 5 đáp án (A đến E)
2. Đúng MỘT đáp án là chính xác
3. Các đáp án sai phải hợp lý nhưng rõ ràng là sai với người nắm chủ đề
4. Câu hỏi phải thực tế, sát với phỏng vấn thật
5. Tránh câu hỏi tầm thường - tập trung vào hiểu bản chất, không phải học thuộc
6. Mỗi câu kèm giải thích TẠI SAO đáp án đó đúng và nguồn tham khảo

ĐỊNH DẠNG ĐẦU RA (JSON):
{
  "questions": [
    {
      "questionText": "Nội dung câu hỏi?",
      "answers": [
        { "text": "Đáp án A", "isCorrect": false },
        { "text": "Đáp án B", "isCorrect": true },
        { "text": "Đáp án C", "isCorrect": false },
        { "text": "Đáp án D", "isCorrect": false },
        { "text": "Đáp án E", "isCorrect": false }
      ],
      "explanation": "Giải thích chi tiết tại sao đáp án B đúng (100-200 từ)",
      "sourceUrl": "https://...",
      "sourceTitle": "Tài liệu chính thức"
    }
  ]
}

Chỉ trả về JSON hợp lệ, không thêm bất kỳ văn bản nào khác.`,
		req.QuestionCount, req.LanguageDisplay, outputLang,
		req.LanguageDisplay,
		req.Category, req.CategoryDescription,
		req.Difficulty, req.DifficultyDescription,
		hintText)
}

// parseQuizJSON làm sạch markdown fence rồi parse, bỏ qua câu hỏi
// không đạt hợp đồng (thiếu đáp án, nhiều hơn 1 đáp án đúng...).
func parseQuizJSON(raw string) ([]GeneratedQuestion, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "`")
	clean = strings.TrimPrefix(clean, "json")
	clean = strings.TrimSpace(clean)

	// đề phòng model chèn chữ quanh JSON
	if start := strings.Index(clean, "{"); start > 0 {
		clean = clean[start:]
	}
	if end := strings.LastIndex(clean, "}"); end >= 0 && end < len(clean)-1 {
		clean = clean[:end+1]
	}

	var parsed struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("parse JSON từ Gemini thất bại: %w", err)
	}

	questions := make([]GeneratedQuestion, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if usableQuestion(q) {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
