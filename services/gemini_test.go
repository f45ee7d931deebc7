package services

import (
	"strings"
	"testing"
)

const validQuizJSON = `{
  "questions": [
    {
      "questionText": "Goroutine là gì?",
      "answers": [
        { "text": "Một OS thread", "isCorrect": false },
        { "text": "Một lightweight thread do runtime quản lý", "isCorrect": true },
        { "text": "Một process", "isCorrect": false },
        { "text": "Một callback", "isCorrect": false },
        { "text": "Một interface", "isCorrect": false }
      ],
      "explanation": "Goroutine do Go runtime lập lịch.",
      "sourceUrl": "https://go.dev/doc/effective_go",
      "sourceTitle": "Effective Go"
    }
  ]
}`

func TestParseQuizJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"JSON sạch", validQuizJSON, 1},
		{"bọc markdown fence", "```json\n" + validQuizJSON + "\n```", 1},
		{"fence không có nhãn", "```\n" + validQuizJSON + "\n```", 1},
		{"văn bản quanh JSON", "Đây là quiz của bạn:\n" + validQuizJSON + "\nChúc may mắn!", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			questions, err := parseQuizJSON(tc.raw)
			if err != nil {
				t.Fatalf("parseQuizJSON lỗi: %v", err)
			}
			if len(questions) != tc.want {
				t.Fatalf("số câu = %d, want %d", len(questions), tc.want)
			}
			q := questions[0]
			if q.QuestionText != "Goroutine là gì?" {
				t.Errorf("QuestionText sai: %q", q.QuestionText)
			}
			if len(q.Answers) != AnswersPerQuestion {
				t.Errorf("số đáp án = %d, want %d", len(q.Answers), AnswersPerQuestion)
			}
		})
	}
}

func TestParseQuizJSONInvalid(t *testing.T) {
	if _, err := parseQuizJSON("đây không phải JSON"); err == nil {
		t.Error("văn bản rác phải trả lỗi")
	}
	if _, err := parseQuizJSON("{hỏng"); err == nil {
		t.Error("JSON hỏng phải trả lỗi")
	}
}

func TestParseQuizJSONFiltersBrokenQuestions(t *testing.T) {
	raw := `{
  "questions": [
    {
      "questionText": "Câu đủ chuẩn?",
      "answers": [
        { "text": "A", "isCorrect": true },
        { "text": "B", "isCorrect": false },
        { "text": "C", "isCorrect": false },
        { "text": "D", "isCorrect": false },
        { "text": "E", "isCorrect": false }
      ]
    },
    {
      "questionText": "Câu thiếu đáp án?",
      "answers": [
        { "text": "A", "isCorrect": true },
        { "text": "B", "isCorrect": false }
      ]
    },
    {
      "questionText": "Câu hai đáp án đúng?",
      "answers": [
        { "text": "A", "isCorrect": true },
        { "text": "B", "isCorrect": true },
        { "text": "C", "isCorrect": false },
        { "text": "D", "isCorrect": false },
        { "text": "E", "isCorrect": false }
      ]
    },
    {
      "questionText": "",
      "answers": [
        { "text": "A", "isCorrect": true },
        { "text": "B", "isCorrect": false },
        { "text": "C", "isCorrect": false },
        { "text": "D", "isCorrect": false },
        { "text": "E", "isCorrect": false }
      ]
    }
  ]
}`

	questions, err := parseQuizJSON(raw)
	if err != nil {
		t.Fatalf("parseQuizJSON lỗi: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("chỉ câu đạt hợp đồng được giữ, got %d", len(questions))
	}
	if questions[0].QuestionText != "Câu đủ chuẩn?" {
		t.Errorf("giữ sai câu: %q", questions[0].QuestionText)
	}
}

func TestBuildQuizPrompt(t *testing.T) {
	req := QuizGenerationRequest{
		Language:              "go",
		LanguageDisplay:       "Go",
		Category:              "Cơ sở dữ liệu",
		CategoryDescription:   "SQL, ORM",
		Difficulty:            "Senior",
		DifficultyDescription: "5-8 năm kinh nghiệm",
		Hint:                  "GORM transactions",
		QuizLanguage:          "en",
		QuestionCount:         20,
	}

	prompt := buildQuizPrompt(req)

	for _, want := range []string{"20", "Go", "Cơ sở dữ liệu", "Senior", "GORM transactions", "tiếng Anh"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt phải chứa %q", want)
		}
	}

	req.Hint = ""
	req.QuizLanguage = "vi"
	prompt = buildQuizPrompt(req)
	if strings.Contains(prompt, "GỢI Ý THÊM") {
		t.Error("không có hint thì prompt không được chứa phần gợi ý")
	}
	if !strings.Contains(prompt, "tiếng Việt") {
		t.Error("mặc định phải ra tiếng Việt")
	}
}
