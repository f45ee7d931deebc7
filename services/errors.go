package services

import "errors"

// Các lỗi chung cho tầng service; controller map sang HTTP status tương ứng.
var (
	ErrNotFound           = errors.New("không tìm thấy dữ liệu")
	ErrUnauthorized       = errors.New("master key không đúng hoặc chưa cấu hình API key")
	ErrInvalidInput       = errors.New("dữ liệu đầu vào không hợp lệ")
	ErrGenerationFailed   = errors.New("tạo quiz từ AI thất bại")
	ErrNotEnoughQuestions = errors.New("không đủ câu hỏi đã lưu cho bộ lọc này")
)
