package models

import "time"

// DefaultModelName là model Gemini mặc định khi chưa cấu hình
const DefaultModelName = "gemini-2.0-flash"

// AppSetting lưu hash + salt của master key.
// Bảng này chỉ có tối đa 1 dòng (id = 1), không bao giờ lưu master key gốc.
type AppSetting struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MasterKeyHash string    `gorm:"type:text;not null" json:"-"`
	MasterKeySalt string    `gorm:"type:text;not null" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// APIConfiguration lưu API key đã mã hoá cùng salt + IV dùng để giải mã.
// Cũng là bảng 1 dòng; blob, salt và IV luôn được thay cùng nhau.
type APIConfiguration struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	EncryptedAPIKey string    `gorm:"type:text" json:"-"`
	Salt            string    `gorm:"type:text" json:"-"`
	IV              string    `gorm:"type:text" json:"-"`
	ModelName       string    `gorm:"size:100;default:'gemini-2.0-flash'" json:"model_name"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
