package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/interquiz-backend/models"
)

// MinMasterKeyLength là độ dài tối thiểu của master key
const MinMasterKeyLength = 16

// ConfigStatus báo trạng thái cấu hình, không bao giờ chứa key.
type ConfigStatus struct {
	IsMasterKeySet bool   `json:"is_master_key_set"`
	IsAPIKeySet    bool   `json:"is_api_key_set"`
	ModelName      string `json:"model_name"`
}

// ConfigService quản lý 2 bảng singleton: AppSetting và APIConfiguration.
// Mọi thao tác cần quyền đều xác minh lại master key, không cache phiên.
type ConfigService struct {
	db *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{db: db}
}

// SetMasterKey sinh salt mới, hash rồi upsert dòng duy nhất trong 1 transaction.
func (s *ConfigService) SetMasterKey(ctx context.Context, masterKey string) error {
	if len(masterKey) < MinMasterKeyLength {
		return ErrInvalidInput
	}

	salt, err := GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := HashMasterKey(masterKey, salt)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var setting models.AppSetting
		err := tx.First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			setting = models.AppSetting{ID: 1, MasterKeyHash: hash, MasterKeySalt: salt}
			return tx.Create(&setting).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&setting).Updates(map[string]interface{}{
			"master_key_hash": hash,
			"master_key_salt": salt,
			"updated_at":      time.Now(),
		}).Error
	})
}

// VerifyMasterKey trả về false khi chưa đặt master key.
func (s *ConfigService) VerifyMasterKey(ctx context.Context, masterKey string) (bool, error) {
	var setting models.AppSetting
	err := s.db.WithContext(ctx).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return VerifyMasterKeyHash(masterKey, setting.MasterKeyHash, setting.MasterKeySalt), nil
}

// SetAPIKey xác minh master key trước, sau đó mã hoá và upsert.
// Blob + salt + IV luôn được thay cùng nhau.
func (s *ConfigService) SetAPIKey(ctx context.Context, apiKey, masterKey string) (bool, error) {
	if apiKey == "" {
		return false, ErrInvalidInput
	}

	valid, err := s.VerifyMasterKey(ctx, masterKey)
	if err != nil {
		return false, err
	}
	if !valid {
		return false, nil
	}

	cipherText, salt, iv, err := Encrypt(apiKey, masterKey)
	if err != nil {
		return false, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var config models.APIConfiguration
		err := tx.First(&config).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config = models.APIConfiguration{
				ID:              1,
				EncryptedAPIKey: cipherText,
				Salt:            salt,
				IV:              iv,
				ModelName:       models.DefaultModelName,
			}
			return tx.Create(&config).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&config).Updates(map[string]interface{}{
			"encrypted_api_key": cipherText,
			"salt":              salt,
			"iv":                iv,
			"updated_at":        time.Now(),
		}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetDecryptedAPIKey là cổng uỷ quyền: master key sai hoặc chưa có API key
// thì trả về chuỗi rỗng, không phải lỗi.
func (s *ConfigService) GetDecryptedAPIKey(ctx context.Context, masterKey string) (string, error) {
	valid, err := s.VerifyMasterKey(ctx, masterKey)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", nil
	}

	var config models.APIConfiguration
	err = s.db.WithContext(ctx).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if config.EncryptedAPIKey == "" {
		return "", nil
	}

	plain, err := Decrypt(config.EncryptedAPIKey, config.Salt, config.IV, masterKey)
	if errors.Is(err, ErrDecryptFailed) {
		// key sai mà hash lại khớp chỉ xảy ra khi dữ liệu bị sửa tay;
		// vẫn xử lý như chưa uỷ quyền
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return plain, nil
}

// SetModel không phụ thuộc master key; tạo dòng mặc định nếu chưa có.
func (s *ConfigService) SetModel(ctx context.Context, modelName string) error {
	if modelName == "" {
		return ErrInvalidInput
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var config models.APIConfiguration
		err := tx.First(&config).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config = models.APIConfiguration{ID: 1, ModelName: modelName}
			return tx.Create(&config).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&config).Updates(map[string]interface{}{
			"model_name": modelName,
			"updated_at": time.Now(),
		}).Error
	})
}

func (s *ConfigService) GetModel(ctx context.Context) (string, error) {
	var config models.APIConfiguration
	err := s.db.WithContext(ctx).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultModelName, nil
	}
	if err != nil {
		return "", err
	}
	if config.ModelName == "" {
		return models.DefaultModelName, nil
	}
	return config.ModelName, nil
}

// GetStatus chỉ đọc, không có side effect.
func (s *ConfigService) GetStatus(ctx context.Context) (*ConfigStatus, error) {
	status := &ConfigStatus{ModelName: models.DefaultModelName}

	var setting models.AppSetting
	err := s.db.WithContext(ctx).First(&setting).Error
	if err == nil {
		status.IsMasterKeySet = setting.MasterKeyHash != ""
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var config models.APIConfiguration
	err = s.db.WithContext(ctx).First(&config).Error
	if err == nil {
		status.IsAPIKeySet = config.EncryptedAPIKey != ""
		if config.ModelName != "" {
			status.ModelName = config.ModelName
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return status, nil
}
