package services

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize      = 32
	keySize       = 32 // AES-256
	ivSize        = aes.BlockSize
	kdfIterations = 100000
)

// ErrDecryptFailed nghĩa là master key sai (hoặc dữ liệu hỏng).
// Mọi lỗi padding/kích thước đều gom về lỗi này, không để lộ chi tiết crypto.
var ErrDecryptFailed = errors.New("giải mã thất bại: master key không đúng")

// DeriveKey sinh khoá 256-bit từ password + salt bằng PBKDF2-SHA256.
// Dùng chung cho cả khoá mã hoá lẫn hash xác minh master key.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, kdfIterations, keySize, sha256.New)
}

// GenerateSalt sinh salt ngẫu nhiên 32 byte, trả về dạng base64 để lưu DB.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("không thể sinh salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// Encrypt mã hoá plaintext bằng AES-256-CBC với salt + IV mới mỗi lần gọi,
// nên cùng một plaintext sẽ cho ciphertext khác nhau.
func Encrypt(plainText, masterKey string) (cipherB64, saltB64, ivB64 string, err error) {
	salt := make([]byte, saltSize)
	if _, err = rand.Read(salt); err != nil {
		return "", "", "", fmt.Errorf("không thể sinh salt: %w", err)
	}
	iv := make([]byte, ivSize)
	if _, err = rand.Read(iv); err != nil {
		return "", "", "", fmt.Errorf("không thể sinh IV: %w", err)
	}

	block, err := aes.NewCipher(DeriveKey(masterKey, salt))
	if err != nil {
		return "", "", "", err
	}

	padded := pkcs7Pad([]byte(plainText), aes.BlockSize)
	cipherBytes := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(cipherBytes, padded)

	return base64.StdEncoding.EncodeToString(cipherBytes),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(iv),
		nil
}

// Decrypt dẫn xuất lại khoá từ salt rồi giải mã.
// Key sai sẽ cho padding rác -> trả về ErrDecryptFailed thay vì plaintext rác.
func Decrypt(cipherB64, saltB64, ivB64, masterKey string) (string, error) {
	cipherBytes, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil {
		return "", ErrDecryptFailed
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", ErrDecryptFailed
	}
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return "", ErrDecryptFailed
	}
	if len(iv) != ivSize || len(cipherBytes) == 0 || len(cipherBytes)%aes.BlockSize != 0 {
		return "", ErrDecryptFailed
	}

	block, err := aes.NewCipher(DeriveKey(masterKey, salt))
	if err != nil {
		return "", ErrDecryptFailed
	}

	plain := make([]byte, len(cipherBytes))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, cipherBytes)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(unpadded), nil
}

// HashMasterKey tái dùng KDF làm hash xác minh (không lưu key gốc).
func HashMasterKey(masterKey, saltB64 string) (string, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(DeriveKey(masterKey, salt)), nil
}

// VerifyMasterKeyHash so sánh constant-time để tránh timing attack.
func VerifyMasterKeyHash(masterKey, hashB64, saltB64 string) bool {
	computed, err := HashMasterKey(masterKey, saltB64)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(computed)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, expected) == 1
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("padding không hợp lệ")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("padding không hợp lệ")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("padding không hợp lệ")
		}
	}
	return data[:len(data)-padding], nil
}
