package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// GenerateLicenseKey 라이선스 키 생성 (형식: XXXX-XXXX-XXXX-XXXX-XXXX-XXXX-XXXX-XXXX)
// 128비트 엔트로피를 보장합니다.
func GenerateLicenseKey() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	key := strings.ToUpper(hex.EncodeToString(bytes))

	// 4자리씩 끊어서 대시로 연결
	groups := make([]string, 0, len(key)/4)
	for i := 0; i < len(key); i += 4 {
		groups = append(groups, key[i:i+4])
	}

	return strings.Join(groups, "-"), nil
}

// GenerateID UUID 스타일 ID 생성
func GenerateID(prefix string) (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	id := hex.EncodeToString(bytes)
	if prefix != "" {
		return fmt.Sprintf("%s-%s", prefix, id[:16]), nil
	}
	return id[:16], nil
}

// argon2id 파라미터 (RFC 9106 low-memory 권장값)
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// HashAPIKey 관리자 API 키를 argon2id로 해싱합니다.
// 빠른 범용 해시 대신 메모리 하드 해시를 사용합니다.
func HashAPIKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("api key is required")
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(key), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// VerifyAPIKey 저장된 argon2id 해시와 제시된 키를 비교합니다.
func VerifyAPIKey(encoded, key string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(key), salt, time, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(hash, expected) == 1
}
