package hashing

import (
	"crypto/sha512"
	"encoding/hex"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

func Initialize(log *zap.Logger) {
	logger = log
}

// Calculate returns the hex-encoded SHA-512 of data. Transaction payload
// digests and signing digests both use this.
func Calculate(data []byte) string {
	hash := sha512.New()
	if _, err := hash.Write(data); err != nil {
		logger.Error("failed to write to the hash function: " + err.Error())
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))
}

func CalculateFromStr(data string) string {
	return Calculate([]byte(data))
}
