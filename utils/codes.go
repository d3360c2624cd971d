package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// GenerateOTP returns a numeric code of the given length.
func GenerateOTP(digits int) (string, error) {
	var sb strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%d", n.Int64())
	}
	return sb.String(), nil
}

// NewOrderNumber returns a short, human-readable order reference.
func NewOrderNumber() string {
	return "OD" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:14])
}
