package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID issues the correlation id attached to every request that
// arrives without one.
func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateTransactionRef builds an uppercase gateway reference of the form
// SH<unix-millis><random>. The random tail keeps refs unique even when two
// payments start in the same millisecond.
func GenerateTransactionRef() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return strings.ToUpper(fmt.Sprintf("SH%d%s", time.Now().UnixMilli(), random))
}
