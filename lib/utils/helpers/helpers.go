package helpers

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// GenerateNumber - читаемый номер записи вида PERMIT-3F0A9C
func GenerateNumber(prefix string) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + fragment
}
