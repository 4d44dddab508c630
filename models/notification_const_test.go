package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestShortText(t *testing.T) {
	require.Equal(t, "hot work", shortText("hot work", 30))
	require.Equal(t, "PERM", shortText("PERMIT-3F0A9C", 4))

	// кириллица: 2 байта на символ, резать по байтам нельзя
	long := strings.Repeat("сварочные работы ", 4)
	short := shortText(long, 30)
	require.True(t, utf8.ValidString(short))
	require.Equal(t, 30, utf8.RuneCountInString(short))
	require.Equal(t, string([]rune(long)[:30]), short)
}

func TestPermitDecidedIssuerNotification(t *testing.T) {
	data := GetPermitDecidedIssuerNotification("PERMIT-3F0A9C", strings.Repeat("огневые работы ", 5), PermitStatusApproved, "Sunita Sharma")
	require.Equal(t, NotificationPermitStatusUpdate, data.Type)
	require.Equal(t, "Permit #PERM was Approved", data.Title)
	require.True(t, utf8.ValidString(data.Description))
	require.Contains(t, data.Description, "was approved by Sunita Sharma.")
}
