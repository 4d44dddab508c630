package riskhandler

import (
	"testing"

	"cpsms-backend/models"

	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	t.Run(`ответ с уровнем и обоснованием`, func(t *testing.T) {
		answer := "High\nWelding near fuel lines requires a fire watch and gas testing."
		assessment, err := parseAnswer(answer)
		require.Nil(t, err)
		require.Equal(t, models.RiskLevelHigh, assessment.RiskLevel)
		require.Equal(t, "Welding near fuel lines requires a fire watch and gas testing.", assessment.Justification)
	})

	t.Run(`уровень с точкой и лишними пробелами`, func(t *testing.T) {
		assessment, err := parseAnswer("  medium.  \n  Work at height with standard precautions. ")
		require.Nil(t, err)
		require.Equal(t, models.RiskLevelMedium, assessment.RiskLevel)
		require.Equal(t, "Work at height with standard precautions.", assessment.Justification)
	})

	t.Run(`ответ без обоснования`, func(t *testing.T) {
		assessment, err := parseAnswer("low")
		require.Nil(t, err)
		require.Equal(t, models.RiskLevelLow, assessment.RiskLevel)
		require.NotEmpty(t, assessment.Justification)
	})

	t.Run(`неизвестный уровень`, func(t *testing.T) {
		_, err := parseAnswer("critical\nsomething")
		require.NotNil(t, err)
	})
}
