package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screening-service/internal/domain"
	"screening-service/internal/seed"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAnswers(t *testing.T, condition domain.Condition, score int) string {
	t.Helper()
	questions, err := seed.Questions()
	require.NoError(t, err)

	var b strings.Builder
	fmt.Fprintf(&b, "childId: child-1\nconditions: [%s]\nanswers:\n", condition)
	for _, q := range questions {
		if q.Condition == condition {
			fmt.Fprintf(&b, "  - questionId: %s\n    score: %d\n", q.ID, score)
		}
	}
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommandJSON(t *testing.T) {
	path := writeAnswers(t, domain.ConditionASD, 2)

	out, err := runCLI(t, "score", path, "--format", "json")
	require.NoError(t, err)

	var result domain.ScreeningResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Interpretations, 1)
	in := result.Interpretations[0]
	assert.Equal(t, 40, in.Total)
	assert.Equal(t, 80, in.MaxPossible)
	assert.Equal(t, domain.TierModerate, in.Tier)
	assert.NotEmpty(t, result.Recommendations)
	for _, r := range result.Recommendations {
		assert.Contains(t, r.Specializations, domain.ConditionASD)
	}
}

func TestScoreCommandText(t *testing.T) {
	path := writeAnswers(t, domain.ConditionADHD, 0)

	out, err := runCLI(t, "score", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ADHD")
	assert.Contains(t, out, "0/100")
	assert.Contains(t, out, "Low")
	assert.NotContains(t, out, "Recommended providers")
}

func TestScoreCommandReportsMissingAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"childId":"c","conditions":["Dyslexia"],"answers":[{"questionId":"dys-01","score":1}]}`), 0o600))

	_, err := runCLI(t, "score", path)
	assert.ErrorIs(t, err, domain.ErrMissingQuestions)
}
