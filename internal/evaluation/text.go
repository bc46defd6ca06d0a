package evaluation

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/models"
)

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func formatTurns(turns []models.Turn, sep string, contentLimit int) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		content := t.Content
		if contentLimit > 0 {
			content = truncate(content, contentLimit)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", roleLabel(t.Role), content))
	}
	return strings.Join(lines, sep)
}

func roleLabel(r models.Role) string {
	if r == "" {
		return "?"
	}
	return string(r)
}

// clampScore rounds v and bounds it to 0..100.
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orDefaultLogger(log *logrus.Entry) *logrus.Entry {
	if log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return log
}
