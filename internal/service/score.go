package service

import (
	"regexp"
	"strconv"
	"strings"

	"interview-coach/internal/domain"
)

// scorePatterns are tried in order; the first match with a score in range wins.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`추천\s*점수\s*[:：]\s*(\d+)`),
	regexp.MustCompile(`점수\s*[:：]\s*(\d+)`),
	regexp.MustCompile(`(\d+)\s*/\s*10\b`),
	regexp.MustCompile(`(?i)score\s*[:：]\s*(\d+)`),
}

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ExtractScore finds a 1-10 score in free-form feedback text.
func ExtractScore(text string) (int, bool) {
	for _, p := range scorePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n >= domain.MinScore && n <= domain.MaxScore {
				return n, true
			}
		}
	}
	return 0, false
}

// HeuristicScore maps the whitespace token count of text to a score.
func HeuristicScore(text string) int {
	words := len(strings.Fields(text))
	var score int
	switch {
	case words < 10:
		score = 4
	case words < 30:
		score = 6
	case words < 50:
		score = 7
	case words < 100:
		score = 8
	default:
		score = 9
	}
	return clampScore(score)
}

func clampScore(n int) int {
	if n < domain.MinScore {
		return domain.MinScore
	}
	if n > domain.MaxScore {
		return domain.MaxScore
	}
	return n
}

// stripThinking removes <think>...</think> blocks some models emit before the answer.
func stripThinking(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}
