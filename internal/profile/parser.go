package profile

import "strings"

// QAPair is a parsed question/answer block from the summary document.
type QAPair struct {
	Question string
	Answer   string
}

// ParseQA extracts Q&A pairs from heading-delimited markdown. Each level-3
// heading is a question; everything up to the next heading of any level is
// its answer. Blank lines before the answer starts are dropped, blank
// lines inside it are kept, and pairs whose answer ends up empty are
// discarded.
func ParseQA(content string) []QAPair {
	var pairs []QAPair
	lines := strings.Split(content, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if !strings.HasPrefix(line, "### ") || strings.HasPrefix(line, "####") {
			i++
			continue
		}
		question := strings.TrimSpace(line[4:])

		var answerLines []string
		i++
		for i < len(lines) {
			next := strings.TrimSpace(lines[i])
			if strings.HasPrefix(next, "#") {
				break
			}
			if next != "" || len(answerLines) > 0 {
				answerLines = append(answerLines, strings.TrimRight(lines[i], " \t"))
			}
			i++
		}

		answer := strings.TrimSpace(strings.Join(answerLines, "\n"))
		if answer != "" {
			pairs = append(pairs, QAPair{Question: question, Answer: answer})
		}
	}

	return pairs
}
