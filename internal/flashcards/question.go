package flashcards

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/textmetrics"
)

const (
	blank             = "_____"
	minClozeLength    = 30
	definitionExcerpt = 150
	summaryExcerpt    = 200
	conceptExcerpt    = 180
)

// Question is a synthesized question with its answer and hint
type Question struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Hint     string `json:"hint" yaml:"hint"`
}

// QuestionFromAnalysis synthesizes the single best question for a note.
// Action items win, then a cloze on the main keyword, then a definition
// question, then a summary question.
func QuestionFromAnalysis(n model.Note, a model.ContentAnalysis) Question {
	text := strings.TrimSpace(n.Content)
	title := textmetrics.SanitizeText(n.Title)

	if len(a.ActionItems) > 0 {
		return Question{
			Question: "What are the next actionable steps recommended in " + quotedOr(title, "this note") + "?",
			Answer:   bullets(a.ActionItems),
			Hint:     "List the concrete steps or tasks suggested.",
		}
	}

	keywords := questionKeywords(a)
	if len(keywords) > 0 {
		main := keywords[0]
		containing, found := sentenceContaining(text, main)

		if found && len([]rune(containing)) > minClozeLength {
			return Question{
				Question: "Fill in the blank: " + cloze(containing, main),
				Answer:   main,
				Hint:     "The missing term is an important concept (starts with " + initial(main) + ").",
			}
		}

		answer := model.Excerpt(text, definitionExcerpt)
		if found && containing != "" {
			answer = containing
		}
		return Question{
			Question: "What is " + main + "? Explain briefly.",
			Answer:   answer,
			Hint:     "Describe the meaning and role of " + main + " in the note.",
		}
	}

	return Question{
		Question: "Summarize the main point of " + quotedOr(title, "this note") + ".",
		Answer:   model.Excerpt(text, summaryExcerpt),
		Hint:     "State the thesis or core conclusion in one or two sentences.",
	}
}

// questionKeywords returns up to three sanitized keywords, preferring key
// topics over scored keywords
func questionKeywords(a model.ContentAnalysis) []string {
	var source []string
	if len(a.KeyTopics) > 0 {
		source = a.KeyTopics
	} else {
		for _, ks := range a.KeywordScores {
			source = append(source, ks.Word)
		}
	}

	var out []string
	for _, k := range source {
		if k = textmetrics.SanitizeText(k); k != "" {
			out = append(out, k)
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

// Sentences splits text after sentence-ending punctuation followed by whitespace
func Sentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// sentenceContaining returns the first non-blank sentence whose lowercase
// form contains keyword
func sentenceContaining(text, keyword string) (string, bool) {
	needle := strings.ToLower(keyword)
	for _, s := range Sentences(text) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(s), needle) {
			return s, true
		}
	}
	return "", false
}

// cloze blanks every case-insensitive occurrence of term in sentence
func cloze(sentence, term string) string {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return sentence
	}
	return re.ReplaceAllLiteralString(sentence, blank)
}

func initial(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}

func quotedOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return `"` + title + `"`
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
