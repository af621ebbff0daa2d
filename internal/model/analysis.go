package model

// Tone is the emotional tone label derived from sentiment
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNeutral  Tone = "neutral"
	ToneNegative Tone = "negative"
)

// KeywordScore pairs a keyword with its normalized frequency in [0,1]
type KeywordScore struct {
	Word  string  `json:"word" yaml:"word"`
	Score float64 `json:"score" yaml:"score"`
}

// ContentAnalysis is the feature vector derived from a note's content
type ContentAnalysis struct {
	KeyTopics     []string       `json:"key_topics" yaml:"key_topics"`
	KeywordScores []KeywordScore `json:"keyword_scores" yaml:"keyword_scores"`
	Complexity    float64        `json:"complexity" yaml:"complexity"`
	WordCount     int            `json:"word_count" yaml:"word_count"`
	EmotionalTone Tone           `json:"emotional_tone" yaml:"emotional_tone"`
	ActionItems   []string       `json:"action_items" yaml:"action_items"`
	Sentiment     float64        `json:"sentiment" yaml:"sentiment"`
}

// EmptyAnalysis is the analysis of text with no words
func EmptyAnalysis() ContentAnalysis {
	return ContentAnalysis{
		KeyTopics:     []string{},
		KeywordScores: []KeywordScore{},
		EmotionalTone: ToneNeutral,
		ActionItems:   []string{},
	}
}

// HasTopic reports whether topic is one of the key topics
func (a ContentAnalysis) HasTopic(topic string) bool {
	for _, t := range a.KeyTopics {
		if t == topic {
			return true
		}
	}
	return false
}

// PrimaryTopic returns the dominant topic, or "general" when there is none
func (a ContentAnalysis) PrimaryTopic() string {
	if len(a.KeyTopics) == 0 {
		return "general"
	}
	return a.KeyTopics[0]
}
