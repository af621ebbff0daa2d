package model

import "time"

// Category classifies a note by its purpose
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryIdea      Category = "idea"
	CategoryResearch  Category = "research"
	CategoryProject   Category = "project"
	CategoryPersonal  Category = "personal"
	CategoryTechnical Category = "technical"
	CategoryBusiness  Category = "business"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryGeneral,
	CategoryIdea,
	CategoryResearch,
	CategoryProject,
	CategoryPersonal,
	CategoryTechnical,
	CategoryBusiness,
}

// ParseCategory maps a free-form string onto a Category, falling back to general
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryGeneral
}

// Note is a unit of user-authored text
type Note struct {
	ID        string           `json:"id" yaml:"id" validate:"required"`
	Title     string           `json:"title,omitempty" yaml:"title,omitempty"`
	Content   string           `json:"content" yaml:"content"`
	Category  Category         `json:"category" yaml:"category" validate:"omitempty,oneof=general idea research project personal technical business"`
	Tags      []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" yaml:"updated_at"`
	Analysis  *ContentAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// WithAnalysis returns a copy of the note carrying the given analysis
func (n Note) WithAnalysis(a ContentAnalysis) Note {
	n.Analysis = &a
	return n
}

// DisplayTitle returns the title, or a prefix of the content when untitled
func (n Note) DisplayTitle(prefix int) string {
	if n.Title != "" {
		return n.Title
	}
	return Truncate(n.Content, prefix)
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Excerpt truncates s to n runes and appends an ellipsis when it was cut
func Excerpt(s string, n int) string {
	if len([]rune(s)) > n {
		return Truncate(s, n) + "..."
	}
	return s
}
