package mindmap

import "github.com/eoinhurrell/mindmeld/internal/model"

const gray = "#6b7280"

var topicColors = map[string]string{
	"learning":  "#3b82f6",
	"work":      "#10b981",
	"creative":  "#8b5cf6",
	"personal":  "#f59e0b",
	"technical": "#ef4444",
	"business":  "#ec4899",
	"general":   gray,
	"research":  "#06b6d4",
	"idea":      "#8b5cf6",
	"project":   "#10b981",
}

// TopicColor returns the cluster colour of a topic, gray when unknown
func TopicColor(topic string) string {
	if c, ok := topicColors[topic]; ok {
		return c
	}
	return gray
}

// CategoryColor returns the node colour of a note category
func CategoryColor(c model.Category) string {
	switch c {
	case model.CategoryIdea:
		return "#ec4899"
	case model.CategoryResearch:
		return "#3b82f6"
	case model.CategoryProject:
		return "#10b981"
	case model.CategoryPersonal:
		return "#f59e0b"
	case model.CategoryTechnical:
		return "#ef4444"
	case model.CategoryBusiness:
		return "#8b5cf6"
	case model.CategoryGeneral:
		return gray
	}
	return gray
}
