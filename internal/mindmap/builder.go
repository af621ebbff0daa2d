// Package mindmap lays notes out as a radial graph of topic clusters.
package mindmap

import (
	"math"
	"strings"

	"github.com/eoinhurrell/mindmeld/internal/analyzer"
	"github.com/eoinhurrell/mindmeld/internal/connections"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/observe"
)

// DefaultCentralTopic labels a map built without a focus
const DefaultCentralTopic = "Your Knowledge Network"

// Layout and edge-search limits
const (
	ClusterRadius      = 180.0
	NoteRadius         = 40.0
	NoteRadiusStep     = 5.0
	NotesPerCluster    = 8
	EdgeSourceNotes    = 15
	EdgeWindow         = 10
	EdgeThreshold      = 0.35
	MaxEdges           = 20
	labelPrefix        = 15
	previewLength      = 50
	clusterBaseSize    = 10
	clusterSizeCap     = 10
	noteBaseSize       = 6.0
	noteSizeCap        = 6.0
	noteSizeCharFactor = 80.0
)

// Builder builds mind maps
type Builder struct {
	analyzer analyzer.ContentAnalyzer
	obs      observe.Observer
}

// NewBuilder creates a builder. A nil analyzer uses the default analyzer.
func NewBuilder(a analyzer.ContentAnalyzer, obs observe.Observer) *Builder {
	if a == nil {
		a = analyzer.NewAnalyzer(analyzer.WithObserver(obs))
	}
	return &Builder{analyzer: a, obs: observe.Or(obs)}
}

// Build clusters notes by dominant topic and connects related notes.
// focus labels the centre of the map; empty means the default label.
func (b *Builder) Build(notes []model.Note, focus string) model.MindMap {
	return observe.Guard(b.obs, "mindmap.build", empty(focus), func() model.MindMap {
		return b.build(notes, focus)
	})
}

type cluster struct {
	topic string
	notes []model.Note
}

func (b *Builder) build(notes []model.Note, focus string) model.MindMap {
	if len(notes) == 0 {
		return empty(focus)
	}

	analyses := make([]model.ContentAnalysis, len(notes))
	for i, n := range notes {
		analyses[i] = analyzer.Resolve(b.analyzer, n)
	}

	var clusters []*cluster
	byTopic := make(map[string]*cluster)
	for i, n := range notes {
		topic := analyses[i].PrimaryTopic()
		c, ok := byTopic[topic]
		if !ok {
			c = &cluster{topic: topic}
			byTopic[topic] = c
			clusters = append(clusters, c)
		}
		c.notes = append(c.notes, n)
	}

	nodes := []model.MapNode{}
	rendered := make(map[string]bool)
	outClusters := make([]model.Cluster, 0, len(clusters))

	for ci, c := range clusters {
		angle := float64(ci) / float64(len(clusters)) * 2 * math.Pi
		cx := math.Cos(angle) * ClusterRadius
		cy := math.Sin(angle) * ClusterRadius
		color := TopicColor(c.topic)

		nodes = append(nodes, model.MapNode{
			ID:      "cluster_" + c.topic,
			Label:   strings.ToUpper(c.topic),
			Type:    model.NodeCluster,
			Size:    float64(clusterBaseSize + min(len(c.notes), clusterSizeCap)),
			Color:   color,
			X:       cx,
			Y:       cy,
			Cluster: c.topic,
		})

		ids := make([]string, 0, len(c.notes))
		for ni, n := range c.notes {
			ids = append(ids, n.ID)
			if ni >= NotesPerCluster {
				continue
			}

			noteAngle := float64(ni) / float64(len(c.notes)) * 2 * math.Pi
			r := NoteRadius + float64(ni)*NoteRadiusStep
			length := float64(len([]rune(n.Content)))

			nodes = append(nodes, model.MapNode{
				ID:             n.ID,
				Label:          noteLabel(n),
				Type:           model.NodeNote,
				Size:           noteBaseSize + math.Min(length/noteSizeCharFactor, noteSizeCap),
				Color:          CategoryColor(n.Category),
				X:              cx + math.Cos(noteAngle)*r,
				Y:              cy + math.Sin(noteAngle)*r,
				Cluster:        c.topic,
				ContentPreview: model.Excerpt(n.Content, previewLength),
			})
			rendered[n.ID] = true
		}

		outClusters = append(outClusters, model.Cluster{
			Topic:   c.topic,
			NoteIDs: ids,
			Color:   color,
			Size:    len(c.notes),
		})
	}

	edges := b.edges(notes, analyses, rendered)

	return model.MindMap{
		Nodes:        nodes,
		Connections:  edges,
		Clusters:     outClusters,
		CentralTopic: centralTopic(focus),
		Stats: model.MindMapStats{
			TotalNodes:        len(nodes),
			TotalConnections:  len(edges),
			ClusterCount:      len(outClusters),
			ConnectionDensity: round2(float64(len(edges)) / float64(max(1, len(nodes)))),
		},
	}
}

// edges scans the first notes against a bounded window of their successors.
// Edges keep discovery order.
func (b *Builder) edges(notes []model.Note, analyses []model.ContentAnalysis, rendered map[string]bool) []model.MapEdge {
	edges := []model.MapEdge{}
	seen := make(map[string]bool)

	for i := 0; i < min(EdgeSourceNotes, len(notes)); i++ {
		end := min(i+EdgeWindow, len(notes))
		for j := i + 1; j < end; j++ {
			src, dst := notes[i], notes[j]

			key := pairKey(src.ID, dst.ID)
			if seen[key] {
				continue
			}
			seen[key] = true

			if !rendered[src.ID] || !rendered[dst.ID] {
				continue
			}

			strength, overlap := connections.Affinity(analyses[i], analyses[j])
			if strength <= EdgeThreshold {
				continue
			}

			edgeType := model.EdgeSemantic
			if overlap > 0 {
				edgeType = model.EdgeTopic
			}

			// the threshold applies to the raw affinity; stored strength is capped at 1
			strength = min(1, strength)
			edges = append(edges, model.MapEdge{
				Source:   src.ID,
				Target:   dst.ID,
				Strength: strength,
				Type:     edgeType,
				Width:    1 + strength*3,
			})
			if len(edges) == MaxEdges {
				return edges
			}
		}
	}
	return edges
}

func noteLabel(n model.Note) string {
	if n.Title != "" {
		return n.Title
	}
	return model.Truncate(n.Content, labelPrefix) + "..."
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

func centralTopic(focus string) string {
	if strings.TrimSpace(focus) == "" {
		return DefaultCentralTopic
	}
	return focus
}

func empty(focus string) model.MindMap {
	return model.MindMap{
		Nodes:        []model.MapNode{},
		Connections:  []model.MapEdge{},
		Clusters:     []model.Cluster{},
		CentralTopic: centralTopic(focus),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
