package model

// NodeType distinguishes cluster hubs from note leaves
type NodeType string

const (
	NodeCluster NodeType = "cluster"
	NodeNote    NodeType = "note"
)

// EdgeType records why two notes are connected
type EdgeType string

const (
	EdgeTopic    EdgeType = "topic"
	EdgeSemantic EdgeType = "semantic"
)

// MindMap is a derived graph of notes clustered by dominant topic
type MindMap struct {
	Nodes        []MapNode    `json:"nodes" yaml:"nodes"`
	Connections  []MapEdge    `json:"connections" yaml:"connections"`
	Clusters     []Cluster    `json:"clusters" yaml:"clusters"`
	CentralTopic string       `json:"central_topic" yaml:"central_topic"`
	Stats        MindMapStats `json:"stats" yaml:"stats"`
}

// MapNode is a positioned node of the mind map
type MapNode struct {
	ID             string   `json:"id" yaml:"id"`
	Label          string   `json:"label" yaml:"label"`
	Type           NodeType `json:"type" yaml:"type"`
	Size           float64  `json:"size" yaml:"size"`
	Color          string   `json:"color" yaml:"color"`
	X              float64  `json:"x" yaml:"x"`
	Y              float64  `json:"y" yaml:"y"`
	Cluster        string   `json:"cluster" yaml:"cluster"`
	ContentPreview string   `json:"content_preview,omitempty" yaml:"content_preview,omitempty"`
}

// MapEdge connects two note nodes
type MapEdge struct {
	Source   string   `json:"source" yaml:"source"`
	Target   string   `json:"target" yaml:"target"`
	Strength float64  `json:"strength" yaml:"strength"`
	Type     EdgeType `json:"type" yaml:"type"`
	Width    float64  `json:"width" yaml:"width"`
}

// Cluster groups notes sharing a dominant topic
type Cluster struct {
	Topic   string   `json:"topic" yaml:"topic"`
	NoteIDs []string `json:"notes" yaml:"notes"`
	Color   string   `json:"color" yaml:"color"`
	Size    int      `json:"size" yaml:"size"`
}

// MindMapStats summarises the rendered graph
type MindMapStats struct {
	TotalNodes        int     `json:"total_nodes" yaml:"total_nodes"`
	TotalConnections  int     `json:"total_connections" yaml:"total_connections"`
	ClusterCount      int     `json:"cluster_count" yaml:"cluster_count"`
	ConnectionDensity float64 `json:"connection_density" yaml:"connection_density"`
}

// Connection is a ranked relation between a target note and another note
type Connection struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Excerpt  string  `json:"excerpt" yaml:"excerpt"`
	Strength float64 `json:"strength" yaml:"strength"`
	Score    float64 `json:"score" yaml:"score"`
}
