package domain

import "time"

// IndexNode represents a cached vault note
type IndexNode struct {
	Path  string // Relative path from vault root (primary key)
	Name  string // Note name without extension, the [[link]] target
	Mtime int64  // Unix timestamp for incremental sync
}

// Edge represents an Obsidian wiki link between notes
type Edge struct {
	SourcePath string // Note containing the link
	TargetName string // Linked note name
	LinkText   string // Original [[link]] text
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	NodesAdded   int
	NodesUpdated int
	NodesDeleted int
	EdgesAdded   int
	EdgesDeleted int
	FilesScanned int
	Duration     time.Duration
}
