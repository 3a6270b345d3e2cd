package ports

import "notesplit/internal/domain"

// LinkIndex provides cached access to the vault's notes and wiki-link graph
type LinkIndex interface {
	// Lifecycle
	Open(vaultPath string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncFull() (*domain.SyncStats, error)
	SyncIncremental() (*domain.SyncStats, error)

	// Queries
	GetNode(path string) (*domain.IndexNode, error)
	FindLinksTo(targetName string) ([]domain.Edge, error)
	FindLinksFromFile(sourcePath string) ([]domain.Edge, error)

	// Batch updates after an extraction run
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic cache updates
type IndexTx interface {
	UpsertNode(node *domain.IndexNode) error
	DeleteNode(path string) error
	InsertEdge(edge *domain.Edge) error
	DeleteEdgesFromFile(sourcePath string) error

	Commit() error
	Rollback() error
}
