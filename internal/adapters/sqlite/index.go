package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"notesplit/internal/domain"
	"notesplit/internal/ports"
)

const schemaVersion = "2"

// Index implements ports.LinkIndex using SQLite
type Index struct {
	db        *sql.DB
	vaultPath string
	dbPath    string
}

// Ensure Index implements LinkIndex
var _ ports.LinkIndex = (*Index)(nil)

// NewIndex creates a new SQLite index stored at dbPath. An empty dbPath
// keeps the database under the XDG data directory.
func NewIndex(dbPath string) *Index {
	return &Index{dbPath: dbPath}
}

// Open initializes the index for the given vault path
func (idx *Index) Open(vaultPath string) error {
	// Expand ~ in path
	if len(vaultPath) > 0 && vaultPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		vaultPath = filepath.Join(home, vaultPath[1:])
	}

	idx.vaultPath = vaultPath
	if idx.dbPath == "" {
		idx.dbPath = databasePath(vaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+idx.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS nodes (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS edges (
			source_path TEXT NOT NULL,
			target_name TEXT NOT NULL,
			link_text TEXT NOT NULL,
			PRIMARY KEY (source_path, link_text)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_name);
		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_path);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the index was built by another schema
// version or for another vault
func (idx *Index) NeedsFullRebuild() bool {
	var version, vaultHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'vault_path_hash'").Scan(&vaultHash)

	return version != schemaVersion || vaultHash != hashVaultPath(idx.vaultPath)
}

// databasePath returns the default path for the SQLite database
func databasePath(vaultPath string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "notesplit", hashVaultPath(vaultPath)+".db")
}

// hashVaultPath returns a short hash of the vault path
func hashVaultPath(vaultPath string) string {
	h := sha256.Sum256([]byte(vaultPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta records the schema version and vault the index was built for
func (idx *Index) updateMeta() error {
	if _, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		return err
	}
	_, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('vault_path_hash', ?)`, hashVaultPath(idx.vaultPath))
	return err
}

// GetNode retrieves a node by path, or nil when it is not indexed
func (idx *Index) GetNode(path string) (*domain.IndexNode, error) {
	var node domain.IndexNode

	err := idx.db.QueryRow(`
		SELECT path, name, mtime
		FROM nodes WHERE path = ?
	`, path).Scan(&node.Path, &node.Name, &node.Mtime)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// FindLinksTo returns all edges pointing to a note name
func (idx *Index) FindLinksTo(targetName string) ([]domain.Edge, error) {
	return idx.queryEdges(`
		SELECT source_path, target_name, link_text
		FROM edges WHERE target_name = ?
		ORDER BY source_path
	`, targetName)
}

// FindLinksFromFile returns all edges from a source file
func (idx *Index) FindLinksFromFile(sourcePath string) ([]domain.Edge, error) {
	return idx.queryEdges(`
		SELECT source_path, target_name, link_text
		FROM edges WHERE source_path = ?
		ORDER BY link_text
	`, sourcePath)
}

func (idx *Index) queryEdges(query string, arg string) ([]domain.Edge, error) {
	rows, err := idx.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.SourcePath, &e.TargetName, &e.LinkText); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
