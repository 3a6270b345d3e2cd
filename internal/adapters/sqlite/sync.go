package sqlite

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"notesplit/internal/domain"
)

// Link pattern for Obsidian wiki links: [[target]], [[target|alias]], [[target#heading]]
var linkPattern = regexp.MustCompile(`\[\[([^\]|#]+)(?:#[^\]|]*)?(?:\|[^\]]+)?\]\]`)

// SyncFull performs a complete rebuild of the index
func (idx *Index) SyncFull() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	// Clear existing data
	if _, err := idx.db.Exec(`DELETE FROM nodes`); err != nil {
		return nil, err
	}
	if _, err := idx.db.Exec(`DELETE FROM edges`); err != nil {
		return nil, err
	}

	err := idx.walkNotes(func(relPath string, info os.FileInfo) {
		stats.FilesScanned++
		if err := idx.upsertNode(noteNode(relPath, info)); err != nil {
			return
		}
		stats.NodesAdded++
		stats.EdgesAdded += idx.indexLinks(relPath)
	})
	if err != nil {
		return stats, err
	}

	if err := idx.updateMeta(); err != nil {
		return stats, err
	}
	idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())

	stats.Duration = time.Since(start)
	return stats, nil
}

// SyncIncremental updates only notes that changed since last sync
func (idx *Index) SyncIncremental() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	var lastSyncUnix int64
	idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_sync_time'`).Scan(&lastSyncUnix)

	// Track existing paths to detect deletions
	existingPaths := make(map[string]bool)
	rows, err := idx.db.Query(`SELECT path FROM nodes`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p string
		rows.Scan(&p)
		existingPaths[p] = true
	}
	rows.Close()

	seenPaths := make(map[string]bool)

	err = idx.walkNotes(func(relPath string, info os.FileInfo) {
		seenPaths[relPath] = true
		stats.FilesScanned++

		if info.ModTime().Unix() <= lastSyncUnix && existingPaths[relPath] {
			return
		}

		if err := idx.upsertNode(noteNode(relPath, info)); err != nil {
			return
		}
		if existingPaths[relPath] {
			stats.NodesUpdated++
			if res, err := idx.db.Exec(`DELETE FROM edges WHERE source_path = ?`, relPath); err == nil {
				n, _ := res.RowsAffected()
				stats.EdgesDeleted += int(n)
			}
		} else {
			stats.NodesAdded++
		}
		stats.EdgesAdded += idx.indexLinks(relPath)
	})
	if err != nil {
		return stats, err
	}

	// Delete notes that no longer exist
	if err := idx.deleteMissing(existingPaths, seenPaths, stats); err != nil {
		return stats, err
	}

	idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix())

	stats.Duration = time.Since(start)
	return stats, nil
}

// deleteMissing drops every indexed note that was not seen on disk, with its
// outgoing links, in one transaction
func (idx *Index) deleteMissing(existing, seen map[string]bool, stats *domain.SyncStats) error {
	tx, err := idx.BeginTx()
	if err != nil {
		return err
	}
	for p := range existing {
		if seen[p] {
			continue
		}
		if err := tx.DeleteEdgesFromFile(p); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.DeleteNode(p); err != nil {
			tx.Rollback()
			return err
		}
		stats.NodesDeleted++
	}
	return tx.Commit()
}

// walkNotes calls fn for every markdown note in the vault, skipping hidden
// directories
func (idx *Index) walkNotes(fn func(relPath string, info os.FileInfo)) error {
	return filepath.Walk(idx.vaultPath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			if p != idx.vaultPath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(idx.vaultPath, p)
		fn(filepath.ToSlash(relPath), info)
		return nil
	})
}

// indexLinks parses the note's wiki links and stores them, returning how
// many were added
func (idx *Index) indexLinks(relPath string) int {
	edges, err := parseLinksInFile(filepath.Join(idx.vaultPath, filepath.FromSlash(relPath)), relPath)
	if err != nil {
		return 0
	}
	added := 0
	for _, edge := range edges {
		if err := idx.insertEdge(&edge); err == nil {
			added++
		}
	}
	return added
}

func noteNode(relPath string, info os.FileInfo) *domain.IndexNode {
	return &domain.IndexNode{
		Path:  relPath,
		Name:  strings.TrimSuffix(info.Name(), filepath.Ext(info.Name())),
		Mtime: info.ModTime().Unix(),
	}
}

// upsertNode inserts or replaces a node
func (idx *Index) upsertNode(node *domain.IndexNode) error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO nodes (path, name, mtime)
		VALUES (?, ?, ?)
	`, node.Path, node.Name, node.Mtime)
	return err
}

// insertEdge inserts an edge into the database
func (idx *Index) insertEdge(edge *domain.Edge) error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO edges (source_path, target_name, link_text)
		VALUES (?, ?, ?)
	`, edge.SourcePath, edge.TargetName, edge.LinkText)
	return err
}

// parseLinksInFile extracts all wiki links from a markdown file
func parseLinksInFile(fullPath, relPath string) ([]domain.Edge, error) {
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}
	return ParseLinks(string(content), relPath), nil
}

// ParseLinks extracts the wiki links in content as edges from relPath.
// A link to "folder/note" targets the note name "note".
func ParseLinks(content, relPath string) []domain.Edge {
	var edges []domain.Edge
	for _, match := range linkPattern.FindAllStringSubmatch(content, -1) {
		target := strings.TrimSpace(match[1])
		target = strings.TrimSuffix(path.Base(target), ".md")
		if target == "" || target == "." {
			continue
		}
		edges = append(edges, domain.Edge{
			SourcePath: relPath,
			TargetName: target,
			LinkText:   match[0],
		})
	}
	return edges
}
