package ports

// NoteOpener opens a note for the operator after a run
type NoteOpener interface {
	// OpenFile opens the note at the absolute filePath, which must be
	// inside the vault
	OpenFile(filePath string) error
}

// EditorOpener opens a note in the user's preferred editor
type EditorOpener interface {
	// OpenAt opens path with the cursor on line (1-based). Editors that
	// cannot jump to a line just open the file.
	OpenAt(path string, line int) error
}
