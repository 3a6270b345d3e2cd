package ports

// NoteStore reads and writes notes in the vault
type NoteStore interface {
	// ReadDocument returns the full content of the note at path
	ReadDocument(path string) (string, error)

	// WriteDocument replaces the note at path in a single write
	WriteDocument(path, content string) error

	// Exists checks the store's current state for a derived note name
	Exists(name string) (bool, error)

	// Create writes content under the first free name among base, base-1,
	// base-2, ... and returns the chosen name and its path
	Create(base, content string) (name string, path string, err error)

	// Lock takes exclusive ownership of the note at path for one run
	Lock(path string) (unlock func() error, err error)
}
