package models

import "errors"

var (
	// ErrDocumentUnreadable means the source document could not be opened or
	// decoded. Fatal: the import aborts.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrStructureMalformed means outline mapping hit an out-of-order heading
	// (a module heading before any track heading). Fatal: no parent is guessed.
	ErrStructureMalformed = errors.New("document structure malformed")

	// ErrExtractionIncomplete marks a question section that yielded a stem
	// with fewer than two options. The partial question is dropped, not fixed.
	ErrExtractionIncomplete = errors.New("extraction incomplete")
)
