package ports

import "notesplit/internal/domain"

// SelectionReviewer lets the operator confirm or trim the oracle's selection
// before anything is written
type SelectionReviewer interface {
	Review(segments []domain.Segment, selection domain.Selection) (domain.Selection, error)
}
