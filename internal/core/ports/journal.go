package ports

import "go.trai.ch/tend/internal/core/domain"

// Journal is the append-only maintenance log.
//
// Every entry goes to the main sink; LevelError entries are also written to the
// error sink. Record never fails from the caller's point of view.
//
//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=mocks/mock_journal.go -package=mocks
type Journal interface {
	Record(level domain.Level, message string)
}
