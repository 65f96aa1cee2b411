// Package oriondb is the front door for an OrionDB handle: Database
// wraps the binary archive writer/reader, the in-memory index set, and
// the PGN ingest pipeline behind Ingest/Query/CQL.
package oriondb

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/logx"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/pgn"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/query"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/query/cql"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/store"
)

// Database is a single OrionDB handle: one archive file, one sidecar
// path, and the index set built by replaying it. It is not safe for
// concurrent use by multiple goroutines.
type Database struct {
	archivePath string
	sidecarPath string

	file    *os.File
	writer  *store.Writer
	indexes *store.IndexSet
	cfg     config.Flags
	log     zerolog.Logger

	builder *store.Builder
}

// Open creates or appends to the archive at archivePath, loading its
// sidecar indexes from sidecarPath if present, per cfg. A freshly
// created archive starts with an empty IndexSet.
func Open(archivePath, sidecarPath string, cfg config.Flags, log zerolog.Logger) (*Database, error) {
	file, err := os.OpenFile(archivePath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("oriondb: open archive %s: %w", archivePath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("oriondb: stat archive %s: %w", archivePath, err)
	}

	var writer *store.Writer
	if info.Size() == 0 {
		writer, err = store.NewWriter(file)
	} else {
		writer, err = store.ResumeWriter(file, info.Size())
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("oriondb: init archive writer: %w", err)
	}

	var indexes *store.IndexSet
	if sidecarPath != "" {
		if _, statErr := os.Stat(sidecarPath); statErr == nil {
			indexes, err = store.LoadSidecar(sidecarPath)
			if err != nil {
				file.Close()
				return nil, fmt.Errorf("oriondb: load sidecar %s: %w", sidecarPath, err)
			}
		}
	}
	if indexes == nil {
		indexes = store.NewIndexSet()
	}

	db := &Database{
		archivePath: archivePath,
		sidecarPath: sidecarPath,
		file:        file,
		writer:      writer,
		indexes:     indexes,
		cfg:         cfg.Normalize(),
		log:         log,
	}
	db.builder = store.NewBuilder(writer, indexes, db.cfg, log)
	return db, nil
}

// OpenDefault is Open with a zerolog console logger and every index
// family enabled, the configuration a caller reaching for the database
// without ceremony wants.
func OpenDefault(archivePath, sidecarPath string) (*Database, error) {
	return Open(archivePath, sidecarPath, config.DefaultFlags(), logx.NewLogger())
}

// Ingest streams PGN text from r, parsing it with a tolerant pgn.Parser
// and feeding each parsed game through the IndexBuilder. It returns the
// number of games successfully ingested; parse errors for malformed
// games are logged and do not abort the batch.
func (db *Database) Ingest(r io.Reader) (int, error) {
	parser := pgn.NewParser()
	games := parser.Parse(r)

	for _, perr := range parser.Errors() {
		db.log.Warn().Int("game_index", perr.GameIndex).Str("reason", perr.Message).Msg("oriondb: skipping malformed PGN game")
	}

	count := 0
	for _, pg := range games {
		if _, err := db.builder.IngestGame(pg.Tags, pg.Moves); err != nil {
			return count, fmt.Errorf("oriondb: ingest: %w", err)
		}
		count++
	}
	return count, nil
}

// reader opens a fresh *store.Reader over the archive file for query
// execution, since store.Reader is a read-only view and the Database
// keeps the underlying *os.File open for the whole handle's lifetime.
func (db *Database) reader() (*store.Reader, error) {
	return store.NewReader(db.file)
}

// Query returns a fresh query.Builder with no active predicates, ready
// for fluent chaining.
func (db *Database) Query() (*query.Builder, error) {
	r, err := db.reader()
	if err != nil {
		return nil, fmt.Errorf("oriondb: query: %w", err)
	}
	return query.New(db.indexes, r, db.log), nil
}

// CQLQuery is the result of compiling a CQL string: a thunk that
// executes the compiled expression. It exists because CQL's grammar
// allows OR to nest anywhere, but query.Builder's fluent AND-only API
// cannot represent an arbitrary OR tree as a single Builder — so CQL
// compiles to a closure over one or more Builders instead of to a
// Builder itself.
type CQLQuery struct {
	run func() ([]*model.Game, error)
}

// Execute runs the compiled query and reads back the matching games.
func (q *CQLQuery) Execute() ([]*model.Game, error) { return q.run() }

// CQL parses and compiles a CQL string into a runnable query.
func (db *Database) CQL(src string) (*CQLQuery, error) {
	expr, err := cql.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("oriondb: cql: %w", err)
	}
	r, err := db.reader()
	if err != nil {
		return nil, fmt.Errorf("oriondb: cql: %w", err)
	}
	run, err := cql.Compile(expr, db.indexes, r, db.log)
	if err != nil {
		return nil, fmt.Errorf("oriondb: cql: %w", err)
	}
	return &CQLQuery{run: run}, nil
}

// Stats summarizes the metadata index: game/player/event/ECO counts and
// Elo/date ranges.
func (db *Database) Stats() store.Stats {
	return db.indexes.Metadata.Stats()
}

// MotifsAtPly returns the tactical motifs detected at a specific ply of
// a specific game, or nil if that position was never indexed.
func (db *Database) MotifsAtPly(gameID uint32, ply int) []model.TacticalMotif {
	return db.indexes.Motif.MotifsAtPly(gameID, ply)
}

// MovesForGame returns a game's indexed move sequence in ply order, or
// nil if move indexing was disabled or the game is unknown.
func (db *Database) MovesForGame(gameID uint32) []store.SeqEntry {
	return db.indexes.Move.Sequence(gameID)
}

// Flush persists the current index set to the sidecar path, so a
// subsequent Open can load the indexes from it. Open does not rebuild
// indexes by replaying the archive: an existing archive opened without
// its sidecar starts with an empty IndexSet. Flush is a no-op if the
// handle was opened without a sidecar path.
func (db *Database) Flush() error {
	if db.sidecarPath == "" {
		return nil
	}
	if err := store.SaveSidecar(db.sidecarPath, db.indexes); err != nil {
		return fmt.Errorf("oriondb: flush sidecar: %w", err)
	}
	return nil
}

// Close flushes the sidecar (if configured) and closes the archive
// file, backpatching its game count header.
func (db *Database) Close() error {
	flushErr := db.Flush()
	closeErr := db.writer.Close()
	fileErr := db.file.Close()
	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return fmt.Errorf("oriondb: close archive writer: %w", closeErr)
	}
	if fileErr != nil {
		return fmt.Errorf("oriondb: close archive file: %w", fileErr)
	}
	return nil
}
