package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/chess"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// IndexSet bundles every index family so Builder, Sidecar, and the
// query layer can all pass it around as one value.
type IndexSet struct {
	Metadata  *MetadataIndex
	Position  *PositionIndex
	Material  *MaterialIndex
	Structure *StructureIndex
	Move      *MoveIndex
	Motif     *MotifIndex
	Comment   *CommentIndex
}

// NewIndexSet returns a fully initialized, empty IndexSet.
func NewIndexSet() *IndexSet {
	return &IndexSet{
		Metadata:  NewMetadataIndex(),
		Position:  NewPositionIndex(),
		Material:  NewMaterialIndex(),
		Structure: NewStructureIndex(),
		Move:      NewMoveIndex(),
		Motif:     NewMotifIndex(),
		Comment:   NewCommentIndex(),
	}
}

// Builder orchestrates ingest: write the game to the archive, replay
// its moves through the chess engine, and feed every reached position
// to whichever indexes cfg enables. Replay halts at the first
// Engine.Apply failure; positions up to that ply are still indexed.
type Builder struct {
	writer  *Writer
	indexes *IndexSet
	cfg     config.Flags
	engine  chess.Engine
	log     zerolog.Logger
	nextID  uint32
}

// NewBuilder returns a Builder writing to w, populating indexes per cfg.
// IDs continue from w's game count, so a resumed archive keeps assigning
// fresh, monotonic IDs after the games it already holds.
func NewBuilder(w *Writer, indexes *IndexSet, cfg config.Flags, log zerolog.Logger) *Builder {
	return &Builder{
		writer:  w,
		indexes: indexes,
		cfg:     cfg.Normalize(),
		log:     log,
		nextID:  w.GameCount(),
	}
}

// IngestGame assigns the next ingest ID to (tags, moves), writes it to
// the archive, and replays it into the enabled indexes. I/O errors
// writing the archive are fatal and propagated; a SAN resolution
// failure during replay is not — it halts replay for this game only
// and is logged.
func (b *Builder) IngestGame(tags *model.TagMap, moves []model.Move) (*model.Game, error) {
	id := b.nextID
	b.nextID++

	game := model.NewGame(id, tags, moves)

	offset, err := b.writer.WriteGame(game.Tags, game.Moves)
	if err != nil {
		return nil, fmt.Errorf("store: ingest game %d: %w", id, err)
	}
	b.indexes.Metadata.AddGame(id, offset, game.Tags)

	b.replay(id, game.Moves)
	return game, nil
}

// replay walks the game's moves from the starting position, feeding
// every reached position (including ply 0, the starting position) to
// the position/material/structure/motif indexes, and every move to the
// move and comment indexes, as the active config.Flags permit.
func (b *Builder) replay(id uint32, moves []model.Move) {
	pos := chess.StartingPosition()
	b.indexPosition(id, 0, pos)

	for ply, mv := range moves {
		next, _, err := b.engine.Apply(pos, mv.SAN)
		if err != nil {
			b.log.Warn().Uint32("game_id", id).Int("ply", ply+1).Err(err).Msg("halting replay: SAN resolution failed")
			return
		}
		gp := model.GamePosition{GameID: id, Ply: ply + 1, FEN: next.ToFEN()}
		b.indexPosition(id, ply+1, next)
		if b.cfg.EnableMoveIndexing {
			b.indexes.Move.Add(mv.SAN, gp)
		}
		if b.cfg.EnableMotifIndexing {
			for _, motif := range chess.DetectMotifs(next) {
				b.indexes.Motif.Add(motif, gp)
			}
		}
		if b.cfg.EnableCommentIndexing && mv.HasComment() {
			b.indexes.Comment.AddComment(mv.Comment, gp)
		}
		pos = next
	}
}

// indexPosition feeds one reached position into the position, material,
// and structure indexes, gated on EnablePositionIndexing.
func (b *Builder) indexPosition(id uint32, ply int, pos *chess.Position) {
	if !b.cfg.EnablePositionIndexing {
		return
	}
	gp := model.GamePosition{GameID: id, Ply: ply, FEN: pos.ToFEN()}
	b.indexes.Position.Add(chess.Hash(pos), gp)
	b.indexes.Material.Add(chess.MaterialSignatureOf(pos), gp)
	for _, tag := range chess.ClassifyPawnStructure(pos) {
		if tag != model.PawnStructureNone {
			b.indexes.Structure.Add(tag, gp)
		}
	}
}

// GameCount returns the number of games ingested so far.
func (b *Builder) GameCount() uint32 { return b.nextID }
