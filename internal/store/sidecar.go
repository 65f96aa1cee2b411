package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// SidecarMagic and SidecarVersion identify the <archive>.idx format: a
// pure function of the archive contents and ingest configuration flags.
// This implementation gob-encodes one section per index family, then
// wraps the whole thing in zstd compression with a CRC32 integrity
// check.
const (
	SidecarMagic   = "ORIX"
	SidecarVersion = uint32(1)
)

func init() {
	gob.Register(model.GamePosition{})
	gob.Register(model.PawnStructure(0))
	gob.Register(model.TacticalMotif(0))
}

// sidecarData is the gob-encoded payload: one section per index family,
// each a plain snapshot of that index's private maps.
type sidecarData struct {
	Metadata  metadataSnapshot
	Position  positionSnapshot
	Material  materialSnapshot
	Structure structureSnapshot
	Move      moveSnapshot
	Motif     motifSnapshot
	Comment   commentSnapshot
}

type metadataSnapshot struct {
	GameOffset map[uint32]uint64
	Player     map[string]GameIDSet
	Event      map[string]GameIDSet
	ECO        map[string]GameIDSet
	Result     map[string]GameIDSet
	Elo        map[int]GameIDSet
	Date       map[string]GameIDSet
}

type positionSnapshot struct {
	Postings   map[uint64][]model.GamePosition
	Collisions int
}

type materialSnapshot struct {
	BySignature map[string][]model.GamePosition
	ByImbalance map[int][]model.GamePosition
}

type structureSnapshot struct {
	Postings map[model.PawnStructure]map[model.GamePosition]struct{}
}

type moveSnapshot struct {
	BySAN  map[string]map[model.GamePosition]struct{}
	ByGame map[uint32][]SeqEntry
}

type motifSnapshot struct {
	Postings map[model.TacticalMotif]map[model.GamePosition]struct{}
	ByGame   map[uint32]map[int]map[model.TacticalMotif]struct{}
}

type commentSnapshot struct {
	Postings map[string]map[model.GamePosition]struct{}
}

// SaveSidecar writes indexes to path as a zstd-compressed, checksummed
// sidecar file. Save/Load round-trip deterministically given the same
// IndexSet contents.
func SaveSidecar(path string, indexes *IndexSet) error {
	data := snapshotIndexSet(indexes)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("store: encode sidecar: %w", err)
	}
	checksum := crc32.ChecksumIEEE(buf.Bytes())

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("store: create zstd encoder: %w", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(buf.Bytes(), nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create sidecar %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 12)
	copy(header[0:4], SidecarMagic)
	binary.BigEndian.PutUint32(header[4:8], SidecarVersion)
	binary.BigEndian.PutUint32(header[8:12], checksum)
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("store: write sidecar header: %w", err)
	}
	if _, err := f.Write(compressed); err != nil {
		return fmt.Errorf("store: write sidecar body: %w", err)
	}
	return nil
}

// LoadSidecar reads and decodes a sidecar file written by SaveSidecar,
// returning a populated IndexSet. A magic/version mismatch or a CRC32
// failure is treated as a corruption error, since the sidecar no longer
// agrees with its archive.
func LoadSidecar(path string) (*IndexSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read sidecar %s: %w", path, err)
	}
	if len(raw) < 12 {
		return nil, fmt.Errorf("%w: sidecar %s too short", ErrCorrupt, path)
	}
	if string(raw[0:4]) != SidecarMagic {
		return nil, fmt.Errorf("%w: sidecar %s bad magic %q", ErrCorrupt, path, raw[0:4])
	}
	if binary.BigEndian.Uint32(raw[4:8]) != SidecarVersion {
		return nil, fmt.Errorf("%w: sidecar %s unsupported version", ErrCorrupt, path)
	}
	wantChecksum := binary.BigEndian.Uint32(raw[8:12])

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("store: create zstd decoder: %w", err)
	}
	defer dec.Close()
	body, err := dec.DecodeAll(raw[12:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress sidecar %s: %v", ErrCorrupt, path, err)
	}
	if crc32.ChecksumIEEE(body) != wantChecksum {
		return nil, fmt.Errorf("%w: sidecar %s checksum mismatch", ErrCorrupt, path)
	}

	var data sidecarData
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode sidecar %s: %v", ErrCorrupt, path, err)
	}
	return restoreIndexSet(data), nil
}

func snapshotIndexSet(idx *IndexSet) sidecarData {
	idx.Metadata.mu.RLock()
	metadata := metadataSnapshot{
		GameOffset: idx.Metadata.gameOffset,
		Player:     idx.Metadata.player,
		Event:      idx.Metadata.event,
		ECO:        idx.Metadata.eco,
		Result:     idx.Metadata.result,
		Elo:        idx.Metadata.elo,
		Date:       idx.Metadata.date,
	}
	idx.Metadata.mu.RUnlock()

	idx.Position.mu.RLock()
	position := positionSnapshot{Postings: idx.Position.postings, Collisions: idx.Position.collisions}
	idx.Position.mu.RUnlock()

	idx.Material.mu.RLock()
	material := materialSnapshot{BySignature: idx.Material.bySignature, ByImbalance: idx.Material.byImbalance}
	idx.Material.mu.RUnlock()

	idx.Structure.mu.RLock()
	structure := structureSnapshot{Postings: idx.Structure.postings}
	idx.Structure.mu.RUnlock()

	idx.Move.mu.RLock()
	move := moveSnapshot{BySAN: idx.Move.bySAN, ByGame: idx.Move.byGame}
	idx.Move.mu.RUnlock()

	idx.Motif.mu.RLock()
	motif := motifSnapshot{Postings: idx.Motif.postings, ByGame: idx.Motif.byGame}
	idx.Motif.mu.RUnlock()

	idx.Comment.mu.RLock()
	comment := commentSnapshot{Postings: idx.Comment.postings}
	idx.Comment.mu.RUnlock()

	return sidecarData{
		Metadata:  metadata,
		Position:  position,
		Material:  material,
		Structure: structure,
		Move:      move,
		Motif:     motif,
		Comment:   comment,
	}
}

func restoreIndexSet(data sidecarData) *IndexSet {
	idx := NewIndexSet()

	idx.Metadata.gameOffset = nonNilU32U64(data.Metadata.GameOffset)
	idx.Metadata.player = nonNilStrSet(data.Metadata.Player)
	idx.Metadata.event = nonNilStrSet(data.Metadata.Event)
	idx.Metadata.eco = nonNilStrSet(data.Metadata.ECO)
	idx.Metadata.result = nonNilStrSet(data.Metadata.Result)
	idx.Metadata.elo = nonNilIntSet(data.Metadata.Elo)
	idx.Metadata.date = nonNilStrSet(data.Metadata.Date)

	idx.Position.postings = data.Position.Postings
	if idx.Position.postings == nil {
		idx.Position.postings = make(map[uint64][]model.GamePosition)
	}
	idx.Position.collisions = data.Position.Collisions

	idx.Material.bySignature = data.Material.BySignature
	if idx.Material.bySignature == nil {
		idx.Material.bySignature = make(map[string][]model.GamePosition)
	}
	idx.Material.byImbalance = data.Material.ByImbalance
	if idx.Material.byImbalance == nil {
		idx.Material.byImbalance = make(map[int][]model.GamePosition)
	}

	idx.Structure.postings = data.Structure.Postings
	if idx.Structure.postings == nil {
		idx.Structure.postings = make(map[model.PawnStructure]map[model.GamePosition]struct{})
	}

	idx.Move.bySAN = data.Move.BySAN
	if idx.Move.bySAN == nil {
		idx.Move.bySAN = make(map[string]map[model.GamePosition]struct{})
	}
	idx.Move.byGame = data.Move.ByGame
	if idx.Move.byGame == nil {
		idx.Move.byGame = make(map[uint32][]SeqEntry)
	}

	idx.Motif.postings = data.Motif.Postings
	if idx.Motif.postings == nil {
		idx.Motif.postings = make(map[model.TacticalMotif]map[model.GamePosition]struct{})
	}
	idx.Motif.byGame = data.Motif.ByGame
	if idx.Motif.byGame == nil {
		idx.Motif.byGame = make(map[uint32]map[int]map[model.TacticalMotif]struct{})
	}

	idx.Comment.postings = data.Comment.Postings
	if idx.Comment.postings == nil {
		idx.Comment.postings = make(map[string]map[model.GamePosition]struct{})
	}

	return idx
}

func nonNilU32U64(m map[uint32]uint64) map[uint32]uint64 {
	if m == nil {
		return make(map[uint32]uint64)
	}
	return m
}

func nonNilStrSet(m map[string]GameIDSet) map[string]GameIDSet {
	if m == nil {
		return make(map[string]GameIDSet)
	}
	return m
}

func nonNilIntSet(m map[int]GameIDSet) map[int]GameIDSet {
	if m == nil {
		return make(map[int]GameIDSet)
	}
	return m
}
