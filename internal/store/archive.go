// Package store implements the binary archive format and in-memory
// index family: the on-disk game log, the metadata/position/material/
// structure/move/motif/comment indexes built by replaying it, and the
// IndexBuilder that orchestrates ingest.
package store

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// ArchiveMagic and ArchiveVersion identify the on-disk archive format.
const (
	ArchiveMagic   = "ORDB"
	ArchiveVersion = uint32(1)
)

// Writer appends game records to a .oriondb archive. It is append-only
// and tracks each game's starting byte offset so the caller can feed it
// to the metadata index. Writers are not shareable across threads.
type Writer struct {
	w         io.Writer
	seeker    io.WriteSeeker // non-nil if w also supports Seek, for the game-count backpatch
	offset    uint64
	gameCount uint32
}

// NewWriter writes the archive header (magic, version, a zero
// placeholder for the game count) and returns a Writer ready for
// WriteGame calls. If w also implements io.WriteSeeker, Close backpatches
// the true game count into the reserved header field.
func NewWriter(w io.Writer) (*Writer, error) {
	header := make([]byte, 12)
	copy(header[0:4], ArchiveMagic)
	binary.BigEndian.PutUint32(header[4:8], ArchiveVersion)
	binary.BigEndian.PutUint32(header[8:12], 0)
	if _, err := w.Write(header); err != nil {
		return nil, fmt.Errorf("store: write archive header: %w", err)
	}
	wr := &Writer{w: w, offset: 12}
	if s, ok := w.(io.WriteSeeker); ok {
		wr.seeker = s
	}
	return wr, nil
}

// ResumeWriter opens a Writer over an existing archive of known size,
// positioned to append further games after its last record. It
// validates the header exactly as NewReader does, then seeks w to EOF
// (w must be an io.WriteSeeker that is also readable at offset 0, i.e.
// an *os.File) so the caller can continue ingesting into an archive
// from a prior session.
func ResumeWriter(w io.ReadWriteSeeker, size int64) (*Writer, error) {
	header := make([]byte, 12)
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("store: seek to archive header: %w", err)
	}
	if _, err := io.ReadFull(w, header); err != nil {
		return nil, fmt.Errorf("store: read archive header: %w", err)
	}
	if string(header[0:4]) != ArchiveMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, header[0:4])
	}
	if binary.BigEndian.Uint32(header[4:8]) != ArchiveVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, binary.BigEndian.Uint32(header[4:8]))
	}
	gameCount := binary.BigEndian.Uint32(header[8:12])

	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("store: seek to archive end: %w", err)
	}
	return &Writer{w: w, seeker: w, offset: uint64(size), gameCount: gameCount}, nil
}

// WriteGame encodes one game record and appends it to the archive,
// returning the byte offset of the record's game_length field — the
// offset the metadata index's offset→id map should remember.
func (wr *Writer) WriteGame(tags *model.TagMap, moves []model.Move) (uint64, error) {
	body := encodeGameBody(tags, moves)

	startOffset := wr.offset
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(body)))
	if _, err := wr.w.Write(lenBuf); err != nil {
		return 0, fmt.Errorf("store: write game length: %w", err)
	}
	if _, err := wr.w.Write(body); err != nil {
		return 0, fmt.Errorf("store: write game body: %w", err)
	}
	wr.offset += uint64(4 + len(body))
	wr.gameCount++
	return startOffset, nil
}

// GameCount returns the number of games written so far.
func (wr *Writer) GameCount() uint32 { return wr.gameCount }

// Close backpatches the reserved header field with the final game
// count, if the underlying writer supports seeking. Readers must not
// require a nonzero value there, so a non-seekable sink (e.g. a plain
// io.Writer over a pipe) is not an error.
func (wr *Writer) Close() error {
	if wr.seeker == nil {
		return nil
	}
	if _, err := wr.seeker.Seek(8, io.SeekStart); err != nil {
		return fmt.Errorf("store: seek to backpatch game count: %w", err)
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, wr.gameCount)
	if _, err := wr.seeker.Write(buf); err != nil {
		return fmt.Errorf("store: backpatch game count: %w", err)
	}
	_, err := wr.seeker.Seek(0, io.SeekEnd)
	return err
}

func encodeGameBody(tags *model.TagMap, moves []model.Move) []byte {
	var buf []byte
	buf = appendUint32(buf, uint32(tags.Len()))
	for _, key := range tags.Keys() {
		value, _ := tags.Get(key)
		buf = appendString(buf, key)
		buf = appendString(buf, value)
	}
	buf = appendUint32(buf, uint32(len(moves)))
	for _, mv := range moves {
		buf = appendString(buf, mv.SAN)
		buf = appendString(buf, mv.Comment)
	}
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// Reader decodes game records from an archive opened for random access.
// It never derives a game ID from its byte offset — that arithmetic is
// lossy once games vary in length — callers recover IDs from the
// metadata index's offset→id map.
type Reader struct {
	ra io.ReaderAt
}

// NewReader validates the archive header and returns a Reader. A bad
// magic or unsupported version is fatal.
func NewReader(ra io.ReaderAt) (*Reader, error) {
	header := make([]byte, 12)
	if _, err := ra.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("store: read archive header: %w", err)
	}
	if string(header[0:4]) != ArchiveMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, header[0:4])
	}
	if binary.BigEndian.Uint32(header[4:8]) != ArchiveVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, binary.BigEndian.Uint32(header[4:8]))
	}
	return &Reader{ra: ra}, nil
}

// ReadAt decodes the game record starting at offset (the byte position
// of its game_length field, as returned by Writer.WriteGame).
func (r *Reader) ReadAt(offset uint64) (*model.TagMap, []model.Move, error) {
	src := &offsetReader{ra: r.ra, pos: int64(offset)}
	br := bufio.NewReader(src)

	length, err := readUint32(br)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read game length at offset %d: %v", ErrCorrupt, offset, err)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, nil, fmt.Errorf("%w: truncated game record at offset %d: %v", ErrCorrupt, offset, err)
	}

	return decodeGameBody(body)
}

func decodeGameBody(body []byte) (*model.TagMap, []model.Move, error) {
	br := bufio.NewReader(bytes.NewReader(body))

	tagCount, err := readUint32(br)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: tag count: %v", ErrCorrupt, err)
	}
	tags := model.NewTagMap()
	for i := uint32(0); i < tagCount; i++ {
		key, err := readString(br)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: tag key %d: %v", ErrCorrupt, i, err)
		}
		value, err := readString(br)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: tag value %d: %v", ErrCorrupt, i, err)
		}
		tags.Set(key, value)
	}

	moveCount, err := readUint32(br)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: move count: %v", ErrCorrupt, err)
	}
	moves := make([]model.Move, 0, moveCount)
	for i := uint32(0); i < moveCount; i++ {
		san, err := readString(br)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: move san %d: %v", ErrCorrupt, i, err)
		}
		comment, err := readString(br)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: move comment %d: %v", ErrCorrupt, i, err)
		}
		moves = append(moves, model.Move{SAN: san, Comment: comment})
	}

	return tags, moves, nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// offsetReader adapts an io.ReaderAt with a fixed starting position into
// a sequential io.Reader.
type offsetReader struct {
	ra  io.ReaderAt
	pos int64
}

func (o *offsetReader) Read(p []byte) (int, error) {
	n, err := o.ra.ReadAt(p, o.pos)
	o.pos += int64(n)
	return n, err
}
