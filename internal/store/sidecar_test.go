package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

func TestSidecarRoundTrip(t *testing.T) {
	b, indexes, _ := newTestBuilder(t, config.DefaultFlags())
	_, err := b.IngestGame(gameTags("Carlsen, Magnus", "X", "1-0"), []model.Move{
		{SAN: "e4"}, {SAN: "e5"}, {SAN: "Nf3"},
	})
	if err != nil {
		t.Fatalf("IngestGame: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.idx")
	if err := SaveSidecar(path, indexes); err != nil {
		t.Fatalf("SaveSidecar: %v", err)
	}

	loaded, err := LoadSidecar(path)
	if err != nil {
		t.Fatalf("LoadSidecar: %v", err)
	}

	if loaded.Metadata.GameCount() != indexes.Metadata.GameCount() {
		t.Errorf("GameCount = %d, want %d", loaded.Metadata.GameCount(), indexes.Metadata.GameCount())
	}
	hits := loaded.Move.FindMove("Nf3")
	if len(hits) != 1 || hits[0].Ply != 3 {
		t.Errorf("FindMove(Nf3) after reload = %v", hits)
	}
}

func TestSidecarCorruptMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.idx")
	if err := os.WriteFile(path, []byte("XXXX\x00\x00\x00\x01\x00\x00\x00\x00garbage"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadSidecar(path); err == nil {
		t.Fatal("expected error for corrupt sidecar")
	}
}
