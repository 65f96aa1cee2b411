package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	oriondb "github.com/GhassanAlhamoud/oriondb-chess-engine"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/logx"
)

func main() {
	var (
		archivePath = flag.String("archive", "./data/games.oriondb", "Path to the archive file (created if missing)")
		sidecarPath = flag.String("sidecar", "./data/games.oriondb.idx", "Path to the index sidecar (created/refreshed on close)")
		inputDir    = flag.String("dir", "", "Directory of .pgn / .pgn.zst files to ingest")
		inputFile   = flag.String("pgn", "", "Single PGN file to ingest (supports .zst), alternative to -dir")
		noPositions = flag.Bool("no-positions", false, "Disable position/material/structure/move/motif indexing for faster ingest")
	)
	flag.Parse()

	if *inputDir == "" && *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: oriondb-ingest -dir <directory> | -pgn <file.pgn[.zst]> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger()

	cfg := config.DefaultFlags()
	if *noPositions {
		cfg.EnablePositionIndexing = false
	}

	db, err := oriondb.Open(*archivePath, *sidecarPath, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("close database")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var paths []string
	if *inputFile != "" {
		paths = []string{*inputFile}
	} else {
		paths, err = pgnFilesIn(*inputDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("list pgn files")
		}
	}

	startTime := time.Now()
	var totalGames int

	// Archive writers are not shareable across threads, so files are
	// ingested one at a time within this single Database handle rather
	// than fanned out across a worker pool.
	for _, path := range paths {
		select {
		case <-ctx.Done():
			logger.Info().Msg("interrupted, stopping ingest")
			goto done
		default:
		}

		n, err := ingestFile(db, path, logger)
		if err != nil {
			logger.Error().Str("file", path).Err(err).Msg("ingest file failed")
			continue
		}
		totalGames += n
		logger.Info().Str("file", path).Int("games", n).Msg("ingested file")
	}

done:
	elapsed := time.Since(startTime)
	logger.Info().
		Int("files", len(paths)).
		Int("games", totalGames).
		Dur("elapsed", elapsed).
		Msg("ingest complete")
}

func pgnFilesIn(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".pgn") || strings.HasSuffix(path, ".pgn.zst") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func ingestFile(db *oriondb.Database, path string, logger zerolog.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("zstd decode %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
		logger.Debug().Str("file", path).Msg("decompressing zstd-compressed PGN")
	}

	return db.Ingest(r)
}
