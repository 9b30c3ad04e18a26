// Package annotate implements the training-data annotation mode: one FEN per
// input line, a fixed-node search per position, one binary record per
// position in the output file.
package annotate

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/engine"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/eval"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/storage"
)

const (
	searchNodes   = 2000
	workerHashMB  = 16
	scoreBound    = 3200
	progressEvery = 64
)

// recordSize is 12 piece bitboards, 2 occupancy bitboards and an int16
// score.
const recordSize = 14*8 + 2

type job struct {
	index int
	fen   string
}

type result struct {
	index  int
	record []byte // nil when the position was skipped
}

// Run annotates every FEN in inputPath into inputPath+".analysis". When a
// store is given, progress is persisted so an interrupted job resumes
// instead of restarting.
func Run(inputPath string, store *storage.Store, workers int, log zerolog.Logger) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fens, err := readLines(inputPath)
	if err != nil {
		return err
	}

	completed := 0
	if store != nil {
		if completed, err = store.LoadAnnotateProgress(inputPath); err != nil {
			return err
		}
		if completed > len(fens) {
			completed = len(fens)
		}
	}

	outputPath := inputPath + ".analysis"
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if completed > 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		log.Info().Int("completed", completed).Msg("resuming annotation")
	}
	out, err := os.OpenFile(outputPath, flags, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("positions", len(fens)-completed).
		Int("workers", workers).
		Msg("annotation started")

	g, ctx := errgroup.WithContext(context.Background())
	jobs := make(chan job, 128)
	results := make(chan result, 128)

	g.Go(func() error {
		defer close(jobs)
		for i := completed; i < len(fens); i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- job{index: i, fen: fens[i]}:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			eng := engine.NewEngine(workerHashMB, eval.New())
			for j := range jobs {
				record, err := annotateOne(eng, j.fen)
				if err != nil {
					log.Warn().Str("fen", j.fen).Err(err).Msg("skipping position")
					record = nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case results <- result{index: j.index, record: record}:
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		return writeResults(out, results, completed, len(fens), inputPath, store, log)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if store != nil {
		if err := store.ClearAnnotateProgress(inputPath); err != nil {
			return err
		}
	}
	log.Info().Msg("annotation finished")
	return nil
}

// writeResults restores input order before writing: workers finish out of
// order, records must not.
func writeResults(out *os.File, results <-chan result, start, total int,
	inputPath string, store *storage.Store, log zerolog.Logger) error {
	writer := bufio.NewWriter(out)
	pending := make(map[int][]byte)
	next := start
	began := time.Now()

	flushProgress := func() error {
		if err := writer.Flush(); err != nil {
			return err
		}
		if store != nil {
			return store.SaveAnnotateProgress(inputPath, next)
		}
		return nil
	}

	for r := range results {
		pending[r.index] = r.record
		for {
			record, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if record != nil {
				if _, err := writer.Write(record); err != nil {
					return err
				}
			}
			next++

			if (next-start)%progressEvery == 0 {
				if err := flushProgress(); err != nil {
					return err
				}
				elapsed := time.Since(began).Seconds()
				speed := float64(next-start) / elapsed
				eta := time.Duration(float64(total-next)/speed) * time.Second
				log.Info().
					Int("done", next).
					Int("total", total).
					Int("speed_pps", int(speed)).
					Dur("eta", eta).
					Msg("annotating")
			}
		}
	}
	return flushProgress()
}

// annotateOne searches one position and serializes its record.
func annotateOne(eng *engine.Engine, fen string) ([]byte, error) {
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	result := eng.SearchSync(pos, engine.SearchParams{Nodes: searchNodes})
	if result.BestMove == chess.NoMove {
		return nil, fmt.Errorf("no legal move")
	}
	return encodeRecord(pos, result.Score), nil
}

// encodeRecord writes twelve piece bitboards (side to move first), the two
// occupancy bitboards and the adjusted score. Black-to-move boards are
// rank-mirrored so every record reads from the mover's point of view.
func encodeRecord(pos *chess.Position, score engine.Value) []byte {
	us := pos.SideToMove
	them := us.Other()

	swap := func(bb chess.Bitboard) chess.Bitboard {
		if us == chess.Black {
			return bb.Reverse()
		}
		return bb
	}

	record := make([]byte, 0, recordSize)
	var buf [8]byte
	putBB := func(bb chess.Bitboard) {
		binary.LittleEndian.PutUint64(buf[:], uint64(swap(bb)))
		record = append(record, buf[:]...)
	}

	for pt := chess.Pawn; pt <= chess.King; pt++ {
		putBB(pos.Pieces[us][pt])
	}
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		putBB(pos.Pieces[them][pt])
	}
	putBB(pos.ByColor[us])
	putBB(pos.ByColor[them])

	adjusted := adjustScore(pos, score)
	record = append(record, byte(uint16(adjusted)), byte(uint16(adjusted)>>8))
	return record
}

// adjustScore clamps the search score and applies the structural bonuses: a
// 25% boost when the score already beats the raw material difference, and a
// flat development bonus when the mover is clearly ahead in development.
func adjustScore(pos *chess.Position, v engine.Value) int16 {
	score := int(v)
	if score > scoreBound {
		score = scoreBound
	} else if score < -scoreBound {
		score = -scoreBound
	}
	if score <= 100 {
		return int16(score)
	}

	if score > materialDifference(pos) {
		score += score / 4
	}

	whiteBack := (pos.ByColor[chess.White] & chess.Rank1).Count()
	blackBack := (pos.ByColor[chess.Black] & chess.Rank8).Count()
	development := blackBack - whiteBack
	if pos.SideToMove == chess.Black {
		development = -development
	}
	if development > 2 {
		score += 50
	}
	return int16(score)
}

var materialValue = [6]int{100, 300, 330, 500, 900, 0}

func materialDifference(pos *chess.Position) int {
	d := 0
	for pt := chess.Pawn; pt <= chess.Queen; pt++ {
		d += materialValue[pt] * (pos.Pieces[chess.White][pt].Count() - pos.Pieces[chess.Black][pt].Count())
	}
	if pos.SideToMove == chess.Black {
		return -d
	}
	return d
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
