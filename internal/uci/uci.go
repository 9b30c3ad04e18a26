// Package uci implements the line-oriented text protocol: one request per
// line on stdin, responses on stdout, diagnostics on stderr.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/chess"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/engine"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/storage"
)

// Version is the engine version reported by the "uci" command.
const Version = "1.0"

const (
	hashMin = 1
	hashMax = 2048
)

// Protocol drives one engine over the text protocol.
type Protocol struct {
	engine   *engine.Engine
	position *chess.Position
	store    *storage.Store // may be nil when persistence is unavailable
	out      io.Writer
	log      zerolog.Logger
}

// New builds a protocol handler. store may be nil.
func New(eng *engine.Engine, store *storage.Store, out io.Writer, log zerolog.Logger) *Protocol {
	return &Protocol{
		engine:   eng,
		position: chess.NewPosition(),
		store:    store,
		out:      out,
		log:      log,
	}
}

// Run reads commands until EOF or "quit". Bad input is logged and skipped;
// the loop never terminates on a parse error.
func (p *Protocol) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !p.execute(line) {
			return
		}
	}
	p.engine.StopAndWait()
}

// execute runs one command line; it returns false on "quit".
func (p *Protocol) execute(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		p.send("id name Emerald %s", Version)
		p.send("id author UndefinedCpp")
		p.send("option name Hash type spin default 16 min %d max %d", hashMin, hashMax)
		p.send("uciok")
	case "isready":
		p.send("readyok")
	case "setoption":
		p.handleSetOption(args)
	case "ucinewgame":
		p.engine.NewGame()
	case "position":
		p.handlePosition(args)
	case "go":
		p.handleGo(args)
	case "stop":
		p.engine.StopAndWait()
	case "quit":
		p.engine.StopAndWait()
		return false
	case "d":
		// Debug helper: show the board and its static evaluation.
		fmt.Fprint(p.out, p.position.String())
		p.send("eval: %s", p.engine.StaticEval(p.position))
	case "perft":
		p.handlePerft(args)
	default:
		p.log.Warn().Str("command", cmd).Msg("unrecognized command")
	}
	return true
}

func (p *Protocol) send(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Protocol) handleSetOption(args []string) {
	name, value := parseOption(args)
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < hashMin || mb > hashMax {
			p.log.Warn().Str("value", value).Msg("Hash out of range")
			return
		}
		p.engine.ResizeHash(mb)
		p.persistHash(mb)
	default:
		p.log.Warn().Str("option", name).Msg("unknown option")
	}
}

func (p *Protocol) persistHash(mb int) {
	if p.store == nil {
		return
	}
	opts, err := p.store.LoadOptions()
	if err != nil {
		p.log.Warn().Err(err).Msg("load options")
		return
	}
	opts.HashMB = mb
	if err := p.store.SaveOptions(opts); err != nil {
		p.log.Warn().Err(err).Msg("save options")
	}
}

// parseOption splits "name <K...> value <V...>".
func parseOption(args []string) (name, value string) {
	var names, values []string
	target := &names
	for _, arg := range args {
		switch arg {
		case "name":
			target = &names
		case "value":
			target = &values
		default:
			*target = append(*target, arg)
		}
	}
	return strings.Join(names, " "), strings.Join(values, " ")
}

// handlePosition parses "position (startpos | fen <FEN>) [moves ...]".
func (p *Protocol) handlePosition(args []string) {
	if len(args) == 0 {
		p.log.Warn().Msg("position: missing arguments")
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *chess.Position
	switch args[0] {
	case "startpos":
		pos = chess.NewPosition()
	case "fen":
		fen := strings.Join(args[1:movesAt], " ")
		parsed, err := chess.ParseFEN(fen)
		if err != nil {
			p.log.Warn().Err(err).Msg("position: bad FEN")
			return
		}
		pos = parsed
	default:
		p.log.Warn().Str("arg", args[0]).Msg("position: expected startpos or fen")
		return
	}

	for i := movesAt + 1; i < len(args); i++ {
		m, err := pos.ParseMove(args[i])
		if err != nil {
			p.log.Warn().Err(err).Msg("position: bad move")
			return
		}
		pos.MakeMove(m)
	}
	p.position = pos
}

func (p *Protocol) handleGo(args []string) {
	params, err := parseGoParams(args)
	if err != nil {
		p.log.Warn().Err(err).Msg("go: bad arguments")
		return
	}

	p.engine.OnInfo = p.sendInfo
	p.engine.Go(p.position, params, func(result engine.SearchResult) {
		if result.BestMove == chess.NoMove {
			p.log.Info().Msg("no legal moves")
		}
		p.send("bestmove %s", result.BestMove)
	})
}

func parseGoParams(args []string) (engine.SearchParams, error) {
	var params engine.SearchParams
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			params.Infinite = true
			continue
		case "ponder":
			params.Ponder = true
			continue
		}

		if i+1 >= len(args) {
			return params, fmt.Errorf("missing value for %q", args[i])
		}
		value := args[i+1]
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return params, fmt.Errorf("bad value %q for %q", value, args[i])
		}
		switch args[i] {
		case "wtime":
			params.WTime = time.Duration(n) * time.Millisecond
		case "btime":
			params.BTime = time.Duration(n) * time.Millisecond
		case "winc":
			params.WInc = time.Duration(n) * time.Millisecond
		case "binc":
			params.BInc = time.Duration(n) * time.Millisecond
		case "movestogo":
			params.MovesToGo = int(n)
		case "depth":
			params.Depth = int(n)
		case "nodes":
			params.Nodes = uint64(n)
		case "movetime":
			params.MoveTime = time.Duration(n) * time.Millisecond
		default:
			return params, fmt.Errorf("unknown token %q", args[i])
		}
		i++
	}
	return params, nil
}

func (p *Protocol) sendInfo(info engine.SearchInfo) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d score %s seldepth %d nodes %d",
		info.Depth, info.Score, info.SelDepth, info.Nodes)
	if info.TimeMs > 0 {
		fmt.Fprintf(&sb, " nps %d", info.Nodes*1000/uint64(info.TimeMs))
	}
	fmt.Fprintf(&sb, " time %d", info.TimeMs)
	if info.HashFull > 0 {
		fmt.Fprintf(&sb, " hashfull %d", info.HashFull)
	}
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	p.send("%s", sb.String())
}

func (p *Protocol) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}
	start := time.Now()
	nodes := perft(p.position, depth)
	elapsed := time.Since(start)
	p.send("perft %d: %d nodes in %v", depth, nodes, elapsed)
}

func perft(pos *chess.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}
