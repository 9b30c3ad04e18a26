package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/UndefinedCpp/EmeraldChessEngine/internal/engine"
	"github.com/UndefinedCpp/EmeraldChessEngine/internal/eval"
)

func newTestProtocol() (*Protocol, *bytes.Buffer) {
	out := &bytes.Buffer{}
	eng := engine.NewEngine(16, eval.New())
	return New(eng, nil, out, zerolog.Nop()), out
}

func TestParseGoParams(t *testing.T) {
	params, err := parseGoParams(strings.Fields("wtime 30000 btime 28000 winc 1000 binc 900 movestogo 12"))
	if err != nil {
		t.Fatal(err)
	}
	if params.WTime != 30*time.Second || params.BTime != 28*time.Second {
		t.Errorf("clock times wrong: %+v", params)
	}
	if params.WInc != time.Second || params.BInc != 900*time.Millisecond {
		t.Errorf("increments wrong: %+v", params)
	}
	if params.MovesToGo != 12 {
		t.Errorf("movestogo = %d", params.MovesToGo)
	}

	params, err = parseGoParams(strings.Fields("depth 9 nodes 5000 movetime 250 infinite"))
	if err != nil {
		t.Fatal(err)
	}
	if params.Depth != 9 || params.Nodes != 5000 || params.MoveTime != 250*time.Millisecond || !params.Infinite {
		t.Errorf("limits wrong: %+v", params)
	}

	if _, err := parseGoParams(strings.Fields("depth")); err == nil {
		t.Error("missing value must error")
	}
	if _, err := parseGoParams(strings.Fields("banana 12")); err == nil {
		t.Error("unknown token must error")
	}
}

func TestParseOption(t *testing.T) {
	name, value := parseOption(strings.Fields("name Hash value 128"))
	if name != "Hash" || value != "128" {
		t.Errorf("parseOption = %q, %q", name, value)
	}

	name, value = parseOption(strings.Fields("name Multi Word Name value two words"))
	if name != "Multi Word Name" || value != "two words" {
		t.Errorf("parseOption multiword = %q, %q", name, value)
	}
}

func TestUCIHandshake(t *testing.T) {
	p, out := newTestProtocol()
	p.execute("uci")

	text := out.String()
	for _, want := range []string{"id name Emerald", "id author", "option name Hash type spin", "uciok"} {
		if !strings.Contains(text, want) {
			t.Errorf("uci reply missing %q:\n%s", want, text)
		}
	}

	out.Reset()
	p.execute("isready")
	if !strings.Contains(out.String(), "readyok") {
		t.Error("isready did not answer readyok")
	}
}

func TestPositionCommand(t *testing.T) {
	p, _ := newTestProtocol()

	p.execute("position startpos moves e2e4 e7e5 g1f3")
	want := "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R"
	p.execute("position startpos moves e2e4 e7e5 g1f3 g8f6")
	if got := p.position.FEN(); !strings.HasPrefix(got, want) {
		t.Errorf("position after moves = %q", got)
	}

	p.execute("position fen 6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	if p.position.FEN() != "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1" {
		t.Errorf("position fen = %q", p.position.FEN())
	}
}

func TestMalformedInputIsSwallowed(t *testing.T) {
	p, _ := newTestProtocol()
	before := p.position.FEN()

	// None of these may panic or change the position.
	p.execute("position fen this is not a fen")
	p.execute("position startpos moves e9e4")
	p.execute("setoption name Hash value many")
	p.execute("setoption name Hash value 99999")
	p.execute("go depth banana")
	p.execute("flibbertigibbet")

	if p.position.FEN() != before {
		t.Error("malformed input corrupted the position")
	}
}

func TestGoProducesBestMove(t *testing.T) {
	p, out := newTestProtocol()
	p.execute("position fen 6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	p.execute("go depth 3")
	p.engine.Wait()

	text := out.String()
	if !strings.Contains(text, "bestmove a1a8") {
		t.Errorf("expected bestmove a1a8, got:\n%s", text)
	}
	if !strings.Contains(text, "score mate 1") {
		t.Errorf("expected an info line with score mate 1, got:\n%s", text)
	}
	if !strings.Contains(text, " pv ") {
		t.Errorf("expected a pv in the info line, got:\n%s", text)
	}
}

func TestBestMoveZeroWhenNoLegalMoves(t *testing.T) {
	p, out := newTestProtocol()
	p.execute("position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	p.execute("go depth 2")
	p.engine.Wait()

	if !strings.Contains(out.String(), "bestmove 0000") {
		t.Errorf("stalemate must answer bestmove 0000, got:\n%s", out.String())
	}
}

func TestPerftCommand(t *testing.T) {
	p, out := newTestProtocol()
	p.execute("perft 3")
	if !strings.Contains(out.String(), "8902") {
		t.Errorf("perft 3 from startpos must count 8902 nodes, got:\n%s", out.String())
	}
}
