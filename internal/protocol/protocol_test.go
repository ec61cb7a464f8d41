package protocol

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/game"
)

// doubleJump has a white man on f2 that must take e3 and then c5.
const doubleJump = "7b/8/8/2b5/8/4b3/5w2/8"

func newTestProtocol(bots [2]bool) (*Protocol, *game.Game, *bytes.Buffer) {
	limits := engine.SearchLimits{MaxDepth: 1, Optimization: engine.O1, Scoring: engine.Number}
	eng := engine.NewEngine(engine.Options{Limits: limits, Seed: 7})
	g := game.New(eng, game.Settings{
		Bots:   bots,
		Limits: [2]engine.SearchLimits{limits, limits},
	}, nil)
	var out bytes.Buffer
	return New(eng, g, &out, nil), g, &out
}

// run executes each command and returns the output lines.
func run(p *Protocol, out *bytes.Buffer, cmds ...string) []string {
	out.Reset()
	for _, c := range cmds {
		p.Execute(c)
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func hasLine(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func findLine(t *testing.T, lines []string, prefix string) string {
	t.Helper()
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return l
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, strings.Join(lines, "\n"))
	return ""
}

func TestDisplay(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	lines := run(p, out, "d")

	if got := findLine(t, lines, "notation "); got != "notation "+board.StartNotation {
		t.Errorf("got %q", got)
	}
	if got := findLine(t, lines, "side "); got != "side White turn 0 status in progress" {
		t.Errorf("got %q", got)
	}
	if got := findLine(t, lines, "Black men"); got != "Black men 12 queens 0" {
		t.Errorf("got %q", got)
	}
	if lines[0] != "  a b c d e f g h" {
		t.Errorf("board header = %q", lines[0])
	}
}

func TestMoves(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})

	all := strings.Fields(strings.TrimPrefix(findLine(t, run(p, out, "moves"), "moves"), "moves"))
	if len(all) != 7 {
		t.Errorf("start position lists %d moves, want 7: %v", len(all), all)
	}

	got := strings.Fields(strings.TrimPrefix(findLine(t, run(p, out, "moves c3"), "moves"), "moves"))
	want := []string{"c3-b4", "c3-d4"}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("moves c3 mismatch (-want +got):\n%s", diff)
	}

	if !hasLine(run(p, out, "moves z9"), "error moves:") {
		t.Error("bad square should report an error")
	}
}

func TestMoveAndBotReply(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{false, true})

	lines := run(p, out, "move c3-d4")
	if lines[0] != "ok c3-d4" {
		t.Errorf("first line = %q, want %q", lines[0], "ok c3-d4")
	}
	findLine(t, lines, "info score ")
	reply := findLine(t, lines, "botmove ")

	if g.SideToMove() != board.White || g.Turn() != 2 {
		t.Errorf("side=%v turn=%d after bot reply (%s)", g.SideToMove(), g.Turn(), reply)
	}
}

func TestMoveErrors(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{})

	tests := []struct {
		cmd  string
		want string
	}{
		{"move", "error move: missing move"},
		{"move c3-c4", "error move: illegal move: c3-c4"},
		{"move c3", "error move:"},
		{"move d6-c5", "error move: illegal move: d6-c5"},
	}
	for _, tc := range tests {
		t.Run(tc.cmd, func(t *testing.T) {
			lines := run(p, out, tc.cmd)
			if !strings.HasPrefix(lines[0], tc.want) {
				t.Errorf("got %q, want prefix %q", lines[0], tc.want)
			}
		})
	}
	if g.Turn() != 0 {
		t.Errorf("rejected moves advanced the game to turn %d", g.Turn())
	}
}

func TestCaptureChain(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{})

	if lines := run(p, out, "position "+doubleJump+" w"); out.Len() != 0 {
		t.Fatalf("position printed %v", lines)
	}

	if lines := run(p, out, "move f2xd4"); lines[0] != "continue d4" {
		t.Fatalf("got %q, want %q", lines[0], "continue d4")
	}
	if lines := run(p, out, "go"); !strings.HasPrefix(lines[0], "error go: capture chain") {
		t.Errorf("go mid-chain: got %q", lines[0])
	}
	if lines := run(p, out, "moves"); lines[0] != "moves d4xb6" {
		t.Errorf("chain moves: got %q", lines[0])
	}
	if lines := run(p, out, "move d4xb6"); lines[0] != "ok d4xb6" {
		t.Errorf("got %q, want %q", lines[0], "ok d4xb6")
	}
	if g.SideToMove() != board.Black {
		t.Errorf("side to move = %v, want Black", g.SideToMove())
	}
}

func TestGo(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{})
	run(p, out, "position "+doubleJump)

	lines := run(p, out, "go depth 2")
	if got := findLine(t, lines, "bestmove "); got != "bestmove f2xd4 d4xb6" {
		t.Errorf("got %q", got)
	}
	if info := findLine(t, lines, "info "); !strings.HasSuffix(info, "pv f2xd4 d4xb6") {
		t.Errorf("info line %q lacks the line", info)
	}
	if g.Turn() != 0 || g.Board().Notation() != doubleJump {
		t.Error("go changed the game")
	}

	if lines := run(p, out, "go depth 0"); !strings.HasPrefix(lines[0], "error go: search depth must be positive") {
		t.Errorf("depth 0: got %q", lines[0])
	}
	if lines := run(p, out, "go depth x"); !strings.HasPrefix(lines[0], "error go: bad depth") {
		t.Errorf("depth x: got %q", lines[0])
	}
}

func TestGoWithoutMoves(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	run(p, out, "position 1w6/8/8/8/8/8/8/8 w")

	lines := run(p, out, "go")
	if info := findLine(t, lines, "info "); !strings.HasPrefix(info, "info score 1e+09 ") {
		t.Errorf("info line = %q, want score 1e+09", info)
	}
	if got := findLine(t, lines, "bestmove "); got != "bestmove none" {
		t.Errorf("got %q", got)
	}
}

func TestSetOption(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{})

	lines := run(p, out,
		"setoption name BlackLevel value 4",
		"setoption name WhiteBot value true",
		"setoption name Scoring value NumberAndPotential",
		"setoption name Optimization value O0",
		"setoption name Delay value 5",
		"setoption name MaxTurns value 90",
	)
	if out.Len() != 0 {
		t.Fatalf("valid options printed %v", lines)
	}

	s := g.Settings()
	want := engine.SearchLimits{MaxDepth: 4, Optimization: engine.O0, Scoring: engine.NumberAndPotential}
	if diff := cmp.Diff(want, s.Limits[board.Black]); diff != "" {
		t.Errorf("black limits mismatch (-want +got):\n%s", diff)
	}
	if !s.Bots[board.White] || s.Bots[board.Black] {
		t.Errorf("bots = %v", s.Bots)
	}
	if s.BotDelay != 5*time.Millisecond || s.MaxTurns != 90 {
		t.Errorf("delay=%v maxturns=%d", s.BotDelay, s.MaxTurns)
	}

	for _, cmd := range []string{
		"setoption name BlackLevel value 0",
		"setoption name Scoring value Mobility",
		"setoption name Delay value -3",
		"setoption name Colour value red",
	} {
		if lines := run(p, out, cmd); !strings.HasPrefix(lines[0], "error setoption:") {
			t.Errorf("%s: got %q", cmd, lines[0])
		}
	}
	if g.Settings().Limits[board.Black].MaxDepth != 4 {
		t.Error("rejected option changed the settings")
	}
}

func TestDifficultyOption(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{})
	if lines := run(p, out, "setoption name Difficulty value Hard"); out.Len() != 0 {
		t.Fatalf("printed %v", lines)
	}
	want := engine.DifficultySettings[engine.Hard]
	if diff := cmp.Diff([2]engine.SearchLimits{want, want}, g.Settings().Limits); diff != "" {
		t.Errorf("limits mismatch (-want +got):\n%s", diff)
	}
	if p.engine.Limits() != want {
		t.Errorf("engine limits = %+v, want %+v", p.engine.Limits(), want)
	}
	if lines := run(p, out, "setoption name Difficulty value insane"); !strings.HasPrefix(lines[0], "error setoption:") {
		t.Errorf("got %q", lines[0])
	}
}

func TestPerft(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	if got := findLine(t, run(p, out, "perft 2"), "nodes "); got != "nodes 49" {
		t.Errorf("got %q, want %q", got, "nodes 49")
	}
}

func TestEval(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	if got := run(p, out, "eval"); got[0] != "eval White 1" {
		t.Errorf("got %q, want %q", got[0], "eval White 1")
	}
}

func TestResultReported(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	if got := run(p, out, "position 8/8/8/8/3w4/8/8/8 b"); got[0] != "result white wins" {
		t.Errorf("got %q, want %q", got[0], "result white wins")
	}
}

func TestBotsPlayAfterNew(t *testing.T) {
	p, g, out := newTestProtocol([2]bool{true, true})
	s := g.Settings()
	s.MaxTurns = 6
	g.SetSettings(s)

	lines := run(p, out, "new")
	if got := findLine(t, lines, "result "); got != "result draw" {
		t.Errorf("got %q, want %q", got, "result draw")
	}
	if g.Turn() != 6 {
		t.Errorf("turn = %d, want 6", g.Turn())
	}
}

func TestUnknownCommand(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	if got := run(p, out, "castle"); got[0] != `error unknown command "castle"` {
		t.Errorf("got %q", got[0])
	}
}

func TestRunStopsAtQuit(t *testing.T) {
	p, _, out := newTestProtocol([2]bool{})
	in := strings.NewReader("eval\n\nquit\neval\n")
	if err := p.Run(in); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Count(out.String(), "eval White"); got != 1 {
		t.Errorf("handled %d eval commands, want 1", got)
	}
}
