// Package protocol implements a line-based text protocol for playing
// checkers against the engine.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/game"
)

// Protocol reads commands line by line and writes replies to out.
type Protocol struct {
	engine *engine.Engine
	game   *game.Game
	out    io.Writer
	log    *zap.Logger

	// CPU profiling
	profileFile *os.File
}

// New creates a protocol handler driving g.
func New(eng *engine.Engine, g *game.Game, out io.Writer, log *zap.Logger) *Protocol {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Protocol{engine: eng, game: g, out: out, log: log}
	eng.OnResult = p.sendInfo
	return p
}

// Run reads commands from in until "quit" or end of input.
func (p *Protocol) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !p.Execute(scanner.Text()) {
			return nil
		}
	}
	p.stopProfile()
	return scanner.Err()
}

// Execute handles a single command line. It returns false after "quit".
func (p *Protocol) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]
	p.log.Debug("command", zap.String("line", line))

	switch cmd {
	case "new":
		p.game.Reset(board.New(), board.White)
		p.botReply()
	case "position":
		p.handlePosition(args)
	case "d":
		p.handleDisplay()
	case "moves":
		p.handleMoves(args)
	case "move":
		p.handleMove(args)
	case "go":
		p.handleGo(args)
	case "setoption":
		p.handleSetOption(args)
	case "perft":
		p.handlePerft(args)
	case "eval":
		p.handleEval()
	case "quit":
		p.stopProfile()
		return false
	default:
		p.errorf("unknown command %q", cmd)
	}
	return true
}

func (p *Protocol) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Protocol) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.log.Debug("command failed", zap.String("error", msg))
	p.printf("error %s", msg)
}

// handlePosition sets up a position.
// Formats:
//   - position start
//   - position start b
//   - position <notation> [w|b]
func (p *Protocol) handlePosition(args []string) {
	if len(args) == 0 {
		p.errorf("position: missing argument")
		return
	}

	b := board.New()
	if args[0] != "start" {
		var err error
		if b, err = board.Parse(args[0]); err != nil {
			p.errorf("position: %v", err)
			return
		}
	}

	side := board.White
	if len(args) > 1 {
		var err error
		if side, err = board.ParseColor(args[1]); err != nil {
			p.errorf("position: %v", err)
			return
		}
	}

	p.game.Reset(b, side)
	p.botReply()
}

func (p *Protocol) handleDisplay() {
	g := p.game
	fmt.Fprint(p.out, g.Board().String())
	p.printf("notation %s", g.Board().Notation())
	p.printf("side %s turn %d status %s", g.SideToMove(), g.Turn(), g.Status())
	for _, c := range []board.Color{board.White, board.Black} {
		men, queens := g.Board().Count(c)
		p.printf("%s men %d queens %d", c, men, queens)
	}
	if sq, ok := g.InChain(); ok {
		p.printf("chain %s series %d", sq, g.BeatSeries())
	}
}

// handleMoves lists the legal moves of the side to move, or of one piece.
func (p *Protocol) handleMoves(args []string) {
	moves, _ := p.game.LegalMoves()
	if len(args) > 0 {
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			p.errorf("moves: %v", err)
			return
		}
		var from []board.Move
		for _, m := range moves {
			if m.From == sq {
				from = append(from, m)
			}
		}
		moves = from
	}
	p.printf("moves %s", board.FormatMoves(moves))
}

func (p *Protocol) handleMove(args []string) {
	if len(args) == 0 {
		p.errorf("move: missing move")
		return
	}
	m, err := board.ParseMove(args[0])
	if err != nil {
		p.errorf("move: %v", err)
		return
	}

	played, err := p.game.Play(m)
	if err != nil {
		p.errorf("move: %v", err)
		return
	}
	p.log.Info("move played", zap.String("move", played.String()), zap.Int("turn", p.game.Turn()))

	if sq, ok := p.game.InChain(); ok {
		p.printf("continue %s", sq)
		return
	}
	p.printf("ok %s", played)
	p.botReply()
}

// botReply lets the engine play every bot turn that follows, then reports
// the result once the game is over.
func (p *Protocol) botReply() {
	g := p.game
	for g.Status() == game.InProgress && g.IsBot(g.SideToMove()) {
		played, err := g.BotTurn()
		if err != nil {
			p.errorf("bot: %v", err)
			return
		}
		p.printf("botmove %s", board.FormatMoves(played))
	}
	if st := g.Status(); st != game.InProgress {
		p.printf("result %s", st)
	}
}

// handleGo searches the current position and reports the best turn
// without playing it.
// Formats:
//   - go
//   - go depth 4
func (p *Protocol) handleGo(args []string) {
	g := p.game
	if sq, ok := g.InChain(); ok {
		p.errorf("go: capture chain in progress on %s", sq)
		return
	}

	limits := g.Settings().Limits[g.SideToMove()]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				d, err := strconv.Atoi(args[i+1])
				if err != nil {
					p.errorf("go: bad depth %q", args[i+1])
					return
				}
				limits.MaxDepth = d
				i++
			}
		}
	}

	res, err := p.engine.Search(g.Board(), g.SideToMove(), limits)
	if err != nil {
		p.errorf("go: %v", err)
		return
	}
	if len(res.Moves) == 0 {
		p.printf("bestmove none")
		return
	}
	p.printf("bestmove %s", board.FormatMoves(res.Moves))
}

// sendInfo reports a finished search.
func (p *Protocol) sendInfo(res engine.Result) {
	parts := []string{
		fmt.Sprintf("score %g", res.Score),
		fmt.Sprintf("nodes %d", res.Nodes),
		fmt.Sprintf("time %d", res.Duration.Milliseconds()),
	}
	if res.Duration > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(res.Nodes)/res.Duration.Seconds())))
	}
	if len(res.Moves) > 0 {
		parts = append(parts, "pv "+board.FormatMoves(res.Moves))
	}
	p.printf("info %s", strings.Join(parts, " "))
}

// handleSetOption processes "setoption name <name> value <value>".
func (p *Protocol) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	s := p.game.Settings()
	switch strings.ToLower(name) {
	case "whitebot", "blackbot":
		c := colorOption(name)
		s.Bots[c] = strings.ToLower(value) == "true"
	case "whitelevel", "blacklevel":
		c := colorOption(name)
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 {
			p.errorf("setoption: %s must be a positive depth", name)
			return
		}
		s.Limits[c].MaxDepth = depth
	case "scoring":
		mode, err := engine.ParseScoringMode(value)
		if err != nil {
			p.errorf("setoption: %v", err)
			return
		}
		for c := range s.Limits {
			s.Limits[c].Scoring = mode
		}
	case "difficulty":
		d, err := engine.ParseDifficulty(value)
		if err != nil {
			p.errorf("setoption: %v", err)
			return
		}
		p.engine.SetDifficulty(d)
		for c := range s.Limits {
			s.Limits[c] = engine.DifficultySettings[d]
		}
	case "optimization":
		for c := range s.Limits {
			s.Limits[c].Optimization = engine.Optimization(value)
		}
	case "delay":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			p.errorf("setoption: delay must be a non-negative number of milliseconds")
			return
		}
		s.BotDelay = time.Duration(ms) * time.Millisecond
	case "maxturns":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			p.errorf("setoption: maxturns must not be negative")
			return
		}
		s.MaxTurns = n
	case "cpuprofile":
		p.stopProfile()
		if value != "" && value != "stop" {
			p.startProfile(value)
		}
		return
	default:
		p.errorf("setoption: unknown option %q", name)
		return
	}
	p.game.SetSettings(s)
	p.log.Debug("option set", zap.String("name", name), zap.String("value", value))
}

func colorOption(name string) board.Color {
	if strings.HasPrefix(strings.ToLower(name), "black") {
		return board.Black
	}
	return board.White
}

func (p *Protocol) startProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		p.errorf("setoption: create profile: %v", err)
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		p.errorf("setoption: start profile: %v", err)
		return
	}
	p.profileFile = f
	p.log.Info("cpu profiling started", zap.String("path", path))
}

func (p *Protocol) stopProfile() {
	if p.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	p.profileFile.Close()
	p.log.Info("cpu profile saved", zap.String("path", p.profileFile.Name()))
	p.profileFile = nil
}

// handlePerft counts turns from the current position.
func (p *Protocol) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			p.errorf("perft: bad depth %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := p.game.Board().Perft(p.game.SideToMove(), depth)
	elapsed := time.Since(start)

	p.printf("nodes %d", nodes)
	p.printf("time %v", elapsed)
	if elapsed > 0 {
		p.printf("nps %.0f", float64(nodes)/elapsed.Seconds())
	}
}

func (p *Protocol) handleEval() {
	g := p.game
	p.printf("eval %s %g", g.SideToMove(), p.engine.Evaluate(g.Board(), g.SideToMove()))
}
