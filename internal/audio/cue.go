package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/catvocab/internal/drill"
)

var cueFiles = map[drill.Cue]string{
	drill.CueKeyAccepted:  "type.mp3",
	drill.CueWordComplete: "success.mp3",
	drill.CueKeyRejected:  "error.mp3",
}

// DefaultVolumes holds the per-cue playback volume.
var DefaultVolumes = map[drill.Cue]float64{
	drill.CueKeyAccepted:  0.5,
	drill.CueWordComplete: 0.6,
	drill.CueKeyRejected:  0.3,
}

var playerCandidates = []string{"afplay", "paplay", "mpg123", "aplay"}

// PlayerOptions configures a Player.
type PlayerOptions struct {
	Dir      string
	Logger   *zap.Logger
	Run      Runner
	LookPath LookPath
	// Bell receives a terminal bell for rejected keys when no player binary is available.
	Bell io.Writer
}

// Player plays cue files with the first available command-line player.
type Player struct {
	dir    string
	binary string
	run    Runner
	bell   io.Writer
	log    *zap.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewPlayer resolves a player binary and returns a Player.
func NewPlayer(opts PlayerOptions) *Player {
	if opts.Run == nil {
		opts.Run = ExecRunner
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	p := &Player{
		dir:    opts.Dir,
		binary: firstAvailable(opts.LookPath, playerCandidates),
		run:    opts.Run,
		bell:   opts.Bell,
		log:    opts.Logger,
	}
	if p.binary == "" {
		p.log.Debug("no audio player found", zap.Strings("candidates", playerCandidates))
	}
	return p
}

// Play implements drill.CuePlayer.
func (p *Player) Play(c drill.Cue) {
	name, ok := cueFiles[c]
	if !ok {
		return
	}
	if p.binary == "" {
		if c == drill.CueKeyRejected && p.bell != nil {
			p.mu.Lock()
			_, _ = io.WriteString(p.bell, "\a")
			p.mu.Unlock()
		}
		return
	}
	path := filepath.Join(p.dir, name)
	if _, err := os.Stat(path); err != nil {
		p.log.Debug("cue file unavailable", zap.String("cue", c.Name()), zap.Error(err))
		return
	}
	args := volumeArgs(p.binary, DefaultVolumes[c])
	args = append(args, path)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.run(context.Background(), p.binary, args...); err != nil {
			p.log.Debug("cue playback failed", zap.String("cue", c.Name()), zap.Error(err))
		}
	}()
}

// Wait blocks until every started playback has exited.
func (p *Player) Wait() {
	p.wg.Wait()
}

func volumeArgs(binary string, volume float64) []string {
	switch binary {
	case "afplay":
		return []string{"-v", strconv.FormatFloat(volume, 'f', 2, 64)}
	case "paplay":
		return []string{fmt.Sprintf("--volume=%d", int(volume*65536))}
	case "mpg123":
		return []string{"-q", "-f", strconv.Itoa(int(volume * 32768))}
	default:
		return nil
	}
}

// Silent discards cues and announcements.
type Silent struct{}

// Play implements drill.CuePlayer.
func (Silent) Play(drill.Cue) {}

// Announce implements drill.Announcer.
func (Silent) Announce(string) {}
