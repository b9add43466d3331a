package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner runs an external program and returns its combined output.
// Swapped out in tests so yt-dlp and ffmpeg never actually run.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if tail := outputTail(out, 500); tail != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, tail)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// outputTail keeps the last limit bytes of a tool's output, which is where
// ffmpeg and yt-dlp put the actual error.
func outputTail(out []byte, limit int) string {
	s := strings.TrimSpace(string(out))
	if len(s) > limit {
		s = "..." + s[len(s)-limit:]
	}
	return s
}
