package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

type runCall struct {
	name string
	args []string
}

// fakeRunner records invocations and optionally simulates the tool's side
// effects on disk.
type fakeRunner struct {
	calls  []runCall
	effect func(args []string) error
	out    []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, runCall{name: name, args: append([]string(nil), args...)})
	if f.effect != nil {
		if err := f.effect(args); err != nil {
			return nil, err
		}
	}
	return f.out, f.err
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ytOutputs writes files named after yt-dlp's -o template, one per ext.
func ytOutputs(exts ...string) func([]string) error {
	return func(args []string) error {
		template := argAfter(args, "-o")
		base := strings.TrimSuffix(template, ".%(ext)s")
		for _, ext := range exts {
			if err := os.WriteFile(base+ext, []byte("audio"), 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

// ffmpegOutput writes the last argument, which is ffmpeg's output file.
func ffmpegOutput(args []string) error {
	out := args[len(args)-1]
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, []byte("RIFF"), 0o644)
}
