package gitcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// LineIter is a lazy, finite, non-restartable producer of text lines.
// Close may be called before the lines are exhausted to abandon the
// producer early.
type LineIter interface {
	// Next returns the next line (without trailing newline) and true, or
	// "" and false when the sequence is done.
	Next() (string, bool)
	// Err reports the first error encountered, after Next returned false.
	Err() error
	Close() error
}

// LogOptions selects the revision range and output shape of a log stream.
type LogOptions struct {
	Pretty   string // custom --pretty format, empty for the default
	MaxCount int    // limit number of commits, 0 for no limit
	Reverse  bool
}

// Log spawns git log for revision (HEAD when empty) and returns its output
// as a line iterator. The caller must Close the iterator.
func (g *Git) Log(ctx context.Context, revision string, opts LogOptions) (LineIter, error) {
	args := []string{"log"}
	if opts.Pretty != "" {
		args = append(args, "--pretty="+opts.Pretty)
	}
	if opts.MaxCount > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", opts.MaxCount))
	}
	if opts.Reverse {
		args = append(args, "--reverse")
	}
	if revision == "" {
		revision = "HEAD"
	}
	args = append(args, revision)
	return g.Lines(ctx, args...)
}

// Lines runs an arbitrary git command and streams its stdout line by line.
func (g *Git) Lines(ctx context.Context, args ...string) (LineIter, error) {
	cmd := g.command(ctx, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	g.log.Debug("stream", "args", args)
	return &cmdLines{
		cmd:     cmd,
		cmdline: "git " + strings.Join(args, " "),
		stdout:  stdout,
		stderr:  &stderr,
		scanner: bufio.NewScanner(stdout),
	}, nil
}

// cmdLines reads lines from a spawned process, reaping it on completion or
// on early Close.
type cmdLines struct {
	cmd     *exec.Cmd
	cmdline string
	stdout  io.ReadCloser
	stderr  *strings.Builder
	scanner *bufio.Scanner
	done    bool
	err     error
}

func (c *cmdLines) Next() (string, bool) {
	if c.done {
		return "", false
	}
	if c.scanner.Scan() {
		return strings.TrimRight(c.scanner.Text(), "\r"), true
	}
	c.finish(c.scanner.Err())
	return "", false
}

func (c *cmdLines) Err() error { return c.err }

func (c *cmdLines) Close() error {
	if !c.done {
		// Abandoned early: kill the producer and reap it.
		_ = c.cmd.Process.Kill()
		_ = c.stdout.Close()
		_ = c.cmd.Wait()
		c.done = true
	}
	return c.err
}

func (c *cmdLines) finish(scanErr error) {
	c.done = true
	waitErr := c.cmd.Wait()
	switch {
	case scanErr != nil:
		c.err = fmt.Errorf("%s: %w", c.cmdline, scanErr)
	case waitErr != nil:
		c.err = &GitError{Cmd: c.cmdline, Stderr: c.stderr.String(), Err: waitErr}
	}
}
