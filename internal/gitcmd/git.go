// Package gitcmd executes git against the local repository and exposes the
// handful of plumbing and porcelain operations the toolkit needs: config
// reads, ref enumeration, log streaming, fetch, checkout, and cherry-pick.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"gitgerrit/internal/logging"
)

// ErrNotRepository is returned when git is invoked outside a work tree.
var ErrNotRepository = errors.New("not a git repository")

// GitError wraps a non-zero git exit with the command line and its stderr.
type GitError struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *GitError) Unwrap() error { return e.Err }

// Git runs git commands in a fixed working directory ("" means the process
// working directory).
type Git struct {
	dir string
	env []string
	log *slog.Logger

	fileDefaults map[string]string
	fileLoaded   bool
}

// New returns a Git handle for the current working directory.
func New() *Git { return NewAt("") }

// NewAt returns a Git handle rooted at dir.
func NewAt(dir string) *Git {
	return &Git{dir: dir, log: logging.New("git")}
}

// command builds an exec.Cmd for git with the handle's directory and env.
func (g *Git) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	if g.env != nil {
		cmd.Env = append(os.Environ(), g.env...)
	}
	return cmd
}

// run executes git and returns trimmed stdout. Non-zero exit becomes a
// *GitError carrying stderr.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := g.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	g.log.Debug("run", "args", args)
	if err := cmd.Run(); err != nil {
		return "", &GitError{
			Cmd:    "git " + strings.Join(args, " "),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// GitDir returns the absolute path of the repository's .git directory.
// Outside a repository the error wraps ErrNotRepository.
func (g *Git) GitDir(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		var ge *GitError
		if errors.As(err, &ge) && strings.Contains(ge.Stderr, "not a git repo") {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, strings.TrimSpace(ge.Stderr))
		}
		return "", err
	}
	if filepath.IsAbs(out) {
		return filepath.Clean(out), nil
	}
	base := g.dir
	if base == "" {
		base, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(base, out), nil
}

// RemoteURL returns the gerrit remote URL, https://<host>/<project>.
func (g *Git) RemoteURL(ctx context.Context) (string, error) {
	host, err := g.ConfigString(ctx, "host")
	if err != nil {
		return "", err
	}
	project, err := g.ConfigString(ctx, "project")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/%s", host, project), nil
}

// Fetch fetches refspec from the gerrit remote.
func (g *Git) Fetch(ctx context.Context, refspec string) error {
	remote, err := g.RemoteURL(ctx)
	if err != nil {
		return err
	}
	g.log.Debug("fetch", "remote", remote, "refspec", refspec)
	_, err = g.run(ctx, "fetch", remote, refspec)
	return err
}

// Checkout checks out the given ref.
func (g *Git) Checkout(ctx context.Context, ref string) error {
	_, err := g.run(ctx, "checkout", ref)
	return err
}

// CherryPick cherry-picks commitID with -x. GERRIT_CHERRY_PICK=yes is set
// so the prepare-commit-msg hook (see InstallHooks) strips the old
// Change-Id and generates a fresh one for the new gerrit.
func (g *Git) CherryPick(ctx context.Context, commitID string) error {
	cmd := g.command(ctx, "cherry-pick", "-x", commitID)
	cmd.Env = append(os.Environ(), "GERRIT_CHERRY_PICK=yes")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &GitError{
			Cmd:    "git cherry-pick -x " + commitID,
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return nil
}

// BranchExists reports whether refs/heads/<name> exists locally.
func (g *Git) BranchExists(ctx context.Context, name string) (bool, error) {
	cmd := g.command(ctx, "show-ref", "--quiet", "refs/heads/"+name)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return false, nil
	}
	return false, fmt.Errorf("git show-ref: %w", err)
}

// ShowRefs enumerates local refs whose name matches pattern, calling fn
// with each (commit id, ref name) pair. Enumeration stops at the first fn
// error.
func (g *Git) ShowRefs(ctx context.Context, pattern string, fn func(commitID, refName string) error) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("bad ref pattern %q: %w", pattern, err)
	}
	lines, err := g.Lines(ctx, "show-ref")
	if err != nil {
		return err
	}
	defer lines.Close()
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		id, name, found := strings.Cut(line, " ")
		if !found || !re.MatchString(name) {
			continue
		}
		if err := fn(id, name); err != nil {
			return err
		}
	}
	return lines.Err()
}

// Hashes returns the set of commit ids reachable from branch.
func (g *Git) Hashes(ctx context.Context, branch string) (map[string]bool, error) {
	lines, err := g.Lines(ctx, "log", "--pretty=%H", branch)
	if err != nil {
		return nil, err
	}
	defer lines.Close()
	hashes := make(map[string]bool)
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		hashes[line] = true
	}
	return hashes, lines.Err()
}

var (
	commitLineRE = regexp.MustCompile(`^commit (\w+)`)
	pickedLineRE = regexp.MustCompile(`^\s+\(cherry picked from commit (\w+)\)`)
)

// CherryPicked walks branch and returns which commits were cherry-picked:
// the key is the commit on the branch, the value the commit it was picked
// from. The last provenance line in a message wins.
func (g *Git) CherryPicked(ctx context.Context, branch string) (map[string]string, error) {
	lines, err := g.Lines(ctx, "log", branch)
	if err != nil {
		return nil, err
	}
	defer lines.Close()

	picked := make(map[string]string)
	var to, from string
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		if m := commitLineRE.FindStringSubmatch(line); m != nil {
			if to != "" && from != "" {
				picked[to] = from
			}
			to = m[1]
			from = ""
			continue
		}
		if m := pickedLineRE.FindStringSubmatch(line); m != nil {
			from = m[1]
		}
	}
	if to != "" && from != "" {
		picked[to] = from
	}
	return picked, lines.Err()
}
