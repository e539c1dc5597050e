// Package core implements the git-gerrit operations: cache synchronization,
// number lookups, fetch, cherry-pick, unpicked analysis, and review voting.
// It talks to the repository through the Repo interface, to the review
// service through a gerrit client, and owns the cache store lifecycle.
package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gitgerrit/internal/gerrit"
	"gitgerrit/internal/gitcmd"
	"gitgerrit/internal/logging"
	"gitgerrit/internal/store"
)

// Repo is the repository collaborator: the subset of git operations the
// core consumes. *gitcmd.Git satisfies it.
type Repo interface {
	GitDir(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context) (string, error)
	ConfigString(ctx context.Context, name string) (string, error)
	ConfigInt(ctx context.Context, name string) (int, error)
	ConfigBool(ctx context.Context, name string) (bool, error)
	Fetch(ctx context.Context, refspec string) error
	Checkout(ctx context.Context, ref string) error
	CherryPick(ctx context.Context, commitID string) error
	BranchExists(ctx context.Context, name string) (bool, error)
	ShowRefs(ctx context.Context, pattern string, fn func(commitID, refName string) error) error
	Log(ctx context.Context, revision string, opts gitcmd.LogOptions) (gitcmd.LineIter, error)
	Hashes(ctx context.Context, branch string) (map[string]bool, error)
	CherryPicked(ctx context.Context, branch string) (map[string]string, error)
	WriteHook(ctx context.Context, name string) (string, bool, error)
	DownloadHook(ctx context.Context, name string) (string, bool, error)
}

// QueryClient is the review-service collaborator. *gerrit.Client satisfies
// it.
type QueryClient interface {
	QueryChanges(ctx context.Context, search string, opts gerrit.QueryOptions) ([]gerrit.ChangeInfo, error)
	ChangeDetail(ctx context.Context, changeID string) (map[string]any, error)
}

// Service bundles the collaborators behind the git-gerrit operations.
type Service struct {
	Git Repo

	// Out receives user-facing progress messages (defaults to stdout).
	Out io.Writer

	// Progress, when set, is ticked once per processed record during long
	// loops. Cosmetic only.
	Progress func()

	// NewGerrit constructs the review-service client for a base URL.
	// Overridable for tests; defaults to gerrit.New.
	NewGerrit func(baseURL string) (QueryClient, error)

	// RunSSH executes the ssh command used for review voting.
	// Overridable for tests.
	RunSSH func(ctx context.Context, args ...string) error

	log *slog.Logger
}

// NewService returns a Service over the given repository handle.
func NewService(git Repo) *Service {
	return &Service{
		Git: git,
		Out: os.Stdout,
		NewGerrit: func(baseURL string) (QueryClient, error) {
			return gerrit.New(baseURL, gerrit.WithLogger(logging.New("gerrit")))
		},
		RunSSH: runSSH,
		log:    logging.New("core"),
	}
}

func runSSH(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ssh", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &OperationError{
			Message: "ssh " + strings.Join(args, " "),
			Err:     err,
		}
	}
	return nil
}

// openStore opens the cache database inside the repository's .git
// directory.
func (s *Service) openStore(ctx context.Context) (*store.Store, error) {
	gitDir, err := s.Git.GitDir(ctx)
	if err != nil {
		return nil, err
	}
	return store.Open(filepath.Join(gitDir, store.DefaultName))
}

// gerritClient builds the review-service client from the configured host.
func (s *Service) gerritClient(ctx context.Context) (QueryClient, string, error) {
	host, err := s.Git.ConfigString(ctx, "host")
	if err != nil {
		return nil, "", err
	}
	client, err := s.NewGerrit("https://" + host)
	if err != nil {
		return nil, "", err
	}
	return client, host, nil
}

func (s *Service) tick() {
	if s.Progress != nil {
		s.Progress()
	}
}

func (s *Service) printf(format string, args ...any) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format, args...)
	}
}
