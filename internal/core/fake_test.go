package core

import (
	"context"
	"fmt"
	"testing"

	"gitgerrit/internal/gerrit"
	"gitgerrit/internal/gitcmd"
)

// fakeIter feeds a fixed script of lines.
type fakeIter struct {
	lines []string
	pos   int
}

func (f *fakeIter) Next() (string, bool) {
	if f.pos >= len(f.lines) {
		return "", false
	}
	line := f.lines[f.pos]
	f.pos++
	return line, true
}

func (f *fakeIter) Err() error   { return nil }
func (f *fakeIter) Close() error { return nil }

type ref struct {
	commitID string
	name     string
}

// fakeRepo is an in-memory Repo with scripted git state.
type fakeRepo struct {
	gitDir   string
	config   map[string]string
	refs     []ref
	bodies   map[string][]string // commit id -> message body lines
	logs     map[string][]string // revision -> tagged log lines
	hashes   map[string]map[string]bool
	picked   map[string]map[string]string
	branches map[string]bool

	fetchErr     error
	fetched      []string
	checkedOut   []string
	cherryPicked []string
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	return &fakeRepo{
		gitDir: t.TempDir(),
		config: map[string]string{
			"host":    "gerrit.example.com",
			"project": "myproject",
		},
		bodies:   make(map[string][]string),
		logs:     make(map[string][]string),
		hashes:   make(map[string]map[string]bool),
		picked:   make(map[string]map[string]string),
		branches: make(map[string]bool),
	}
}

func (f *fakeRepo) GitDir(ctx context.Context) (string, error) { return f.gitDir, nil }

func (f *fakeRepo) RemoteURL(ctx context.Context) (string, error) {
	return "https://" + f.config["host"] + "/" + f.config["project"], nil
}

func (f *fakeRepo) ConfigString(ctx context.Context, name string) (string, error) {
	if v, ok := f.config[name]; ok {
		return v, nil
	}
	switch name {
	case "remote":
		return "origin", nil
	case "logformat", "unpickedformat":
		return "{number} {hash} {subject}", nil
	case "queryformat":
		return "{number} {subject}", nil
	case "fetchbranch", "checkoutbranch":
		return "", nil
	}
	return "", &gitcmd.ConfigError{Key: name}
}

func (f *fakeRepo) ConfigInt(ctx context.Context, name string) (int, error) {
	if name == "port" {
		return 29418, nil
	}
	return 0, fmt.Errorf("unexpected int config %q", name)
}

func (f *fakeRepo) ConfigBool(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (f *fakeRepo) Fetch(ctx context.Context, refspec string) error {
	if f.fetchErr != nil {
		return f.fetchErr
	}
	f.fetched = append(f.fetched, refspec)
	return nil
}

func (f *fakeRepo) Checkout(ctx context.Context, refName string) error {
	f.checkedOut = append(f.checkedOut, refName)
	return nil
}

func (f *fakeRepo) CherryPick(ctx context.Context, commitID string) error {
	f.cherryPicked = append(f.cherryPicked, commitID)
	return nil
}

func (f *fakeRepo) BranchExists(ctx context.Context, name string) (bool, error) {
	return f.branches[name], nil
}

func (f *fakeRepo) ShowRefs(ctx context.Context, pattern string, fn func(commitID, refName string) error) error {
	for _, r := range f.refs {
		if err := fn(r.commitID, r.name); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) Log(ctx context.Context, revision string, opts gitcmd.LogOptions) (gitcmd.LineIter, error) {
	if opts.MaxCount == 1 && opts.Pretty == "%B" {
		body, ok := f.bodies[revision]
		if !ok {
			return nil, fmt.Errorf("unknown commit %s", revision)
		}
		return &fakeIter{lines: body}, nil
	}
	if revision == "" {
		revision = "HEAD"
	}
	return &fakeIter{lines: f.logs[revision]}, nil
}

func (f *fakeRepo) Hashes(ctx context.Context, branch string) (map[string]bool, error) {
	return f.hashes[branch], nil
}

func (f *fakeRepo) CherryPicked(ctx context.Context, branch string) (map[string]string, error) {
	return f.picked[branch], nil
}

func (f *fakeRepo) WriteHook(ctx context.Context, name string) (string, bool, error) {
	return ".git/hooks/" + name, true, nil
}

func (f *fakeRepo) DownloadHook(ctx context.Context, name string) (string, bool, error) {
	return ".git/hooks/" + name, true, nil
}

// fakeQuery is a canned QueryClient.
type fakeQuery struct {
	changes  []gerrit.ChangeInfo
	detail   map[string]any
	searches []string
}

func (f *fakeQuery) QueryChanges(ctx context.Context, search string, opts gerrit.QueryOptions) ([]gerrit.ChangeInfo, error) {
	f.searches = append(f.searches, search)
	return f.changes, nil
}

func (f *fakeQuery) ChangeDetail(ctx context.Context, changeID string) (map[string]any, error) {
	return f.detail, nil
}

// logRecord renders one commit in the tagged format the log scanner reads.
func logRecord(oid, subject string, body ...string) []string {
	lines := []string{
		"oid:" + oid,
		"hash:" + oid[:7],
		"subject:" + subject,
		"author:Ty Cobb",
		"email:tycobb@yoyodyne.com",
		"body:",
		"",
	}
	lines = append(lines, body...)
	return append(lines, "%%")
}

// newTestService wires a Service over the fake repo, with user output
// suppressed and the gerrit client replaced when query is given.
func newTestService(repo *fakeRepo, query *fakeQuery) *Service {
	svc := NewService(repo)
	svc.Out = nil
	if query != nil {
		svc.NewGerrit = func(baseURL string) (QueryClient, error) { return query, nil }
	}
	return svc
}
