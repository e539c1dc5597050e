package gitcmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// prepareCommitMsgHook replaces the Change-Id when cherry-picking a merged
// commit to another branch, so gerrit treats the pick as a new change. It
// only acts when GERRIT_CHERRY_PICK=yes is set (see Git.CherryPick).
const prepareCommitMsgHook = `#!/bin/bash
#
# Change the gerrit change-id in a commit message. To be used when cherry
# picking already merged commits to a different branch.
#
# usage: GERRIT_CHERRY_PICK=yes git cherry-pick -x <commit>
#
test "$GERRIT_CHERRY_PICK" = "yes" || exit 0
grep '^(cherry picked from commit' "$1" >/dev/null || exit 0
grep '^Change-Id:' "$1" >/dev/null || exit 0
echo "prepare-commit-msg: creating new gerrit Change-Id"
sed -i '/^Change-Id:/d' "$1"
.git/hooks/commit-msg "$1"
`

// hookScripts maps hook names to locally generated script bodies.
var hookScripts = map[string]string{
	"prepare-commit-msg": prepareCommitMsgHook,
}

// hookPath resolves (and creates if needed) the hooks directory and returns
// the path for the named hook.
func (g *Git) hookPath(ctx context.Context, name string) (string, error) {
	gitDir, err := g.GitDir(ctx)
	if err != nil {
		return "", err
	}
	hookDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hookDir, 0o755); err != nil {
		return "", fmt.Errorf("create hooks dir: %w", err)
	}
	return filepath.Join(hookDir, name), nil
}

// WriteHook installs a locally generated hook script. An existing hook is
// left untouched; the returned path and false indicate it was skipped.
func (g *Git) WriteHook(ctx context.Context, name string) (string, bool, error) {
	body, ok := hookScripts[name]
	if !ok {
		return "", false, fmt.Errorf("unknown hook name %s", name)
	}
	path, err := g.hookPath(ctx, name)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		return "", false, fmt.Errorf("write hook %s: %w", name, err)
	}
	return path, true, nil
}

// DownloadHook fetches a hook script from the gerrit server (for example
// commit-msg) into the hooks directory. An existing hook is left untouched.
func (g *Git) DownloadHook(ctx context.Context, name string) (string, bool, error) {
	path, err := g.hookPath(ctx, name)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	host, err := g.ConfigString(ctx, "host")
	if err != nil {
		return "", false, err
	}
	url := fmt.Sprintf("https://%s/tools/hooks/%s", host, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("download %s: %s", url, resp.Status)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return "", false, fmt.Errorf("write hook %s: %w", name, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", false, fmt.Errorf("write hook %s: %w", name, err)
	}
	return path, true, nil
}
