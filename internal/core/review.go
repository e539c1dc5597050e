package core

import (
	"context"
	"strconv"
	"strings"
)

// ReviewRequest carries a review submission for one gerrit number.
type ReviewRequest struct {
	Number       int
	Branch       string
	Message      string
	CodeReview   string // "-2".."+2"
	Verified     string // "-1".."+1"
	Abandon      bool
	Restore      bool
	AddReviewers []string
}

// Review submits votes, messages, and status changes over the gerrit ssh
// interface, and invites reviewers. Requires a gerrit account with an
// imported ssh public key.
func (s *Service) Review(ctx context.Context, req ReviewRequest) error {
	if req.Abandon && req.Restore {
		return &OperationError{Message: `specify only one of "abandon" or "restore"`}
	}

	host, err := s.Git.ConfigString(ctx, "host")
	if err != nil {
		return err
	}
	project, err := s.Git.ConfigString(ctx, "project")
	if err != nil {
		return err
	}
	port, err := s.Git.ConfigInt(ctx, "port")
	if err != nil {
		return err
	}

	var args []string
	arg := func(name, value string) {
		if value != "" {
			args = append(args, "--"+name, shellQuote(value))
		}
	}
	flag := func(name string, set bool) {
		if set {
			args = append(args, "--"+name)
		}
	}

	arg("message", req.Message)
	arg("code-review", req.CodeReview)
	arg("verified", req.Verified)
	flag("abandon", req.Abandon)
	flag("restore", req.Restore)
	if len(args) > 0 {
		arg("project", project)
		arg("branch", req.Branch)
		change, err := s.RemoteChange(ctx, req.Number)
		if err != nil {
			return err
		}
		args = append(args, strconv.Itoa(req.Number)+","+strconv.Itoa(change.Patchset))
		if err := s.sshGerrit(ctx, host, port, "review", args); err != nil {
			return err
		}
	}

	args = nil
	for _, reviewer := range req.AddReviewers {
		arg("add", reviewer)
	}
	if len(args) > 0 {
		arg("project", project)
		arg("branch", req.Branch)
		args = append(args, strconv.Itoa(req.Number))
		if err := s.sshGerrit(ctx, host, port, "set-reviewers", args); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) sshGerrit(ctx context.Context, host string, port int, command string, args []string) error {
	full := append([]string{"-p", strconv.Itoa(port), host, "gerrit", command}, args...)
	s.printf("running: ssh %s\n", strings.Join(full, " "))
	return s.RunSSH(ctx, full...)
}

// shellQuote protects a value from the remote shell that gerrit's ssh
// interface runs commands through.
func shellQuote(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\n\"'\\$`") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
