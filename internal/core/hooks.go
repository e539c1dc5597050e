package core

import "context"

// InstallHooks installs the git hooks gerrit workflows depend on: the
// standard commit-msg hook downloaded from the review host, and a
// prepare-commit-msg hook that mints a fresh Change-Id when cherry-picking
// an already-merged commit to another branch.
func (s *Service) InstallHooks(ctx context.Context) error {
	path, wrote, err := s.Git.DownloadHook(ctx, "commit-msg")
	if err != nil {
		return err
	}
	if wrote {
		s.printf("downloaded %s hook\n", path)
	} else {
		s.printf("%s hook already present\n", path)
	}

	path, wrote, err = s.Git.WriteHook(ctx, "prepare-commit-msg")
	if err != nil {
		return err
	}
	if wrote {
		s.printf("wrote %s hook\n", path)
	} else {
		s.printf("%s hook already present\n", path)
	}
	return nil
}
