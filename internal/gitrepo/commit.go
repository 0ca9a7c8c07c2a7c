package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotRepo = errors.New("not inside a git repository")

// CommitPaths stages paths (files under dir) and commits them with message. It
// returns committed=false when the files match what is already committed.
func CommitPaths(ctx context.Context, dir string, paths []string, message string) (committed bool, err error) {
	st, err := GetStatus(ctx, dir)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, ErrNotRepo
	}
	if st.Unmerged || st.InProgress {
		return false, errors.New("git repo has an in-progress merge or rebase; resolve first")
	}
	if len(paths) == 0 {
		return false, nil
	}

	root := canonical(st.Root)
	args := []string{"add", "--"}
	for _, p := range paths {
		rel, err := filepath.Rel(root, canonical(p))
		if err != nil || strings.HasPrefix(rel, "..") {
			return false, fmt.Errorf("path is outside the repository: %s", p)
		}
		args = append(args, filepath.ToSlash(rel))
	}
	if _, err := git(ctx, root, args...); err != nil {
		return false, err
	}

	// Only the published paths; anything the user staged earlier stays staged.
	diffArgs := append([]string{"diff", "--cached", "--name-only"}, args[1:]...)
	out, err := git(ctx, root, diffArgs...)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("roadmap: publish (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	commitArgs := append([]string{"commit", "-m", msg}, args[1:]...)
	if _, err := git(ctx, root, commitArgs...); err != nil {
		return false, err
	}
	return true, nil
}

// canonical resolves p to an absolute path with symlinks evaluated. On macOS temp
// dirs live under /var -> /private/var and git reports the resolved root.
func canonical(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if v, err := filepath.EvalSymlinks(p); err == nil {
		p = v
	}
	return filepath.Clean(p)
}
