// Package gitrepo commits published roadmap pages when the publish directory lives
// inside a git working tree. It shells out to the git binary.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Status struct {
	IsRepo bool   `json:"isRepo"`
	Root   string `json:"root,omitempty"`
	Branch string `json:"branch,omitempty"`
	Head   string `json:"head,omitempty"`

	Dirty    bool `json:"dirty"`
	Unmerged bool `json:"unmerged"`

	InProgress     bool   `json:"inProgress"`
	InProgressKind string `json:"inProgressKind,omitempty"` // merge|rebase|cherry-pick|revert
}

// GetStatus reports the git state of the working tree containing dir. A directory
// outside any repository is not an error.
func GetStatus(ctx context.Context, dir string) (Status, error) {
	root, err := git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return Status{IsRepo: false}, nil
	}
	root = strings.TrimSpace(root)
	if root == "" {
		return Status{}, errors.New("git rev-parse returned empty root")
	}

	branch, _ := git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	head, _ := git(ctx, dir, "rev-parse", "--short", "HEAD")
	porcelain, _ := git(ctx, dir, "status", "--porcelain=v1")
	dirty, unmerged := parsePorcelain(porcelain)

	st := Status{
		IsRepo:   true,
		Root:     root,
		Branch:   strings.TrimSpace(branch),
		Head:     strings.TrimSpace(head),
		Dirty:    dirty,
		Unmerged: unmerged,
	}
	if gitDir, err := git(ctx, dir, "rev-parse", "--absolute-git-dir"); err == nil {
		st.InProgressKind = inProgressKind(strings.TrimSpace(gitDir))
		st.InProgress = st.InProgressKind != ""
	}
	return st, nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

func parsePorcelain(out string) (dirty bool, unmerged bool) {
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if len(ln) < 2 || strings.TrimSpace(ln[:2]) == "" {
			continue
		}
		dirty = true
		if isUnmergedXY(ln[:2]) {
			unmerged = true
		}
	}
	return dirty, unmerged
}

func isUnmergedXY(xy string) bool {
	switch xy {
	case "DD", "AA":
		return true
	}
	return xy[0] == 'U' || xy[1] == 'U'
}

// inProgressKind looks for the marker files git leaves in gitDir while a merge or
// rebase waits for the user.
func inProgressKind(gitDir string) string {
	if gitDir == "" {
		return ""
	}
	markers := []struct{ name, kind string }{
		{"MERGE_HEAD", "merge"},
		{"rebase-apply", "rebase"},
		{"rebase-merge", "rebase"},
		{"CHERRY_PICK_HEAD", "cherry-pick"},
		{"REVERT_HEAD", "revert"},
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(gitDir, m.name)); err == nil {
			return m.kind
		}
	}
	return ""
}
