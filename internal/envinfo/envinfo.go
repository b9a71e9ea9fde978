// Package envinfo gathers the facts about the caller's environment that seed
// the System turn.
package envinfo

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultShell is assumed when $SHELL is unset.
const DefaultShell = "bash"

// Facts describe where the command will run.
type Facts struct {
	OS    string
	Shell string
	Cwd   string

	// Set when Cwd is inside a git work tree.
	RepoRoot string
	Branch   string
}

// Source supplies the raw inputs so tests can fake them.
type Source struct {
	Getenv func(string) string
	Getwd  func() (string, error)
	GOOS   string
}

// OSSource reads the real process environment.
func OSSource() Source {
	return Source{Getenv: os.Getenv, Getwd: os.Getwd, GOOS: runtime.GOOS}
}

// Collect never fails: unknown facts fall back to defaults.
func Collect(src Source) Facts {
	f := Facts{OS: src.GOOS, Shell: DefaultShell, Cwd: "."}
	if src.Getenv != nil {
		if sh := src.Getenv("SHELL"); sh != "" {
			f.Shell = filepath.Base(sh)
		}
	}
	if src.Getwd != nil {
		if wd, err := src.Getwd(); err == nil {
			f.Cwd = wd
		}
	}
	f.RepoRoot, f.Branch = gitContext(f.Cwd)
	return f
}

// gitContext returns the work tree root and the checked-out branch. A
// detached HEAD is reported by its short hash; an unborn branch by name.
func gitContext(dir string) (root, branch string) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", ""
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", ""
	}
	root = wt.Filesystem.Root()

	head, err := repo.Head()
	switch {
	case err == nil && head.Name().IsBranch():
		branch = head.Name().Short()
	case err == nil:
		branch = "detached at " + head.Hash().String()[:7]
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		if ref, rerr := repo.Storer.Reference(plumbing.HEAD); rerr == nil && ref.Type() == plumbing.SymbolicReference {
			branch = ref.Target().Short()
		}
	}
	return root, branch
}
