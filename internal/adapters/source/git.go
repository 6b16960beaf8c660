package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Git reads the identifier document from a file inside a git repository.
// Every fetch makes a fresh shallow clone so the list always follows the
// tip of the configured ref.
type Git struct {
	RepoURL string
	Ref     string // branch name or full reference; empty means the remote HEAD
	Path    string // document path relative to the repository root
	Timeout time.Duration
	logger  *slog.Logger
}

func NewGit(repoURL, ref, path string, timeout time.Duration, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = "containers.json"
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Git{RepoURL: repoURL, Ref: ref, Path: path, Timeout: timeout, logger: logger}
}

func (g *Git) String() string { return "git repository " + g.RepoURL }

func (g *Git) FetchIdentifiers(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "healthwatch-source-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	g.logger.Debug("Cloning container list repository.", "repo", g.RepoURL, "ref", g.Ref)
	_, err = git.PlainCloneContext(ctx, tmpDir, false, g.cloneOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", g.RepoURL, err)
	}
	return readCheckout(tmpDir, g.Path)
}

func (g *Git) cloneOptions() *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:   g.RepoURL,
		Depth: 1,
	}
	if g.Ref != "" {
		opts.ReferenceName = referenceName(g.Ref)
		opts.SingleBranch = true
	}
	return opts
}

func referenceName(ref string) plumbing.ReferenceName {
	if strings.HasPrefix(ref, "refs/") {
		return plumbing.ReferenceName(ref)
	}
	return plumbing.NewBranchReferenceName(ref)
}

// readCheckout parses the document at rel inside dir, refusing paths that
// escape the checkout.
func readCheckout(dir, rel string) ([]string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("document path %q is outside the repository", rel)
	}
	data, err := os.ReadFile(filepath.Join(dir, clean))
	if err != nil {
		return nil, fmt.Errorf("read %s from repository: %w", rel, err)
	}
	ids, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("read %s from repository: %w", rel, err)
	}
	return ids, nil
}
