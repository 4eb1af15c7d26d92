package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/changescope/schema"
	"github.com/sourcegraph/go-diff/diff"
)

// Separators used by the commit log format.
const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// commitLogFormat emits hash, short hash, author, strict ISO date and subject per commit.
const commitLogFormat = "--pretty=format:%H%x1f%h%x1f%an%x1f%aI%x1f%s%x1e"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListBranches implements the GitClient interface.
func (c *LocalGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, NewRepositoryAccessError("list branches", "", err)
	}
	return splitNonEmptyLines(out), nil
}

// ResolveRef implements the GitClient interface.
func (c *LocalGitClient) ResolveRef(ctx context.Context, repoPath string, ref string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", NewRepositoryAccessError("resolve", ref, err)
	}
	hash := strings.TrimSpace(string(out))
	if hash == "" {
		return "", NewRepositoryAccessError("resolve", ref, errors.New("ref not found"))
	}
	return hash, nil
}

// DiffSummary implements the GitClient interface.
func (c *LocalGitClient) DiffSummary(ctx context.Context, repoPath string, targetRef, sourceRef string, filters schema.Filters) (schema.DiffSummary, error) {
	args := []string{"diff", "--numstat", "-M", diffRange(targetRef, sourceRef, filters)}
	args = appendPathspec(args, filters.File)
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return schema.DiffSummary{}, NewRepositoryAccessError("diff summary", sourceRef, err)
	}

	var summary schema.DiffSummary
	for _, line := range splitNonEmptyLines(out) {
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		if !FilterPath(renamedPath(fields[2]), filters) {
			continue
		}
		summary.FilesChanged++
		summary.Insertions += parseNumstat(fields[0])
		summary.Deletions += parseNumstat(fields[1])
	}
	return summary, nil
}

// DiffFiles implements the GitClient interface.
func (c *LocalGitClient) DiffFiles(ctx context.Context, repoPath string, targetRef, sourceRef string, filters schema.Filters) ([]schema.DiffEntry, error) {
	args := []string{"diff", "--name-status", "-M", diffRange(targetRef, sourceRef, filters)}
	args = appendPathspec(args, filters.File)
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, NewRepositoryAccessError("diff files", sourceRef, err)
	}

	entries := []schema.DiffEntry{}
	for _, line := range splitNonEmptyLines(out) {
		entry, ok := parseNameStatus(line)
		if !ok || !FilterPath(entry.Path, filters) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FileDiff implements the GitClient interface.
func (c *LocalGitClient) FileDiff(ctx context.Context, repoPath string, targetRef, sourceRef, path string, filters schema.Filters) (schema.FileDiff, error) {
	out, err := c.Run(ctx, repoPath, "diff", "-M", diffRange(targetRef, sourceRef, filters), "--", path)
	if err != nil {
		return schema.FileDiff{}, err
	}
	result := schema.FileDiff{Text: string(out)}
	if len(bytes.TrimSpace(out)) == 0 {
		return result, nil
	}

	fileDiffs, err := diff.NewMultiFileDiffReader(bytes.NewReader(out)).ReadAllFiles()
	if err != nil {
		return schema.FileDiff{}, fmt.Errorf("parse diff of %s: %w", path, err)
	}
	for _, fd := range fileDiffs {
		for _, hunk := range fd.Hunks {
			added, deleted := countHunkLines(hunk.Body)
			result.Additions += added
			result.Deletions += deleted
		}
	}
	return result, nil
}

// FileContentAt implements the GitClient interface.
func (c *LocalGitClient) FileContentAt(ctx context.Context, repoPath string, ref, path string) (string, error) {
	out, err := c.Run(ctx, repoPath, "show", ref+":"+path)
	if err != nil {
		return "", fmt.Errorf("%w: %s at %s: %v", ErrContentUnavailable, path, ref, err)
	}
	return string(out), nil
}

// CommitLog implements the GitClient interface.
func (c *LocalGitClient) CommitLog(ctx context.Context, repoPath string, rev string, filters schema.Filters) ([]schema.CommitRecord, error) {
	args := []string{"log", commitLogFormat}
	if filters.Since != "" {
		args = append(args, "--since="+filters.Since)
	}
	if filters.Until != "" {
		args = append(args, "--until="+filters.Until)
	}
	if filters.Author != "" {
		args = append(args, "--author="+filters.Author)
	}
	args = append(args, rev)
	args = appendPathspec(args, filters.File)

	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, NewRepositoryAccessError("commit log", rev, err)
	}
	return parseCommitLog(out)
}

// diffRange picks the revision range for a diff. A commit filter wins over a
// commit range, which wins over the merge-base comparison of the two refs.
func diffRange(targetRef, sourceRef string, filters schema.Filters) string {
	switch {
	case filters.Commit != "":
		return filters.Commit + "^!"
	case filters.From != "" && filters.To != "":
		return filters.From + ".." + filters.To
	default:
		return targetRef + "..." + sourceRef
	}
}

func appendPathspec(args []string, file string) []string {
	if file == "" {
		return args
	}
	return append(args, "--", file)
}

func splitNonEmptyLines(out []byte) []string {
	lines := []string{}
	for line := range strings.SplitSeq(string(out), "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseNumstat reads one count column. Binary files report "-".
func parseNumstat(field string) int {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0
	}
	return n
}

// renamedPath resolves the numstat rename notations "old => new" and
// "dir/{old => new}/file" to the new path.
func renamedPath(field string) string {
	if !strings.Contains(field, " => ") {
		return field
	}
	open, closing := strings.Index(field, "{"), strings.LastIndex(field, "}")
	if open >= 0 && closing > open {
		inner := field[open+1 : closing]
		_, after, _ := strings.Cut(inner, " => ")
		joined := field[:open] + after + field[closing+1:]
		return strings.TrimPrefix(strings.ReplaceAll(joined, "//", "/"), "/")
	}
	_, after, _ := strings.Cut(field, " => ")
	return after
}

// parseNameStatus reads one line of `git diff --name-status -M`.
func parseNameStatus(line string) (schema.DiffEntry, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 || fields[0] == "" {
		return schema.DiffEntry{}, false
	}
	switch fields[0][0] {
	case 'A', 'C':
		return schema.DiffEntry{Path: fields[len(fields)-1], Status: schema.StatusAdded}, true
	case 'M', 'T':
		return schema.DiffEntry{Path: fields[1], Status: schema.StatusModified}, true
	case 'D':
		return schema.DiffEntry{Path: fields[1], Status: schema.StatusDeleted}, true
	case 'R':
		if len(fields) < 3 {
			return schema.DiffEntry{}, false
		}
		return schema.DiffEntry{Path: fields[2], OldPath: fields[1], Status: schema.StatusRenamed}, true
	default:
		return schema.DiffEntry{}, false
	}
}

// countHunkLines counts added and removed lines of a hunk body.
func countHunkLines(body []byte) (added, deleted int) {
	for line := range bytes.SplitSeq(body, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			added++
		case '-':
			deleted++
		}
	}
	return added, deleted
}

// parseCommitLog reads the output of commitLogFormat.
func parseCommitLog(out []byte) ([]schema.CommitRecord, error) {
	commits := []schema.CommitRecord{}
	for record := range strings.SplitSeq(string(out), logRecordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, logFieldSep, 5)
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed commit log record: %q", record)
		}
		date, err := time.Parse(time.RFC3339, fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid commit date %q: %w", fields[3], err)
		}
		commits = append(commits, schema.CommitRecord{
			Hash:      fields[0],
			ShortHash: fields[1],
			Author:    fields[2],
			Date:      date,
			Message:   fields[4],
		})
	}
	return commits, nil
}
