package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// gitIn runs a git command inside dir with a fixed identity.
func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{
		"-C", dir,
		"-c", "user.name=Test Author",
		"-c", "user.email=test@example.com",
		"-c", "commit.gpgsign=false",
	}, args...)
	out, err := exec.Command("git", full...).CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// initTestRepo builds a repository with a main branch and a feature branch that
// modifies, adds, deletes and renames one file each.
func initTestRepo(t *testing.T) string {
	t.Helper()
	skipIfGitNotAvailable(t)

	dir := t.TempDir()
	gitIn(t, dir, "init", "-q")
	gitIn(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")

	writeFile(t, dir, "a.js", "export function foo() {}\n")
	writeFile(t, dir, "old.txt", "x\n")
	writeFile(t, dir, "keep.md", "# keep\n\nsome notes that stay the same\n")
	gitIn(t, dir, "add", "-A")
	gitIn(t, dir, "commit", "-q", "-m", "chore: initial commit")

	gitIn(t, dir, "checkout", "-q", "-b", "feature")
	writeFile(t, dir, "a.js", "export function foo() {}\nexport function bar() {}\n")
	writeFile(t, dir, "b.py", "import os\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "old.txt")))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.Rename(filepath.Join(dir, "keep.md"), filepath.Join(dir, "docs", "keep.md")))
	gitIn(t, dir, "add", "-A")
	gitIn(t, dir, "commit", "-q", "-m", "feat: add bar")
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// Run spreads its variadic args into m.Called, so .On() must match that shape.
	ctx := context.Background()
	calledArgs := []any{ctx, expectedRepoPath}
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with various scenarios.
func TestLocalGitClient_Run(t *testing.T) {
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{
			name:        "invalid repo path",
			repoPath:    "/nonexistent/path",
			args:        []string{"status"},
			expectError: true,
		},
		{
			name:        "invalid git command",
			repoPath:    repo,
			args:        []string{"invalid-command"},
			expectError: true,
		},
		{
			name:     "valid command",
			repoPath: repo,
			args:     []string{"status", "--short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err, "Run should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "Run should not return an error for %s", tt.name)
			}
		})
	}
}

func TestLocalGitClient_RunHonorsContext(t *testing.T) {
	repo := initTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalGitClient().Run(ctx, repo, "status")
	assert.Error(t, err)
}

// TestLocalGitClient_GetRepoRoot tests the GetRepoRoot method.
func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	root, err := client.GetRepoRoot(ctx, filepath.Join(repo, "docs"))
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	root2, err := client.GetRepoRoot(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, root, root2, "GetRepoRoot should return the same root for the root itself")

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err, "GetRepoRoot should return an error for non-git directory")
}

func TestLocalGitClient_Refs(t *testing.T) {
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	branches, err := client.ListBranches(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "main"}, branches)

	hash, err := client.ResolveRef(ctx, repo, "main")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	head, err := client.ResolveRef(ctx, repo, "HEAD")
	require.NoError(t, err)
	feature, err := client.ResolveRef(ctx, repo, "feature")
	require.NoError(t, err)
	assert.Equal(t, feature, head)

	_, err = client.ResolveRef(ctx, repo, "does-not-exist")
	var rae *RepositoryAccessError
	require.ErrorAs(t, err, &rae)
	assert.Equal(t, "does-not-exist", rae.Ref)
}

func TestLocalGitClient_Diff(t *testing.T) {
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	t.Run("files", func(t *testing.T) {
		entries, err := client.DiffFiles(ctx, repo, "main", "feature", schema.Filters{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []schema.DiffEntry{
			{Path: "a.js", Status: schema.StatusModified},
			{Path: "b.py", Status: schema.StatusAdded},
			{Path: "old.txt", Status: schema.StatusDeleted},
			{Path: "docs/keep.md", OldPath: "keep.md", Status: schema.StatusRenamed},
		}, entries)
	})

	t.Run("summary", func(t *testing.T) {
		summary, err := client.DiffSummary(ctx, repo, "main", "feature", schema.Filters{})
		require.NoError(t, err)
		assert.Equal(t, schema.DiffSummary{FilesChanged: 4, Insertions: 2, Deletions: 1}, summary)
	})

	t.Run("excludes apply to files and summary", func(t *testing.T) {
		filters := schema.Filters{Exclude: []string{"*.md", "old.*"}}
		entries, err := client.DiffFiles(ctx, repo, "main", "feature", filters)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		summary, err := client.DiffSummary(ctx, repo, "main", "feature", filters)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.FilesChanged)
	})

	t.Run("file pathspec", func(t *testing.T) {
		entries, err := client.DiffFiles(ctx, repo, "main", "feature", schema.Filters{File: "a.js"})
		require.NoError(t, err)
		assert.Equal(t, []schema.DiffEntry{{Path: "a.js", Status: schema.StatusModified}}, entries)
	})

	t.Run("file diff", func(t *testing.T) {
		fd, err := client.FileDiff(ctx, repo, "main", "feature", "a.js", schema.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 1, fd.Additions)
		assert.Equal(t, 0, fd.Deletions)
		assert.Contains(t, fd.Text, "+export function bar() {}")
	})

	t.Run("file diff follows the two-dot range", func(t *testing.T) {
		gitIn(t, repo, "checkout", "-q", "-b", "side", "main")
		writeFile(t, repo, "a.js", "export function foo() {}\nexport function baz() {}\n")
		gitIn(t, repo, "add", "-A")
		gitIn(t, repo, "commit", "-q", "-m", "feat: add baz")

		filters := schema.Filters{From: "feature", To: "side"}
		entries, err := client.DiffFiles(ctx, repo, "feature", "side", filters)
		require.NoError(t, err)
		assert.Contains(t, entries, schema.DiffEntry{Path: "b.py", Status: schema.StatusDeleted})

		fd, err := client.FileDiff(ctx, repo, "feature", "side", "b.py", filters)
		require.NoError(t, err)
		assert.Equal(t, 1, fd.Deletions)
		assert.Contains(t, fd.Text, "-import os")

		fd, err = client.FileDiff(ctx, repo, "feature", "side", "a.js", filters)
		require.NoError(t, err)
		assert.Equal(t, 1, fd.Additions)
		assert.Equal(t, 1, fd.Deletions)
	})

	t.Run("unknown ref is a repository error", func(t *testing.T) {
		_, err := client.DiffFiles(ctx, repo, "nope", "feature", schema.Filters{})
		var rae *RepositoryAccessError
		assert.ErrorAs(t, err, &rae)
	})
}

func TestLocalGitClient_FileContentAt(t *testing.T) {
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	content, err := client.FileContentAt(ctx, repo, "main", "old.txt")
	require.NoError(t, err)
	assert.Equal(t, "x\n", content)

	_, err = client.FileContentAt(ctx, repo, "feature", "old.txt")
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestLocalGitClient_CommitLog(t *testing.T) {
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	commits, err := client.CommitLog(ctx, repo, "feature", schema.Filters{})
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "feat: add bar", commits[0].Message)
	assert.Equal(t, "Test Author", commits[0].Author)
	assert.Len(t, commits[0].Hash, 40)
	assert.NotEmpty(t, commits[0].ShortHash)
	assert.False(t, commits[0].Date.IsZero())

	unique, err := client.CommitLog(ctx, repo, "main..feature", schema.Filters{})
	require.NoError(t, err)
	assert.Len(t, unique, 1)

	byOther, err := client.CommitLog(ctx, repo, "feature", schema.Filters{Author: "nobody-here"})
	require.NoError(t, err)
	assert.Empty(t, byOther)
}

func TestDiffRange(t *testing.T) {
	tests := []struct {
		name    string
		filters schema.Filters
		want    string
	}{
		{"merge base", schema.Filters{}, "main...feature"},
		{"single commit", schema.Filters{Commit: "abc1234"}, "abc1234^!"},
		{"commit range", schema.Filters{From: "v1", To: "v2"}, "v1..v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diffRange("main", "feature", tt.filters))
		})
	}
}

func TestRenamedPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"src/a.go", "src/a.go"},
		{"old.go => new.go", "new.go"},
		{"src/{a.go => b.go}", "src/b.go"},
		{"{ => docs}/keep.md", "docs/keep.md"},
		{"{docs => }/keep.md", "keep.md"},
		{"pkg/{old => new}/file.go", "pkg/new/file.go"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, renamedPath(tt.in))
		})
	}
}

func TestParseNameStatus(t *testing.T) {
	tests := []struct {
		line   string
		want   schema.DiffEntry
		wantOK bool
	}{
		{"M\tsrc/a.go", schema.DiffEntry{Path: "src/a.go", Status: schema.StatusModified}, true},
		{"A\tsrc/b.go", schema.DiffEntry{Path: "src/b.go", Status: schema.StatusAdded}, true},
		{"D\tsrc/c.go", schema.DiffEntry{Path: "src/c.go", Status: schema.StatusDeleted}, true},
		{"R087\told.go\tnew.go", schema.DiffEntry{Path: "new.go", OldPath: "old.go", Status: schema.StatusRenamed}, true},
		{"C100\tsrc.go\tcopy.go", schema.DiffEntry{Path: "copy.go", Status: schema.StatusAdded}, true},
		{"T\tlink", schema.DiffEntry{Path: "link", Status: schema.StatusModified}, true},
		{"X\tweird", schema.DiffEntry{}, false},
		{"garbage", schema.DiffEntry{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseNameStatus(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommitLog(t *testing.T) {
	out := []byte("aaaa\x1faa\x1fAlice\x1f2025-01-02T03:04:05+00:00\x1ffix: PROJ-1 crash\x1e\n" +
		"bbbb\x1fbb\x1fBob\x1f2025-01-01T00:00:00Z\x1fmerge branch\x1e")

	commits, err := parseCommitLog(out)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "aaaa", commits[0].Hash)
	assert.Equal(t, "Alice", commits[0].Author)
	assert.Equal(t, "fix: PROJ-1 crash", commits[0].Message)
	assert.Equal(t, 2025, commits[1].Date.Year())

	_, err = parseCommitLog([]byte("only\x1ftwo\x1e"))
	assert.Error(t, err)

	empty, err := parseCommitLog(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseNumstat(t *testing.T) {
	assert.Equal(t, 12, parseNumstat("12"))
	assert.Equal(t, 0, parseNumstat("-"))
}
