package contract

import (
	"context"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// ListBranches implements the GitClient interface.
func (m *MockGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	branches, _ := ret.Get(0).([]string)
	return branches, ret.Error(1)
}

// ResolveRef implements the GitClient interface.
func (m *MockGitClient) ResolveRef(ctx context.Context, repoPath string, ref string) (string, error) {
	ret := m.Called(ctx, repoPath, ref)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// DiffSummary implements the GitClient interface.
func (m *MockGitClient) DiffSummary(ctx context.Context, repoPath string, targetRef, sourceRef string, filters schema.Filters) (schema.DiffSummary, error) {
	ret := m.Called(ctx, repoPath, targetRef, sourceRef, filters)
	summary, _ := ret.Get(0).(schema.DiffSummary)
	return summary, ret.Error(1)
}

// DiffFiles implements the GitClient interface.
func (m *MockGitClient) DiffFiles(ctx context.Context, repoPath string, targetRef, sourceRef string, filters schema.Filters) ([]schema.DiffEntry, error) {
	ret := m.Called(ctx, repoPath, targetRef, sourceRef, filters)
	entries, _ := ret.Get(0).([]schema.DiffEntry)
	return entries, ret.Error(1)
}

// FileDiff implements the GitClient interface.
func (m *MockGitClient) FileDiff(ctx context.Context, repoPath string, targetRef, sourceRef, path string, filters schema.Filters) (schema.FileDiff, error) {
	ret := m.Called(ctx, repoPath, targetRef, sourceRef, path, filters)
	fd, _ := ret.Get(0).(schema.FileDiff)
	return fd, ret.Error(1)
}

// FileContentAt implements the GitClient interface.
func (m *MockGitClient) FileContentAt(ctx context.Context, repoPath string, ref, path string) (string, error) {
	ret := m.Called(ctx, repoPath, ref, path)
	content, _ := ret.Get(0).(string)
	return content, ret.Error(1)
}

// CommitLog implements the GitClient interface.
func (m *MockGitClient) CommitLog(ctx context.Context, repoPath string, rev string, filters schema.Filters) ([]schema.CommitRecord, error) {
	ret := m.Called(ctx, repoPath, rev, filters)
	commits, _ := ret.Get(0).([]schema.CommitRecord)
	return commits, ret.Error(1)
}
