package snippet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnippet(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoad_RegistersKnownExtensions(t *testing.T) {
	dir := t.TempDir()
	writeSnippet(t, dir, "option.go", "package examples\n\nvar X = 1\n")
	writeSnippet(t, dir, "setup.sh", "echo hi\n")
	writeSnippet(t, dir, "notes.unknown", "ignored\n")

	reg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"option", "setup"}, reg.Names())

	s, ok := reg.Resolve("option").Unwrap()
	require.True(t, ok)
	assert.Equal(t, "go", s.Lang)
	assert.Equal(t, "package examples\n\nvar X = 1", s.Body)
}

func TestLoad_MissingDirIsEmpty(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestLoad_DuplicateNameFails(t *testing.T) {
	dir := t.TempDir()
	writeSnippet(t, dir, "option.go", "package examples\n")
	writeSnippet(t, dir, "option.sh", "echo hi\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option")
}

func TestResolve_NormalizesName(t *testing.T) {
	dir := t.TempDir()
	writeSnippet(t, dir, "pattern.go", "package examples\n")

	reg, err := Load(dir)
	require.NoError(t, err)

	// Placeholder names arrive as written in prose.
	assert.True(t, reg.Resolve("Pattern").IsSome())
	assert.True(t, reg.Resolve("pattern").IsSome())
	assert.True(t, reg.Resolve("Missing").IsNone())
}

func TestVerify_ValidGo(t *testing.T) {
	s := Snippet{Name: "ok", Lang: "go", Body: "package examples\n\nfunc Add(a, b int) int { return a + b }\n"}
	issues, err := Verify(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestVerify_BrokenGoReportsLine(t *testing.T) {
	s := Snippet{Name: "bad", Lang: "go", Body: "package examples\n\nfunc Broken( {\n"}
	issues, err := Verify(context.Background(), s)
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, "bad", issues[0].Snippet)
	assert.GreaterOrEqual(t, issues[0].Line, 1)
}

func TestVerify_NonGoPasses(t *testing.T) {
	s := Snippet{Name: "setup", Lang: "sh", Body: "this is (not valid go"}
	issues, err := Verify(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestVerifyAll_CollectsAcrossRegistry(t *testing.T) {
	dir := t.TempDir()
	writeSnippet(t, dir, "good.go", "package examples\n\nvar A = 1\n")
	writeSnippet(t, dir, "bad.go", "package examples\n\nfunc ( {\n")

	reg, err := Load(dir)
	require.NoError(t, err)

	issues, err := reg.VerifyAll(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	for _, issue := range issues {
		assert.Equal(t, "bad", issue.Snippet)
	}
}
