package filestore

import (
    "os"
    "path/filepath"
    "strings"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/docconvert/internal/config"
)

func newTestStore(t *testing.T) *Store {
    t.Helper()
    root := t.TempDir()
    s, err := New(config.StorageConfig{
        UploadDir: filepath.Join(root, "uploads"),
        OutputDir: filepath.Join(root, "output"),
        TempDir:   filepath.Join(root, "temp"),
    })
    require.NoError(t, err)
    return s
}

func TestNewCreatesDirectories(t *testing.T) {
    s := newTestStore(t)
    for _, dir := range []string{s.uploadDir, s.outputDir, s.tempDir} {
        info, err := os.Stat(dir)
        require.NoError(t, err)
        assert.True(t, info.IsDir())
    }
}

func TestUniqueNamePreservesExtension(t *testing.T) {
    name := UniqueName("Report.PDF")
    assert.True(t, strings.HasSuffix(name, ".pdf"), "got %q", name)
    assert.NotContains(t, name, "Report")

    assert.NotContains(t, UniqueName("noext"), ".")
    assert.NotEqual(t, UniqueName("a.txt"), UniqueName("a.txt"))
}

func TestSaveUpload(t *testing.T) {
    s := newTestStore(t)
    path, err := s.SaveUpload(strings.NewReader("hello"), "greeting.txt")
    require.NoError(t, err)

    data, err := os.ReadFile(path)
    require.NoError(t, err)
    assert.Equal(t, "hello", string(data))
    assert.Equal(t, s.uploadDir, filepath.Dir(path))
    assert.NotContains(t, filepath.Base(path), "greeting")
}

func TestSaveUploadConcurrentSameName(t *testing.T) {
    s := newTestStore(t)
    const n = 8
    paths := make([]string, n)
    var wg sync.WaitGroup
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            p, err := s.SaveUpload(strings.NewReader("same"), "clash.csv")
            assert.NoError(t, err)
            paths[i] = p
        }(i)
    }
    wg.Wait()

    seen := map[string]bool{}
    for _, p := range paths {
        assert.False(t, seen[p], "duplicate storage path %s", p)
        seen[p] = true
    }
}

func TestWorkspaceLifecycle(t *testing.T) {
    s := newTestStore(t)
    ws1, err := s.NewWorkspace()
    require.NoError(t, err)
    ws2, err := s.NewWorkspace()
    require.NoError(t, err)
    assert.NotEqual(t, ws1, ws2)

    require.NoError(t, os.WriteFile(filepath.Join(ws1, "page_1.png"), []byte("x"), 0o644))

    s.RemoveWorkspace(ws1)
    _, err = os.Stat(ws1)
    assert.True(t, os.IsNotExist(err))

    // removing one workspace must not touch another
    _, err = os.Stat(ws2)
    assert.NoError(t, err)
}

func TestCleanDirWithExclusion(t *testing.T) {
    dir := t.TempDir()
    keep := filepath.Join(dir, "keep.zip")
    drop := filepath.Join(dir, "drop.png")
    require.NoError(t, os.WriteFile(keep, []byte("k"), 0o644))
    require.NoError(t, os.WriteFile(drop, []byte("d"), 0o644))
    require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

    CleanDir(dir, []string{keep})

    _, err := os.Stat(keep)
    assert.NoError(t, err)
    _, err = os.Stat(drop)
    assert.True(t, os.IsNotExist(err))
    // subdirectories are left alone
    _, err = os.Stat(filepath.Join(dir, "sub"))
    assert.NoError(t, err)

    // missing dir is not an error
    CleanDir(filepath.Join(dir, "missing"), nil)
}
