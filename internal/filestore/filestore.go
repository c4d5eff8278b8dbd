package filestore

import (
    "fmt"
    "io"
    "os"
    "path/filepath"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/config"
    "github.com/local/docconvert/internal/format"
)

// Store owns the upload, output and temp directories and hands out
// collision-free file paths inside them. The original user filename is
// never used as a storage path component.
type Store struct {
    uploadDir string
    outputDir string
    tempDir   string
}

// New creates a Store and ensures all three directories exist.
func New(cfg config.StorageConfig) (*Store, error) {
    s := &Store{
        uploadDir: cfg.UploadDir,
        outputDir: cfg.OutputDir,
        tempDir:   cfg.TempDir,
    }
    for _, dir := range []string{s.uploadDir, s.outputDir, s.tempDir} {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return nil, fmt.Errorf("create dir %s: %w", dir, err)
        }
    }
    return s, nil
}

// UploadDir returns the directory uploads are persisted under.
func (s *Store) UploadDir() string { return s.uploadDir }

// OutputDir returns the directory output artifacts are written to.
func (s *Store) OutputDir() string { return s.outputDir }

// UniqueName generates a fresh storage filename preserving the extension of
// the given original filename (lowercased, may be empty).
func UniqueName(originalFilename string) string {
    ext := format.Extension(originalFilename)
    if ext == "" {
        return uuid.NewString()
    }
    return uuid.NewString() + "." + ext
}

// SaveUpload copies an uploaded byte stream into the upload directory under a
// generated unique name and returns the stored path.
func (s *Store) SaveUpload(r io.Reader, originalFilename string) (string, error) {
    path := filepath.Join(s.uploadDir, UniqueName(originalFilename))
    f, err := os.Create(path)
    if err != nil {
        return "", fmt.Errorf("create upload file: %w", err)
    }
    defer f.Close()

    if _, err := io.Copy(f, r); err != nil {
        os.Remove(path)
        return "", fmt.Errorf("write upload file: %w", err)
    }
    log.Info().Str("path", path).Str("original", originalFilename).Msg("upload persisted")
    return path, nil
}

// OutputPath returns a fresh unique path in the output directory with the
// given extension (without dot).
func (s *Store) OutputPath(ext string) string {
    name := uuid.NewString()
    if ext != "" {
        name += "." + ext
    }
    return filepath.Join(s.outputDir, name)
}

// NewWorkspace creates a uniquely named scratch directory under the temp
// directory. Each workspace belongs to exactly one request.
func (s *Store) NewWorkspace() (string, error) {
    dir := filepath.Join(s.tempDir, uuid.NewString())
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", fmt.Errorf("create workspace: %w", err)
    }
    return dir, nil
}

// RemoveWorkspace deletes a workspace directory and everything in it.
func (s *Store) RemoveWorkspace(dir string) {
    if dir == "" {
        return
    }
    if err := os.RemoveAll(dir); err != nil {
        log.Warn().Err(err).Str("dir", dir).Msg("failed to remove workspace")
        return
    }
    log.Debug().Str("dir", dir).Msg("workspace removed")
}

// CleanDir removes every regular file directly under dir, skipping any path
// present in exclude. Missing directories are not an error.
func CleanDir(dir string, exclude []string) {
    entries, err := os.ReadDir(dir)
    if err != nil {
        if !os.IsNotExist(err) {
            log.Warn().Err(err).Str("dir", dir).Msg("failed to read dir for cleanup")
        }
        return
    }
    excluded := make(map[string]bool, len(exclude))
    for _, p := range exclude {
        excluded[p] = true
    }
    for _, e := range entries {
        if e.IsDir() {
            continue
        }
        path := filepath.Join(dir, e.Name())
        if excluded[path] {
            continue
        }
        if err := os.Remove(path); err != nil {
            log.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
            continue
        }
        log.Debug().Str("path", path).Msg("temp file removed")
    }
}
