package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
}

// StorageConfig defines the three on-disk directories the service owns.
type StorageConfig struct {
    UploadDir string
    OutputDir string
    TempDir   string
}

// OCRConfig defines OCR behavior for image extraction.
type OCRConfig struct {
    Language string
    Binary   string
}

// ConvertConfig defines external conversion tooling behavior.
type ConvertConfig struct {
    SofficeTimeout time.Duration
    MaxConcurrent  int
}

// HistoryConfig enables the optional Redis-backed conversion history.
type HistoryConfig struct {
    RedisURL string
    MaxKept  int64
}

// MirrorConfig enables optional mirroring of output artifacts to S3.
type MirrorConfig struct {
    Bucket   string
    Prefix   string
    Password string
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
    Port string
}

// Config is the top-level configuration.
type Config struct {
    Logging LoggingConfig
    Axiom   AxiomConfig
    Storage StorageConfig
    OCR     OCRConfig
    Convert ConvertConfig
    History HistoryConfig
    Mirror  MirrorConfig
    Server  ServerConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", "logs/docconvert.log"),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_docconvert",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
    }

    cfg.Storage = StorageConfig{
        UploadDir: getEnv("UPLOAD_FOLDER", "data/uploads"),
        OutputDir: getEnv("OUTPUT_FOLDER", "data/output"),
        TempDir:   getEnv("TEMP_FOLDER", "data/temp"),
    }

    cfg.OCR = OCRConfig{
        Language: getEnv("OCR_LANG", "fra"),
        Binary:   getEnv("OCR_BINARY", "tesseract"),
    }

    cfg.Convert = ConvertConfig{
        SofficeTimeout: parseDuration(getEnv("SOFFICE_TIMEOUT", "3m"), 3*time.Minute),
        MaxConcurrent:  parseInt(getEnv("SOFFICE_MAX_CONCURRENT", "2"), 2),
    }

    cfg.History = HistoryConfig{
        RedisURL: getEnv("REDIS_URL", ""),
        MaxKept:  int64(parseInt(getEnv("HISTORY_MAX_KEPT", "200"), 200)),
    }

    cfg.Mirror = MirrorConfig{
        Bucket:   getEnv("MIRROR_S3_BUCKET", ""),
        Prefix:   getEnv("MIRROR_S3_PREFIX", "docconvert/output"),
        Password: getEnv("MIRROR_S3_PASSWORD", ""),
    }

    cfg.Server = ServerConfig{
        Port: getEnv("PORT", "8080"),
    }

    return cfg
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
