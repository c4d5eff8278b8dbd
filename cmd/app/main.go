package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/api"
    cfgpkg "github.com/local/docconvert/internal/config"
    "github.com/local/docconvert/internal/convert"
    "github.com/local/docconvert/internal/dispatch"
    "github.com/local/docconvert/internal/extract"
    "github.com/local/docconvert/internal/filestore"
    "github.com/local/docconvert/internal/history"
    logpkg "github.com/local/docconvert/internal/logger"
    "github.com/local/docconvert/internal/metrics"
    "github.com/local/docconvert/internal/statuscheck"
    "github.com/local/docconvert/internal/storage"
)

func main() {
    _ = godotenv.Load()
    cfg := cfgpkg.FromEnv()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level: cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File: cfg.Logging.File,
        MaxSizeMB: cfg.Logging.MaxSizeMB,
        MaxBackups: cfg.Logging.MaxBackups,
        MaxAgeDays: cfg.Logging.MaxAgeDays,
        Compress: cfg.Logging.Compress,
        SendToAxiom: cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey: cfg.Axiom.APIKey,
        AxiomOrgID: cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush: cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    metrics.Init()

    store, err := filestore.New(cfg.Storage)
    if err != nil {
        log.Fatal().Err(err).Msg("failed to prepare storage directories")
    }
    // Leftover scratch files from a previous run are unowned, drop them.
    filestore.CleanDir(cfg.Storage.TempDir, nil)

    // History (optional)
    var hist *history.Store
    if cfg.History.RedisURL != "" {
        hist, err = history.New(cfg.History.RedisURL, cfg.History.MaxKept)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to connect to redis")
        }
        defer hist.Close()
    }

    // S3 mirror (optional)
    var mirror *storage.Mirror
    if cfg.Mirror.Bucket != "" {
        mirror, err = storage.NewMirror(context.Background(), cfg.Mirror.Bucket, cfg.Mirror.Prefix, cfg.Mirror.Password)
        if err != nil {
            log.Fatal().Err(err).Msg("failed to init S3 mirror")
        }
    }

    opts := dispatch.Options{
        Store:     store,
        Extractor: extract.New(cfg.OCR),
        DocxToPDF: convert.NewDocxToPDF(cfg.Convert),
    }
    if mirror != nil {
        opts.Mirror = mirror
    }
    disp := dispatch.New(opts)

    checkerOpts := statuscheck.Options{
        OCR:        cfg.OCR,
        StorageDir: cfg.Storage.OutputDir,
    }
    if hist != nil {
        checkerOpts.Redis = hist
    }
    if mirror != nil {
        checkerOpts.Mirror = mirror
    }

    mux := http.NewServeMux()
    api.New(api.Options{
        Dispatcher: disp,
        Checker:    statuscheck.New(checkerOpts),
        History:    hist,
    }).RegisterRoutes(mux)

    srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

    go func(){
        log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}
