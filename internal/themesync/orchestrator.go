package themesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"themesync/internal/library"
	"themesync/internal/logging"
	"themesync/internal/match"
	"themesync/internal/notifications"
	"themesync/internal/pathmap"
	"themesync/internal/progress"
	"themesync/internal/services"
	"themesync/internal/services/drive"
)

// RemoteStore is the slice of the Drive client the orchestrator needs.
type RemoteStore interface {
	ListFolders(ctx context.Context) ([]*drive.Folder, error)
	FindThemeFile(ctx context.Context, folderID string) (string, error)
	Download(ctx context.Context, fileID, destPath string) error
}

// Summary reports what one Run accomplished.
type Summary struct {
	RunID      string
	Matched    int
	Downloaded int
	Skipped    int
	Deferred   int
	Refreshed  int
	// Suspended reports that a rate limit cut the run short; unprocessed
	// items stay pending and the persisted cooldown gates the next run.
	Suspended bool
}

// Orchestrator performs a full synchronization pass. All collaborators must be
// set; Now and Sleep default to real time when nil.
type Orchestrator struct {
	Library  library.Source
	Drive    RemoteStore
	Store    *progress.Store
	Mapper   *pathmap.Mapper
	Notifier notifications.Service
	Logger   *slog.Logger

	Threshold     float64
	Cooldown      time.Duration
	ThemeFileName string

	// Now and Sleep exist so tests can drive cooldown handling without real
	// waits.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run executes one synchronization pass. Items are processed strictly in
// order; every progress write is durable before the next item is attempted, so
// an interruption at any point leaves the store consistent.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := o.logger().With(logging.FieldComponent, "sync", logging.FieldRunID, runID)
	summary := &Summary{RunID: runID}

	if err := o.waitForStoredCooldown(ctx, log); err != nil {
		return summary, err
	}

	movies, err := o.Library.Movies(ctx)
	if err != nil {
		return summary, fmt.Errorf("list library movies: %w", err)
	}
	folders, err := o.Drive.ListFolders(ctx)
	if err != nil {
		return summary, fmt.Errorf("list remote folders: %w", err)
	}
	records, err := o.Store.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("load progress: %w", err)
	}
	log.Info("collaborators listed", "movies", len(movies), "folders", len(folders))

	candidates := make([]library.Movie, 0, len(movies))
	for _, movie := range movies {
		if movie.HasTheme {
			continue
		}
		candidates = append(candidates, movie)
	}

	results := match.Match(candidates, folders, o.Threshold)
	for _, result := range results {
		if result.Kind != match.KindNone {
			summary.Matched++
		}
	}
	o.notify(func(n notifications.Service) error {
		return n.NotifySyncStarted(ctx, summary.Matched)
	}, log)

	started := o.now()
	var changed []string
items:
	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		itemID := result.Local.RatingKey
		itemLog := log.With(logging.FieldItemID, itemID, "title", result.Local.Title)

		if record, ok := records[itemID]; ok && record.Status == progress.StatusDownloaded {
			continue
		}

		if result.Kind == match.KindNone {
			if err := o.Store.Record(ctx, itemID, progress.StatusSkippedNoMatch, "no matching folder"); err != nil {
				return summary, err
			}
			summary.Skipped++
			itemLog.Debug("no match")
			continue
		}

		itemLog = itemLog.With("folder", result.Remote.Name, "match", result.Kind.String())

		destPath, ok := o.themePath(result.Local)
		if !ok {
			if err := o.Store.Record(ctx, itemID, progress.StatusSkippedError, "movie has no file path"); err != nil {
				return summary, err
			}
			summary.Skipped++
			itemLog.Warn("movie has no file path")
			continue
		}

		if hasNonEmptyFile(destPath) {
			if err := o.Store.Record(ctx, itemID, progress.StatusDownloaded, "theme file already on disk"); err != nil {
				return summary, err
			}
			summary.Downloaded++
			changed = append(changed, itemID)
			itemLog.Info("theme already on disk", "path", destPath)
			continue
		}

		downloadErr := o.downloadTheme(ctx, result.Remote.ID, destPath)
		switch {
		case downloadErr == nil:
			if err := o.Store.Record(ctx, itemID, progress.StatusDownloaded, ""); err != nil {
				return summary, err
			}
			summary.Downloaded++
			changed = append(changed, itemID)
			itemLog.Info("theme downloaded", "path", destPath)

		case services.IsRateLimited(downloadErr):
			if err := o.deferForRateLimit(ctx, itemID, downloadErr, log, itemLog); err != nil {
				return summary, err
			}
			summary.Deferred++
			summary.Suspended = true
			break items

		case errors.Is(downloadErr, services.ErrNotFound):
			if err := o.Store.Record(ctx, itemID, progress.StatusSkippedNoMatch, "matched folder has no theme file"); err != nil {
				return summary, err
			}
			summary.Skipped++
			itemLog.Info("matched folder has no theme file")

		default:
			if err := o.Store.Record(ctx, itemID, progress.StatusSkippedError, downloadErr.Error()); err != nil {
				return summary, err
			}
			summary.Skipped++
			itemLog.Warn("theme download failed", "error", downloadErr)
		}
	}

	for _, itemID := range changed {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := o.Library.RefreshItem(ctx, itemID); err != nil {
			log.Warn("metadata refresh failed", logging.FieldItemID, itemID, "error", err)
			continue
		}
		summary.Refreshed++
	}

	if !summary.Suspended {
		o.notify(func(n notifications.Service) error {
			return n.NotifySyncCompleted(ctx, summary.Downloaded, summary.Skipped, summary.Deferred, o.now().Sub(started))
		}, log)
	}

	log.Info("run complete",
		"suspended", summary.Suspended,
		"matched", summary.Matched,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"deferred", summary.Deferred,
		"refreshed", summary.Refreshed)
	return summary, nil
}

// downloadTheme locates the theme file inside the folder and streams it to
// destPath.
func (o *Orchestrator) downloadTheme(ctx context.Context, folderID, destPath string) error {
	fileID, err := o.Drive.FindThemeFile(ctx, folderID)
	if err != nil {
		return err
	}
	return o.Drive.Download(ctx, fileID, destPath)
}

// deferForRateLimit persists the deferral and the cooldown, then notifies.
// The run suspends after this: remaining items stay pending and the stored
// cooldown gates the next invocation.
func (o *Orchestrator) deferForRateLimit(ctx context.Context, itemID string, cause error, log, itemLog *slog.Logger) error {
	if err := o.Store.Record(ctx, itemID, progress.StatusDeferred, cause.Error()); err != nil {
		return err
	}
	resumeAt := o.now().Add(o.Cooldown)
	if err := o.Store.SetCooldown(ctx, resumeAt); err != nil {
		return err
	}
	itemLog.Warn("rate limited, suspending run", "resume_at", resumeAt)
	o.notify(func(n notifications.Service) error {
		return n.NotifyRateLimited(ctx, resumeAt)
	}, log)
	return nil
}

// waitForStoredCooldown blocks until a previously persisted cooldown expires.
func (o *Orchestrator) waitForStoredCooldown(ctx context.Context, log *slog.Logger) error {
	resumeAt, ok, err := o.Store.Cooldown(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if wait := resumeAt.Sub(o.now()); wait > 0 {
		log.Info("waiting out stored cooldown", "resume_at", resumeAt)
		if err := o.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return o.Store.ClearCooldown(ctx)
}

// themePath maps the movie's server-side file path onto the local filesystem
// and points at the theme file next to it.
func (o *Orchestrator) themePath(movie library.Movie) (string, bool) {
	if movie.Path == "" {
		return "", false
	}
	mapped := o.Mapper.Map(movie.Path)
	return filepath.Join(filepath.Dir(mapped), o.ThemeFileName), true
}

func (o *Orchestrator) notify(send func(notifications.Service) error, log *slog.Logger) {
	if o.Notifier == nil {
		return
	}
	if err := send(o.Notifier); err != nil {
		log.Warn("notification failed", "error", err)
	}
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.NewNop()
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func hasNonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
