package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RogueOneEcho/gazelle-api/internal/config"
	"github.com/RogueOneEcho/gazelle-api/internal/format"
	"github.com/RogueOneEcho/gazelle-api/internal/interrupt"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// DefaultParallel is the default number of concurrent downloads.
// The client limiter still bounds the request rate.
const DefaultParallel = 3

// MaxParallel caps --parallel.
const MaxParallel = 10

// clampParallel constrains parallel download count to [1, MaxParallel].
func clampParallel(n int) int {
	return max(1, min(n, MaxParallel))
}

// torrentFilename is the output name for a downloaded torrent.
func torrentFilename(id int) string {
	return fmt.Sprintf("%d.torrent", id)
}

// DownloadCmd creates the download command.
// The env parameter provides injectable dependencies for testing.
func DownloadCmd(env *Env) *cobra.Command {
	var (
		outputDir string
		parallel  int
	)

	cmd := &cobra.Command{
		Use:   "download <id>...",
		Short: "Download .torrent files",
		Long: `Download one or more .torrent files as <id>.torrent.

Downloads run concurrently but share the indexer rate limit, so a large batch
proceeds at the configured rate. Existing files are never overwritten.

Press Ctrl+C once to stop starting new downloads and keep finished files.
Press it again within 2 seconds to abort in-flight downloads.`,
		Example: `  gazelle download 12345
  gazelle download 1 2 3 -o ~/torrents -p 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, env, args, outputDir, parallel)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for .torrent files (default: output-dir config or cwd)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", DefaultParallel, fmt.Sprintf("Max concurrent downloads (1-%d)", MaxParallel))

	return cmd
}

// downloadResult is the outcome for one ID.
type downloadResult struct {
	id   int
	path string
	size int
	err  error
}

// runDownload executes a batch download.
// Validation order: IDs -> session (config, key) -> output dir -> existing files.
// The output dir falls back to the config, so the session comes first.
func runDownload(cmd *cobra.Command, env *Env, args []string, outputDir string, parallel int) error {
	// === VALIDATION (fail-fast) ===

	ids := make([]int, 0, len(args))
	seen := make(map[int]bool, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	s, err := openSession(cmd, env)
	if err != nil {
		return err
	}
	defer s.close()

	if outputDir == "" {
		outputDir = s.target.cfg.OutputDir
	}
	if outputDir != "" {
		outputDir = config.ExpandPath(outputDir)
		if err := config.ValidOutputDir(outputDir); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
	}

	// Refuse before spending any rate limit slot.
	paths := make(map[int]string, len(ids))
	for _, id := range ids {
		p := config.ResolveOutputPath("", outputDir, torrentFilename(id))
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("%s: %w", p, ErrOutputExists)
		}
		paths[id] = p
	}

	// === EXECUTION ===

	// The handler owns SIGINT from here: the first Ctrl+C must not cancel
	// in-flight downloads, so the root signal context is detached.
	h, workCtx := env.Interrupts(context.WithoutCancel(cmd.Context()))
	defer h.Stop()

	results := downloadAll(workCtx, s, h, ids, paths, clampParallel(parallel))
	return summarizeDownloads(env, h, results, len(ids))
}

// downloadAll fetches ids concurrently. Scheduling stops when the handler
// starts draining; an authorization failure cancels the rest of the batch.
func downloadAll(ctx context.Context, s *session, h *interrupt.Handler, ids []int, paths map[int]string, parallel int) []downloadResult {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	var mu sync.Mutex
	results := make([]downloadResult, 0, len(ids))
	record := func(r downloadResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

schedule:
	for _, id := range ids {
		select {
		case <-h.Draining():
			break schedule
		case <-gctx.Done():
			break schedule
		default:
		}

		g.Go(func() error {
			// g.Go may have blocked on the limit while draining began
			// or the batch was cancelled.
			select {
			case <-h.Draining():
				return nil
			case <-gctx.Done():
				return nil
			default:
			}
			r := downloadOne(gctx, s, id, paths[id])
			record(r)
			if r.err == nil {
				fmt.Fprintf(s.env.Stderr, "Saved %s (%s)\n", r.path, format.Size(int64(r.size)))
				return nil
			}
			fmt.Fprintf(s.env.Stderr, "Failed %d: %v\n", id, r.err)
			if errors.Is(r.err, gazelle.ErrUnauthorized) {
				return r.err
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func downloadOne(ctx context.Context, s *session, id int, path string) downloadResult {
	data, err := withRetry(ctx, s, func(ctx context.Context) ([]byte, error) {
		return s.client.DownloadTorrent(ctx, id)
	})
	if err != nil {
		return downloadResult{id: id, err: err}
	}
	if err := writeFileExclusive(path, data); err != nil {
		return downloadResult{id: id, err: err}
	}
	s.logger.Debug("saved torrent", zap.Int("id", id), zap.String("path", path), zap.Int("bytes", len(data)))
	return downloadResult{id: id, path: path, size: len(data)}
}

// summarizeDownloads reports the batch outcome and picks the command error.
// Interrupts take precedence so the exit code is 130.
func summarizeDownloads(env *Env, h *interrupt.Handler, results []downloadResult, total int) error {
	var errs []error
	saved := 0
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("torrent %d: %w", r.id, r.err))
			continue
		}
		saved++
	}

	if total > 1 || saved != total {
		fmt.Fprintf(env.Stderr, "Downloaded %d of %d torrents\n", saved, total)
	}

	if state := h.State(); state != interrupt.Continue {
		return fmt.Errorf("%w (%s) after %d of %d downloads", ErrInterrupted, state, saved, total)
	}
	return errors.Join(errs...)
}
