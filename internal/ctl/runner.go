package ctl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
	"github.com/okian/simonev/pkg/logger"
)

type uploadJob struct {
	event  model.Event
	roster types.RosterUpload
}

// RunDemo drives a running service end to end: it creates events twice
// under the same idempotency key, uploads each generated roster twice and
// checks that replays change nothing and the ranking stays consistent.
func RunDemo(ctx context.Context, cfg DemoConfig, out io.Writer) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("demo")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	gen := NewGenerator(cfg.Seed, stats.StartTime)

	log.Info(ctx, "starting simonev demo",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("events", cfg.Events),
		logger.Int("workers", cfg.Workers),
		logger.String("seed", strconv.FormatUint(gen.Seed(), 10)))

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	schools, err := client.Schools(ctx, model.All)
	if err != nil {
		return stats, fmt.Errorf("school listing failed: %w", err)
	}
	if len(schools) == 0 {
		return stats, fmt.Errorf("%w: the service has no schools", ErrVerification)
	}
	baseline := participationTotal(schools)

	// Step 2: Create events, each one twice
	events, err := createEvents(ctx, client, gen, cfg.Events, stats)
	if err != nil {
		return stats, err
	}

	// Step 3: Upload rosters concurrently, each one twice
	jobs := make([]uploadJob, len(events))
	for i, ev := range events {
		jobs[i] = uploadJob{event: ev, roster: gen.Roster(schools, cfg.RosterSize, cfg.Noise)}
	}
	if err := uploadRosters(ctx, client, cfg, jobs, stats, out); err != nil {
		return stats, err
	}

	// Step 4: Verify the ranking
	ranking, err := client.Rankings(ctx, model.All, 0)
	if err != nil {
		return stats, fmt.Errorf("ranking retrieval failed: %w", err)
	}
	if err := verifyRanking(ranking); err != nil {
		return stats, err
	}
	stats.RankingsVerified = len(ranking)

	after, err := client.Schools(ctx, model.All)
	if err != nil {
		return stats, fmt.Errorf("school listing failed: %w", err)
	}
	if got := participationTotal(after) - baseline; got != stats.SchoolsCredited {
		return stats, fmt.Errorf("%w: participation grew by %d, %d credits reported",
			ErrVerification, got, stats.SchoolsCredited)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func createEvents(ctx context.Context, client *Client, gen *Generator, n int, stats *Stats) ([]model.Event, error) {
	events := make([]model.Event, 0, n)
	for i := range n {
		key := fmt.Sprintf("demo-%d-%d", gen.Seed(), i)
		in := gen.Event()

		ev, dup, err := client.CreateEvent(ctx, key, in)
		if err != nil {
			return nil, fmt.Errorf("event creation failed: %w", err)
		}
		if dup {
			// A rerun with the same seed lands on keys the service still remembers.
			stats.EventsDuplicate++
			if ev.ID == "" {
				continue
			}
		} else {
			stats.EventsCreated++
		}

		replay, dup, err := client.CreateEvent(ctx, key, in)
		if err != nil {
			return nil, fmt.Errorf("event replay failed: %w", err)
		}
		if !dup {
			return nil, fmt.Errorf("%w: replay of %q created event %s", ErrVerification, key, replay.ID)
		}
		if replay.ID != "" && replay.ID != ev.ID {
			return nil, fmt.Errorf("%w: replay of %q answered event %s, want %s", ErrVerification, key, replay.ID, ev.ID)
		}
		stats.EventsDuplicate++
		events = append(events, ev)
	}
	return events, nil
}

func uploadRosters(ctx context.Context, client *Client, cfg DemoConfig, jobs []uploadJob, stats *Stats, out io.Writer) error {
	workers := max(1, min(cfg.Workers, len(jobs)))
	jobChan := make(chan uploadJob, workers*WorkerChannelMultiplier)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				first, replay, err := uploadTwice(ctx, client, job)

				mu.Lock()
				switch {
				case err != nil:
					stats.UploadsFailed++
					if firstErr == nil {
						firstErr = err
					}
				default:
					stats.RostersUploaded++
					stats.RostersReplayed++
					stats.SchoolsCredited += len(first.Credited)
					stats.CreditsReplayed += len(replay.Skipped)
					stats.UnmatchedLines += len(first.Unmatched)
				}
				done := stats.RostersUploaded + stats.UploadsFailed
				mu.Unlock()

				if cfg.Verbose {
					fmt.Fprintf(out, "%s: %d credited, %d unmatched\n", job.event.Name, len(first.Credited), len(first.Unmatched))
				} else {
					fmt.Fprintf(out, "\rUploaded: %d/%d", done, len(jobs))
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()
	if !cfg.Verbose {
		fmt.Fprintln(out)
	}
	if firstErr != nil {
		return fmt.Errorf("roster upload failed: %w", firstErr)
	}
	return ctx.Err()
}

func uploadTwice(ctx context.Context, client *Client, job uploadJob) (first, replay types.UploadResult, err error) {
	first, err = client.UploadRoster(ctx, job.event.ID, job.roster)
	if err != nil {
		return first, replay, err
	}
	replay, err = client.UploadRoster(ctx, job.event.ID, job.roster)
	if err != nil {
		return first, replay, err
	}
	return first, replay, verifyReplay(first, replay)
}

// displayFinalStats logs the final demo statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("eventsCreated", stats.EventsCreated),
		logger.Int("eventsDuplicate", stats.EventsDuplicate),
		logger.Int("rostersUploaded", stats.RostersUploaded),
		logger.Int("rostersReplayed", stats.RostersReplayed),
		logger.Int("schoolsCredited", stats.SchoolsCredited),
		logger.Int("creditsReplayed", stats.CreditsReplayed),
		logger.Int("unmatchedLines", stats.UnmatchedLines),
		logger.Int("uploadsFailed", stats.UploadsFailed),
		logger.Int("rankingsVerified", stats.RankingsVerified),
		logger.String("duration", stats.Duration.String()))
}
