package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/okian/simonev/internal/adapters/http/api"
	"github.com/okian/simonev/internal/domain/model"
	"github.com/okian/simonev/internal/domain/types"
)

// NewApp builds the simonevctl command tree. Output goes to out.
func NewApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "simonevctl",
		Usage:  "drive a SIMONEV service over HTTP",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: DefaultBaseURL, Usage: "base URL of the service", EnvVars: []string{"SIMONEV_URL"}},
			&cli.DurationFlag{Name: "timeout", Value: DefaultTimeout, Usage: "HTTP request timeout"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable verbose output"},
		},
		Commands: []*cli.Command{
			{
				Name:  "health",
				Usage: "check the service is up",
				Action: func(c *cli.Context) error {
					if err := clientFrom(c).Health(c.Context); err != nil {
						return err
					}
					_, err := fmt.Fprintln(c.App.Writer, "ok")
					return err
				},
			},
			eventsCommand(),
			uploadCommand(),
			{
				Name:  "schools",
				Usage: "list schools with their tiers",
				Flags: []cli.Flag{categoryFlag()},
				Action: func(c *cli.Context) error {
					f, err := model.ParseFilter(c.String("category"))
					if err != nil {
						return err
					}
					schools, err := clientFrom(c).Schools(c.Context, f)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, schools)
				},
			},
			{
				Name:  "rankings",
				Usage: "print the ranking table",
				Flags: []cli.Flag{
					categoryFlag(),
					&cli.IntFlag{Name: "limit", Value: DefaultLimit, Usage: "number of rows, 0 for all"},
				},
				Action: func(c *cli.Context) error {
					f, err := model.ParseFilter(c.String("category"))
					if err != nil {
						return err
					}
					entries, err := clientFrom(c).Rankings(c.Context, f, c.Int("limit"))
					if err != nil {
						return err
					}
					return printRanking(c.App.Writer, entries)
				},
			},
			{
				Name:  "dashboard",
				Usage: "print the dashboard stats",
				Flags: []cli.Flag{categoryFlag()},
				Action: func(c *cli.Context) error {
					f, err := model.ParseFilter(c.String("category"))
					if err != nil {
						return err
					}
					stats, err := clientFrom(c).Dashboard(c.Context, f)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, stats)
				},
			},
			{
				Name:  "summary",
				Usage: "print the narrative summary",
				Flags: []cli.Flag{categoryFlag()},
				Action: func(c *cli.Context) error {
					f, err := model.ParseFilter(c.String("category"))
					if err != nil {
						return err
					}
					text, err := clientFrom(c).Summary(c.Context, f)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, text)
					return err
				},
			},
			{
				Name:  "backup",
				Usage: "download a backup document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output file (default: backup-simonev-DATE.json)"},
				},
				Action: func(c *cli.Context) error {
					data, err := clientFrom(c).Backup(c.Context)
					if err != nil {
						return err
					}
					path := c.String("out")
					if path == "" {
						path = api.BackupFilename(time.Now())
					}
					if err := writeFile(path, data); err != nil {
						return err
					}
					_, err = fmt.Fprintf(c.App.Writer, "backup written to %s\n", path)
					return err
				},
			},
			{
				Name:  "restore",
				Usage: "replace the service state with a backup document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Required: true, Usage: "backup file to restore"},
				},
				Action: func(c *cli.Context) error {
					data, err := os.ReadFile(c.String("in"))
					if err != nil {
						return err
					}
					if err := clientFrom(c).Restore(c.Context, data); err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, "restored")
					return err
				},
			},
			demoCommand(),
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "list or create events",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list events",
				Action: func(c *cli.Context) error {
					events, err := clientFrom(c).Events(c.Context)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, events)
				},
			},
			{
				Name:  "create",
				Usage: "create an event",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true, Usage: "event name"},
					&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD or a phrase like \"tomorrow\" (default: today)"},
					&cli.StringFlag{Name: "type", Value: string(model.EventSocialization), Usage: "Socialization, DataRequest or Response"},
					&cli.Float64Flag{Name: "weight", Usage: "points per credited school (default: the service default)"},
					&cli.StringFlag{Name: "description", Usage: "free text"},
					&cli.StringFlag{Name: "key", Usage: "idempotency key"},
				},
				Action: func(c *cli.Context) error {
					in := model.EventInput{
						Name:        c.String("name"),
						Date:        c.String("date"),
						Type:        model.EventType(c.String("type")),
						Description: c.String("description"),
					}
					if c.IsSet("weight") {
						w := c.Float64("weight")
						in.Weight = &w
					}
					ev, dup, err := clientFrom(c).CreateEvent(c.Context, c.String("key"), in)
					if err != nil {
						return err
					}
					if dup {
						fmt.Fprintln(c.App.Writer, "duplicate")
					}
					return printJSON(c.App.Writer, ev)
				},
			},
		},
	}
}

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "upload a roster for an event",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "event", Required: true, Usage: "event id"},
			&cli.StringFlag{Name: "kind", Value: string(model.KindAttendance), Usage: "Attendance or Submission"},
			&cli.StringFlag{Name: "file", Usage: "roster file sent as is (.txt, .csv or .xlsx)"},
			&cli.StringFlag{Name: "text", Usage: "text file whose lines are the roster"},
			&cli.StringSliceFlag{Name: "line", Usage: "roster line, repeatable"},
		},
		Action: func(c *cli.Context) error {
			kind, err := model.ParseDataKind(c.String("kind"))
			if err != nil {
				return err
			}
			sources := 0
			for _, name := range []string{"file", "text", "line"} {
				if c.IsSet(name) {
					sources++
				}
			}
			if sources != 1 {
				return fmt.Errorf("%w: exactly one of --file, --text or --line is required", ErrUsage)
			}

			client := clientFrom(c)
			var res types.UploadResult
			switch {
			case c.IsSet("file"):
				path := c.String("file")
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if res, err = client.UploadFile(c.Context, c.String("event"), kind, filepath.Base(path), data); err != nil {
					return err
				}
			case c.IsSet("text"):
				data, err := os.ReadFile(c.String("text"))
				if err != nil {
					return err
				}
				up := types.RosterUpload{Kind: string(kind), Text: string(data)}
				if res, err = client.UploadRoster(c.Context, c.String("event"), up); err != nil {
					return err
				}
			default:
				up := types.RosterUpload{Kind: string(kind), Lines: c.StringSlice("line")}
				if res, err = client.UploadRoster(c.Context, c.String("event"), up); err != nil {
					return err
				}
			}
			return printJSON(c.App.Writer, res)
		},
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "create fake events and rosters and verify idempotent crediting",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "events", Value: DefaultEvents, Usage: "number of events to create"},
			&cli.IntFlag{Name: "workers", Value: DefaultWorkers, Usage: "number of concurrent uploads"},
			&cli.IntFlag{Name: "roster-size", Value: DefaultRosterSize, Usage: "schools named per roster"},
			&cli.IntFlag{Name: "noise", Value: DefaultNoise, Usage: "unknown lines per roster"},
			&cli.Uint64Flag{Name: "seed", Usage: "faker seed (default: from the clock)"},
		},
		Action: func(c *cli.Context) error {
			cfg := DemoConfig{
				Config:     configFrom(c),
				Events:     c.Int("events"),
				Workers:    c.Int("workers"),
				RosterSize: c.Int("roster-size"),
				Noise:      c.Int("noise"),
				Seed:       c.Uint64("seed"),
			}
			_, err := RunDemo(c.Context, cfg, c.App.Writer)
			return err
		},
	}
}

func categoryFlag() cli.Flag {
	return &cli.StringFlag{Name: "category", Usage: "SMAK, SMTK or ALL"}
}

func configFrom(c *cli.Context) Config {
	return Config{
		BaseURL: c.String("url"),
		Timeout: c.Duration("timeout"),
		Verbose: c.Bool("verbose"),
	}
}

func clientFrom(c *cli.Context) *Client {
	cfg := configFrom(c)
	return NewClient(cfg.BaseURL, cfg.Timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRanking(w io.Writer, entries []types.RankingEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNPSN\tNAME\tTYPE\tSCORE\tEVENTS\tTIER")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%g\t%d/%d\t%s\n",
			e.Rank, e.NPSN, e.Name, e.Type, e.TotalScore, e.EventsParticipated, e.TotalEventsPossible, e.Tier)
	}
	return tw.Flush()
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, filePermission)
}
