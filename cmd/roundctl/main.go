package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace/noop"

	"log/slog"

	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
	handicapdb "github.com/fairway-club/round-engine/app/modules/handicap/infrastructure/repositories"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/config"
	"github.com/fairway-club/round-engine/internal/eventbus"
	"github.com/fairway-club/round-engine/internal/observability"
)

// roundctl is the operator CLI: inspect rounds and handicap records, and
// force a recompute, straight against the database.
func main() {
	app := &cli.App{
		Name:  "roundctl",
		Usage: "round engine admin tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "user", Required: true, Usage: "user ID to operate on"},
		},
		Commands: []*cli.Command{
			{
				Name:  "rounds",
				Usage: "list completed rounds",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since", Value: "90 days ago", Usage: "window start, natural language (\"last month\", \"3 weeks ago\")"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum rounds to list"},
				},
				Action: listRounds,
			},
			{
				Name:   "handicap",
				Usage:  "show the latest handicap record",
				Action: showHandicap,
			},
			{
				Name:   "recompute",
				Usage:  "recompute the handicap index now",
				Action: recompute,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(c *cli.Context) (*bun.DB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	return bun.NewDB(pgdb, pgdialect.New()), nil
}

// sinceDays converts a natural-language expression to a day count.
func sinceDays(expr string) (int, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	now := time.Now()
	result, err := w.Parse(expr, now)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q: %w", expr, err)
	}
	if result == nil {
		return 0, fmt.Errorf("could not understand %q", expr)
	}
	days := int(now.Sub(result.Time).Hours()/24) + 1
	if days < 1 {
		return 0, fmt.Errorf("%q is not in the past", expr)
	}
	return days, nil
}

func listRounds(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	days, err := sinceDays(c.String("since"))
	if err != nil {
		return err
	}

	repo := &rounddb.RoundDBImpl{DB: db}
	rounds, err := repo.GetRecentCompletedRounds(c.Context, sharedtypes.UserID(c.String("user")), days, c.Int("limit"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPLETED\tROUND\tCOURSE\tSCORE\tTO PAR\tAGS")
	for _, r := range rounds {
		ags := "-"
		if r.AdjustedGrossScore != nil {
			ags = fmt.Sprintf("%d", *r.AdjustedGrossScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%+d\t%s\n",
			r.CompletedAt.Format("2006-01-02"), r.ID, r.CourseID, r.TotalScore, r.ScoreToPar, ags)
	}
	return tw.Flush()
}

func showHandicap(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := &handicapdb.HandicapDBImpl{DB: db}
	record, err := repo.GetLatestRecord(c.Context, sharedtypes.UserID(c.String("user")))
	if err != nil {
		return err
	}

	fmt.Printf("Handicap index: %.1f (from %d rounds, computed %s)\n",
		record.HandicapIndex, record.RoundsUsed, record.ComputedAt.Format(time.RFC3339))
	return nil
}

func recompute(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := handicapservice.NewHandicapService(
		&rounddb.RoundDBImpl{DB: db},
		&handicapdb.HandicapDBImpl{DB: db},
		eventbus.NewInMemoryBus(logger),
		logger,
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("roundctl"),
	)

	record, err := svc.ComputeHandicapIndex(c.Context, sharedtypes.UserID(c.String("user")))
	if err != nil {
		return err
	}
	fmt.Printf("Recomputed handicap index: %.1f (from %d rounds)\n", record.HandicapIndex, record.RoundsUsed)
	return nil
}
