// Command recompute refreshes the stored per-mode discharge rates of the vessel
// registry in one synchronous run, the way the admin task API does in the background.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/northseawatch/scrubber-backend-go/internal/analysis"
	"github.com/northseawatch/scrubber-backend-go/internal/analysis/emission"
	"github.com/northseawatch/scrubber-backend-go/internal/config"
	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
	"github.com/northseawatch/scrubber-backend-go/internal/publisher"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
	"github.com/northseawatch/scrubber-backend-go/internal/service"
)

func main() {
	full := flag.Bool("full", false, "clear stored rates and recompute every vessel")
	batchSize := flag.Int("batch-size", analysis.DefaultBatchSize, "vessels per batch")
	dryRun := flag.Bool("dry-run", false, "compute without storing or publishing")
	imoList := flag.String("imo-list", "", "comma separated IMO numbers to limit the run to")
	scrubberOnly := flag.Bool("scrubber-only", false, "only vessels with an installed scrubber")
	noPublish := flag.Bool("no-publish", false, "do not publish rate updates even if NATS_URL is set")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(ctx, database.Config{Driver: cfg.DBDriver, DSN: cfg.DSN()})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	metrics := observability.NewCollector()
	deps := analysis.Deps{DB: db}
	if cfg.NATSURL != "" && !*noPublish && !*dryRun {
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, metrics)
		if err != nil {
			log.Fatal("Failed to connect to NATS:", err)
		}
		defer pub.Close()
		deps.Publisher = pub
	}

	params := map[string]interface{}{
		"batch_size":    *batchSize,
		"dry_run":       *dryRun,
		"scrubber_only": *scrubberOnly,
	}
	if imos := splitList(*imoList); len(imos) > 0 {
		params["imo_list"] = imos
	}

	taskType := models.TaskTypeIncremental
	if *full {
		taskType = models.TaskTypeFullRecompute
	}

	tasks := service.NewAnalysisTaskService(repository.NewAnalysisTaskRepository(db), deps, metrics)
	task, err := tasks.RunTask(ctx, emission.SkillName, taskType, params, "cli")
	if err != nil {
		log.Printf("Recompute failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Recompute task %d %s: processed=%d failed=%d summary=%s",
		task.ID, task.Status, task.ProcessedShips, task.FailedShips, task.ResultSummary)
	if task.Status != models.TaskStatusCompleted {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
