package emission

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/analysis"
	"github.com/northseawatch/scrubber-backend-go/internal/discharge"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

// SkillName is the registry name of the rate recompute job
const SkillName = "discharge_rates"

// DischargeRatesParams are the options accepted in params_json
type DischargeRatesParams struct {
	BatchSize    int      `json:"batch_size"`
	DryRun       bool     `json:"dry_run"`
	IMOList      []string `json:"imo_list"`
	ScrubberOnly bool     `json:"scrubber_only"`
}

// DischargeRatesSummary is stored as the task's result summary
type DischargeRatesSummary struct {
	Processed     int   `json:"processed"`
	Updated       int   `json:"updated"`
	Skipped       int   `json:"skipped"`
	PublishFailed int   `json:"publish_failed"`
	Cleared       int64 `json:"cleared"`
	DryRun        bool  `json:"dry_run"`
}

// DischargeRatesAnalyzer recomputes the stored per-mode discharge rate of every
// Cargo and Tanker vessel that carries a wet scrubber
type DischargeRatesAnalyzer struct {
	*analysis.IncrementalAnalyzer
	ships     *repository.ShipRepository
	publisher analysis.RatePublisher
	now       func() time.Time
}

// NewDischargeRatesAnalyzer creates a new discharge rate analyzer
func NewDischargeRatesAnalyzer(deps analysis.Deps) analysis.Analyzer {
	return &DischargeRatesAnalyzer{
		IncrementalAnalyzer: analysis.NewIncrementalAnalyzer(deps.DB, SkillName, analysis.DefaultBatchSize),
		ships:               repository.NewShipRepository(deps.DB),
		publisher:           deps.Publisher,
		now:                 time.Now,
	}
}

// Analyze recomputes rates. Full mode clears stored rates first; incremental mode
// only visits vessels with a missing rate.
func (a *DischargeRatesAnalyzer) Analyze(ctx context.Context, taskID int64, mode string) error {
	log.Printf("[DischargeRatesAnalyzer] Starting analysis (task_id=%d, mode=%s)", taskID, mode)

	if err := a.MarkTaskAsRunning(ctx, taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	var params DischargeRatesParams
	if err := a.LoadParams(ctx, taskID, &params); err != nil {
		return err
	}
	if params.BatchSize > 0 {
		a.BatchSize = params.BatchSize
	}
	imos := normalizeIMOs(params.IMOList)

	summary := DischargeRatesSummary{DryRun: params.DryRun}
	filter := repository.RecomputeFilter{
		IMONumbers:   imos,
		ScrubberOnly: params.ScrubberOnly,
		OnlyMissing:  mode != analysis.ModeFull,
	}

	if mode == analysis.ModeFull {
		if params.DryRun {
			log.Printf("[DischargeRatesAnalyzer] Dry run: stored rates are kept")
		} else {
			n, err := a.ships.ClearRates(ctx, imos)
			if err != nil {
				return err
			}
			summary.Cleared = n
			log.Printf("[DischargeRatesAnalyzer] Cleared rates for %d ships", n)
		}
	}

	total, err := a.ships.CountRecomputeCandidates(ctx, filter)
	if err != nil {
		return err
	}
	log.Printf("[DischargeRatesAnalyzer] Found %d ships to process", total)

	processed, failed, err := a.ProcessInBatches(ctx, taskID, total, func(ctx context.Context, cursor string, limit int) (string, int, int, error) {
		batch, err := a.ships.ListRecomputeCandidates(ctx, filter, cursor, limit)
		if err != nil {
			return cursor, 0, 0, err
		}
		if len(batch) == 0 {
			return cursor, 0, 0, nil
		}

		updates, messages := a.computeBatch(batch, &summary)
		if !params.DryRun {
			if err := a.ships.UpdateRatesBatch(ctx, updates); err != nil {
				return cursor, 0, 0, err
			}
		}
		summary.Updated += len(updates)

		batchFailed := 0
		if !params.DryRun && a.publisher != nil {
			for _, msg := range messages {
				if err := a.publisher.PublishRates(ctx, msg); err != nil {
					log.Printf("[DischargeRatesAnalyzer] Failed to publish rates for %s: %v", msg.IMONumber, err)
					batchFailed++
				}
			}
		}

		return batch[len(batch)-1].Ship.IMONumber, len(batch), batchFailed, nil
	})
	summary.Processed = processed
	summary.PublishFailed = failed
	if err != nil {
		return err
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode result summary: %w", err)
	}
	if err := a.MarkTaskAsCompleted(ctx, taskID, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[DischargeRatesAnalyzer] Completed: %d processed, %d updated, %d skipped, dry run %v",
		summary.Processed, summary.Updated, summary.Skipped, summary.DryRun)
	return nil
}

func (a *DischargeRatesAnalyzer) computeBatch(batch []repository.RecomputeCandidate, summary *DischargeRatesSummary) (map[string]map[models.OperatingMode]float64, []models.RateUpdate) {
	updates := make(map[string]map[models.OperatingMode]float64, len(batch))
	messages := make([]models.RateUpdate, 0, len(batch))
	computedAt := a.now().Unix()

	for _, c := range batch {
		if !discharge.IsDischargingTechnology(c.TechnologyType) {
			summary.Skipped++
			continue
		}
		tech := discharge.ParseScrubberTechnology(c.TechnologyType)
		rates, category, ok := discharge.ModeRates(c.Ship.Attributes(), tech)
		if !ok {
			summary.Skipped++
			continue
		}
		updates[c.Ship.IMONumber] = rates
		messages = append(messages, models.RateUpdate{
			IMONumber:   c.Ship.IMONumber,
			Rates:       rates,
			DwtCategory: category,
			Technology:  tech,
			ComputedAt:  computedAt,
		})
	}
	return updates, messages
}

func normalizeIMOs(list []string) []string {
	var out []string
	for _, imo := range list {
		if imo = strings.TrimSpace(imo); imo != "" {
			out = append(out, imo)
		}
	}
	return out
}

func init() {
	analysis.RegisterAnalyzer(SkillName, NewDischargeRatesAnalyzer)
}
