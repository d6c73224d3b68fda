package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/northseawatch/scrubber-backend-go/internal/analysis/emission"

	"github.com/northseawatch/scrubber-backend-go/internal/analysis"
	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/density"
	"github.com/northseawatch/scrubber-backend-go/internal/discharge"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

var t0 = time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

type recordingMetrics struct {
	mu        sync.Mutex
	estimates map[string]int
	trails    int
	frames    int
	tasks     map[string]int
	active    int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{estimates: map[string]int{}, tasks: map[string]int{}}
}

func (m *recordingMetrics) EstimateInc(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimates[source]++
}
func (m *recordingMetrics) TrailInc()       { m.mu.Lock(); m.trails++; m.mu.Unlock() }
func (m *recordingMetrics) FramesAdd(n int) { m.mu.Lock(); m.frames += n; m.mu.Unlock() }
func (m *recordingMetrics) TaskFinished(skill, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[skill+"/"+status]++
}
func (m *recordingMetrics) SetActiveVessels(n int) { m.mu.Lock(); m.active = n; m.mu.Unlock() }

func intPtr(v int) *int { return &v }

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, DSN: filepath.Join(t.TempDir(), "service.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedFleet loads four vessels:
//
//	9000001 open-loop tanker, moored an hour ago
//	9000002 closed-loop cargo, last seen 30 h ago
//	9000003 passenger ship without scrubber, at anchor
//	9000004 cargo with unknown dimensions and a TBC scrubber, no status
func seedFleet(t *testing.T, db *database.DB, withRegistry bool) {
	t.Helper()
	ctx := context.Background()
	ships := repository.NewShipRepository(db)
	positions := repository.NewPositionRepository(db)

	for _, s := range []*models.Ship{
		{IMONumber: "9000001", Name: "NORTH STAR", Length: 200, Width: 30, MaxDraught: 12, TypeName: "Tanker"},
		{IMONumber: "9000002", Name: "DOGGER", Length: 100, Width: 16, MaxDraught: 6, TypeName: "Cargo"},
		{IMONumber: "9000003", Name: "FERRY", Length: 150, Width: 25, MaxDraught: 6, TypeName: "Passenger"},
		{IMONumber: "9000004", Name: "NO DIMS", TypeName: "Cargo"},
	} {
		if err := ships.Upsert(ctx, s); err != nil {
			t.Fatalf("upsert ship: %v", err)
		}
	}
	for _, p := range []*models.ShipPosition{
		{IMONumber: "9000001", TimestampAIS: t0.Add(-2 * time.Hour), Latitude: 54.0, Longitude: 3.0, NavigationalStatusCode: intPtr(0)},
		{IMONumber: "9000001", TimestampAIS: t0.Add(-1 * time.Hour), Latitude: 54.1, Longitude: 3.1, NavigationalStatusCode: intPtr(5)},
		{IMONumber: "9000002", TimestampAIS: t0.Add(-30 * time.Hour), Latitude: 52.0, Longitude: 2.0},
		{IMONumber: "9000003", TimestampAIS: t0.Add(-30 * time.Minute), Latitude: 53.0, Longitude: 4.0, NavigationalStatusCode: intPtr(1)},
		{IMONumber: "9000004", TimestampAIS: t0.Add(-20 * time.Minute), Latitude: 55.0, Longitude: 5.0},
	} {
		if err := positions.Insert(ctx, p); err != nil {
			t.Fatalf("insert position: %v", err)
		}
	}
	if !withRegistry {
		return
	}
	scrubbers := repository.NewScrubberRepository(db)
	for _, v := range []*models.ScrubberVessel{
		{IMONumber: "9000001", Status: "Installed", TechnologyType: "Open Loop"},
		{IMONumber: "9000002", Status: "Installed", TechnologyType: "Closed Loop"},
		{IMONumber: "9000003", Status: repository.StatusNotInstalled},
		{IMONumber: "9000004", Status: "Installed", TechnologyType: "TBC"},
	} {
		if err := scrubbers.Upsert(ctx, v); err != nil {
			t.Fatalf("upsert scrubber: %v", err)
		}
	}
}

func newShipService(db *database.DB, m Metrics) *ShipService {
	s := NewShipService(repository.NewShipRepository(db), repository.NewScrubberRepository(db),
		repository.NewNavStatusRepository(db), 0, m)
	s.now = func() time.Time { return t0 }
	return s
}

func TestShipServiceActiveShips(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	m := newRecordingMetrics()

	ships, err := newShipService(db, m).ActiveShips(context.Background())
	if err != nil {
		t.Fatalf("ActiveShips: %v", err)
	}
	if len(ships) != 3 {
		t.Fatalf("got %d ships, want 3", len(ships))
	}

	tanker := ships[0]
	if tanker.IMONumber != "9000001" || tanker.StatusText != "Moored" {
		t.Fatalf("unexpected first ship %s %q", tanker.IMONumber, tanker.StatusText)
	}
	if tanker.Estimate == nil || tanker.Scrubber == nil {
		t.Fatal("scrubber vessel has no estimate")
	}
	if tanker.Estimate.OperatingMode != models.ModeBerth || tanker.Estimate.Source != models.EstimateSourceCalculated {
		t.Errorf("estimate = %+v", tanker.Estimate)
	}
	if tanker.Estimate.DischargeRateKgPerHour != 153900 {
		t.Errorf("rate = %v, want 153900", tanker.Estimate.DischargeRateKgPerHour)
	}

	if ferry := ships[1]; ferry.Estimate != nil || ferry.Scrubber != nil || ferry.StatusText != "At anchor" {
		t.Errorf("non-scrubber vessel = %+v", ferry)
	}
	noDims := ships[2]
	if noDims.StatusText != discharge.UnknownStatusText || noDims.Estimate == nil {
		t.Fatalf("vessel without dims = %+v", noDims)
	}
	if noDims.Estimate.Source != models.EstimateSourceDefault || noDims.Estimate.DischargeRateKgPerHour != 45 {
		t.Errorf("default estimate = %+v", noDims.Estimate)
	}
	if noDims.Scrubber.Label != "scrubber" || noDims.Estimate.Technology != models.ScrubberUnknown {
		t.Errorf("TBC scrubber = %+v", noDims.Scrubber)
	}

	if m.active != 3 || m.estimates["calculated"] != 1 || m.estimates["default"] != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestShipServiceUsesStoredRate(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	rates := map[models.OperatingMode]float64{
		models.ModeBerth: 1200, models.ModeAnchor: 1, models.ModeManeuver: 1, models.ModeCruise: 1,
	}
	if err := repository.NewShipRepository(db).UpdateRates(context.Background(), "9000001", rates); err != nil {
		t.Fatalf("UpdateRates: %v", err)
	}

	ships, err := newShipService(db, nil).ActiveShips(context.Background())
	if err != nil {
		t.Fatalf("ActiveShips: %v", err)
	}
	est := ships[0].Estimate
	if est.Source != models.EstimateSourceServer || est.DischargeRateKgPerHour != 1200 {
		t.Errorf("estimate = %+v", est)
	}
}

func TestShipServiceHeatmaps(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	svc := newShipService(db, nil)
	ctx := context.Background()

	scrubber, err := svc.Heatmap(ctx, models.HeatmapMetricScrubber)
	if err != nil {
		t.Fatalf("scrubber heatmap: %v", err)
	}
	if scrubber.Count != 2 || scrubber.MaxValue != 153900 || scrubber.MinValue != 45 {
		t.Errorf("scrubber heatmap = %+v", scrubber)
	}

	size, err := svc.Heatmap(ctx, models.HeatmapMetricSize)
	if err != nil {
		t.Fatalf("size heatmap: %v", err)
	}
	if size.Count != 3 || size.MaxValue != 24 || size.MinValue != 10 || size.Metric != "size" {
		t.Errorf("size heatmap = %+v", size)
	}
	if p := size.Points[0]; p.Lat != 54.1 || p.Lng != 3.1 || p.IMONumber != "9000001" {
		t.Errorf("first point = %+v", p)
	}

	if _, err := svc.Heatmap(ctx, "speed"); !errors.Is(err, ErrInvalidHeatmapType) {
		t.Errorf("err = %v, want ErrInvalidHeatmapType", err)
	}
}

func newPathService(db *database.DB, m Metrics) *PathService {
	s := NewPathService(repository.NewShipRepository(db), repository.NewPositionRepository(db),
		repository.NewScrubberRepository(db), 0, m)
	s.now = func() time.Time { return t0 }
	return s
}

func TestPathServiceShipPath(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)

	path, err := newPathService(db, nil).ShipPath(context.Background(), "9000001")
	if err != nil {
		t.Fatalf("ShipPath: %v", err)
	}
	if path.PointCount != 2 || len(path.Reliable) != 1 || len(path.Unreliable) != 0 {
		t.Fatalf("path = %+v", path)
	}
	if got := path.Reliable[0].Coordinates; len(got) != 2 || got[1] != (models.Coordinate{3.1, 54.1}) {
		t.Errorf("coordinates = %v", got)
	}

	// Outside the 24 h window
	empty, err := newPathService(db, nil).ShipPath(context.Background(), "9000002")
	if err != nil {
		t.Fatalf("ShipPath: %v", err)
	}
	if empty.PointCount != 0 || empty.Reliable == nil || len(empty.Reliable) != 0 {
		t.Errorf("empty path = %+v", empty)
	}
}

func TestPathServiceShipTrail(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	m := newRecordingMetrics()
	svc := newPathService(db, m)
	ctx := context.Background()

	trail, err := svc.ShipTrail(ctx, "9000001")
	if err != nil {
		t.Fatalf("ShipTrail: %v", err)
	}
	if !trail.Scrubber || trail.Trail == nil || trail.Path != nil {
		t.Fatalf("trail = %+v", trail)
	}
	if trail.Estimate.OperatingMode != models.ModeBerth || trail.Estimate.DischargeRateKgPerHour != 153900 {
		t.Errorf("estimate = %+v", trail.Estimate)
	}
	if len(trail.Trail.Reliable) != 1 || trail.Trail.Style.Class != "open" {
		t.Errorf("trail body = %+v", trail.Trail)
	}
	if m.trails != 1 {
		t.Errorf("trails metric = %d", m.trails)
	}

	plain, err := svc.ShipTrail(ctx, "9000003")
	if err != nil {
		t.Fatalf("ShipTrail: %v", err)
	}
	if plain.Scrubber || plain.Trail != nil || plain.Path == nil || plain.Path.PointCount != 1 {
		t.Errorf("non-scrubber trail = %+v", plain)
	}

	if _, err := svc.ShipTrail(ctx, "1234567"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("unknown vessel err = %v", err)
	}
}

func TestDistributionServicePastDistribution(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	m := newRecordingMetrics()
	svc := NewDistributionService(repository.NewPositionRepository(db), repository.NewScrubberRepository(db), m)

	resp, err := svc.PastDistribution(context.Background(), 3, models.TimeUnitHour, t0.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("PastDistribution: %v", err)
	}
	q := resp.QueryParams
	if !q.EndTime.Equal(t0) || !q.TargetStartTime.Equal(t0.Add(-3*time.Hour)) || q.DataAvailability.StartAdjusted {
		t.Errorf("query params = %+v", q)
	}
	if len(resp.Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(resp.Frames))
	}
	if f := resp.Frames[0]; !f.IntervalStart.Equal(t0.Add(-2*time.Hour)) || f.VesselCount != 1 {
		t.Errorf("first frame = %+v", f)
	}
	// The passenger ship has no scrubber and is left out
	if f := resp.Frames[1]; f.VesselCount != 2 || f.PositionCount != 2 {
		t.Errorf("second frame = %+v", f)
	}
	if m.frames != 2 {
		t.Errorf("frames metric = %d", m.frames)
	}
}

func TestDistributionServiceClampsToData(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	svc := NewDistributionService(repository.NewPositionRepository(db), repository.NewScrubberRepository(db), nil)

	resp, err := svc.PastDistribution(context.Background(), 48, models.TimeUnitHour, t0)
	if err != nil {
		t.Fatalf("PastDistribution: %v", err)
	}
	q := resp.QueryParams
	if !q.DataAvailability.StartAdjusted || !q.AdjustedStartTime.Equal(t0.Add(-29*time.Hour)) {
		t.Errorf("query params = %+v", q)
	}
	if q.DataAvailability.EarliestRecord == nil || !q.DataAvailability.EarliestRecord.Equal(t0.Add(-30*time.Hour)) {
		t.Errorf("earliest = %v", q.DataAvailability.EarliestRecord)
	}
	if len(resp.Frames) != 2 {
		t.Errorf("got %d frames, want 2", len(resp.Frames))
	}
}

func TestDistributionServiceWithoutRegistryUsesAllVessels(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, false)
	svc := NewDistributionService(repository.NewPositionRepository(db), repository.NewScrubberRepository(db), nil)

	resp, err := svc.PastDistribution(context.Background(), 1, models.TimeUnitHour, t0)
	if err != nil {
		t.Fatalf("PastDistribution: %v", err)
	}
	if len(resp.Frames) != 1 || resp.Frames[0].VesselCount != 3 {
		t.Errorf("frames = %+v", resp.Frames)
	}
}

func TestDistributionServiceValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewDistributionService(repository.NewPositionRepository(db), repository.NewScrubberRepository(db), nil)
	ctx := context.Background()

	if _, err := svc.PastDistribution(ctx, 0, models.TimeUnitDay, t0); !errors.Is(err, density.ErrInvalidTimeValue) {
		t.Errorf("err = %v, want ErrInvalidTimeValue", err)
	}
	if _, err := svc.PastDistribution(ctx, 1, "Fortnight", t0); !errors.Is(err, density.ErrInvalidTimeUnit) {
		t.Errorf("err = %v, want ErrInvalidTimeUnit", err)
	}

	// Empty database: no frames
	resp, err := svc.PastDistribution(ctx, 2, models.TimeUnitDay, t0)
	if err != nil {
		t.Fatalf("PastDistribution: %v", err)
	}
	if len(resp.Frames) != 0 || resp.QueryParams.DataAvailability.EarliestRecord != nil {
		t.Errorf("resp = %+v", resp)
	}
}

func newTaskService(db *database.DB, m Metrics) *AnalysisTaskService {
	return NewAnalysisTaskService(repository.NewAnalysisTaskRepository(db), analysis.Deps{DB: db}, m)
}

func TestAnalysisTaskServiceRunTask(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	m := newRecordingMetrics()
	svc := newTaskService(db, m)
	ctx := context.Background()

	task, err := svc.RunTask(ctx, "discharge_rates", models.TaskTypeFullRecompute, map[string]interface{}{"batch_size": 1}, "cli")
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if task.Status != models.TaskStatusCompleted || task.CreatedBy != "cli" {
		t.Errorf("task = %+v", task)
	}
	ship, err := repository.NewShipRepository(db).GetByIMO(ctx, "9000001")
	if err != nil {
		t.Fatalf("GetByIMO: %v", err)
	}
	if ship.EmissionCruise == nil || *ship.EmissionCruise != 35100 {
		t.Errorf("cruise rate = %v", ship.EmissionCruise)
	}
	if m.tasks["discharge_rates/completed"] != 1 {
		t.Errorf("task metrics = %v", m.tasks)
	}
}

func TestAnalysisTaskServiceCreateTaskRunsInBackground(t *testing.T) {
	db := setupDB(t)
	seedFleet(t, db, true)
	svc := newTaskService(db, nil)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "discharge_rates", models.TaskTypeIncremental, nil, "admin")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	svc.Wait()

	got, err := svc.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("status = %s (%s)", got.Status, got.ErrorMessage)
	}

	tasks, err := svc.ListTasks(ctx, "discharge_rates", "", 0, -1)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("listed %d tasks", len(tasks))
	}

	if err := svc.CancelTask(ctx, task.ID); !errors.Is(err, ErrTaskNotCancelable) {
		t.Errorf("cancel completed task err = %v", err)
	}
}

func TestAnalysisTaskServiceValidation(t *testing.T) {
	db := setupDB(t)
	svc := newTaskService(db, nil)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, "stay_detection", models.TaskTypeIncremental, nil, ""); !errors.Is(err, ErrUnknownSkill) {
		t.Errorf("unknown skill err = %v", err)
	}
	if _, err := svc.CreateTask(ctx, "discharge_rates", "WEEKLY", nil, ""); !errors.Is(err, ErrInvalidTaskType) {
		t.Errorf("invalid type err = %v", err)
	}

	pending := &models.AnalysisTask{SkillName: "discharge_rates", TaskType: models.TaskTypeIncremental, Status: models.TaskStatusPending}
	if err := repository.NewAnalysisTaskRepository(db).Create(ctx, pending); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.CreateTask(ctx, "discharge_rates", models.TaskTypeIncremental, nil, ""); !errors.Is(err, ErrTaskActive) {
		t.Errorf("active task err = %v", err)
	}

	if err := svc.CancelTask(ctx, pending.ID); err != nil {
		t.Fatalf("CancelTask: %v", err)
	}
	got, err := svc.GetTask(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Status != models.TaskStatusCancelled {
		t.Errorf("status = %s", got.Status)
	}
}
