package inspection_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/BridgeWatch/BW-Backend/internal/inspection"
	"github.com/BridgeWatch/BW-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect()
	dbAvailable = true

	// Set up inspection tables (idempotent).
	inspection.Init()

	// Mount inspection routes on a chi router, matching main.go.
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Mount("/inspection", inspection.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// namedResolver implements inspection.LocationResolver for tests.
type namedResolver struct {
	name  string
	err   error
	calls int
}

func (r *namedResolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	r.calls++
	return r.name, r.err
}

func installResolver(t *testing.T, r inspection.LocationResolver) {
	t.Helper()
	inspection.SetLocationResolver(r)
	t.Cleanup(func() { inspection.SetLocationResolver(nil) })
}

func ptr(v float64) *float64 { return &v }

// createTestProject inserts a unique project and registers a cleanup
// that removes it (and, via the cascade, everything under it).
func createTestProject(t *testing.T) *inspection.Project {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	project := inspection.Project{
		Name:     fmt.Sprintf("testproj_%s", uuid.New().String()[:8]),
		Location: "NH-9 test section",
	}
	if err := inspection.CreateProject(context.Background(), &project); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	t.Cleanup(func() {
		_ = inspection.DeleteProject(context.Background(), project.ID)
	})
	return &project
}

func createTestBridge(t *testing.T, projectID uuid.UUID) *inspection.Bridge {
	t.Helper()
	bridge := inspection.Bridge{
		ProjectID: projectID,
		Name:      fmt.Sprintf("testbridge_%s", uuid.New().String()[:8]),
		Rating:    inspection.RatingModerate,
	}
	if err := inspection.CreateBridge(context.Background(), &bridge); err != nil {
		t.Fatalf("failed to create test bridge: %v", err)
	}
	return &bridge
}

func createTestObservation(t *testing.T, bridgeID uuid.UUID, severity, side string) *inspection.Observation {
	t.Helper()
	obs := inspection.Observation{
		BridgeID: bridgeID,
		Title:    fmt.Sprintf("obs %s/%s", severity, side),
		Severity: severity,
		Side:     side,
	}
	if err := inspection.CreateObservation(context.Background(), &obs); err != nil {
		t.Fatalf("failed to create test observation: %v", err)
	}
	return &obs
}

// TestCreateBridgeRejectsBadRating verifies a rating outside the
// closed set is rejected with a ValidationError naming field and
// value.
func TestCreateBridgeRejectsBadRating(t *testing.T) {
	project := createTestProject(t)

	bridge := inspection.Bridge{
		ProjectID: project.ID,
		Name:      "bad rating bridge",
		Rating:    "excellent",
	}
	err := inspection.CreateBridge(context.Background(), &bridge)

	var ve *inspection.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "rating" || ve.Value != "excellent" {
		t.Errorf("expected field=rating value=excellent, got field=%q value=%q", ve.Field, ve.Value)
	}
}

// TestCreateObservationRejectsMissingBridge verifies a dangling parent
// reference is rejected with a NotFoundError.
func TestCreateObservationRejectsMissingBridge(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	obs := inspection.Observation{
		BridgeID: uuid.New(),
		Title:    "orphan",
		Severity: inspection.SeverityCritical,
		Side:     inspection.SideLHS,
	}
	err := inspection.CreateObservation(context.Background(), &obs)

	var nfe *inspection.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if nfe.Resource != "bridge" {
		t.Errorf("expected resource bridge, got %q", nfe.Resource)
	}
}

// TestProjectCascadeDelete verifies deleting a project removes its
// bridges, their observations and those observations' images.
func TestProjectCascadeDelete(t *testing.T) {
	project := createTestProject(t)
	bridge := createTestBridge(t, project.ID)
	obs := createTestObservation(t, bridge.ID, inspection.SeverityCritical, inspection.SideLHS)

	img := inspection.ObservationImage{
		ObservationID: obs.ID,
		ImagePath:     "observations/cascade-test.jpg",
	}
	if err := inspection.CreateObservationImage(context.Background(), &img); err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}

	if err := inspection.DeleteProject(context.Background(), project.ID); err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}

	var bridges, observations, images int64
	if err := db.DB.Model(&inspection.Bridge{}).Where("id = ?", bridge.ID).Count(&bridges).Error; err != nil {
		t.Fatalf("count bridges: %v", err)
	}
	if err := db.DB.Model(&inspection.Observation{}).Where("id = ?", obs.ID).Count(&observations).Error; err != nil {
		t.Fatalf("count observations: %v", err)
	}
	if err := db.DB.Model(&inspection.ObservationImage{}).Where("id = ?", img.ID).Count(&images).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}

	if bridges != 0 || observations != 0 || images != 0 {
		t.Errorf("expected cascade delete, found %d bridges, %d observations, %d images", bridges, observations, images)
	}
}

// TestAggregateProjectScenario verifies the grouped counts for the
// documented scenario, both through the store API and the summary
// endpoint.
func TestAggregateProjectScenario(t *testing.T) {
	project := createTestProject(t)
	bridge := createTestBridge(t, project.ID)

	createTestObservation(t, bridge.ID, inspection.SeverityCritical, inspection.SideLHS)
	createTestObservation(t, bridge.ID, inspection.SeverityCritical, inspection.SideRHS)
	createTestObservation(t, bridge.ID, inspection.SeverityCritical, inspection.SideBoth)
	createTestObservation(t, bridge.ID, inspection.SeverityModerate, inspection.SideLHS)

	want := inspection.SummaryCounts{
		CriticalTotal: 3,
		CriticalLHS:   1,
		CriticalRHS:   1,
		ModerateTotal: 1,
		ModerateLHS:   1,
	}

	got, err := inspection.AggregateProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("AggregateProject failed: %v", err)
	}
	if got != want {
		t.Errorf("aggregate mismatch:\n got  %+v\n want %+v", got, want)
	}

	resp, err := http.Get(testServer.URL + "/inspection/projects/" + project.ID.String() + "/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from summary endpoint, got %d", resp.StatusCode)
	}
	var viaHTTP inspection.SummaryCounts
	if err := json.NewDecoder(resp.Body).Decode(&viaHTTP); err != nil {
		t.Fatalf("invalid summary JSON: %v", err)
	}
	if viaHTTP != want {
		t.Errorf("summary endpoint mismatch:\n got  %+v\n want %+v", viaHTTP, want)
	}
}

// TestAggregateEmptyProject verifies an observation-free scope yields
// all-zero counts.
func TestAggregateEmptyProject(t *testing.T) {
	project := createTestProject(t)

	got, err := inspection.AggregateProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("AggregateProject failed: %v", err)
	}
	if got != (inspection.SummaryCounts{}) {
		t.Errorf("expected all-zero counts, got %+v", got)
	}
}

// TestRefreshSummaryStat verifies the refresh endpoint materializes
// the live aggregate, and that recomputation stays correct after more
// observations arrive.
func TestRefreshSummaryStat(t *testing.T) {
	project := createTestProject(t)
	bridge := createTestBridge(t, project.ID)
	createTestObservation(t, bridge.ID, inspection.SeverityCleaning, inspection.SideBoth)

	resp, err := http.Post(testServer.URL+"/inspection/bridges/"+bridge.ID.String()+"/summary/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from refresh, got %d", resp.StatusCode)
	}
	var stat inspection.SummaryStat
	if err := json.NewDecoder(resp.Body).Decode(&stat); err != nil {
		t.Fatalf("invalid refresh JSON: %v", err)
	}
	if stat.CleaningTotal != 1 || stat.CleaningLHS != 0 || stat.CleaningRHS != 0 {
		t.Errorf("unexpected cleaning counts after first refresh: %+v", stat)
	}

	// The cache may go stale; a second refresh must catch up.
	createTestObservation(t, bridge.ID, inspection.SeverityCleaning, inspection.SideLHS)
	stat2, err := inspection.RefreshSummaryStat(context.Background(), bridge.ID)
	if err != nil {
		t.Fatalf("RefreshSummaryStat failed: %v", err)
	}
	if stat2.CleaningTotal != 2 || stat2.CleaningLHS != 1 {
		t.Errorf("unexpected cleaning counts after second refresh: %+v", stat2)
	}
	if stat2.BridgeID != bridge.ID {
		t.Errorf("expected bridge_id %s, got %s", bridge.ID, stat2.BridgeID)
	}
}

// TestImageSaveWithEnrichment verifies a saved image picks up the
// resolved place name, and that it is never overwritten afterwards.
func TestImageSaveWithEnrichment(t *testing.T) {
	project := createTestProject(t)
	bridge := createTestBridge(t, project.ID)
	obs := createTestObservation(t, bridge.ID, inspection.SeverityModerate, inspection.SideRHS)

	resolver := &namedResolver{name: "MG Road, Bengaluru"}
	installResolver(t, resolver)

	img := inspection.ObservationImage{
		ObservationID: obs.ID,
		ImagePath:     "observations/enrich-test.jpg",
		Latitude:      ptr(12.971600),
		Longitude:     ptr(77.594600),
	}
	if err := inspection.CreateObservationImage(context.Background(), &img); err != nil {
		t.Fatalf("failed to save image: %v", err)
	}

	var stored inspection.ObservationImage
	if err := db.DB.First(&stored, "id = ?", img.ID).Error; err != nil {
		t.Fatalf("failed to reload image: %v", err)
	}
	if stored.LocationName != "MG Road, Bengaluru" {
		t.Errorf("expected enriched location name, got %q", stored.LocationName)
	}

	// An update must keep the stored name even if the caller blanks it.
	resolver.name = "Somewhere Else"
	stored.LocationName = ""
	stored.Caption = "updated caption"
	if err := inspection.UpdateObservationImage(context.Background(), &stored); err != nil {
		t.Fatalf("failed to update image: %v", err)
	}
	var reloaded inspection.ObservationImage
	if err := db.DB.First(&reloaded, "id = ?", img.ID).Error; err != nil {
		t.Fatalf("failed to reload image: %v", err)
	}
	if reloaded.LocationName != "MG Road, Bengaluru" {
		t.Errorf("expected location name preserved, got %q", reloaded.LocationName)
	}
	if reloaded.Caption != "updated caption" {
		t.Errorf("expected caption updated, got %q", reloaded.Caption)
	}
}

// TestImageSaveSurvivesEnrichmentFailure verifies a geocoding failure
// leaves the record saved with an empty location name.
func TestImageSaveSurvivesEnrichmentFailure(t *testing.T) {
	project := createTestProject(t)
	bridge := createTestBridge(t, project.ID)
	obs := createTestObservation(t, bridge.ID, inspection.SeverityCritical, inspection.SideBoth)

	installResolver(t, &namedResolver{err: context.DeadlineExceeded})

	img := inspection.ObservationImage{
		ObservationID: obs.ID,
		ImagePath:     "observations/enrich-fail.jpg",
		Latitude:      ptr(12.971600),
		Longitude:     ptr(77.594600),
	}
	if err := inspection.CreateObservationImage(context.Background(), &img); err != nil {
		t.Fatalf("expected save to succeed despite enrichment failure, got: %v", err)
	}

	var stored inspection.ObservationImage
	if err := db.DB.First(&stored, "id = ?", img.ID).Error; err != nil {
		t.Fatalf("failed to reload image: %v", err)
	}
	if stored.LocationName != "" {
		t.Errorf("expected empty location name, got %q", stored.LocationName)
	}
}

// TestEnsureDefaultProjectIdempotent verifies repeated calls settle on
// the same project.
func TestEnsureDefaultProjectIdempotent(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	first, err := inspection.EnsureDefaultProject(context.Background())
	if err != nil {
		t.Fatalf("EnsureDefaultProject failed: %v", err)
	}
	second, err := inspection.EnsureDefaultProject(context.Background())
	if err != nil {
		t.Fatalf("EnsureDefaultProject failed on second call: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected the same project, got %s and %s", first.ID, second.ID)
	}
}

// TestDashboardEndpoint verifies the dashboard responds 200 with a
// well-formed payload.
func TestDashboardEndpoint(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	resp, err := http.Get(testServer.URL + "/inspection/dashboard")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Bridges      []inspection.Bridge        `json:"bridges"`
		Observations []inspection.Observation   `json:"observations"`
		SummaryStats []inspection.SummaryCounts `json:"summary_stats"`
		Sides        []string                   `json:"sides"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid dashboard JSON: %v", err)
	}
	if len(body.SummaryStats) != 1 {
		t.Errorf("expected exactly one aggregate, got %d", len(body.SummaryStats))
	}
	if len(body.Sides) != 2 || body.Sides[0] != "lhs" || body.Sides[1] != "rhs" {
		t.Errorf("expected sides [lhs rhs], got %v", body.Sides)
	}
}
