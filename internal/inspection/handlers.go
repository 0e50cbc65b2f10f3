package inspection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Map-viewer defaults (central Delhi).
const (
	defaultMapLat   = "28.6139"
	defaultMapLng   = "77.2090"
	defaultMapTitle = "Observation Location"
)

type dashboardResponse struct {
	Project      *Project        `json:"project"`
	Bridges      []Bridge        `json:"bridges"`
	Observations []Observation   `json:"observations"`
	SummaryStats []SummaryCounts `json:"summary_stats"`
	Sides        []string        `json:"sides"`
}

func emptyDashboard() *dashboardResponse {
	return &dashboardResponse{
		Bridges:      []Bridge{},
		Observations: []Observation{},
		SummaryStats: []SummaryCounts{{}},
		Sides:        []string{SideLHS, SideRHS},
	}
}

func buildDashboard(ctx context.Context) (*dashboardResponse, error) {
	if db.DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	var project Project
	if err := db.DB.WithContext(ctx).Order("created_at asc").First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No project yet: an empty dashboard, not an error.
			return emptyDashboard(), nil
		}
		return nil, err
	}

	bridges := []Bridge{}
	if err := db.DB.WithContext(ctx).Where("project_id = ?", project.ID).Order("created_at asc").Find(&bridges).Error; err != nil {
		return nil, err
	}

	observations := []Observation{}
	if len(bridges) > 0 {
		ids := make([]uuid.UUID, 0, len(bridges))
		for _, b := range bridges {
			ids = append(ids, b.ID)
		}
		if err := db.DB.WithContext(ctx).Preload("Images").Where("bridge_id IN ?", ids).Order("created_at asc").Find(&observations).Error; err != nil {
			return nil, err
		}
	}

	counts, err := AggregateProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return &dashboardResponse{
		Project:      &project,
		Bridges:      bridges,
		Observations: observations,
		SummaryStats: []SummaryCounts{counts},
		Sides:        []string{SideLHS, SideRHS},
	}, nil
}

// DashboardHandler serves the default-project listing: bridges,
// observations with their images, and the live aggregate. Any failure
// while assembling the payload degrades to an empty dashboard rather
// than an error response.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := buildDashboard(r.Context())
	if err != nil {
		log.Printf("Dashboard assembly failed: %v", err)
		resp = emptyDashboard()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// MapViewerHandler echoes the requested map center back to the
// rendering layer. Values are defaulted when absent and otherwise
// passed through as-is.
func MapViewerHandler(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	if lat == "" {
		lat = defaultMapLat
	}
	lng := r.URL.Query().Get("lng")
	if lng == "" {
		lng = defaultMapLng
	}
	title := r.URL.Query().Get("title")
	if title == "" {
		title = defaultMapTitle
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"lat":   lat,
		"lng":   lng,
		"title": title,
	})
}

// writeStoreError maps the store's error taxonomy onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var nfe *NotFoundError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.As(err, &nfe):
		http.Error(w, nfe.Error(), http.StatusNotFound)
	default:
		log.Printf("Store error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		http.Error(w, "Invalid "+param, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var project Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := CreateProject(r.Context(), &project); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects := []Project{}
	if err := db.DB.WithContext(r.Context()).Order("created_at asc").Find(&projects).Error; err != nil {
		http.Error(w, "Failed to fetch projects: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "project_id")
	if !ok {
		return
	}

	project, err := GetProject(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "project_id")
	if !ok {
		return
	}

	if err := DeleteProject(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func CreateBridgeHandler(w http.ResponseWriter, r *http.Request) {
	var bridge Bridge
	if err := json.NewDecoder(r.Body).Decode(&bridge); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := CreateBridge(r.Context(), &bridge); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bridge)
}

func ListBridgesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "project_id")
	if !ok {
		return
	}

	bridges := []Bridge{}
	query := db.DB.WithContext(r.Context()).Where("project_id = ?", id)

	// Optional condition filter, e.g. ?rating=critical
	if rating := r.URL.Query().Get("rating"); rating != "" {
		query = query.Where("rating = ?", rating)
	}

	if err := query.Order("created_at asc").Find(&bridges).Error; err != nil {
		http.Error(w, "Failed to fetch bridges: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bridges)
}

func UpdateBridgeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "bridge_id")
	if !ok {
		return
	}

	var bridge Bridge
	if err := db.DB.WithContext(r.Context()).First(&bridge, "id = ?", id).Error; err != nil {
		writeStoreError(w, &NotFoundError{Resource: "bridge", ID: id.String()})
		return
	}

	projectID := bridge.ProjectID
	if err := json.NewDecoder(r.Body).Decode(&bridge); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	bridge.ID = id
	bridge.ProjectID = projectID

	if err := UpdateBridge(r.Context(), &bridge); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bridge)
}

func DeleteBridgeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "bridge_id")
	if !ok {
		return
	}

	if err := DeleteBridge(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func CreateObservationHandler(w http.ResponseWriter, r *http.Request) {
	var obs Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := CreateObservation(r.Context(), &obs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, obs)
}

func ListObservationsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "bridge_id")
	if !ok {
		return
	}

	query := db.DB.WithContext(r.Context()).Preload("Images").Where("bridge_id = ?", id)

	if severity := r.URL.Query().Get("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if side := r.URL.Query().Get("side"); side != "" {
		query = query.Where("side = ?", side)
	}

	observations := []Observation{}
	if err := query.Order("created_at asc").Find(&observations).Error; err != nil {
		http.Error(w, "Failed to fetch observations: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, observations)
}

func UpdateObservationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "observation_id")
	if !ok {
		return
	}

	var obs Observation
	if err := db.DB.WithContext(r.Context()).First(&obs, "id = ?", id).Error; err != nil {
		writeStoreError(w, &NotFoundError{Resource: "observation", ID: id.String()})
		return
	}

	bridgeID := obs.BridgeID
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	obs.ID = id
	obs.BridgeID = bridgeID

	if err := UpdateObservation(r.Context(), &obs); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, obs)
}

func DeleteObservationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "observation_id")
	if !ok {
		return
	}

	if err := DeleteObservation(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func CreateImageHandler(w http.ResponseWriter, r *http.Request) {
	var img ObservationImage
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := CreateObservationImage(r.Context(), &img); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func ListImagesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "observation_id")
	if !ok {
		return
	}

	images := []ObservationImage{}
	if err := db.DB.WithContext(r.Context()).Where("observation_id = ?", id).Order("timestamp asc").Find(&images).Error; err != nil {
		http.Error(w, "Failed to fetch images: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func UpdateImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "image_id")
	if !ok {
		return
	}

	var img ObservationImage
	if err := db.DB.WithContext(r.Context()).First(&img, "id = ?", id).Error; err != nil {
		writeStoreError(w, &NotFoundError{Resource: "image", ID: id.String()})
		return
	}

	observationID := img.ObservationID
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	img.ID = id
	img.ObservationID = observationID

	if err := UpdateObservationImage(r.Context(), &img); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "image_id")
	if !ok {
		return
	}

	if err := DeleteObservationImage(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProjectSummaryHandler returns the live aggregate for a project.
func ProjectSummaryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "project_id")
	if !ok {
		return
	}

	if err := ensureProject(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	counts, err := AggregateProject(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to aggregate observations: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// RefreshSummaryHandler materializes a bridge's summary_stats row from
// the live aggregate and returns the stored row.
func RefreshSummaryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "bridge_id")
	if !ok {
		return
	}

	stat, err := RefreshSummaryStat(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}
