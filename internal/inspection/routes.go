package inspection

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/dashboard", DashboardHandler)
	r.Get("/map-viewer", MapViewerHandler)

	r.Post("/projects", CreateProjectHandler)
	r.Get("/projects", ListProjectsHandler)
	r.Get("/projects/{project_id}", GetProjectHandler)
	r.Delete("/projects/{project_id}", DeleteProjectHandler)
	r.Get("/projects/{project_id}/bridges", ListBridgesHandler)
	r.Get("/projects/{project_id}/summary", ProjectSummaryHandler)

	r.Post("/bridges", CreateBridgeHandler)
	r.Patch("/bridges/{bridge_id}", UpdateBridgeHandler)
	r.Delete("/bridges/{bridge_id}", DeleteBridgeHandler)
	r.Get("/bridges/{bridge_id}/observations", ListObservationsHandler)
	r.Post("/bridges/{bridge_id}/summary/refresh", RefreshSummaryHandler)

	r.Post("/observations", CreateObservationHandler)
	r.Patch("/observations/{observation_id}", UpdateObservationHandler)
	r.Delete("/observations/{observation_id}", DeleteObservationHandler)
	r.Get("/observations/{observation_id}/images", ListImagesHandler)

	r.Post("/images", CreateImageHandler)
	r.Patch("/images/{image_id}", UpdateImageHandler)
	r.Delete("/images/{image_id}", DeleteImageHandler)

	return r
}
