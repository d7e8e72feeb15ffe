package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router groups the handlers served by the API
type Router struct {
	Middleware *Middleware
	Catalog    *CatalogHandler
	Children   *ChildHandler
	Emotion    *EmotionHandler
	Auth       *AuthHandler
	Outcome    *OutcomeHandler
	CORS       []string
}

// Handler registers every route and wraps the mux in the shared middleware
func (rt *Router) Handler() http.Handler {
	mw := rt.Middleware
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Catalog and recommendations
	mux.HandleFunc("GET /api/activities", rt.Catalog.ListActivities)
	mux.HandleFunc("GET /api/activities/{id}", rt.Catalog.GetActivity)
	mux.HandleFunc("GET /api/categories", rt.Catalog.ListCategories)
	mux.HandleFunc("GET /api/children", rt.Catalog.ListChildren)
	mux.HandleFunc("GET /api/children/{id}", rt.Catalog.GetChild)
	mux.HandleFunc("POST /api/children", mw.RequireAuth(rt.Children.Create))
	mux.HandleFunc("PUT /api/children/{id}", mw.RequireAuth(rt.Children.Update))
	mux.HandleFunc("GET /api/recommendations/{childId}", rt.Catalog.Recommendations)

	// Emotion state
	mux.HandleFunc("POST /api/children/{id}/emotion", mw.RequireAuth(rt.Emotion.SetEmotion))
	mux.HandleFunc("POST /api/children/{id}/emotion/prediction", mw.RequireAuth(rt.Emotion.ApplyPrediction))
	mux.HandleFunc("POST /api/children/{id}/emotion/recognize", mw.RateLimit(mw.RequireAuth(rt.Emotion.Recognize)))
	mux.HandleFunc("GET /api/children/{id}/emotion/history", rt.Emotion.History)
	mux.HandleFunc("GET /api/ml/health", rt.Emotion.MLHealth)

	// Caregiver accounts
	mux.HandleFunc("POST /api/auth/register", mw.RateLimit(rt.Auth.Register))
	mux.HandleFunc("POST /api/auth/login", mw.RateLimit(rt.Auth.Login))
	mux.HandleFunc("GET /api/auth/me", mw.RequireAuth(rt.Auth.Me))

	// Activity outcomes
	mux.HandleFunc("POST /api/outcomes", mw.RequireAuth(rt.Outcome.Create))
	mux.HandleFunc("GET /api/outcomes", rt.Outcome.List)
	mux.HandleFunc("GET /api/outcomes/{id}", rt.Outcome.Get)

	origins := rt.CORS
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return RequestID(CORS(origins)(Logging(mux)))
}

// Healthz is the liveness probe
func Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
