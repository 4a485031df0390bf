package server

import (
	"log"
	"net/http"
	"time"

	"github.com/diewo77/go-chantier/internal/auth"
	"github.com/diewo77/go-chantier/internal/events"
	"github.com/diewo77/go-chantier/internal/handlers"
	"github.com/diewo77/go-chantier/internal/httpx"
	"github.com/diewo77/go-chantier/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
// Identity comes from the gateway header; there is no session layer here.
func New(db *gorm.DB, producer *events.Producer) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	structureSvc := services.NewStructureService(db)

	projetSvc := services.NewProjetService(db, producer)
	importSvc := services.NewImportService(db)
	ph := handlers.NewProjetHandler(projetSvc, importSvc)
	mux.HandleFunc("GET /api/projets", ph.List)
	mux.HandleFunc("POST /api/projets", ph.Create)
	mux.HandleFunc("GET /api/projets/{id}", ph.Get)
	mux.HandleFunc("PUT /api/projets/{id}", ph.Update)
	mux.HandleFunc("DELETE /api/projets/{id}", ph.Delete)
	mux.HandleFunc("POST /api/projets/{id}/import-dpgf-data", ph.ImportDPGF)
	mux.HandleFunc("GET /api/projet-details/{id}/details", ph.Details)

	lh := handlers.NewLotHandler(services.NewLotService(db))
	mux.HandleFunc("GET /api/projet-details/lots", lh.List)
	mux.HandleFunc("POST /api/projet-details/lots", lh.Create)
	mux.HandleFunc("GET /api/projet-details/lots/{id}", lh.Get)
	mux.HandleFunc("PUT /api/projet-details/lots/{id}", lh.Update)
	mux.HandleFunc("DELETE /api/projet-details/lots/{id}", lh.Delete)

	oh := handlers.NewOuvrageHandler(services.NewOuvrageService(db, producer))
	mux.HandleFunc("GET /api/ouvrages", oh.List)
	mux.HandleFunc("POST /api/ouvrages", oh.Create)
	mux.HandleFunc("GET /api/ouvrages/{id}", oh.Get)
	mux.HandleFunc("PUT /api/ouvrages/{id}", oh.Update)
	mux.HandleFunc("DELETE /api/ouvrages/{id}", oh.Delete)
	mux.HandleFunc("POST /api/ouvrages/{id}/duplicate", oh.Duplicate)

	bh := handlers.NewBlocHandler(services.NewBlocService(db))
	mux.HandleFunc("GET /api/blocs", bh.List)
	mux.HandleFunc("POST /api/blocs", bh.Create)
	mux.HandleFunc("GET /api/blocs/{id}", bh.Get)
	mux.HandleFunc("PUT /api/blocs/{id}", bh.Update)
	mux.HandleFunc("DELETE /api/blocs/{id}", bh.Delete)

	sh := handlers.NewStructureHandler(structureSvc)
	mux.HandleFunc("GET /api/structures", sh.List)
	mux.HandleFunc("POST /api/structures", sh.Create)
	mux.HandleFunc("GET /api/structures/{id}", sh.Get)
	mux.HandleFunc("PUT /api/structures/{id}", sh.Update)
	mux.HandleFunc("DELETE /api/structures/{id}", sh.Delete)

	ah := handlers.NewArticleHandler(services.NewArticleService(db, structureSvc, producer))
	mux.HandleFunc("GET /api/projets/articles", ah.List)
	mux.HandleFunc("POST /api/projets/articles", ah.Create)
	mux.HandleFunc("GET /api/projets/articles/{id}", ah.Get)
	mux.HandleFunc("PUT /api/projets/articles/{id}", ah.Update)
	mux.HandleFunc("DELETE /api/projets/articles/{id}", ah.Delete)

	adm := handlers.NewAdminHandler(db)
	mux.HandleFunc("POST /api/admin/fix-bloc-ids", adm.FixBlocIDs)

	return withRecover(withLogging(auth.Middleware(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
