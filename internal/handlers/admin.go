package handlers

import (
	"net/http"

	"github.com/diewo77/go-chantier/internal/httpx"
	"github.com/diewo77/go-chantier/internal/services"

	"gorm.io/gorm"
)

type AdminHandler struct{ DB *gorm.DB }

func NewAdminHandler(db *gorm.DB) *AdminHandler { return &AdminHandler{DB: db} }

// FixBlocIDs sweeps blocs whose id clashes with an ouvrage id and renumbers
// them, repointing child structures. Intended for one-off cleanup of data
// created before collisions were resolved at insert time.
func (h *AdminHandler) FixBlocIDs(w http.ResponseWriter, r *http.Request) {
	moved, err := services.FixBlocIDCollisions(h.DB)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok", "renumbered": moved})
}
