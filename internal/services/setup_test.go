package services

import (
	"fmt"
	"testing"

	appdb "github.com/diewo77/go-chantier/internal/db"
	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// unique in-memory DB per test name to avoid leakage via shared cache
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := appdb.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProjet(t *testing.T, db *gorm.DB) *models.Projet {
	t.Helper()
	projet := models.Projet{NomProjet: "Chantier Test", Etat: "En cours"}
	if err := db.Create(&projet).Error; err != nil {
		t.Fatalf("seed projet: %v", err)
	}
	return &projet
}

func seedLot(t *testing.T, db *gorm.DB, projetID uint, code int) *models.ProjetLot {
	t.Helper()
	lot := models.ProjetLot{ProjetID: projetID, IDLot: code, DesignationLot: "Gros oeuvre"}
	if err := db.Create(&lot).Error; err != nil {
		t.Fatalf("seed lot: %v", err)
	}
	return &lot
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }
func uptr(v uint) *uint       { return &v }
