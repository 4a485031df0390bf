package services

import (
	"testing"

	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

// importTree loads a small two-bloc hierarchy so the deletion tests have
// something realistic to tear down.
func importTree(t *testing.T, db *gorm.DB, projetID uint) {
	t.Helper()
	payload := ImportPayload{Data: []ImportLot{{
		Name:  "Lot demolition",
		LotID: iptr(2),
		Ouvrages: []ImportOuvrage{{
			Name: "Murs",
			Articles: []ImportLine{
				{Designation: "Bloc porteurs", Type: "bloc", Qte: fptr(1), Pu: fptr(100)},
				{Designation: "Abattage", Type: "article", Qte: fptr(2), Pu: fptr(30)},
				{Designation: "Evacuation", Type: "article_ouvrage", Qte: fptr(1), Pu: fptr(80)},
				{Designation: "Bloc cloisons", Type: "bloc", Qte: fptr(1), Pu: fptr(50)},
				{Designation: "Depose", Type: "article", Qte: fptr(3), Pu: fptr(15)},
			},
		}},
	}}}
	if err := NewImportService(db).Run(projetID, payload); err != nil {
		t.Fatalf("import tree: %v", err)
	}
}

func TestLotDeleteRemovesWholeSubtree(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	importTree(t, db, projet.ID)

	var lot models.ProjetLot
	if err := db.Where("projet_id = ?", projet.ID).First(&lot).Error; err != nil {
		t.Fatalf("find lot: %v", err)
	}

	if err := NewLotService(db).Delete(lot.ID); err != nil {
		t.Fatalf("delete lot: %v", err)
	}

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"ouvrages", &models.Ouvrage{}},
		{"blocs", &models.Bloc{}},
		{"structures", &models.Structure{}},
		{"articles", &models.ProjetArticle{}},
		{"lots", &models.ProjetLot{}},
	} {
		if n := countRows(t, db, check.model, ""); n != 0 {
			t.Fatalf("%s left behind: %d rows", check.name, n)
		}
	}
	// The project itself survives.
	if n := countRows(t, db, &models.Projet{}, "id = ?", projet.ID); n != 1 {
		t.Fatalf("lot deletion must not remove the project")
	}
}

func TestBlocDeleteLeavesBottomStructureToOuvrage(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	importTree(t, db, projet.ID)

	var bloc models.Bloc
	if err := db.Order("id asc").First(&bloc).Error; err != nil {
		t.Fatalf("find bloc: %v", err)
	}
	bottomTag := models.OuvrageBottomAction(bloc.ID)
	if n := countRows(t, db, &models.Structure{}, "action = ?", bottomTag); n != 1 {
		t.Fatalf("fixture must have a bottom structure")
	}

	if err := NewBlocService(db).Delete(bloc.ID); err != nil {
		t.Fatalf("delete bloc: %v", err)
	}
	if n := countRows(t, db, &models.Structure{}, "bloc = ?", bloc.ID); n != 0 {
		t.Fatalf("attachment structures must go with the bloc")
	}
	// The ouvrage-bottom row belongs to the ouvrage and stays until the
	// ouvrage itself is deleted.
	if n := countRows(t, db, &models.Structure{}, "action = ?", bottomTag); n != 1 {
		t.Fatalf("bottom structure must survive the bloc deletion")
	}

	var ouvrage models.Ouvrage
	if err := db.First(&ouvrage).Error; err != nil {
		t.Fatalf("find ouvrage: %v", err)
	}
	if err := NewOuvrageService(db, nil).Delete(ouvrage.ID); err != nil {
		t.Fatalf("delete ouvrage: %v", err)
	}
	if n := countRows(t, db, &models.Structure{}, ""); n != 0 {
		t.Fatalf("ouvrage deletion must clear all remaining structures, %d left", n)
	}
	if n := countRows(t, db, &models.ProjetArticle{}, ""); n != 0 {
		t.Fatalf("ouvrage deletion must clear all remaining articles")
	}
}

func TestProjetDeleteRemovesEverything(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProjetService(db, nil)
	projet, err := svc.Create(ProjetInput{NomProjet: "Ephemere", TeamMembers: []string{"u1"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	importTree(t, db, projet.ID)

	if err := svc.Delete(projet.ID); err != nil {
		t.Fatalf("delete projet: %v", err)
	}
	for _, model := range []interface{}{
		&models.Projet{}, &models.ProjetEquipe{}, &models.ProjetLot{},
		&models.Ouvrage{}, &models.Bloc{}, &models.Structure{}, &models.ProjetArticle{},
	} {
		if n := countRows(t, db, model, ""); n != 0 {
			t.Fatalf("%T rows left behind: %d", model, n)
		}
	}
}
