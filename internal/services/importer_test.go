package services

import (
	"errors"
	"testing"

	"github.com/diewo77/go-chantier/internal/models"
)

func TestImportGroupsLinesUnderCurrentBloc(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{
		Name:  "Lot 1",
		LotID: iptr(12),
		Ouvrages: []ImportOuvrage{{
			Name: "Fondations",
			Articles: []ImportLine{
				{Designation: "Bloc semelles", Type: "bloc", Qte: fptr(1), Pu: fptr(100)},
				{Designation: "Beton C25", Type: "article", Qte: fptr(2), Pu: fptr(50)},
				{Designation: "Acier HA", Type: "article", Qte: fptr(3), Pu: fptr(10)},
				{Designation: "Bloc longrines", Type: "bloc", Qte: fptr(1), Pu: fptr(200)},
				{Designation: "Coffrage", Type: "article", Qte: fptr(4), Pu: fptr(25)},
			},
		}},
	}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("run: %v", err)
	}

	var blocs []models.Bloc
	if err := db.Order("id asc").Find(&blocs).Error; err != nil {
		t.Fatalf("find blocs: %v", err)
	}
	if len(blocs) != 2 {
		t.Fatalf("expected 2 blocs got %d", len(blocs))
	}

	// Each bloc has exactly one attachment structure; the articles between the
	// two bloc lines belong to the first, the trailing article to the second.
	var first, second models.Structure
	if err := db.Where("bloc = ?", blocs[0].ID).First(&first).Error; err != nil {
		t.Fatalf("first attachment: %v", err)
	}
	if err := db.Where("bloc = ?", blocs[1].ID).First(&second).Error; err != nil {
		t.Fatalf("second attachment: %v", err)
	}
	if n := countRows(t, db, &models.ProjetArticle{}, "structure = ?", first.ID); n != 2 {
		t.Fatalf("expected 2 articles under first bloc got %d", n)
	}
	if n := countRows(t, db, &models.ProjetArticle{}, "structure = ?", second.ID); n != 1 {
		t.Fatalf("expected 1 article under second bloc got %d", n)
	}
}

func TestImportPlainArticleWithoutBlocUsesDefaultContainer(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{
		Name:  "Lot seul",
		LotID: iptr(3),
		Ouvrages: []ImportOuvrage{{
			Name: "Terrassement",
			Articles: []ImportLine{
				{Designation: "Deblais", Unite: "m3", Type: "article", Qte: fptr(10), Pu: fptr(8)},
			},
		}},
	}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("run: %v", err)
	}

	var st models.Structure
	if err := db.Where("action = ?", models.ActionImported).First(&st).Error; err != nil {
		t.Fatalf("default structure: %v", err)
	}
	if st.BlocID != nil {
		t.Fatalf("default structure must not reference a bloc")
	}
	if n := countRows(t, db, &models.ProjetArticle{}, "structure = ?", st.ID); n != 1 {
		t.Fatalf("expected 1 article got %d", n)
	}
}

func TestImportArticleAmounts(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{
		Name:  "Lot",
		LotID: iptr(1),
		Ouvrages: []ImportOuvrage{{
			Name: "Maconnerie",
			Articles: []ImportLine{
				{Designation: "Parpaing", Unite: "u", Type: "article", Qte: fptr(5), Pu: fptr(12.5)},
			},
		}},
	}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("run: %v", err)
	}

	var article models.ProjetArticle
	if err := db.First(&article).Error; err != nil {
		t.Fatalf("find article: %v", err)
	}
	if article.Quantite != 5 {
		t.Fatalf("quantite: got %d", article.Quantite)
	}
	if article.PU != 12.5 || article.NouvPrix != 12.5 {
		t.Fatalf("pu/nouvPrix: got %v / %v", article.PU, article.NouvPrix)
	}
	if article.PrixTotalHt != 62.5 || article.TotalTTC != 62.5 {
		t.Fatalf("totals: got ht=%v ttc=%v", article.PrixTotalHt, article.TotalTTC)
	}
	if article.UniteImport != "u" {
		t.Fatalf("uniteImport: got %q", article.UniteImport)
	}
}

func TestImportMissingAmountsMeanZero(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{
		Name:  "Lot",
		LotID: iptr(1),
		Ouvrages: []ImportOuvrage{{
			Name: "Divers",
			Articles: []ImportLine{
				{Designation: "Sans quantite", Type: "article"},
			},
		}},
	}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("run: %v", err)
	}

	var article models.ProjetArticle
	if err := db.First(&article).Error; err != nil {
		t.Fatalf("find article: %v", err)
	}
	if article.Quantite != 0 || article.PU != 0 || article.PrixTotalHt != 0 || article.TotalTTC != 0 {
		t.Fatalf("expected zeroed amounts, got %+v", article)
	}
}

func TestImportArticleOuvrageGoesToBlocBottom(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{
		Name:  "Lot",
		LotID: iptr(7),
		Ouvrages: []ImportOuvrage{{
			Name: "Charpente",
			Articles: []ImportLine{
				{Designation: "Bloc fermes", Type: "bloc", Qte: fptr(1), Pu: fptr(500)},
				{Designation: "Levage", Type: "article_ouvrage", Qte: fptr(1), Pu: fptr(300)},
			},
		}},
	}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("run: %v", err)
	}

	var bloc models.Bloc
	if err := db.First(&bloc).Error; err != nil {
		t.Fatalf("find bloc: %v", err)
	}
	var bottom models.Structure
	if err := db.Where("action = ?", models.OuvrageBottomAction(bloc.ID)).First(&bottom).Error; err != nil {
		t.Fatalf("bottom structure: %v", err)
	}
	if bottom.BlocID != nil {
		t.Fatalf("bottom structure carries the bloc only in its tag")
	}
	if n := countRows(t, db, &models.ProjetArticle{}, "structure = ?", bottom.ID); n != 1 {
		t.Fatalf("expected 1 bottom article got %d", n)
	}
	// The attachment structure keeps zero articles.
	var attachment models.Structure
	if err := db.Where("bloc = ?", bloc.ID).First(&attachment).Error; err != nil {
		t.Fatalf("attachment: %v", err)
	}
	if n := countRows(t, db, &models.ProjetArticle{}, "structure = ?", attachment.ID); n != 0 {
		t.Fatalf("attachment must stay empty, got %d articles", n)
	}
}

func TestImportReusesLotByExternalCode(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{
		Name:     "Lot 4",
		LotID:    iptr(4),
		Ouvrages: []ImportOuvrage{{Name: "Un"}},
	}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n := countRows(t, db, &models.ProjetLot{}, "projet_id = ? AND id_lot = ?", projet.ID, 4); n != 1 {
		t.Fatalf("expected one lot for code 4 got %d", n)
	}
	// The ouvrage is never merged: two runs, two rows.
	if n := countRows(t, db, &models.Ouvrage{}, ""); n != 2 {
		t.Fatalf("expected 2 ouvrages got %d", n)
	}
}

func TestImportLotWithoutCodeAlwaysCreates(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	svc := NewImportService(db)

	payload := ImportPayload{Data: []ImportLot{{Name: "Sans code"}}}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := svc.Run(projet.ID, payload); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n := countRows(t, db, &models.ProjetLot{}, "projet_id = ? AND id_lot = ?", projet.ID, 0); n != 2 {
		t.Fatalf("expected 2 codeless lots got %d", n)
	}
}

func TestImportUnknownProjet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db)

	err := svc.Run(999, ImportPayload{Data: []ImportLot{{Name: "Lot"}}})
	if !errors.Is(err, ErrProjetNotFound) {
		t.Fatalf("expected ErrProjetNotFound got %v", err)
	}
	if n := countRows(t, db, &models.ProjetLot{}, ""); n != 0 {
		t.Fatalf("nothing may be written for an unknown project")
	}
}
