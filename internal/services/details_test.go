package services

import (
	"testing"

	"github.com/diewo77/go-chantier/internal/models"
)

func TestFullDetailsAssemblesTree(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	importTree(t, db, projet.ID)

	details, err := NewProjetService(db, nil).FullDetails(projet.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.Project.Lots) != 1 {
		t.Fatalf("expected 1 lot got %d", len(details.Project.Lots))
	}
	lot := details.Project.Lots[0]
	if len(lot.Ouvrages) != 1 {
		t.Fatalf("expected 1 ouvrage got %d", len(lot.Ouvrages))
	}
	ouvrage := lot.Ouvrages[0]
	if len(ouvrage.Blocs) != 2 {
		t.Fatalf("expected 2 blocs got %d", len(ouvrage.Blocs))
	}
	// The lot view repeats the blocs of its ouvrages.
	if len(lot.Blocs) != 2 {
		t.Fatalf("expected 2 aggregated blocs got %d", len(lot.Blocs))
	}

	// The first bloc carries one article through its attachment structure.
	first := ouvrage.Blocs[0]
	if len(first.Articles) != 1 || first.Articles[0].DesignationArticle != "Abattage" {
		t.Fatalf("unexpected first-bloc articles: %+v", first.Articles)
	}

	// The ouvrage's structures include the bottom container with its article.
	var bottomArticles []models.ProjetArticle
	for _, st := range ouvrage.Structures {
		if _, ok := st.BottomBlocID(); ok {
			bottomArticles = st.Articles
		}
	}
	if len(bottomArticles) != 1 || bottomArticles[0].DesignationArticle != "Evacuation" {
		t.Fatalf("unexpected bottom articles: %+v", bottomArticles)
	}
}

func TestFullDetailsPricingSumsLotTotals(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	for i, amounts := range [][2]float64{{100, 150}, {40, 60}} {
		lot := models.ProjetLot{ProjetID: projet.ID, IDLot: i + 1, PrixTotal: amounts[0], PrixVente: amounts[1]}
		if err := db.Create(&lot).Error; err != nil {
			t.Fatalf("seed lot: %v", err)
		}
	}

	details, err := NewProjetService(db, nil).FullDetails(projet.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	p := details.Pricing
	if p.TotalLotTTC != 140 || p.TotalVenteLot != 210 {
		t.Fatalf("lot totals: got %v / %v", p.TotalLotTTC, p.TotalVenteLot)
	}
	if p.TotalProjetTTC != 140 || p.TotalVenteProjet != 210 {
		t.Fatalf("projet totals mirror the lot totals: got %v / %v", p.TotalProjetTTC, p.TotalVenteProjet)
	}
}

func TestFullDetailsUnknownProjet(t *testing.T) {
	db := setupTestDB(t)
	if _, err := NewProjetService(db, nil).FullDetails(999); err != ErrProjetNotFound {
		t.Fatalf("expected ErrProjetNotFound got %v", err)
	}
}
