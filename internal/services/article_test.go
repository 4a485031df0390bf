package services

import (
	"errors"
	"testing"

	"github.com/diewo77/go-chantier/internal/models"
)

func articleFixtures(t *testing.T) (*ArticleService, *models.Ouvrage, *models.Bloc) {
	t.Helper()
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	lot := seedLot(t, db, projet.ID, 1)

	ouvrage := models.Ouvrage{NomOuvrage: "Plomberie", ProjetLotID: lot.ID}
	if err := db.Create(&ouvrage).Error; err != nil {
		t.Fatalf("seed ouvrage: %v", err)
	}
	bloc := models.Bloc{NomBloc: "Sanitaires", OuvrageID: &ouvrage.ID}
	if err := db.Create(&bloc).Error; err != nil {
		t.Fatalf("seed bloc: %v", err)
	}
	return NewArticleService(db, NewStructureService(db), nil), &ouvrage, &bloc
}

func TestArticleCreateAtBlocBottom(t *testing.T) {
	svc, _, bloc := articleFixtures(t)

	article, err := svc.Create(ArticleInput{
		DesignationArticle: "Evacuation PVC",
		Quantite:           3,
		NouvPrix:           42,
		BlocID:             &bloc.ID,
		Position:           "bottom",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if article.StructureID == nil {
		t.Fatalf("article was not attached")
	}
	var st models.Structure
	if err := svc.DB.First(&st, *article.StructureID).Error; err != nil {
		t.Fatalf("attachment: %v", err)
	}
	if st.Action != models.OuvrageBottomAction(bloc.ID) {
		t.Fatalf("unexpected attachment tag %q", st.Action)
	}
}

func TestArticleCreateWithoutAttachment(t *testing.T) {
	svc, _, _ := articleFixtures(t)

	article, err := svc.Create(ArticleInput{DesignationArticle: "Ligne libre"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if article.StructureID != nil {
		t.Fatalf("expected detached article, got structure %d", *article.StructureID)
	}
}

func TestArticleCreateUnknownStructureRollsBack(t *testing.T) {
	svc, _, _ := articleFixtures(t)

	_, err := svc.Create(ArticleInput{DesignationArticle: "Perdue", StructureID: uptr(999)})
	if !errors.Is(err, ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound got %v", err)
	}
	if n := countRows(t, svc.DB, &models.ProjetArticle{}, ""); n != 0 {
		t.Fatalf("failed create must write nothing")
	}
}

func TestArticleUpdateKeepsDesignationWhenOmitted(t *testing.T) {
	svc, _, _ := articleFixtures(t)

	article, err := svc.Create(ArticleInput{DesignationArticle: "Robinet", Unite: "u", Quantite: 1, NouvPrix: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(article.ID, ArticleInput{Quantite: 4, NouvPrix: 12})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DesignationArticle != "Robinet" || updated.Unite != "u" {
		t.Fatalf("blank designation/unite must not erase, got %q/%q", updated.DesignationArticle, updated.Unite)
	}
	if updated.Quantite != 4 || updated.NouvPrix != 12 {
		t.Fatalf("amounts not updated: %+v", updated)
	}
}

func TestArticleDelete(t *testing.T) {
	svc, _, _ := articleFixtures(t)

	article, err := svc.Create(ArticleInput{DesignationArticle: "Temporaire"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(article.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(article.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound got %v", err)
	}
}
