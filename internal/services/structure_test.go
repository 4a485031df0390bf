package services

import (
	"errors"
	"testing"

	"github.com/diewo77/go-chantier/internal/models"
)

func TestResolveExplicitStructure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStructureService(db)

	st := models.Structure{Action: "libre"}
	if err := db.Create(&st).Error; err != nil {
		t.Fatalf("seed structure: %v", err)
	}

	got, err := svc.Resolve(db, ResolveInput{StructureID: &st.ID})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != st.ID {
		t.Fatalf("expected structure %d got %d", st.ID, got.ID)
	}

	if _, err := svc.Resolve(db, ResolveInput{StructureID: uptr(999)}); !errors.Is(err, ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound got %v", err)
	}
}

func TestResolveBottomIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	projet := seedProjet(t, db)
	lot := seedLot(t, db, projet.ID, 1)
	svc := NewStructureService(db)

	ouvrage := models.Ouvrage{NomOuvrage: "Toiture", ProjetLotID: lot.ID}
	if err := db.Create(&ouvrage).Error; err != nil {
		t.Fatalf("seed ouvrage: %v", err)
	}
	bloc := models.Bloc{NomBloc: "Couverture", OuvrageID: &ouvrage.ID}
	if err := db.Create(&bloc).Error; err != nil {
		t.Fatalf("seed bloc: %v", err)
	}

	first, err := svc.Resolve(db, ResolveInput{BlocID: &bloc.ID, Position: "bottom"})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := svc.Resolve(db, ResolveInput{BlocID: &bloc.ID, Position: "Bottom"})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("bottom resolution created a second row: %d vs %d", first.ID, second.ID)
	}
	if first.Action != models.OuvrageBottomAction(bloc.ID) {
		t.Fatalf("unexpected tag %q", first.Action)
	}
	if n := countRows(t, db, &models.Structure{}, "action = ?", first.Action); n != 1 {
		t.Fatalf("expected exactly one bottom structure got %d", n)
	}
}

func TestResolveBottomRejectsDetachedBloc(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStructureService(db)

	bloc := models.Bloc{NomBloc: "Flottant"}
	if err := db.Create(&bloc).Error; err != nil {
		t.Fatalf("seed bloc: %v", err)
	}

	if _, err := svc.Resolve(db, ResolveInput{BlocID: &bloc.ID, Position: "bottom"}); !errors.Is(err, ErrBlocDetached) {
		t.Fatalf("expected ErrBlocDetached got %v", err)
	}
	if _, err := svc.Resolve(db, ResolveInput{BlocID: uptr(999), Position: "bottom"}); !errors.Is(err, ErrBlocNotFound) {
		t.Fatalf("expected ErrBlocNotFound got %v", err)
	}
}

func TestResolveWithoutPositioning(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStructureService(db)

	got, err := svc.Resolve(db, ResolveInput{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no structure, got %d", got.ID)
	}
	// A bloc id without the bottom position is ignored too.
	got, err = svc.Resolve(db, ResolveInput{BlocID: uptr(1), Position: "top"})
	if err != nil || got != nil {
		t.Fatalf("expected nil/nil got %v/%v", got, err)
	}
}

func TestStructureDeleteRemovesArticles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStructureService(db)

	st := models.Structure{Action: "libre"}
	if err := db.Create(&st).Error; err != nil {
		t.Fatalf("seed structure: %v", err)
	}
	article := models.ProjetArticle{DesignationArticle: "Ligne", StructureID: &st.ID}
	if err := db.Create(&article).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}

	if err := svc.Delete(st.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := countRows(t, db, &models.ProjetArticle{}, ""); n != 0 {
		t.Fatalf("articles must be removed with their structure")
	}
	if err := svc.Delete(st.ID); !errors.Is(err, ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound got %v", err)
	}
}
