package services

import (
	"errors"

	"github.com/diewo77/go-chantier/internal/events"
	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

type ArticleService struct {
	DB         *gorm.DB
	Structures *StructureService
	Events     *events.Producer
}

func NewArticleService(db *gorm.DB, structures *StructureService, ev *events.Producer) *ArticleService {
	return &ArticleService{DB: db, Structures: structures, Events: ev}
}

// ArticleInput carries the article fields plus the attachment request handed
// to the structure locator (structureId wins over blocId+position).
type ArticleInput struct {
	Article            *int    `json:"article"`
	Quantite           int     `json:"quantite"`
	PU                 float64 `json:"pu"`
	PrixTotalHt        float64 `json:"prixTotalHt"`
	TVA                float64 `json:"tva"`
	TotalTTC           float64 `json:"totalTtc"`
	Localisation       string  `json:"localisation"`
	Description        string  `json:"description"`
	NouvPrix           float64 `json:"nouvPrix"`
	DesignationArticle string  `json:"designationArticle"`
	ArticleImport      string  `json:"articleImport"`
	Unite              string  `json:"unite"`
	UniteImport        string  `json:"uniteImport"`
	StructureID        *uint   `json:"structureId"`
	BlocID             *uint   `json:"blocId"`
	Position           string  `json:"position"`
}

func (s *ArticleService) List() ([]models.ProjetArticle, error) {
	var articles []models.ProjetArticle
	if err := s.DB.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleService) ListByStructure(structureID uint) ([]models.ProjetArticle, error) {
	var articles []models.ProjetArticle
	if err := s.DB.Where("structure = ?", structureID).Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleService) Get(id uint) (*models.ProjetArticle, error) {
	var article models.ProjetArticle
	if err := s.DB.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (s *ArticleService) Create(in ArticleInput) (*models.ProjetArticle, error) {
	var saved models.ProjetArticle
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		target, err := s.Structures.Resolve(tx, ResolveInput{StructureID: in.StructureID, BlocID: in.BlocID, Position: in.Position})
		if err != nil {
			return err
		}
		saved = models.ProjetArticle{
			Article:            in.Article,
			Quantite:           in.Quantite,
			PU:                 in.PU,
			PrixTotalHt:        in.PrixTotalHt,
			TVA:                in.TVA,
			TotalTTC:           in.TotalTTC,
			Localisation:       in.Localisation,
			Description:        in.Description,
			NouvPrix:           in.NouvPrix,
			DesignationArticle: in.DesignationArticle,
			ArticleImport:      in.ArticleImport,
			Unite:              in.Unite,
			UniteImport:        in.UniteImport,
		}
		if target != nil {
			saved.StructureID = &target.ID
		}
		return tx.Create(&saved).Error
	})
	if err != nil {
		return nil, err
	}

	lineage, userID := s.lineage(saved.StructureID)
	s.Events.ArticleCreated(lineage, saved.ID, saved.Article, saved.DesignationArticle, saved.Quantite, saved.NouvPrix, userID)

	return &saved, nil
}

func (s *ArticleService) Update(id uint, in ArticleInput) (*models.ProjetArticle, error) {
	article, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	// Field-level change log for the notification stream.
	changes := map[string]any{}
	if in.NouvPrix != article.NouvPrix {
		changes["nouv_prix"] = map[string]any{"old": article.NouvPrix, "new": in.NouvPrix}
	}
	if in.Quantite != article.Quantite {
		changes["quantite"] = map[string]any{"old": article.Quantite, "new": in.Quantite}
	}
	if in.TVA != article.TVA {
		changes["tva"] = map[string]any{"old": article.TVA, "new": in.TVA}
	}
	if in.DesignationArticle != "" && in.DesignationArticle != article.DesignationArticle {
		changes["designation_article"] = map[string]any{"old": article.DesignationArticle, "new": in.DesignationArticle}
	}

	if in.Article != nil {
		article.Article = in.Article
	}
	article.Quantite = in.Quantite
	article.PU = in.PU
	article.PrixTotalHt = in.PrixTotalHt
	article.TVA = in.TVA
	article.TotalTTC = in.TotalTTC
	article.Localisation = in.Localisation
	article.Description = in.Description
	article.NouvPrix = in.NouvPrix
	if in.DesignationArticle != "" {
		article.DesignationArticle = in.DesignationArticle
	}
	article.ArticleImport = in.ArticleImport
	if in.Unite != "" {
		article.Unite = in.Unite
	}
	if in.UniteImport != "" {
		article.UniteImport = in.UniteImport
	}

	if err := s.DB.Save(article).Error; err != nil {
		return nil, err
	}

	lineage, userID := s.lineage(article.StructureID)
	s.Events.ArticleUpdated(lineage, article.ID, article.Article, changes, userID)

	return article, nil
}

func (s *ArticleService) Delete(id uint) error {
	article, err := s.Get(id)
	if err != nil {
		return err
	}
	lineage, userID := s.lineage(article.StructureID)
	s.Events.ArticleDeleted(lineage, article.ID, article.Article, article.DesignationArticle, article.Quantite, userID)
	return s.DB.Delete(&models.ProjetArticle{}, id).Error
}

// lineage walks structure -> (bloc ->) ouvrage -> lot -> projet to locate the
// article in the hierarchy for event metadata. Best effort: any missing link
// just truncates the lineage, it never fails the calling operation.
func (s *ArticleService) lineage(structureID *uint) (events.ArticleLineage, string) {
	var l events.ArticleLineage
	if structureID == nil {
		return l, ""
	}
	var structure models.Structure
	if err := s.DB.First(&structure, *structureID).Error; err != nil {
		return l, ""
	}
	l.BlocID = structure.BlocID

	ouvrageID := structure.OuvrageID
	if ouvrageID == nil && structure.BlocID != nil {
		var bloc models.Bloc
		if err := s.DB.First(&bloc, *structure.BlocID).Error; err == nil {
			ouvrageID = bloc.OuvrageID
		}
	}
	if ouvrageID == nil {
		return l, ""
	}
	l.OuvrageID = ouvrageID

	var ouvrage models.Ouvrage
	if err := s.DB.First(&ouvrage, *ouvrageID).Error; err != nil {
		return l, ""
	}
	var lot models.ProjetLot
	if err := s.DB.First(&lot, ouvrage.ProjetLotID).Error; err != nil {
		return l, ""
	}
	l.LotCode = &lot.IDLot

	var projet models.Projet
	if err := s.DB.First(&projet, lot.ProjetID).Error; err != nil {
		return l, ""
	}
	l.ProjetID = &projet.ID
	return l, projet.AjoutePar
}
