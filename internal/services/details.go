package services

import (
	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

// Read-side assembly of the full project tree, plus the pricing roll-up. The
// roll-up is a shallow sum over the lots' materialized totals; leaf amounts
// are trusted as written, never recomputed here.

type ProjetDetails struct {
	Project ProjetView  `json:"project"`
	Pricing PricingView `json:"pricing"`
}

type PricingView struct {
	TotalLotTTC      float64 `json:"totalLotTTC"`
	TotalVenteLot    float64 `json:"totalVenteLot"`
	TotalProjetTTC   float64 `json:"totalProjetTTC"`
	TotalVenteProjet float64 `json:"totalVenteProjet"`
}

type ProjetView struct {
	models.Projet
	Lots []LotView `json:"lots"`
}

type LotView struct {
	models.ProjetLot
	Ouvrages []OuvrageView `json:"ouvrages"`
	// Blocs aggregates the blocs of every ouvrage in the lot.
	Blocs []BlocView `json:"blocs"`
}

type OuvrageView struct {
	models.Ouvrage
	Structures []StructureView `json:"structures"`
	Blocs      []BlocView      `json:"blocs"`
}

type BlocView struct {
	models.Bloc
	Structures []StructureView        `json:"structures"`
	Articles   []models.ProjetArticle `json:"articles"`
}

type StructureView struct {
	models.Structure
	Articles []models.ProjetArticle `json:"articles"`
}

// FullDetails rebuilds the nested tree for one project.
func (s *ProjetService) FullDetails(id uint) (*ProjetDetails, error) {
	projet, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var lots []models.ProjetLot
	if err := s.DB.Where("projet_id = ?", id).Find(&lots).Error; err != nil {
		return nil, err
	}

	view := ProjetView{Projet: *projet, Lots: make([]LotView, 0, len(lots))}
	pricing := PricingView{}
	for _, lot := range lots {
		lotView, err := s.assembleLot(lot)
		if err != nil {
			return nil, err
		}
		view.Lots = append(view.Lots, *lotView)
		pricing.TotalLotTTC += lot.PrixTotal
		pricing.TotalVenteLot += lot.PrixVente
	}
	pricing.TotalProjetTTC = pricing.TotalLotTTC
	pricing.TotalVenteProjet = pricing.TotalVenteLot

	return &ProjetDetails{Project: view, Pricing: pricing}, nil
}

func (s *ProjetService) assembleLot(lot models.ProjetLot) (*LotView, error) {
	var ouvrages []models.Ouvrage
	if err := s.DB.Where("projet_lot = ?", lot.ID).Find(&ouvrages).Error; err != nil {
		return nil, err
	}

	lotView := LotView{ProjetLot: lot, Ouvrages: make([]OuvrageView, 0, len(ouvrages)), Blocs: []BlocView{}}
	for _, ouvrage := range ouvrages {
		ouvView, err := s.assembleOuvrage(ouvrage)
		if err != nil {
			return nil, err
		}
		lotView.Ouvrages = append(lotView.Ouvrages, *ouvView)
		lotView.Blocs = append(lotView.Blocs, ouvView.Blocs...)
	}
	return &lotView, nil
}

func (s *ProjetService) assembleOuvrage(ouvrage models.Ouvrage) (*OuvrageView, error) {
	structures, err := s.assembleStructures(s.DB.Where("ouvrage = ?", ouvrage.ID))
	if err != nil {
		return nil, err
	}

	var blocs []models.Bloc
	if err := s.DB.Where("ouvrage = ?", ouvrage.ID).Find(&blocs).Error; err != nil {
		return nil, err
	}
	blocViews := make([]BlocView, 0, len(blocs))
	for _, bloc := range blocs {
		blocView, err := s.assembleBloc(bloc)
		if err != nil {
			return nil, err
		}
		blocViews = append(blocViews, *blocView)
	}

	return &OuvrageView{Ouvrage: ouvrage, Structures: structures, Blocs: blocViews}, nil
}

func (s *ProjetService) assembleBloc(bloc models.Bloc) (*BlocView, error) {
	structures, err := s.assembleStructures(s.DB.Where("bloc = ?", bloc.ID))
	if err != nil {
		return nil, err
	}
	// Convenience flattening: the bloc's articles across its structures.
	articles := []models.ProjetArticle{}
	for _, st := range structures {
		articles = append(articles, st.Articles...)
	}
	return &BlocView{Bloc: bloc, Structures: structures, Articles: articles}, nil
}

func (s *ProjetService) assembleStructures(query *gorm.DB) ([]StructureView, error) {
	var structures []models.Structure
	if err := query.Find(&structures).Error; err != nil {
		return nil, err
	}
	views := make([]StructureView, 0, len(structures))
	for _, st := range structures {
		var articles []models.ProjetArticle
		if err := s.DB.Where("structure = ?", st.ID).Find(&articles).Error; err != nil {
			return nil, err
		}
		views = append(views, StructureView{Structure: st, Articles: articles})
	}
	return views, nil
}
