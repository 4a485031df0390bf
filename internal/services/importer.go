package services

import (
	"errors"
	"strings"

	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

// ImportService turns the flat DPGF feed produced by the import-service into
// the persisted project hierarchy. The feed has no explicit nesting below the
// ouvrage level: grouping is implied purely by line order, so each ouvrage is
// replayed sequentially through a cursor tracking the current attachment
// point.
type ImportService struct{ DB *gorm.DB }

func NewImportService(db *gorm.DB) *ImportService { return &ImportService{DB: db} }

// Feed payload, as deserialized from the import-service.
type ImportPayload struct {
	Data []ImportLot `json:"data"`
}

type ImportLot struct {
	Name     string          `json:"name"`
	LotID    *int64          `json:"lotId"` // external catalog code (niveau_2)
	Ouvrages []ImportOuvrage `json:"ouvrages"`
}

type ImportOuvrage struct {
	Name        string       `json:"name"`
	Designation string       `json:"designation"`
	Articles    []ImportLine `json:"articles"`
}

// ImportLine is one feed row. Type selects what the row becomes: "bloc" opens
// a new bloc, "article_ouvrage" is an ouvrage-level article shown beneath the
// current bloc, anything else is a plain article. Qte and Pu are pointers
// because the feed legitimately omits them; absent means zero, never an error.
type ImportLine struct {
	Designation string   `json:"designation"`
	Unite       string   `json:"unite"`
	Qte         *float64 `json:"qte"`
	Pu          *float64 `json:"pu"`
	Type        string   `json:"type"`
}

func (l ImportLine) qte() float64 {
	if l.Qte == nil {
		return 0
	}
	return *l.Qte
}

func (l ImportLine) pu() float64 {
	if l.Pu == nil {
		return 0
	}
	return *l.Pu
}

func (l ImportLine) total() float64 { return l.qte() * l.pu() }

// ouvrageCursor is the per-ouvrage import state: where the next article line
// attaches. Reset for every ouvrage; mutated only by bloc lines and by the
// lazy creation of the default container.
type ouvrageCursor struct {
	tx               *gorm.DB
	ouvrage          *models.Ouvrage
	bloc             *models.Bloc
	blocStructure    *models.Structure
	defaultStructure *models.Structure
}

func newOuvrageCursor(tx *gorm.DB, ouvrage *models.Ouvrage) *ouvrageCursor {
	return &ouvrageCursor{tx: tx, ouvrage: ouvrage}
}

// enterBloc makes b the current grouping target for subsequent article lines.
func (c *ouvrageCursor) enterBloc(b *models.Bloc, attachment *models.Structure) {
	c.bloc = b
	c.blocStructure = attachment
}

// ensureDefault lazily creates the ouvrage's default container.
func (c *ouvrageCursor) ensureDefault() (*models.Structure, error) {
	if c.defaultStructure != nil {
		return c.defaultStructure, nil
	}
	st := models.Structure{OuvrageID: &c.ouvrage.ID, Action: models.ActionImported}
	if err := c.tx.Create(&st).Error; err != nil {
		return nil, err
	}
	c.defaultStructure = &st
	return c.defaultStructure, nil
}

// lineTarget resolves the attachment for a plain article line: the current
// bloc's structure, else the default container.
func (c *ouvrageCursor) lineTarget() (*models.Structure, error) {
	if c.blocStructure != nil {
		return c.blocStructure, nil
	}
	return c.ensureDefault()
}

// bottomTarget resolves the attachment for an "article_ouvrage" line: the
// ouvrage-bottom structure of the current bloc when there is one, else the
// default container.
func (c *ouvrageCursor) bottomTarget() (*models.Structure, error) {
	if c.bloc == nil {
		return c.ensureDefault()
	}
	return findOrCreateBottomStructure(c.tx, c.ouvrage.ID, c.bloc.ID)
}

// Run imports the whole payload into projetID inside one transaction; a
// failure anywhere rolls back everything, the caller resubmits whole.
func (s *ImportService) Run(projetID uint, payload ImportPayload) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var projet models.Projet
		if err := tx.First(&projet, projetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjetNotFound
			}
			return err
		}

		for _, lotFeed := range payload.Data {
			lot, err := s.findOrCreateLot(tx, projet.ID, lotFeed)
			if err != nil {
				return err
			}
			for _, ouvFeed := range lotFeed.Ouvrages {
				// Import always adds a fresh ouvrage, never merges into an
				// existing one with the same name.
				ouvrage := models.Ouvrage{
					ProjetLotID: lot.ID,
					NomOuvrage:  ouvFeed.Name,
					Designation: ouvFeed.Designation,
				}
				if err := tx.Create(&ouvrage).Error; err != nil {
					return err
				}
				cursor := newOuvrageCursor(tx, &ouvrage)
				for _, line := range ouvFeed.Articles {
					if err := s.importLine(cursor, line); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// findOrCreateLot matches an existing lot of the project on the external lot
// code. A feed lot without a code never matches and always creates (code 0),
// mirroring the upstream behaviour.
func (s *ImportService) findOrCreateLot(tx *gorm.DB, projetID uint, feed ImportLot) (*models.ProjetLot, error) {
	if feed.LotID != nil {
		code := int(*feed.LotID)
		var existing models.ProjetLot
		err := tx.Where("projet_id = ? AND id_lot = ?", projetID, code).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		lot := models.ProjetLot{ProjetID: projetID, IDLot: code, DesignationLot: feed.Name}
		if err := tx.Create(&lot).Error; err != nil {
			return nil, err
		}
		return &lot, nil
	}
	lot := models.ProjetLot{ProjetID: projetID, IDLot: 0, DesignationLot: feed.Name}
	if err := tx.Create(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// importLine persists one feed row against the cursor's current state.
func (s *ImportService) importLine(c *ouvrageCursor, line ImportLine) error {
	switch strings.ToLower(line.Type) {
	case "bloc":
		bloc := models.Bloc{
			NomBloc:     line.Designation,
			Designation: line.Designation,
			Unite:       line.Unite,
			Quantite:    int(line.qte()),
			PU:          line.pu(),
			PT:          line.total(),
			OuvrageID:   &c.ouvrage.ID,
		}
		if err := c.tx.Create(&bloc).Error; err != nil {
			return err
		}
		attachment := models.Structure{
			OuvrageID: &c.ouvrage.ID,
			BlocID:    &bloc.ID,
			Action:    models.ActionBloc,
		}
		if err := c.tx.Create(&attachment).Error; err != nil {
			return err
		}
		c.enterBloc(&bloc, &attachment)
		return nil

	case "article_ouvrage":
		target, err := c.bottomTarget()
		if err != nil {
			return err
		}
		return s.createImportedArticle(c.tx, target, line)

	default:
		target, err := c.lineTarget()
		if err != nil {
			return err
		}
		return s.createImportedArticle(c.tx, target, line)
	}
}

// createImportedArticle writes the leaf row. No tax at import time: HT and
// TTC both carry qte*pu, and the editable price starts at the imported PU.
func (s *ImportService) createImportedArticle(tx *gorm.DB, target *models.Structure, line ImportLine) error {
	total := line.total()
	article := models.ProjetArticle{
		StructureID:        &target.ID,
		DesignationArticle: line.Designation,
		UniteImport:        line.Unite,
		Quantite:           int(line.qte()),
		PU:                 line.pu(),
		NouvPrix:           line.pu(),
		PrixTotalHt:        total,
		TotalTTC:           total,
	}
	return tx.Create(&article).Error
}
