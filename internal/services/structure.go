package services

import (
	"errors"
	"strings"

	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

type StructureService struct{ DB *gorm.DB }

func NewStructureService(db *gorm.DB) *StructureService { return &StructureService{DB: db} }

// ResolveInput describes where an article wants to attach. Three modes, in
// priority order: an explicit structure id; a bloc id with Position "bottom"
// (ouvrage-level article displayed beneath that bloc); or nothing, in which
// case no structure is resolved and the caller attaches the article nowhere.
type ResolveInput struct {
	StructureID *uint
	BlocID      *uint
	Position    string
}

// Resolve returns the attachment structure for in, creating the
// ouvrage-bottom row when needed. A nil result with nil error means mode 3:
// no positioning requested.
func (s *StructureService) Resolve(tx *gorm.DB, in ResolveInput) (*models.Structure, error) {
	if in.StructureID != nil {
		var st models.Structure
		if err := tx.First(&st, *in.StructureID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStructureNotFound
			}
			return nil, err
		}
		return &st, nil
	}

	if in.BlocID != nil && strings.EqualFold(in.Position, "bottom") {
		var bloc models.Bloc
		if err := tx.First(&bloc, *in.BlocID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBlocNotFound
			}
			return nil, err
		}
		if bloc.OuvrageID == nil {
			return nil, ErrBlocDetached
		}
		return findOrCreateBottomStructure(tx, *bloc.OuvrageID, bloc.ID)
	}

	return nil, nil
}

// findOrCreateBottomStructure returns the single ouvrage-bottom structure for
// the (ouvrage, bloc) pair. Idempotent: the search matches on the exact
// synthesized tag before creating, so repeated calls reuse one row.
func findOrCreateBottomStructure(tx *gorm.DB, ouvrageID, blocID uint) (*models.Structure, error) {
	action := models.OuvrageBottomAction(blocID)
	var st models.Structure
	err := tx.Where("ouvrage = ? AND bloc IS NULL AND action = ?", ouvrageID, action).First(&st).Error
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	st = models.Structure{OuvrageID: &ouvrageID, BlocID: nil, Action: action}
	if err := tx.Create(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StructureService) List() ([]models.Structure, error) {
	var structures []models.Structure
	if err := s.DB.Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

func (s *StructureService) ListByOuvrage(ouvrageID uint) ([]models.Structure, error) {
	var structures []models.Structure
	if err := s.DB.Where("ouvrage = ?", ouvrageID).Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

func (s *StructureService) Get(id uint) (*models.Structure, error) {
	var st models.Structure
	if err := s.DB.First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStructureNotFound
		}
		return nil, err
	}
	return &st, nil
}

type StructureInput struct {
	OuvrageID *uint  `json:"ouvrageId"`
	BlocID    *uint  `json:"blocId"`
	Action    string `json:"action"`
}

func (s *StructureService) Create(in StructureInput) (*models.Structure, error) {
	if in.OuvrageID != nil {
		var count int64
		if err := s.DB.Model(&models.Ouvrage{}).Where("id = ?", *in.OuvrageID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOuvrageNotFound
		}
	}
	if in.BlocID != nil {
		var count int64
		if err := s.DB.Model(&models.Bloc{}).Where("id = ?", *in.BlocID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrBlocNotFound
		}
	}
	st := models.Structure{OuvrageID: in.OuvrageID, BlocID: in.BlocID, Action: in.Action}
	if err := s.DB.Create(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

// Update only touches the tag; re-pointing a structure at another ouvrage or
// bloc is not supported.
func (s *StructureService) Update(id uint, action string) (*models.Structure, error) {
	st, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	st.Action = action
	if err := s.DB.Save(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StructureService) Delete(id uint) error {
	var count int64
	if err := s.DB.Model(&models.Structure{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrStructureNotFound
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteStructureAndArticles(tx, id)
	})
}
