package services

import (
	"errors"

	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

type BlocService struct{ DB *gorm.DB }

func NewBlocService(db *gorm.DB) *BlocService { return &BlocService{DB: db} }

type BlocInput struct {
	NomBloc     string  `json:"nomBloc"`
	Unite       string  `json:"unite"`
	Quantite    int     `json:"quantite"`
	PU          float64 `json:"pu"`
	PT          float64 `json:"pt"`
	Designation string  `json:"designation"`
	OuvrageID   *uint   `json:"ouvrageId"`
}

// Create inserts the bloc, shifts its id off any colliding ouvrage id, then
// records the bloc-attachment structure when an owning ouvrage is given. The
// whole sequence runs in one transaction under the shared id-space lock.
func (s *BlocService) Create(in BlocInput) (*models.Bloc, error) {
	if in.OuvrageID != nil {
		var count int64
		if err := s.DB.Model(&models.Ouvrage{}).Where("id = ?", *in.OuvrageID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrOuvrageNotFound
		}
	}

	var saved *models.Bloc
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockSharedIDSpace(tx); err != nil {
			return err
		}
		bloc := models.Bloc{
			NomBloc:     in.NomBloc,
			Unite:       in.Unite,
			Quantite:    in.Quantite,
			PU:          in.PU,
			PT:          in.PT,
			Designation: in.Designation,
			OuvrageID:   in.OuvrageID,
		}
		if err := tx.Create(&bloc).Error; err != nil {
			return err
		}
		resolved, err := resolveBlocIDCollision(tx, &bloc)
		if err != nil {
			return err
		}
		if resolved.OuvrageID != nil {
			attachment := models.Structure{
				OuvrageID: resolved.OuvrageID,
				BlocID:    &resolved.ID,
				Action:    models.ActionBloc,
			}
			if err := tx.Create(&attachment).Error; err != nil {
				return err
			}
		}
		saved = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *BlocService) List() ([]models.Bloc, error) {
	var blocs []models.Bloc
	if err := s.DB.Find(&blocs).Error; err != nil {
		return nil, err
	}
	return blocs, nil
}

func (s *BlocService) ListByOuvrage(ouvrageID uint) ([]models.Bloc, error) {
	var blocs []models.Bloc
	if err := s.DB.Where("ouvrage = ?", ouvrageID).Find(&blocs).Error; err != nil {
		return nil, err
	}
	return blocs, nil
}

func (s *BlocService) Get(id uint) (*models.Bloc, error) {
	var bloc models.Bloc
	if err := s.DB.First(&bloc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlocNotFound
		}
		return nil, err
	}
	return &bloc, nil
}

func (s *BlocService) Update(id uint, in BlocInput) (*models.Bloc, error) {
	bloc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	bloc.NomBloc = in.NomBloc
	bloc.Unite = in.Unite
	bloc.Quantite = in.Quantite
	bloc.PU = in.PU
	bloc.PT = in.PT
	bloc.Designation = in.Designation
	if err := s.DB.Save(bloc).Error; err != nil {
		return nil, err
	}
	return bloc, nil
}

func (s *BlocService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteBlocSubtree(tx, id)
	})
}
