package services

import (
	"errors"

	"github.com/diewo77/go-chantier/internal/events"
	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

type OuvrageService struct {
	DB     *gorm.DB
	Events *events.Producer
}

func NewOuvrageService(db *gorm.DB, ev *events.Producer) *OuvrageService {
	return &OuvrageService{DB: db, Events: ev}
}

type OuvrageInput struct {
	NomOuvrage  string  `json:"nomOuvrage"`
	PrixTotal   float64 `json:"prixTotal"`
	Designation string  `json:"designation"`
	ProjetLotID uint    `json:"projetLotId"`
}

// Create inserts the ouvrage, shifts its id off any colliding bloc id, and
// records the ouvrage's default structure.
func (s *OuvrageService) Create(in OuvrageInput) (*models.Ouvrage, error) {
	var count int64
	if err := s.DB.Model(&models.ProjetLot{}).Where("id = ?", in.ProjetLotID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrLotNotFound
	}

	var saved *models.Ouvrage
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockSharedIDSpace(tx); err != nil {
			return err
		}
		ouvrage := models.Ouvrage{
			NomOuvrage:  in.NomOuvrage,
			PrixTotal:   in.PrixTotal,
			Designation: in.Designation,
			ProjetLotID: in.ProjetLotID,
		}
		if err := tx.Create(&ouvrage).Error; err != nil {
			return err
		}
		resolved, err := resolveOuvrageIDCollision(tx, &ouvrage)
		if err != nil {
			return err
		}
		structure := models.Structure{OuvrageID: &resolved.ID, BlocID: nil, Action: models.ActionOuvrage}
		if err := tx.Create(&structure).Error; err != nil {
			return err
		}
		saved = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *OuvrageService) List() ([]models.Ouvrage, error) {
	var ouvrages []models.Ouvrage
	if err := s.DB.Find(&ouvrages).Error; err != nil {
		return nil, err
	}
	return ouvrages, nil
}

func (s *OuvrageService) ListByLot(lotID uint) ([]models.Ouvrage, error) {
	var ouvrages []models.Ouvrage
	if err := s.DB.Where("projet_lot = ?", lotID).Find(&ouvrages).Error; err != nil {
		return nil, err
	}
	return ouvrages, nil
}

func (s *OuvrageService) Get(id uint) (*models.Ouvrage, error) {
	var ouvrage models.Ouvrage
	if err := s.DB.First(&ouvrage, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOuvrageNotFound
		}
		return nil, err
	}
	return &ouvrage, nil
}

func (s *OuvrageService) Update(id uint, in OuvrageInput) (*models.Ouvrage, error) {
	ouvrage, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	oldName := ouvrage.NomOuvrage

	ouvrage.NomOuvrage = in.NomOuvrage
	ouvrage.PrixTotal = in.PrixTotal
	ouvrage.Designation = in.Designation
	if err := s.DB.Save(ouvrage).Error; err != nil {
		return nil, err
	}

	// Lineage for the notification; losses here must not fail the update.
	var projetID *uint
	var lotCode *int
	userID := ""
	var lot models.ProjetLot
	if err := s.DB.First(&lot, ouvrage.ProjetLotID).Error; err == nil {
		lotCode = &lot.IDLot
		var projet models.Projet
		if err := s.DB.First(&projet, lot.ProjetID).Error; err == nil {
			projetID = &projet.ID
			userID = projet.AjoutePar
		}
	}
	s.Events.OuvrageUpdated(projetID, lotCode, ouvrage.ID, oldName, ouvrage.NomOuvrage, userID)

	return ouvrage, nil
}

// Duplicate copies the ouvrage scalars into a fresh row under the same lot.
// Structures, blocs and articles are not copied.
func (s *OuvrageService) Duplicate(id uint) (*models.Ouvrage, error) {
	original, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	copy := models.Ouvrage{
		NomOuvrage:  original.NomOuvrage + " (Copie)",
		PrixTotal:   original.PrixTotal,
		Designation: original.Designation,
		ProjetLotID: original.ProjetLotID,
	}
	if err := s.DB.Create(&copy).Error; err != nil {
		return nil, err
	}
	return &copy, nil
}

func (s *OuvrageService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteOuvrageSubtree(tx, id)
	})
}
