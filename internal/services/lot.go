package services

import (
	"errors"

	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

type LotService struct{ DB *gorm.DB }

func NewLotService(db *gorm.DB) *LotService { return &LotService{DB: db} }

type LotInput struct {
	ProjetID       uint    `json:"projetId"`
	IDLot          int     `json:"idLot"`
	DesignationLot string  `json:"designationLot"`
	PrixTotal      float64 `json:"prixTotal"`
	PrixVente      float64 `json:"prixVente"`
}

func (s *LotService) List() ([]models.ProjetLot, error) {
	var lots []models.ProjetLot
	if err := s.DB.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

func (s *LotService) ListByProjet(projetID uint) ([]models.ProjetLot, error) {
	var lots []models.ProjetLot
	if err := s.DB.Where("projet_id = ?", projetID).Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

func (s *LotService) Get(id uint) (*models.ProjetLot, error) {
	var lot models.ProjetLot
	if err := s.DB.First(&lot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	return &lot, nil
}

func (s *LotService) Create(in LotInput) (*models.ProjetLot, error) {
	var count int64
	if err := s.DB.Model(&models.Projet{}).Where("id = ?", in.ProjetID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrProjetNotFound
	}
	lot := models.ProjetLot{
		ProjetID:       in.ProjetID,
		IDLot:          in.IDLot,
		DesignationLot: in.DesignationLot,
		PrixTotal:      in.PrixTotal,
		PrixVente:      in.PrixVente,
	}
	if err := s.DB.Create(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (s *LotService) Update(id uint, in LotInput) (*models.ProjetLot, error) {
	lot, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	lot.IDLot = in.IDLot
	lot.DesignationLot = in.DesignationLot
	lot.PrixTotal = in.PrixTotal
	lot.PrixVente = in.PrixVente
	if err := s.DB.Save(lot).Error; err != nil {
		return nil, err
	}
	return lot, nil
}

func (s *LotService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteLotSubtree(tx, id)
	})
}
