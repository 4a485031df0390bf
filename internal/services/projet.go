package services

import (
	"errors"
	"time"

	"github.com/diewo77/go-chantier/internal/events"
	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

type ProjetService struct {
	DB     *gorm.DB
	Events *events.Producer
}

func NewProjetService(db *gorm.DB, ev *events.Producer) *ProjetService {
	return &ProjetService{DB: db, Events: ev}
}

type ProjetInput struct {
	NomProjet   string     `json:"nomProjet"`
	Description string     `json:"description"`
	Etat        string     `json:"etat"`
	Cout        float64    `json:"cout"`
	PrixVente   float64    `json:"prixVente"`
	Adresse     string     `json:"adresse"`
	File        string     `json:"file"`
	DateDebut   *time.Time `json:"dateDebut"`
	DateLimite  *time.Time `json:"dateLimite"`
	ClientID    *uint      `json:"clientId"`
	AjoutePar   string     `json:"ajoutePar"`
	TeamMembers []string   `json:"teamMembers"`
}

func (s *ProjetService) List() ([]models.Projet, error) {
	var projets []models.Projet
	if err := s.DB.Preload("Client").Preload("Equipe").Find(&projets).Error; err != nil {
		return nil, err
	}
	return projets, nil
}

func (s *ProjetService) Get(id uint) (*models.Projet, error) {
	var projet models.Projet
	if err := s.DB.Preload("Client").Preload("Equipe").First(&projet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjetNotFound
		}
		return nil, err
	}
	return &projet, nil
}

func (s *ProjetService) Create(in ProjetInput) (*models.Projet, error) {
	projet := models.Projet{
		NomProjet:   in.NomProjet,
		Description: in.Description,
		Etat:        in.Etat,
		Cout:        in.Cout,
		PrixVente:   in.PrixVente,
		Adresse:     in.Adresse,
		File:        in.File,
		DateDebut:   in.DateDebut,
		DateLimite:  in.DateLimite,
		AjoutePar:   in.AjoutePar,
	}
	// An unknown client reference is dropped rather than rejected.
	if in.ClientID != nil {
		var count int64
		if err := s.DB.Model(&models.Client{}).Where("id = ?", *in.ClientID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			projet.ClientID = in.ClientID
		}
	}
	for _, userID := range in.TeamMembers {
		projet.Equipe = append(projet.Equipe, models.ProjetEquipe{Equipe: userID})
	}
	if err := s.DB.Create(&projet).Error; err != nil {
		return nil, err
	}

	s.Events.ProjectCreated(projet.ID, projet.NomProjet, projet.AjoutePar)
	return &projet, nil
}

func (s *ProjetService) Update(id uint, in ProjetInput) (*models.Projet, error) {
	projet, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	projet.NomProjet = in.NomProjet
	projet.Description = in.Description
	projet.Etat = in.Etat
	projet.Cout = in.Cout
	projet.DateDebut = in.DateDebut
	projet.DateLimite = in.DateLimite
	projet.Adresse = in.Adresse
	if in.ClientID != nil {
		var count int64
		if err := s.DB.Model(&models.Client{}).Where("id = ?", *in.ClientID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			projet.ClientID = in.ClientID
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if in.TeamMembers != nil {
			if err := tx.Where("projet_id = ?", projet.ID).Delete(&models.ProjetEquipe{}).Error; err != nil {
				return err
			}
			projet.Equipe = nil
			for _, userID := range in.TeamMembers {
				projet.Equipe = append(projet.Equipe, models.ProjetEquipe{ProjetID: projet.ID, Equipe: userID})
			}
		}
		return tx.Save(projet).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.ProjectUpdated(projet.ID, projet.NomProjet, projet.AjoutePar)
	return projet, nil
}

func (s *ProjetService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return deleteProjetSubtree(tx, id)
	})
}
