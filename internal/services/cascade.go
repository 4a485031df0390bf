package services

import (
	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

// Subtree deletion, one helper per entity kind, each delegating downward.
// Every delete path in the service layer funnels through these so the
// hierarchy can never leak orphan rows.

func deleteStructureAndArticles(tx *gorm.DB, structureID uint) error {
	if err := tx.Where("structure = ?", structureID).Delete(&models.ProjetArticle{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Structure{}, structureID).Error
}

// deleteBlocSubtree removes the bloc's attachment structures (and their
// articles), then the bloc itself. The ouvrage-bottom structure tied to this
// bloc belongs to the ouvrage and is removed by deleteOuvrageSubtree.
func deleteBlocSubtree(tx *gorm.DB, blocID uint) error {
	var structures []models.Structure
	if err := tx.Where("bloc = ?", blocID).Find(&structures).Error; err != nil {
		return err
	}
	for _, s := range structures {
		if err := deleteStructureAndArticles(tx, s.ID); err != nil {
			return err
		}
	}
	return tx.Delete(&models.Bloc{}, blocID).Error
}

func deleteOuvrageSubtree(tx *gorm.DB, ouvrageID uint) error {
	var blocs []models.Bloc
	if err := tx.Where("ouvrage = ?", ouvrageID).Find(&blocs).Error; err != nil {
		return err
	}
	for _, b := range blocs {
		if err := deleteBlocSubtree(tx, b.ID); err != nil {
			return err
		}
	}
	var structures []models.Structure
	if err := tx.Where("ouvrage = ?", ouvrageID).Find(&structures).Error; err != nil {
		return err
	}
	for _, s := range structures {
		if err := deleteStructureAndArticles(tx, s.ID); err != nil {
			return err
		}
	}
	return tx.Delete(&models.Ouvrage{}, ouvrageID).Error
}

func deleteLotSubtree(tx *gorm.DB, lotID uint) error {
	var ouvrages []models.Ouvrage
	if err := tx.Where("projet_lot = ?", lotID).Find(&ouvrages).Error; err != nil {
		return err
	}
	for _, o := range ouvrages {
		if err := deleteOuvrageSubtree(tx, o.ID); err != nil {
			return err
		}
	}
	return tx.Delete(&models.ProjetLot{}, lotID).Error
}

func deleteProjetSubtree(tx *gorm.DB, projetID uint) error {
	var lots []models.ProjetLot
	if err := tx.Where("projet_id = ?", projetID).Find(&lots).Error; err != nil {
		return err
	}
	for _, l := range lots {
		if err := deleteLotSubtree(tx, l.ID); err != nil {
			return err
		}
	}
	if err := tx.Where("projet_id = ?", projetID).Delete(&models.ProjetEquipe{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Projet{}, projetID).Error
}
