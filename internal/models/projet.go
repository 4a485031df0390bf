package models

import "time"

// Projet is the root of the chantier hierarchy:
// Projet -> ProjetLot -> Ouvrage -> Structure -> ProjetArticle, with Blocs
// hanging off Ouvrages through their "bloc" Structure.
type Projet struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	NomProjet   string `gorm:"not null" json:"nomProjet"`
	Description string `json:"description"`
	Etat        string `json:"etat"` // En cours, Terminé...
	Cout        float64 `json:"cout"`
	PrixVente   float64 `json:"prixVente"`
	Adresse     string  `json:"adresse"`
	// File garde les chemins/URLs des fichiers importés (DPGF notamment).
	File       string     `gorm:"type:text" json:"file"`
	DateDebut  *time.Time `json:"dateDebut"`
	DateLimite *time.Time `json:"dateLimite"`
	ClientID   *uint      `gorm:"column:client" json:"clientId"`
	Client     *Client    `gorm:"foreignKey:ClientID" json:"clientData,omitempty"`
	AjoutePar  string     `json:"ajoutePar"` // id utilisateur transmis par la gateway
	CreatedAt  time.Time  `json:"createdAt"`

	Lots   []ProjetLot    `gorm:"foreignKey:ProjetID" json:"lots,omitempty"`
	Equipe []ProjetEquipe `gorm:"foreignKey:ProjetID" json:"equipe,omitempty"`
}

// ProjetEquipe attaches a user (by external id) to a project team.
type ProjetEquipe struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ProjetID uint   `gorm:"not null;index" json:"projetId"`
	Equipe   string `json:"equipe"` // id utilisateur (user-service)
}
