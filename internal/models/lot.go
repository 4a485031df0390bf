package models

// ProjetLot groups the ouvrages of a project under one lot of the external
// catalog. IDLot is the catalog category code (niveau_2), not a FK here.
type ProjetLot struct {
	ID             uint    `gorm:"primaryKey" json:"idProjetLot"`
	ProjetID       uint    `gorm:"not null;index" json:"projetId"`
	IDLot          int     `gorm:"not null" json:"idLot"`
	DesignationLot string  `json:"designationLot"`
	PrixTotal      float64 `json:"prixTotal"` // total TTC matérialisé à l'écriture
	PrixVente      float64 `json:"prixVente"`

	Ouvrages []Ouvrage `gorm:"foreignKey:ProjetLotID" json:"ouvrages,omitempty"`
}
