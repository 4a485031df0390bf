package models

// ProjetArticle is the leaf of the hierarchy: a priced line attached to a
// Structure. Article is the optional catalog reference (articles.ID in the
// article-service); StructureID is nullable for lines created without any
// positioning.
type ProjetArticle struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	Article            *int    `gorm:"column:article" json:"article"`
	Quantite           int     `json:"quantite"`
	PU                 float64 `gorm:"column:pu" json:"pu"`
	PrixTotalHt        float64 `json:"prixTotalHt"`
	TVA                float64 `gorm:"column:tva" json:"tva"`
	TotalTTC           float64 `gorm:"column:total_ttc" json:"totalTtc"`
	Localisation       string  `json:"localisation"`
	Description        string  `json:"description"`
	NouvPrix           float64 `json:"nouvPrix"` // prix éditable, initialisé au PU importé
	DesignationArticle string  `json:"designationArticle"`
	ArticleImport      string  `json:"articleImport"`
	Unite              string  `json:"unite"`
	UniteImport        string  `json:"uniteImport"`
	StructureID        *uint   `gorm:"column:structure;index" json:"structureId"`
}
