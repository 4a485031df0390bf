package models

// Bloc is a priced group of articles inside an ouvrage. OuvrageID is nullable:
// a bloc exists detached for a moment between insert and attachment.
// Subject to the same id-space disjointness invariant as Ouvrage.
type Bloc struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	NomBloc     string  `json:"nomBloc"`
	Unite       string  `json:"unite"`
	Quantite    int     `json:"quantite"`
	PU          float64 `gorm:"column:pu" json:"pu"`
	PT          float64 `gorm:"column:pt" json:"pt"`
	Designation string  `json:"designation"`
	OuvrageID   *uint   `gorm:"column:ouvrage;index" json:"ouvrageId"`
}
