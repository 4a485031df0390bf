package models

// Ouvrage is a work package within a lot.
//
// Ouvrage ids and Bloc ids live in separate tables but must never share a
// value: a legacy cross-reference treats the two numeric spaces as one. The
// invariant is restored after insert by the renumbering in
// services (see RenumberService), not prevented at allocation time.
type Ouvrage struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	NomOuvrage  string  `json:"nomOuvrage"`
	PrixTotal   float64 `json:"prixTotal"`
	Designation string  `json:"designation"`
	ProjetLotID uint    `gorm:"column:projet_lot;not null;index" json:"projetLotId"`

	Structures []Structure `gorm:"foreignKey:OuvrageID" json:"structures,omitempty"`
}
