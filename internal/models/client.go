package models

import "time"

// Client referenced by Projet. CRUD it lives with the client endpoints;
// here it only exists so a project can carry its client data.
type Client struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	NomClient        string    `gorm:"not null" json:"nomClient"`
	MargeBrut        float64   `json:"margeBrut"`
	MargeNet         float64   `json:"margeNet"`
	Agence           string    `json:"agence"`
	Responsable      string    `json:"responsable"`
	EffectifChantier int       `json:"effectifChantier"`
	CreatedAt        time.Time `json:"createdAt"`
}
