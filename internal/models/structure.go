package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Structure is the attachment row between an ouvrage (or a bloc) and its
// articles. The Action column plus the nullability of BlocID encode which of
// three roles the row plays; Role() resolves that once instead of re-parsing
// the string at every use.
type Structure struct {
	ID        uint   `gorm:"primaryKey" json:"idStructure"`
	OuvrageID *uint  `gorm:"column:ouvrage;index" json:"ouvrageId"`
	BlocID    *uint  `gorm:"column:bloc;index" json:"blocId"`
	Action    string `json:"action"`

	Articles []ProjetArticle `gorm:"foreignKey:StructureID" json:"articles,omitempty"`
}

// StructureRole is the decoded role of a Structure row.
type StructureRole int

const (
	// RoleBlocAttachment links a bloc to its ouvrage. BlocID set, Action "bloc".
	RoleBlocAttachment StructureRole = iota
	// RoleOuvrageBottom holds ouvrage-level articles displayed beneath a
	// specific bloc. BlocID null, Action "ouvrage_bottom_<blocId>".
	RoleOuvrageBottom
	// RoleOuvrageDefault is the fallback container for articles belonging
	// directly to the ouvrage. BlocID null, free-text Action.
	RoleOuvrageDefault
)

const (
	ActionBloc          = "bloc"
	ActionImported      = "Imported from DPGF"
	ActionOuvrage       = "ouvrage"
	ouvrageBottomPrefix = "ouvrage_bottom_"
)

// OuvrageBottomAction synthesizes the dedup tag for the bottom-of-bloc role.
func OuvrageBottomAction(blocID uint) string {
	return fmt.Sprintf("%s%d", ouvrageBottomPrefix, blocID)
}

// Role decodes the row's role from BlocID and Action.
func (s *Structure) Role() StructureRole {
	if s.BlocID != nil && s.Action == ActionBloc {
		return RoleBlocAttachment
	}
	if s.BlocID == nil && strings.HasPrefix(s.Action, ouvrageBottomPrefix) {
		return RoleOuvrageBottom
	}
	return RoleOuvrageDefault
}

// BottomBlocID returns the bloc id carried by an ouvrage-bottom tag.
func (s *Structure) BottomBlocID() (uint, bool) {
	if s.Role() != RoleOuvrageBottom {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(s.Action, ouvrageBottomPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
