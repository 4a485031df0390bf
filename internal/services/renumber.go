package services

import (
	"errors"

	"github.com/diewo77/go-chantier/internal/models"

	"gorm.io/gorm"
)

// Ouvrage and Bloc rows auto-increment in separate tables but must never end
// up with the same numeric id (a legacy cross-reference treats both spaces as
// one). The functions here restore that invariant right after an insert:
// detect the collision, shift the new row to the next id free in the union of
// both tables, re-pointing every child row first so nothing is orphaned.

// idSpaceLockKey is the pg_advisory_xact_lock key serializing all renumbering
// against the shared ouvrage/bloc id space. Without it two concurrent creates
// can both pick the same "free" candidate before either commits.
const idSpaceLockKey = 0x6f75_626c // "oubl", ouvrage/bloc

// lockSharedIDSpace serializes renumbering within the surrounding transaction.
// The lock releases at commit/rollback. Sqlite (tests) serializes writers on
// its own, so the lock is postgres-only.
func lockSharedIDSpace(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", idSpaceLockKey).Error
}

// reservedIDSet returns the union of all ouvrage and bloc ids.
func reservedIDSet(tx *gorm.DB) (map[uint]struct{}, error) {
	var ouvrageIDs, blocIDs []uint
	if err := tx.Model(&models.Ouvrage{}).Pluck("id", &ouvrageIDs).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Bloc{}).Pluck("id", &blocIDs).Error; err != nil {
		return nil, err
	}
	reserved := make(map[uint]struct{}, len(ouvrageIDs)+len(blocIDs))
	for _, id := range ouvrageIDs {
		reserved[id] = struct{}{}
	}
	for _, id := range blocIDs {
		reserved[id] = struct{}{}
	}
	return reserved, nil
}

// nextFreeID walks upward from oldID+1 until a value free in reserved.
// Terminates because reserved is finite and the id space is 64-bit.
func nextFreeID(oldID uint, reserved map[uint]struct{}) uint {
	candidate := oldID
	for {
		candidate++
		if _, taken := reserved[candidate]; !taken {
			return candidate
		}
	}
}

// resolveBlocIDCollision shifts a just-inserted bloc off an id already used by
// an ouvrage. No-op when there is no collision. Returns the bloc re-fetched
// under its final id.
func resolveBlocIDCollision(tx *gorm.DB, saved *models.Bloc) (*models.Bloc, error) {
	var clash int64
	if err := tx.Model(&models.Ouvrage{}).Where("id = ?", saved.ID).Count(&clash).Error; err != nil {
		return nil, err
	}
	if clash == 0 {
		return saved, nil
	}
	reserved, err := reservedIDSet(tx)
	if err != nil {
		return nil, err
	}
	newID := nextFreeID(saved.ID, reserved)

	// Children first, then the row itself: structures referencing the bloc.
	if err := tx.Model(&models.Structure{}).Where("bloc = ?", saved.ID).Update("bloc", newID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Bloc{}).Where("id = ?", saved.ID).Update("id", newID).Error; err != nil {
		return nil, err
	}

	var moved models.Bloc
	if err := tx.First(&moved, newID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRenumberLost
		}
		return nil, err
	}
	return &moved, nil
}

// resolveOuvrageIDCollision is the sibling operation for a just-inserted
// ouvrage colliding with an existing bloc id. Children here are both the
// ouvrage's structures and its blocs.
func resolveOuvrageIDCollision(tx *gorm.DB, saved *models.Ouvrage) (*models.Ouvrage, error) {
	var clash int64
	if err := tx.Model(&models.Bloc{}).Where("id = ?", saved.ID).Count(&clash).Error; err != nil {
		return nil, err
	}
	if clash == 0 {
		return saved, nil
	}
	reserved, err := reservedIDSet(tx)
	if err != nil {
		return nil, err
	}
	newID := nextFreeID(saved.ID, reserved)

	if err := tx.Model(&models.Structure{}).Where("ouvrage = ?", saved.ID).Update("ouvrage", newID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Bloc{}).Where("ouvrage = ?", saved.ID).Update("ouvrage", newID).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Ouvrage{}).Where("id = ?", saved.ID).Update("id", newID).Error; err != nil {
		return nil, err
	}

	var moved models.Ouvrage
	if err := tx.First(&moved, newID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRenumberLost
		}
		return nil, err
	}
	return &moved, nil
}

// FixBlocIDCollisions is the one-off repair sweep over historical data: every
// bloc whose id is also an ouvrage id gets shifted, in ascending id order,
// with the same children-first renumbering as the per-create path. It reports
// how many blocs were renumbered.
func FixBlocIDCollisions(db *gorm.DB) (int, error) {
	moved := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSharedIDSpace(tx); err != nil {
			return err
		}
		var ouvrageIDs []uint
		if err := tx.Model(&models.Ouvrage{}).Pluck("id", &ouvrageIDs).Error; err != nil {
			return err
		}
		reserved := make(map[uint]struct{}, len(ouvrageIDs))
		for _, id := range ouvrageIDs {
			reserved[id] = struct{}{}
		}

		var blocs []models.Bloc
		if err := tx.Order("id asc").Find(&blocs).Error; err != nil {
			return err
		}
		blocIDs := make(map[uint]struct{}, len(blocs))
		for _, b := range blocs {
			blocIDs[b.ID] = struct{}{}
		}

		for _, bloc := range blocs {
			oldID := bloc.ID
			if _, taken := reserved[oldID]; !taken {
				reserved[oldID] = struct{}{}
				continue
			}
			candidate := oldID
			for {
				candidate++
				_, inReserved := reserved[candidate]
				_, inBlocs := blocIDs[candidate]
				if !inReserved && !inBlocs {
					break
				}
			}
			if err := tx.Model(&models.Structure{}).Where("bloc = ?", oldID).Update("bloc", candidate).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Bloc{}).Where("id = ?", oldID).Update("id", candidate).Error; err != nil {
				return err
			}
			reserved[candidate] = struct{}{}
			delete(blocIDs, oldID)
			blocIDs[candidate] = struct{}{}
			moved++
		}
		return nil
	})
	return moved, err
}
