package sync

import "github.com/Ruszero01/EcoPaste-Sync-sub000/models"

// IsSyncable decides whether an item takes part in a transfer under the
// given sync-mode config. It is a pure predicate with no side effects.
//
// Rules, evaluated in order:
//  1. unless opts.IncludeDeleted, tombstones are excluded;
//  2. if cfg.OnlyFavorites is set and opts.SyncFavoriteChanges is false,
//     non-favorite items are excluded;
//  3. the per-type switch must be enabled for the item's type; unknown
//     types pass by default so a newer device's content survives a round
//     trip through an older one.
func IsSyncable(item models.SyncItem, cfg models.SyncModeConfig, opts models.SyncOptions) bool {
	if item.Deleted && !opts.IncludeDeleted {
		return false
	}

	if cfg.OnlyFavorites && !opts.SyncFavoriteChanges && !item.Favorite {
		return false
	}

	switch item.Type {
	case models.TypeText:
		return cfg.IncludeText
	case models.TypeHTML:
		return cfg.IncludeHTML
	case models.TypeRTF:
		return cfg.IncludeRTF
	case models.TypeImage:
		return cfg.IncludeImages
	case models.TypeFiles:
		return cfg.IncludeFiles
	default:
		return true
	}
}
