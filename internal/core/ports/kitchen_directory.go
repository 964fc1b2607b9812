package ports

import (
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/kitchen"
)

// KitchenDirectory resolves per-kitchen settings. Unknown kitchens get the
// service defaults, never an error.
type KitchenDirectory interface {
	Settings(kitchenID kernel.UUID) kitchen.Settings
}
