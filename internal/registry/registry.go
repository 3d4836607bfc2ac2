package registry

import (
	"fmt"
	"sort"

	"RugTycoon/internal/model"
)

// Registry is the single owner of tradable assets. Engine components get
// mutable references through it during a tick; everything outside the
// engine only ever sees copies.
type Registry struct {
	assets map[string]*model.Asset
	order  []string // asset ids in catalog order, for deterministic iteration
}

// New builds a registry from catalog-loaded assets.
func New(assets []model.Asset) *Registry {
	r := &Registry{assets: make(map[string]*model.Asset, len(assets))}
	for i := range assets {
		a := assets[i]
		r.assets[a.ID] = &a
		r.order = append(r.order, a.ID)
	}
	return r
}

// Get returns the mutable asset for an id.
func (r *Registry) Get(id string) (*model.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("unknown asset %q", id)
	}
	return a, nil
}

// BySymbol looks an asset up by its display symbol.
func (r *Registry) BySymbol(symbol string) (*model.Asset, error) {
	for _, id := range r.order {
		if r.assets[id].Symbol == symbol {
			return r.assets[id], nil
		}
	}
	return nil, fmt.Errorf("unknown symbol %q", symbol)
}

// All returns mutable references in deterministic catalog order. Only the
// tick pipeline should use this.
func (r *Registry) All() []*model.Asset {
	out := make([]*model.Asset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.assets[id])
	}
	return out
}

// Copies returns value copies of every asset in catalog order, for
// snapshots and read-only consumers.
func (r *Registry) Copies() []model.Asset {
	out := make([]model.Asset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.assets[id])
	}
	return out
}

// Prices returns the current price per asset id.
func (r *Registry) Prices() map[string]float64 {
	out := make(map[string]float64, len(r.assets))
	for id, a := range r.assets {
		out[id] = a.Price
	}
	return out
}

// UnlockEligible flips locked assets whose net-worth threshold the player
// has met. Returns the symbols unlocked this pass, sorted for stable logs.
func (r *Registry) UnlockEligible(netWorth float64) []string {
	var unlocked []string
	for _, a := range r.assets {
		if !a.Unlocked && a.UnlockNetWorth > 0 && netWorth >= a.UnlockNetWorth {
			a.Unlocked = true
			unlocked = append(unlocked, a.Symbol)
		}
	}
	sort.Strings(unlocked)
	return unlocked
}

// Len reports the number of registered assets.
func (r *Registry) Len() int { return len(r.order) }
