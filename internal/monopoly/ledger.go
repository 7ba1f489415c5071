package monopoly

import (
	"github.com/rocketscienceinc/monopoly-backend/internal/board"
)

const noOwner = -1

// Asset is a purchasable square. The owner is an index into the game's players.
type Asset struct {
	name      string
	group     int
	city      bool
	cost      int
	houseCost int
	rents     []int
	owner     int
	houses    int
}

func (that *Asset) IsOwned() bool {
	return that.owner != noOwner
}

// Rent is the asset's own rent: per house count for cities, flat otherwise.
func (that *Asset) Rent() int {
	if that.city {
		return that.rents[that.houses]
	}

	return that.rents[0]
}

type AssetGroup struct {
	name      string
	country   bool
	bonusRent int
	assets    []int
}

// Ledger owns every asset and asset group of a game and tracks ownership.
type Ledger struct {
	groups []*AssetGroup
	assets []*Asset
	index  map[board.Square]int
}

func newLedger(def *board.Definition) *Ledger {
	ledger := &Ledger{
		index: make(map[board.Square]int),
	}

	for g, country := range def.Countries {
		group := &AssetGroup{name: country.Name, country: true}
		for a, city := range country.Cities {
			group.assets = append(group.assets, ledger.add(board.Square{Kind: board.KindCity, Group: g, Asset: a}, &Asset{
				name:      city.Name,
				group:     len(ledger.groups),
				city:      true,
				cost:      city.Cost,
				houseCost: city.HouseCost,
				rents:     append([]int(nil), city.Rents...),
				owner:     noOwner,
			}))
		}
		ledger.groups = append(ledger.groups, group)
	}

	for g, simple := range def.SimpleGroups {
		group := &AssetGroup{name: simple.Name, bonusRent: simple.BonusRent}
		for a, asset := range simple.Assets {
			group.assets = append(group.assets, ledger.add(board.Square{Kind: board.KindSimple, Group: g, Asset: a}, &Asset{
				name:  asset.Name,
				group: len(ledger.groups),
				cost:  asset.Cost,
				rents: []int{asset.Rent},
				owner: noOwner,
			}))
		}
		ledger.groups = append(ledger.groups, group)
	}

	return ledger
}

func (that *Ledger) add(key board.Square, asset *Asset) int {
	that.assets = append(that.assets, asset)
	that.index[key] = len(that.assets) - 1

	return len(that.assets) - 1
}

func (that *Ledger) lookup(square board.Square) (int, bool) {
	i, ok := that.index[board.Square{Kind: square.Kind, Group: square.Group, Asset: square.Asset}]
	return i, ok
}

func (that *Ledger) Asset(i int) *Asset {
	return that.assets[i]
}

func (that *Ledger) GroupOf(asset *Asset) *AssetGroup {
	return that.groups[asset.group]
}

// OwnedBySamePlayer reports whether every asset of the group has one and the same owner.
func (that *Ledger) OwnedBySamePlayer(group *AssetGroup) bool {
	if len(group.assets) == 0 {
		return false
	}

	owner := that.assets[group.assets[0]].owner
	if owner == noOwner {
		return false
	}

	return that.OwnsWholeGroup(group, owner)
}

func (that *Ledger) OwnsWholeGroup(group *AssetGroup, owner int) bool {
	for _, i := range group.assets {
		if that.assets[i].owner != owner {
			return false
		}
	}

	return len(group.assets) > 0
}

// RentFor is the rent charged on the asset. A fully owned simple group charges its
// bonus rent instead of the asset's own rent; cities always charge by house count.
func (that *Ledger) RentFor(asset *Asset) int {
	group := that.GroupOf(asset)
	if !group.country && that.OwnedBySamePlayer(group) {
		return group.bonusRent
	}

	return asset.Rent()
}

// CanBuildHouse reports whether owner may add a house to the asset.
func (that *Ledger) CanBuildHouse(asset *Asset, owner int) bool {
	return asset.city &&
		asset.owner == owner &&
		asset.houses < board.MaxHouses &&
		that.OwnsWholeGroup(that.GroupOf(asset), owner)
}

func (that *Ledger) Assign(asset *Asset, owner int) {
	asset.owner = owner
}

func (that *Ledger) AddHouse(asset *Asset) {
	if asset.houses < board.MaxHouses {
		asset.houses++
	}
}

// Release returns every asset of owner to the bank, houses included, and reports how many were released.
func (that *Ledger) Release(owner int) int {
	released := 0

	for _, group := range that.groups {
		for _, i := range group.assets {
			asset := that.assets[i]
			if asset.owner != owner {
				continue
			}

			asset.owner = noOwner
			asset.houses = 0
			released++
		}
	}

	return released
}

func (that *Ledger) OwnedBy(owner int) []*Asset {
	var owned []*Asset

	for _, asset := range that.assets {
		if asset.owner == owner {
			owned = append(owned, asset)
		}
	}

	return owned
}
