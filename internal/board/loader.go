package board

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

//go:embed default.yml
var defaultBoard []byte

var fixedSquares = map[int]SquareKind{
	StartIndex:    KindStart,
	JailIndex:     KindJail,
	ParkingIndex:  KindParking,
	GoToJailIndex: KindGoToJail,
}

// Default returns the board shipped with the binary.
func Default() *Definition {
	def, err := Parse(defaultBoard)
	if err != nil {
		panic(fmt.Errorf("embedded board is broken: %w", err))
	}

	return def
}

// Load reads and validates a board definition from a YAML file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read board file: %w", apperror.ErrConfig, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Definition, error) {
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("%w: failed to parse board: %w", apperror.ErrConfig, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}

// Validate checks the whole definition and wraps every problem in apperror.ErrConfig.
func (that *Definition) Validate() error {
	if err := that.validateGroups(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConfig, err)
	}

	if err := that.validateLayout(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConfig, err)
	}

	if err := validateDeck(KindSurprise, that.SurpriseCards, that.hasSquare(KindSurprise)); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConfig, err)
	}

	if err := validateDeck(KindWarrant, that.WarrantCards, that.hasSquare(KindWarrant)); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrConfig, err)
	}

	return nil
}

func (that *Definition) validateGroups() error {
	for i, country := range that.Countries {
		if len(country.Cities) == 0 || len(country.Cities) > MaxCitiesInCountry {
			return fmt.Errorf("country %d (%s) has %d cities", i, country.Name, len(country.Cities))
		}

		for j, city := range country.Cities {
			if city.Cost <= 0 || city.HouseCost <= 0 {
				return fmt.Errorf("city %s has non-positive cost", city.Name)
			}

			if len(city.Rents) != MaxHouses+1 {
				return fmt.Errorf("city %d of country %d has %d rents, want %d", j, i, len(city.Rents), MaxHouses+1)
			}

			for _, rent := range city.Rents {
				if rent < 0 {
					return fmt.Errorf("city %s has negative rent", city.Name)
				}
			}
		}
	}

	for i, group := range that.SimpleGroups {
		if len(group.Assets) == 0 {
			return fmt.Errorf("simple group %d (%s) is empty", i, group.Name)
		}

		if group.BonusRent < 0 {
			return fmt.Errorf("simple group %s has negative bonus rent", group.Name)
		}

		for _, asset := range group.Assets {
			if asset.Cost <= 0 || asset.Rent < 0 {
				return fmt.Errorf("asset %s has invalid cost or rent", asset.Name)
			}
		}
	}

	return nil
}

func (that *Definition) validateLayout() error {
	if len(that.Layout) != Size {
		return fmt.Errorf("layout has %d squares, want %d", len(that.Layout), Size)
	}

	placed := make(map[[3]int]bool)

	for i, square := range that.Layout {
		want, fixed := fixedSquares[i]
		switch {
		case fixed && square.Kind != want:
			return fmt.Errorf("square %d must be %s, got %s", i, want, square.Kind)
		case fixed:
			continue
		}

		switch square.Kind {
		case KindStart, KindJail, KindParking, KindGoToJail:
			return fmt.Errorf("square %d: %s is only allowed at its fixed index", i, square.Kind)
		case KindSurprise, KindWarrant:
		case KindCity:
			if square.Group < 0 || square.Group >= len(that.Countries) ||
				square.Asset < 0 || square.Asset >= len(that.Countries[square.Group].Cities) {
				return fmt.Errorf("square %d references unknown city %d/%d", i, square.Group, square.Asset)
			}
		case KindSimple:
			if square.Group < 0 || square.Group >= len(that.SimpleGroups) ||
				square.Asset < 0 || square.Asset >= len(that.SimpleGroups[square.Group].Assets) {
				return fmt.Errorf("square %d references unknown simple asset %d/%d", i, square.Group, square.Asset)
			}
		default:
			return fmt.Errorf("square %d has unknown kind %q", i, square.Kind)
		}

		if square.IsAsset() {
			key := assetKey(square)
			if placed[key] {
				return fmt.Errorf("square %d places asset %d/%d twice", i, square.Group, square.Asset)
			}
			placed[key] = true
		}
	}

	for g, country := range that.Countries {
		for a := range country.Cities {
			if !placed[[3]int{0, g, a}] {
				return fmt.Errorf("city %s is not on the board", country.Cities[a].Name)
			}
		}
	}

	for g, group := range that.SimpleGroups {
		for a := range group.Assets {
			if !placed[[3]int{1, g, a}] {
				return fmt.Errorf("asset %s is not on the board", group.Assets[a].Name)
			}
		}
	}

	return nil
}

func (that *Definition) hasSquare(kind SquareKind) bool {
	for _, square := range that.Layout {
		if square.Kind == kind {
			return true
		}
	}

	return false
}

func validateDeck(kind SquareKind, cards []Card, required bool) error {
	if required && len(cards) == 0 {
		return fmt.Errorf("%s deck is empty", kind)
	}

	settles := len(cards) == 0
	for i, card := range cards {
		switch card.Kind {
		case CardFinancial:
			if card.Target != TargetTreasury && card.Target != TargetOthers {
				return fmt.Errorf("%s card %d has financial target %q", kind, i, card.Target)
			}
			if card.Amount <= 0 {
				return fmt.Errorf("%s card %d has non-positive amount", kind, i)
			}
		case CardGoto:
			if card.Target != TargetStart && card.Target != TargetNext && card.Target != TargetJail {
				return fmt.Errorf("%s card %d has goto target %q", kind, i, card.Target)
			}
		case CardPardon:
			if kind != KindSurprise {
				return fmt.Errorf("%s card %d: pardon cards belong to the surprise deck", kind, i)
			}
		default:
			return fmt.Errorf("%s card %d has unknown kind %q", kind, i, card.Kind)
		}

		// Pardons leave the deck while held, so they cannot end a chain of advance-to-next draws.
		if card.Kind == CardFinancial || (card.Kind == CardGoto && card.Target != TargetNext) {
			settles = true
		}
	}

	if !settles {
		return fmt.Errorf("%s deck holds only advance-to-next and pardon cards", kind)
	}

	return nil
}

func assetKey(square Square) [3]int {
	if square.Kind == KindCity {
		return [3]int{0, square.Group, square.Asset}
	}

	return [3]int{1, square.Group, square.Asset}
}
