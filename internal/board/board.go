package board

const (
	Size = 36

	StartIndex    = 0
	JailIndex     = 9
	ParkingIndex  = 18
	GoToJailIndex = 27

	MaxHouses          = 3
	MaxCitiesInCountry = 3
)

type SquareKind string

const (
	KindStart    SquareKind = "start"
	KindJail     SquareKind = "jail"
	KindParking  SquareKind = "parking"
	KindGoToJail SquareKind = "go-to-jail"
	KindCity     SquareKind = "city"
	KindSimple   SquareKind = "simple"
	KindSurprise SquareKind = "surprise"
	KindWarrant  SquareKind = "warrant"
)

type CardKind string

const (
	CardFinancial CardKind = "financial"
	CardGoto      CardKind = "goto"
	CardPardon    CardKind = "pardon"
)

type CardTarget string

const (
	TargetTreasury CardTarget = "treasury"
	TargetOthers   CardTarget = "others"
	TargetStart    CardTarget = "start"
	TargetNext     CardTarget = "next"
	TargetJail     CardTarget = "jail"
)

// Definition is the static description of a board: groups, card decks and square layout.
type Definition struct {
	Countries     []Country     `yaml:"countries" json:"countries"`
	SimpleGroups  []SimpleGroup `yaml:"simple-groups" json:"simple_groups"`
	SurpriseCards []Card        `yaml:"surprise-cards" json:"surprise_cards"`
	WarrantCards  []Card        `yaml:"warrant-cards" json:"warrant_cards"`
	Layout        []Square      `yaml:"layout" json:"layout"`
}

type Country struct {
	Name   string `yaml:"name" json:"name"`
	Cities []City `yaml:"cities" json:"cities"`
}

// City rents are indexed by the number of houses built, from 0 to MaxHouses.
type City struct {
	Name      string `yaml:"name" json:"name"`
	Cost      int    `yaml:"cost" json:"cost"`
	HouseCost int    `yaml:"house-cost" json:"house_cost"`
	Rents     []int  `yaml:"rents" json:"rents"`
}

type SimpleGroup struct {
	Name      string        `yaml:"name" json:"name"`
	BonusRent int           `yaml:"bonus-rent" json:"bonus_rent"`
	Assets    []SimpleAsset `yaml:"assets" json:"assets"`
}

type SimpleAsset struct {
	Name string `yaml:"name" json:"name"`
	Cost int    `yaml:"cost" json:"cost"`
	Rent int    `yaml:"rent" json:"rent"`
}

type Card struct {
	Text   string     `yaml:"text" json:"text"`
	Kind   CardKind   `yaml:"kind" json:"kind"`
	Target CardTarget `yaml:"target,omitempty" json:"target,omitempty"`
	Amount int        `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// Square places one board position. Group and Asset index Countries/SimpleGroups
// for city and simple squares and are ignored otherwise.
type Square struct {
	Kind  SquareKind `yaml:"kind" json:"kind"`
	Group int        `yaml:"group,omitempty" json:"group,omitempty"`
	Asset int        `yaml:"asset,omitempty" json:"asset,omitempty"`
}

func (that Square) IsAsset() bool {
	return that.Kind == KindCity || that.Kind == KindSimple
}
