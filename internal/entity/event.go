package entity

type EventType string

const (
	EventGameStart        EventType = "GameStart"
	EventGameOver         EventType = "GameOver"
	EventGameWinner       EventType = "GameWinner"
	EventPlayerResigned   EventType = "PlayerResigned"
	EventPlayerLost       EventType = "PlayerLost"
	EventPromptDiceRoll   EventType = "PromptDiceRoll"
	EventDiceRoll         EventType = "DiceRoll"
	EventPlayerMoved      EventType = "PlayerMoved"
	EventPassedStart      EventType = "PassedStart"
	EventLandedOnStart    EventType = "LandedOnStart"
	EventGoToJail         EventType = "GoToJail"
	EventPromptBuyAsset   EventType = "PromptBuyAsset"
	EventPromptBuyHouse   EventType = "PromptBuyHouse"
	EventAssetBought      EventType = "AssetBought"
	EventHouseBought      EventType = "HouseBought"
	EventSurpriseCard     EventType = "SurpriseCard"
	EventWarrantCard      EventType = "WarrantCard"
	EventGetOutOfJailCard EventType = "GetOutOfJailCard"
	EventPayment          EventType = "Payment"
	EventUsedPardonCard   EventType = "UsedPardonCard"
)

const (
	MoveRegular  = "regular"
	MoveTeleport = "teleport"
)

// Event is an immutable record of one change in a game. Clients address events by ID.
type Event struct {
	ID             int       `json:"id"`
	GameName       string    `json:"game_name"`
	Type           EventType `json:"type"`
	PlayerName     string    `json:"player_name,omitempty"`
	Message        string    `json:"message,omitempty"`
	TimeoutSeconds int       `json:"timeout_seconds,omitempty"`
	SquareID       int       `json:"square_id"`
	NextSquareID   int       `json:"next_square_id"`
	FirstDice      int       `json:"first_dice,omitempty"`
	SecondDice     int       `json:"second_dice,omitempty"`

	PaymentAmount       int    `json:"payment_amount,omitempty"`
	PaymentFromPlayer   bool   `json:"payment_from_player"`
	PaymentWithTreasury bool   `json:"payment_with_treasury"`
	PaymentToPlayerName string `json:"payment_to_player_name,omitempty"`
}

func (that Event) IsPrompt() bool {
	switch that.Type {
	case EventPromptDiceRoll, EventPromptBuyAsset, EventPromptBuyHouse:
		return true
	default:
		return false
	}
}

func (that Event) IsFinal() bool {
	return that.Type == EventGameOver
}
