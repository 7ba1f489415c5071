package entity

type PlayerDetails struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Human    bool   `json:"human"`
	Active   bool   `json:"active"`
	Cash     int    `json:"cash"`
	Position int    `json:"position"`

	Assets []string `json:"assets,omitempty"`
}
