package domain

type BoardID string

// Board is an independent top-level document. Profiles reference boards by
// id only; a board is never embedded in a profile document.
type Board struct {
	ID     BoardID `json:"id"`
	Name   string  `json:"name"`
	Stacks []Stack `json:"stacks"`
}

type Stack struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	YoutubeID string `json:"youtubeId"`
}

// DefaultBoard returns the board template seeded for a brand new account.
// The template only ever holds one stack with one item, so those ids are
// fixed; the board id is assigned by the caller.
func DefaultBoard(id BoardID) *Board {
	return &Board{
		ID:   id,
		Name: "First Board",
		Stacks: []Stack{
			{
				ID:   "STACK_1",
				Name: "FirstStack",
				Items: []Item{
					{
						ID:        "ITEM_1",
						Name:      "first item",
						YoutubeID: "WddpRmmAYkg",
					},
				},
			},
		},
	}
}
