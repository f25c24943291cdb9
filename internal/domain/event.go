package domain

import "time"

// Category is one of the five business dimensions an event belongs to
type Category string

const (
	CategoryFinance    Category = "finance"
	CategoryCommercial Category = "commercial"
	CategorySocial     Category = "social"
	CategoryProduction Category = "production"
	CategoryDirection  Category = "direction"
)

// Categories lists the five business dimensions in scoreboard order
var Categories = []Category{
	CategoryFinance,
	CategoryCommercial,
	CategorySocial,
	CategoryProduction,
	CategoryDirection,
}

// specialistByCategory maps an event category to the company role allowed to
// make the initial proposal for it
var specialistByCategory = map[Category]Role{
	CategoryFinance:    RoleFinance,
	CategoryCommercial: RoleCommercial,
	CategorySocial:     RoleRH,
	CategoryProduction: RoleProduction,
	CategoryDirection:  RoleDG,
}

// Valid reports whether the category is one of the five business dimensions
func (c Category) Valid() bool {
	_, ok := specialistByCategory[c]
	return ok
}

// SpecialistRole returns the company role privileged to propose for events
// of this category
func (c Category) SpecialistRole() Role {
	return specialistByCategory[c]
}

// Event is a scripted scenario presented to every team in a session.
// Immutable from the workflow's point of view.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Options     []Option  `json:"options"`
	CreatedAt   time.Time `json:"created_at"`
}

// Option is one possible response to an event, carrying a fixed point delta
// over the five business dimensions
type Option struct {
	ID            string      `json:"id"`
	EventID       string      `json:"event_id"`
	Label         string      `json:"label"`
	Description   string      `json:"description"`
	Points        ScoreVector `json:"points"`
	PointsMoyenne float64     `json:"points_moyenne"`
}

// Option returns the event option with the given id, or nil if the id does
// not belong to this event
func (e *Event) Option(optionID string) *Option {
	for i := range e.Options {
		if e.Options[i].ID == optionID {
			return &e.Options[i]
		}
	}
	return nil
}
