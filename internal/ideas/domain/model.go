package domain

type ActivityType string

const (
	ActivityStayIn ActivityType = "STAY_IN"
	ActivityGoOut  ActivityType = "GO_OUT"
)

func (t ActivityType) Valid() bool {
	return t == ActivityStayIn || t == ActivityGoOut
}

// Idea is a date idea as listed to clients, joined with its creator's username.
// Prices and coordinates stay text from the database to the wire.
type Idea struct {
	ID                int64        `json:"idea_id" db:"idea_id"`
	Title             string       `json:"title" db:"title"`
	ActivityType      ActivityType `json:"activity_type" db:"activity_type"`
	EstPricePerPerson string       `json:"est_price_per_person" db:"est_price_per_person"`
	Latitude          *string      `json:"latitude" db:"latitude"`
	Longitude         *string      `json:"longitude" db:"longitude"`
	IsPublic          bool         `json:"is_public" db:"is_public"`
	CreatorUsername   *string      `json:"creator_username" db:"creator_username"`
}

// CreatedIdea is the response shape of a successful create.
type CreatedIdea struct {
	ID                int64        `json:"idea_id"`
	Title             string       `json:"title"`
	ActivityType      ActivityType `json:"activity_type"`
	EstPricePerPerson string       `json:"est_price_per_person"`
	CreatorUsername   *string      `json:"creator_username"`
}

// UpdatedIdea is what an update echoes back. Location is written but not returned.
type UpdatedIdea struct {
	ID                int64        `json:"idea_id" db:"idea_id"`
	Title             string       `json:"title" db:"title"`
	ActivityType      ActivityType `json:"activity_type" db:"activity_type"`
	EstPricePerPerson string       `json:"est_price_per_person" db:"est_price_per_person"`
}

type ListOptions struct {
	// PublicOnly restricts the list to is_public ideas. Off by default: the
	// explore feed shows every idea.
	PublicOnly bool
}

// NewIdea holds validated input for a create.
type NewIdea struct {
	Title           string
	ActivityType    ActivityType
	Price           Price
	CreatorUsername string
}

// IdeaUpdate holds validated input for a full replace. A nil Location clears
// any stored coordinates.
type IdeaUpdate struct {
	Title        string
	ActivityType ActivityType
	Price        Price
	Location     *Location
}

type Location struct {
	Latitude  string
	Longitude string
}
