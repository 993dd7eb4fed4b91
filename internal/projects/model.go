package projects

import "time"

type Project struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	Category    string      `bson:"category" json:"category"`
	TechStack   []string    `bson:"techStack" json:"techStack"`
	Link        string      `bson:"link" json:"link"`
	Featured    bool        `bson:"featured" json:"featured"`
	ImageURL    string      `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageID     string      `bson:"imageId,omitempty" json:"imageId,omitempty"`
	Milestones  []Milestone `bson:"milestones,omitempty" json:"milestones,omitempty"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// Milestone order within a project is significant.
type Milestone struct {
	ID          string `bson:"id" json:"id"`
	Year        string `bson:"year" json:"year" validate:"nonblank"`
	Title       string `bson:"title" json:"title" validate:"nonblank"`
	Description string `bson:"description" json:"description"`
}

// ProjectImage is written by the seed routine only; no read path resolves
// Project.ImageID against it.
type ProjectImage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	URL       string    `bson:"url" json:"url"`
	Alt       string    `bson:"alt" json:"alt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Fields is everything a caller may supply when creating a project.
type Fields struct {
	Title       string
	Description string
	Category    string
	TechStack   []string
	Link        string
	Featured    bool
	ImageURL    string
	ImageID     string
	Milestones  []Milestone
}

// Patch holds the fields of a partial update; nil means unchanged.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	TechStack   *[]string
	Link        *string
	Featured    *bool
	ImageURL    *string
	ImageID     *string
	Milestones  *[]Milestone
}
