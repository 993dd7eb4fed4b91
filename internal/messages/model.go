package messages

import "time"

type ContactMessage struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Message   string    `bson:"message" json:"message"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateRequest carries the contact form rules; the service stores whatever
// it is given.
type CreateRequest struct {
	Name    string `json:"name" validate:"nonblank,maxrunes=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"minrunes=10,maxrunes=500"`
}
