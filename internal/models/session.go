package models

import "time"

// SessionRecord is a server-side session document. Values hold JSON encoded
// session values keyed by name.
type SessionRecord struct {
	ID        string            `bson:"_id" json:"id"`
	Values    map[string]string `bson:"values" json:"values"`
	ExpiresAt time.Time         `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updated_at"`
}

func (SessionRecord) CollectionName() string {
	return "sessions"
}
