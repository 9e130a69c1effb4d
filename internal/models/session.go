package models

import "time"

// Exchange is one completed question/answer round in a session.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session holds the conversation history for one API session.
type Session struct {
	ID        string     `json:"id" badgerhold:"key"`
	Exchanges []Exchange `json:"exchanges"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
