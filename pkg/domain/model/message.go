package model

import "time"

// Message is a raw unread message fetched from a message source
type Message struct {
	ID         string
	Sender     string
	Subject    string
	Snippet    string
	Body       string
	ReceivedAt time.Time
}
