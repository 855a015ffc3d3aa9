package model

// Notification is the payload published to the notifications topic and
// delivered by the notifier consumer.
type Notification struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
