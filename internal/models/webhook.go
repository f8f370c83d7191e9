package models

type WebhookAck struct {
	Received bool `json:"received"`
}
