package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either HTML/Text are set directly, or Template and Data are rendered by the worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome", "account_removed"
	Data     map[string]any `json:"data,omitempty"`
}
