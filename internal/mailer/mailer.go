package mailer

// Message is one outbound email with plain text and HTML alternatives.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(msg Message) error
}
