package enum

type EmailDirection string

const (
	EmailInbound  EmailDirection = "inbound"
	EmailOutbound EmailDirection = "outbound"
)

func (t EmailDirection) String() string {
	return string(t)
}

type EmailStatus string

const (
	EmailStatusReceived  EmailStatus = "received"
	EmailStatusProcessed EmailStatus = "processed"
	EmailStatusFailed    EmailStatus = "failed"
	EmailStatusSent      EmailStatus = "sent"
	EmailStatusDelivered EmailStatus = "delivered"
	EmailStatusBounced   EmailStatus = "bounced"
)

func (t EmailStatus) String() string {
	return string(t)
}
