package dto

import "time"

// InboundMessage is the transient, parsed form of a fetched email. It is
// consumed by the ingestion pipeline and discarded; only derived records
// persist.
type InboundMessage struct {
	UID         uint32
	MessageID   string
	InReplyTo   string
	References  []string
	FromAddress string
	FromName    string
	ToAddresses []string
	Subject     string
	BodyText    string
	BodyHTML    string
	Timestamp   time.Time
	Attachments []Attachment
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
	Size        int
}

// SearchMode selects which IMAP search criteria a fetch uses.
type SearchMode string

const (
	SearchUnseen  SearchMode = "unseen"
	SearchAll     SearchMode = "all"
	SearchSince   SearchMode = "since"
	SearchSenders SearchMode = "senders"
)

// SearchFilter describes which messages a fetch should return.
type SearchFilter struct {
	Mode    SearchMode
	Since   time.Time
	Before  time.Time
	Senders []string
}
