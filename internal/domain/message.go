package domain

import "time"

// InboundMessage is one unit of user-originated text received from a channel.
type InboundMessage struct {
	Channel   string
	ChatID    string
	SenderID  string
	Content   string
	Timestamp time.Time
}

// OutboundMessage is one platform-deliverable unit of reply text. The
// pipeline guarantees Content fits within the channel's message limit, so a
// channel delivers each OutboundMessage as exactly one send.
type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
	Format  string // text | markdown
}
