package domain

import "time"

// TimeLayout is the wall-clock format of Message.SentAt.
const TimeLayout = "15:04:05"

type Message struct {
	Author string
	Text   string
	SentAt string
}

func NewMessage(author, text string, now time.Time) Message {
	return Message{
		Author: author,
		Text:   text,
		SentAt: now.Format(TimeLayout),
	}
}
