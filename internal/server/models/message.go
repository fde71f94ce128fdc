package models

import "time"

// TranscriptWord is one timed word of an audio message transcript.
// Occurrence is the 1-based count of how many times this exact word text
// has appeared so far within the same message, in temporal order.
type TranscriptWord struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Occurrence int     `json:"occurrence"`
}

// Sender is the display identity embedded in a message.
type Sender struct {
	FullName string `json:"fullname,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// Message is a single chat message addressed to a group. Exactly one of
// Text and Audio is populated. RecieverID keeps the historical field name
// of the wire format; it identifies the receiving Group, not a user.
// Messages are immutable once created.
type Message struct {
	ID         string           `json:"id"`
	Text       *string          `json:"text,omitempty"`
	Audio      *string          `json:"audio,omitempty"`
	AudioTrans *string          `json:"audioTrans,omitempty"`
	AudioTime  []TranscriptWord `json:"audioTime,omitempty"`
	SenderID   string           `json:"senderId"`
	Sender     *Sender          `json:"sender,omitempty"`
	RecieverID string           `json:"recieverId"`
	Anonymous  bool             `json:"anonymous"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// IsAudio reports whether the message carries an audio payload.
func (m *Message) IsAudio() bool {
	return m.Audio != nil
}
