package websocket

import (
	"encoding/json"
	"time"

	"notes-api/internal/domain"
)

type MessageType string

const (
	TypeNoteCreated  MessageType = MessageType(domain.NoteCreated)
	TypeNoteUpdated  MessageType = MessageType(domain.NoteUpdated)
	TypeNoteDeleted  MessageType = MessageType(domain.NoteDeleted)
	TypeNoteArchived MessageType = MessageType(domain.NoteArchived)
	TypePing         MessageType = "ping"
	TypePong         MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type NotePayload struct {
	ID   string               `json:"id"`
	Note *domain.NoteResponse `json:"note,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payloadBytes,
	}, nil
}

func NewNoteEventMessage(event *domain.NoteEvent) (*Message, error) {
	return NewMessage(MessageType(event.Type), &NotePayload{ID: event.ID, Note: event.Note})
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
