// Package json persists threads to disk in a versioned envelope format.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/relay-chat/relay"
)

// envelope is the v1 wire format for a persisted thread.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	Title     string       `json:"title,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

// messageDTO is the JSON representation of a ChatMessage.
type messageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalThread serializes a Thread to JSON in v1 envelope format.
func MarshalThread(t relay.Thread) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Messages:  make([]messageDTO, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		env.Messages[i] = messageDTO{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalThread deserializes a Thread from JSON in v1 envelope format.
func UnmarshalThread(data []byte) (relay.Thread, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return relay.Thread{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return relay.Thread{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}

	msgs := make([]relay.ChatMessage, len(env.Messages))
	for i, dto := range env.Messages {
		role := relay.Role(dto.Role)
		if role != relay.RoleUser && role != relay.RoleAssistant {
			return relay.Thread{}, fmt.Errorf("message %d: unknown role: %q", i, dto.Role)
		}
		msgs[i] = relay.ChatMessage{
			Role:      role,
			Content:   dto.Content,
			Timestamp: dto.Timestamp,
		}
	}
	return relay.Thread{
		ID:        env.ID,
		Title:     env.Title,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}

// Save writes a Thread to a JSON file, creating parent directories as
// needed. The write is atomic: data lands in a temp file first and is
// renamed into place.
func Save(path string, t relay.Thread) error {
	data, err := MarshalThread(t)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Load reads a Thread from a JSON file.
func Load(path string) (relay.Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return relay.Thread{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalThread(data)
}
