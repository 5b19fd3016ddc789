// Package store persists conversations and user settings in the host
// key-value store. The conversation list lives under one global key as a
// single JSON blob and is rewritten wholesale on every mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voicepanel/internal/domain"
	"voicepanel/internal/ports"
)

const conversationsKey = "conversations"

const (
	defaultTitle  = "New Conversation"
	maxTitleRunes = 50
)

// ErrNotFound reports that no stored conversation matches the requested id.
var ErrNotFound = errors.New("conversation not found")

// Conversations is the conversation half of the persistent store.
type Conversations struct {
	kv    ports.KeyValue
	now   func() time.Time
	newID func() string
}

// NewConversations wires the store to a key-value backend.
func NewConversations(kv ports.KeyValue) *Conversations {
	return &Conversations{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Save inserts or updates one conversation and returns the stored record.
// An empty id inserts under a freshly generated identifier. A known id
// overwrites that entry's messages (and title, when one is supplied) and
// bumps UpdatedAt, preserving ID and CreatedAt. An unknown id inserts a new
// entry under that id.
func (c *Conversations) Save(id string, title string, messages []domain.Message) (domain.Conversation, error) {
	list, err := c.readAll()
	if err != nil {
		return domain.Conversation{}, err
	}

	now := c.now()
	if id != "" {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			list[i].Messages = messages
			if strings.TrimSpace(title) != "" {
				list[i].Title = title
			}
			list[i].UpdatedAt = now
			if err := c.writeAll(list); err != nil {
				return domain.Conversation{}, err
			}
			return list[i], nil
		}
	}

	conv := domain.Conversation{
		ID:        id,
		Title:     deriveTitle(title, messages),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  messages,
	}
	if conv.ID == "" {
		conv.ID = c.newID()
	}
	list = append(list, conv)
	if err := c.writeAll(list); err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

// Load returns the conversation with the given id, or ErrNotFound.
func (c *Conversations) Load(id string) (domain.Conversation, error) {
	list, err := c.readAll()
	if err != nil {
		return domain.Conversation{}, err
	}
	for _, conv := range list {
		if conv.ID == id {
			return conv, nil
		}
	}
	return domain.Conversation{}, ErrNotFound
}

// List returns one summary per stored conversation in insertion order.
// Summaries carry message counts, never message bodies.
func (c *Conversations) List() ([]domain.Summary, error) {
	list, err := c.readAll()
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.Summary, 0, len(list))
	for _, conv := range list {
		summaries = append(summaries, domain.Summary{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
		})
	}
	return summaries, nil
}

// Delete removes the conversation with the given id and reports whether an
// entry was removed. An unknown id leaves the stored list untouched.
func (c *Conversations) Delete(id string) (bool, error) {
	list, err := c.readAll()
	if err != nil {
		return false, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if err := c.writeAll(list); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (c *Conversations) readAll() ([]domain.Conversation, error) {
	raw, ok, err := c.kv.Get(conversationsKey)
	if err != nil {
		return nil, fmt.Errorf("read conversations: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var list []domain.Conversation
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return list, nil
}

func (c *Conversations) writeAll(list []domain.Conversation) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}
	if err := c.kv.Put(conversationsKey, raw); err != nil {
		return fmt.Errorf("write conversations: %w", err)
	}
	return nil
}

// deriveTitle picks the supplied title, else the first user message trimmed
// to a display length, else a fixed default.
func deriveTitle(title string, messages []domain.Message) string {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		return trimmed
	}
	for _, msg := range messages {
		if msg.Role != domain.RoleUser {
			continue
		}
		text := strings.Join(strings.Fields(msg.Content), " ")
		if text == "" {
			break
		}
		runes := []rune(text)
		if len(runes) > maxTitleRunes {
			return string(runes[:maxTitleRunes])
		}
		return text
	}
	return defaultTitle
}
