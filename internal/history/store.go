// Package history persists conversation threads as JSON files under the
// user's config directory so past conversations can be listed and reopened.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const threadsDirName = ".graphchat/threads"

// Message is one transcript entry. Role matches the transcript roles:
// "user", "assistant", "tool_call" or "tool_result".
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Thread is a stored conversation keyed by its server-side thread id.
type Thread struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// ThreadMeta is a lightweight view of a thread for listings.
type ThreadMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// Title derives a listing title from the first user message.
func (t *Thread) Title() string {
	for _, m := range t.Messages {
		if m.Role != "user" {
			continue
		}
		name := strings.ReplaceAll(m.Content, "\n", " ")
		name = strings.TrimSpace(name)
		if len(name) > 30 {
			name = name[:30] + "..."
		}
		if name != "" {
			return name
		}
	}
	return fmt.Sprintf("Thread %s", t.CreatedAt.Format("Jan 2, 3:04 PM"))
}

// Store reads and writes threads on disk.
type Store struct {
	dir string
}

func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot find home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, threadsDirName))
}

func NewStoreAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating threads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) Save(thread *Thread) error {
	if thread.ID == "" {
		return fmt.Errorf("thread has no id")
	}

	thread.UpdatedAt = time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = thread.UpdatedAt
	}

	data, err := json.MarshalIndent(thread, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling thread: %w", err)
	}

	if err := os.WriteFile(s.path(thread.ID), data, 0600); err != nil {
		return fmt.Errorf("writing thread file: %w", err)
	}
	return nil
}

func (s *Store) Load(id string) (*Thread, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("reading thread file: %w", err)
	}

	var thread Thread
	if err := json.Unmarshal(data, &thread); err != nil {
		return nil, fmt.Errorf("parsing thread file: %w", err)
	}
	return &thread, nil
}

// Append adds a message to a thread, creating the thread file when it does
// not exist yet.
func (s *Store) Append(id, role, content string) error {
	thread, err := s.Load(id)
	if err != nil {
		// Missing or unreadable threads start over rather than blocking chat.
		thread = &Thread{ID: id}
	}
	thread.Messages = append(thread.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return s.Save(thread)
}

// List returns metadata for all threads, newest first. Unreadable files are
// skipped.
func (s *Store) List() ([]ThreadMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading threads directory: %w", err)
	}

	var threads []ThreadMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}

		var thread Thread
		if err := json.Unmarshal(data, &thread); err != nil {
			continue
		}

		threads = append(threads, ThreadMeta{
			ID:           thread.ID,
			Title:        thread.Title(),
			CreatedAt:    thread.CreatedAt,
			UpdatedAt:    thread.UpdatedAt,
			MessageCount: len(thread.Messages),
		})
	}

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].UpdatedAt.After(threads[j].UpdatedAt)
	})
	return threads, nil
}

func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		return fmt.Errorf("deleting thread file: %w", err)
	}
	return nil
}
