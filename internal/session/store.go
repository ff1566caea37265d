// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatnotes/internal/export"
	"github.com/jeranaias/chatnotes/internal/model"
)

// =============================================================================
// PERSISTENCE
// =============================================================================

// Persister loads and saves the whole collection. Implementations absorb
// their own failures. storage.Gateway satisfies it.
type Persister interface {
	Load() []*model.Conversation
	Save(convs []*model.Conversation)
	Clear()
}

// failureReporter is implemented by persisters that can report failed writes.
type failureReporter interface {
	OnFailure(fn func(op string, err error))
}

// =============================================================================
// STORE
// =============================================================================

// Store owns the conversation collection and the active selection for the
// process lifetime. Every command runs synchronously and persists before it
// returns. A Store is not safe for concurrent use.
type Store struct {
	persister Persister
	notifier  Notifier
	exporter  export.Exporter
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string

	initialized   bool
	conversations []*model.Conversation // most recently created first
	activeID      string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for ids, timestamps and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the source of conversation and message ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithNotifier sets the receiver of user-facing notices.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithExporter sets the exporter used by ExportOne and ExportAll.
func WithExporter(exp export.Exporter) Option {
	return func(s *Store) { s.exporter = exp }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore creates a store over p. The collection is not read until
// Initialize or the first command.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister:     p,
		notifier:      discardNotifier{},
		exporter:      export.NewMarkdownExporter(nil),
		log:           zerolog.Nop(),
		now:           time.Now,
		newID:         uuid.NewString,
		conversations: []*model.Conversation{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if r, ok := p.(failureReporter); ok {
		r.OnFailure(s.persistFailed)
	}
	return s
}

// Initialize loads the stored collection and selects its first conversation.
// Only the first call has any effect.
func (s *Store) Initialize() {
	if s.initialized {
		return
	}
	s.initialized = true

	s.conversations = s.persister.Load()
	if s.conversations == nil {
		s.conversations = []*model.Conversation{}
	}
	s.activeID = ""
	if len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
	}

	s.log.Debug().Int("conversations", len(s.conversations)).Str("active", s.activeID).Msg("store initialized")
}

// =============================================================================
// COMMANDS
// =============================================================================

// CreateConversation prepends an empty conversation, makes it active and
// returns its id.
func (s *Store) CreateConversation() string {
	s.Initialize()

	conv := model.NewConversation(s.newID(), s.now())
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	s.persist()

	s.log.Debug().Str("id", conv.ID).Msg("conversation created")
	return conv.ID
}

// DeleteConversation removes the conversation with id. Deleting the active
// conversation selects the first remaining one. The collection is persisted
// and a notice raised even when id is unknown.
func (s *Store) DeleteConversation(id string) {
	s.Initialize()

	for i, conv := range s.conversations {
		if conv.ID == id {
			s.conversations = append(s.conversations[:i:i], s.conversations[i+1:]...)
			break
		}
	}

	if s.activeID == id {
		s.activeID = ""
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		}
	}

	s.persist()
	s.notifier.Notify(noticeDeleted)
	s.log.Debug().Str("id", id).Str("active", s.activeID).Msg("conversation deleted")
}

// SetActive selects the conversation with id. Unknown ids are ignored.
func (s *Store) SetActive(id string) {
	s.Initialize()

	if s.find(id) != nil {
		s.activeID = id
	}
}

// SendMessage appends a message to the active conversation and returns a
// copy of it. Blank content, an invalid role or no active conversation make
// it a no-op that returns false.
func (s *Store) SendMessage(content string, role model.Role) (model.Message, bool) {
	s.Initialize()

	conv := s.find(s.activeID)
	if conv == nil || strings.TrimSpace(content) == "" || !role.Valid() {
		return model.Message{}, false
	}

	msg := model.NewMessage(s.newID(), content, role, s.now())
	conv.Append(msg)
	s.persist()

	s.log.Debug().Str("conversation", conv.ID).Str("role", role.String()).Msg("message sent")
	return *msg, true
}

// ExportOne renders the conversation with id. Unknown ids return false.
func (s *Store) ExportOne(id string) (export.Document, bool) {
	s.Initialize()

	conv := s.find(id)
	if conv == nil {
		return export.Document{}, false
	}

	doc, err := export.BuildOne(s.exporter, conv, s.now())
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("export failed")
		return export.Document{}, false
	}

	s.notifier.Notify(exportedNotice("Conversation", formatName(s.exporter.FileExtension())))
	return doc, true
}

// ExportAll renders the whole collection in its current order.
func (s *Store) ExportAll() (export.Document, bool) {
	s.Initialize()

	doc, err := export.BuildAll(s.exporter, s.conversations, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("export failed")
		return export.Document{}, false
	}

	s.notifier.Notify(exportedNotice("All conversations", formatName(s.exporter.FileExtension())))
	return doc, true
}

// ClearAllData empties the collection and removes the stored value.
func (s *Store) ClearAllData() {
	s.Initialize()

	s.conversations = []*model.Conversation{}
	s.activeID = ""
	s.persister.Clear()

	s.notifier.Notify(noticeCleared)
	s.log.Debug().Msg("all data cleared")
}

// =============================================================================
// READ VIEWS
// =============================================================================

// ListConversations returns copies of all conversations in current order.
func (s *Store) ListConversations() []*model.Conversation {
	s.Initialize()

	out := make([]*model.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = conv.Clone()
	}
	return out
}

// ActiveConversation returns a copy of the active conversation, or nil.
func (s *Store) ActiveConversation() *model.Conversation {
	s.Initialize()

	if conv := s.find(s.activeID); conv != nil {
		return conv.Clone()
	}
	return nil
}

// ActiveID returns the active conversation id, or "" when none is active.
func (s *Store) ActiveID() string {
	s.Initialize()
	return s.activeID
}

// Conversation returns a copy of the conversation with id.
func (s *Store) Conversation(id string) (*model.Conversation, bool) {
	s.Initialize()

	if conv := s.find(id); conv != nil {
		return conv.Clone(), true
	}
	return nil, false
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) find(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

func (s *Store) persist() {
	s.persister.Save(s.conversations)
}

func (s *Store) persistFailed(op string, err error) {
	s.log.Debug().Err(err).Str("op", op).Msg("persist failed, keeping in-memory state")
	s.notifier.Notify(noticeNotSaved)
}
