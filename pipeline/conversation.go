package pipeline

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/errors"
	"github.com/wippyai/bertml/resource"
)

// ConversationID identifies a conversation within its manager.
type ConversationID uint64

// Exchange is one user input and the response it received.
type Exchange struct {
	Input    string `json:"input"`
	Response string `json:"response"`
}

// Conversation holds the history of one conversation and at most one user
// input waiting for a response.
type Conversation struct {
	pending *string
	History []Exchange
	ID      ConversationID
}

// AddUserInput queues text as the next input. A conversation holds a single
// pending input.
func (c *Conversation) AddUserInput(text string) error {
	if c.pending != nil {
		return errors.InvalidInput(errors.PhaseAccess,
			fmt.Sprintf("conversation %d already has input waiting for a response", c.ID))
	}
	c.pending = &text
	return nil
}

// Pending returns the queued input, if any.
func (c *Conversation) Pending() (string, bool) {
	if c.pending == nil {
		return "", false
	}
	return *c.pending, true
}

func (c *Conversation) discardPending() {
	c.pending = nil
}

// ConversationManager owns a set of conversations. It lives in the model
// resources table and is only reached under that table's lock.
type ConversationManager struct {
	conversations map[ConversationID]*Conversation
	next          ConversationID
}

// NewConversationManager creates a manager with no conversations.
func NewConversationManager() *ConversationManager {
	return &ConversationManager{conversations: make(map[ConversationID]*Conversation)}
}

func (*ConversationManager) Tag() resource.Tag { return KindConversationManager }

// CreateEmpty starts a conversation and returns its ID.
func (m *ConversationManager) CreateEmpty() ConversationID {
	id := m.next
	m.next++
	m.conversations[id] = &Conversation{ID: id}
	return id
}

// Get returns the conversation with the given ID.
func (m *ConversationManager) Get(id ConversationID) (*Conversation, bool) {
	c, ok := m.conversations[id]
	return c, ok
}

// Remove drops a conversation and its history.
func (m *ConversationManager) Remove(id ConversationID) bool {
	_, ok := m.conversations[id]
	delete(m.conversations, id)
	return ok
}

// Len returns the number of conversations.
func (m *ConversationManager) Len() int {
	return len(m.conversations)
}

// GenerateResponses asks r for a response to every conversation with a
// pending input, records each exchange in its history and returns the
// responses by conversation. On failure pending inputs are discarded.
func (m *ConversationManager) GenerateResponses(r Responder) (map[ConversationID]string, error) {
	var turns []Turn
	for _, c := range m.conversations {
		if input, ok := c.Pending(); ok {
			turns = append(turns, Turn{ID: c.ID, History: c.History, Input: input})
		}
	}
	if len(turns) == 0 {
		return map[ConversationID]string{}, nil
	}
	sort.Slice(turns, func(i, j int) bool { return turns[i].ID < turns[j].ID })

	responses, err := r.Respond(turns)
	if err == nil {
		err = checkCount("conversation", len(turns), len(responses))
	}
	if err != nil {
		for _, t := range turns {
			m.conversations[t.ID].discardPending()
		}
		return nil, upstream("conversation", err)
	}

	out := make(map[ConversationID]string, len(turns))
	for i, t := range turns {
		c := m.conversations[t.ID]
		c.History = append(c.History, Exchange{Input: t.Input, Response: responses[i]})
		c.discardPending()
		out[t.ID] = responses[i]
	}
	return out, nil
}

// CreateConversationModel creates a conversation model.
func (a *Adapters) CreateConversationModel() int64 {
	return a.createModel("create_conversation_model", "conversation", func() (bridge.Model, error) {
		r, err := capability[Responder](a.Backend.NewResponder())
		if err != nil {
			return nil, err
		}
		return &ConversationModel{r}, nil
	})
}

// CreateConversationManager creates an empty manager in the model
// resources table.
func (a *Adapters) CreateConversationManager() int64 {
	return a.Bridge.Exec("create_conversation_manager", func() (int64, error) {
		h, err := a.Bridge.Resources.Allocate(NewConversationManager())
		return bridge.Result(h), err
	})
}

// CreateConversation starts a conversation in the manager at mgr and
// returns an accessor handle for it.
func (a *Adapters) CreateConversation(mgr int64) int64 {
	return a.Bridge.Exec("create_conversation", func() (int64, error) {
		h, err := bridge.Handle(bridge.TableResources, mgr)
		if err != nil {
			return 0, err
		}
		id, err := resource.Access(a.Bridge.Resources, h, KindConversationManager,
			func(m *ConversationManager) (ConversationID, error) {
				return m.CreateEmpty(), nil
			})
		if err != nil {
			return 0, err
		}
		ah, err := a.Bridge.Accessors.Allocate(&ConversationRef{Manager: h, ID: id})
		if err != nil {
			if _, rerr := resource.Access(a.Bridge.Resources, h, KindConversationManager,
				func(m *ConversationManager) (bool, error) {
					return m.Remove(id), nil
				}); rerr != nil {
				a.logger.Warn("remove unreachable conversation", zap.Uint64("id", uint64(id)), zap.Error(rerr))
			}
			return 0, err
		}
		return bridge.Result(ah), nil
	})
}

// ConversationSend sends text to a conversation and returns the model's
// response as raw UTF-8.
//
// Locks are taken accessors, then model resources, then models.
func (a *Adapters) ConversationSend(model, mgr, convo int64, text []byte) int64 {
	return a.Bridge.Exec("conversation_send", func() (int64, error) {
		if !utf8.Valid(text) {
			return 0, errors.Deserialization("conversation input", fmt.Errorf("input is not valid UTF-8"))
		}
		input := string(text)

		ch, err := bridge.Handle(bridge.TableAccessors, convo)
		if err != nil {
			return 0, err
		}
		rh, err := bridge.Handle(bridge.TableResources, mgr)
		if err != nil {
			return 0, err
		}
		mh, err := bridge.Handle(bridge.TableModels, model)
		if err != nil {
			return 0, err
		}

		response, err := resource.Access(a.Bridge.Accessors, ch, KindConversationID,
			func(ref *ConversationRef) (string, error) {
				return resource.Access(a.Bridge.Resources, rh, KindConversationManager,
					func(m *ConversationManager) (string, error) {
						if ref.Manager != rh {
							return "", errors.New(errors.PhaseAccess, errors.KindNotFound).
								Table(bridge.TableResources).
								Detail("conversation %d belongs to manager %d, not %d", ref.ID, ref.Manager, mgr).
								Build()
						}
						c, ok := m.Get(ref.ID)
						if !ok {
							return "", errors.New(errors.PhaseAccess, errors.KindNotFound).
								Table(bridge.TableResources).
								Detail("conversation %d not found in manager %d", ref.ID, mgr).
								Build()
						}
						return resource.Access(a.Bridge.Models, mh, KindConversation,
							func(cm *ConversationModel) (string, error) {
								if err := c.AddUserInput(input); err != nil {
									return "", err
								}
								responses, err := m.GenerateResponses(cm.Responder)
								if err != nil {
									return "", err
								}
								out, ok := responses[ref.ID]
								if !ok {
									return "", errors.Upstream("model produced no response for the conversation", nil)
								}
								return out, nil
							})
					})
			})
		if err != nil {
			return 0, err
		}
		return a.Bridge.SetResult([]byte(response)), nil
	})
}
