package auth_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	auth "github.com/nikkinicholasromero/chat-service"
	"github.com/nikkinicholasromero/chat-service/mail"
)

// memoryStore is an in-memory AccountStore keyed the way the real repository
// is: identity on ID, lookups on normalized email.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*auth.Account
	findErr  error
	saveErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: map[uuid.UUID]*auth.Account{}}
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}

	for _, account := range s.accounts {
		if account.Email == auth.NormalizeEmail(email) {
			clone := *account
			return &clone, nil
		}
	}

	return nil, nil
}

func (s *memoryStore) Save(_ context.Context, account *auth.Account) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return nil, s.saveErr
	}

	clone := *account
	s.accounts[account.ID] = &clone
	return account, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// recordingSender captures outbound mail instead of delivering it.
type recordingSender struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.messages...)
}

func (s *recordingSender) last() mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[len(s.messages)-1]
}

// authedContext builds a context carrying the principal the session filter
// would have attached.
func authedContext(email string) context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{
		Email:     auth.NormalizeEmail(email),
		SessionID: "session-test",
	})
}
