package tokenstore

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/session"
)

// InMemStore is a TokenStore for tests and throwaway sessions.
type InMemStore struct {
	mu    sync.Mutex
	token string
}

var _ session.TokenStore = (*InMemStore)(nil)

func NewInMemStore() *InMemStore {
	return &InMemStore{}
}

func (ms *InMemStore) Read() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.token, nil
}

func (ms *InMemStore) Write(token string) error {
	ms.mu.Lock()
	ms.token = token
	ms.mu.Unlock()
	return nil
}

func (ms *InMemStore) Clear() error {
	return ms.Write("")
}
