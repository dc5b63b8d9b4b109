package posclient

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/baancha/pos/pkg/cart"
)

// CartStore wraps a cart with write-through persistence: every mutation is
// flushed to a JSON file in the state dir so the order-in-progress survives
// a terminal restart.
type CartStore struct {
	path string
	cart *cart.Cart
}

// OpenCartStore rehydrates the cart from the state dir. A missing file
// starts empty; a corrupt file is discarded with a log line rather than
// blocking the terminal.
func OpenCartStore(stateDir string) (*CartStore, error) {
	path := filepath.Join(stateDir, "cart.json")
	s := &CartStore{path: path, cart: cart.New()}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("ERROR: cart file %s is corrupt, starting empty: %v", path, err)
		return s, nil
	}
	s.cart = cart.Restore(items)
	return s, nil
}

func (s *CartStore) Items() []cart.Item {
	return s.cart.Items()
}

func (s *CartStore) Subtotal() string {
	return s.cart.Subtotal().StringFixed(2)
}

func (s *CartStore) Add(item cart.Item) error {
	s.cart.Add(item)
	return s.flush()
}

func (s *CartStore) Update(id string, item cart.Item) error {
	if err := s.cart.Update(id, item); err != nil {
		return err
	}
	return s.flush()
}

func (s *CartStore) Remove(id string) error {
	s.cart.Remove(id)
	return s.flush()
}

func (s *CartStore) Clear() error {
	s.cart.Clear()
	return s.flush()
}

func (s *CartStore) flush() error {
	data, err := json.MarshalIndent(s.cart.Items(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return nil
}
