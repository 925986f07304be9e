// Package memory provides an in-memory LedgerStore, used by tests and as a
// scratch backend when no persistence is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fiado/internal/models"
	"fiado/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps people and transactions in process memory. Safe for
// concurrent use.
type Store struct {
	mu           sync.Mutex
	people       map[string]models.Person
	transactions []models.Transaction
	seq          int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		people: make(map[string]models.Person),
	}
}

func (s *Store) AddPerson(_ context.Context, name string) (models.Person, error) {
	name, err := store.ValidateName(name)
	if err != nil {
		return models.Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.people {
		if p.Name == name {
			return models.Person{}, store.ErrDuplicateName
		}
	}

	p := models.Person{ID: uuid.NewString(), Name: name}
	s.people[p.ID] = p
	return p, nil
}

func (s *Store) ListPeople(_ context.Context) ([]models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	people := make([]models.Person, 0, len(s.people))
	for _, p := range s.people {
		people = append(people, p)
	}
	sortPeopleByName(people)
	return people, nil
}

func (s *Store) GetPerson(_ context.Context, id string) (models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[id]
	if !ok {
		return models.Person{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) RenamePerson(_ context.Context, id, newName string) (models.Person, error) {
	newName, err := store.ValidateName(newName)
	if err != nil {
		return models.Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[id]
	if !ok {
		return models.Person{}, store.ErrNotFound
	}
	for otherID, other := range s.people {
		if otherID != id && other.Name == newName {
			return models.Person{}, store.ErrDuplicateName
		}
	}

	p.Name = newName
	s.people[id] = p
	return p, nil
}

// RemovePerson deletes the person and cascades to their transactions.
func (s *Store) RemovePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.people, id)

	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if tx.PersonID != id {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept
	return nil
}

func (s *Store) AddLoan(ctx context.Context, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error) {
	return s.addTransaction(ctx, models.KindLoan, personID, amount, isoDate, description)
}

func (s *Store) AddPayment(ctx context.Context, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error) {
	return s.addTransaction(ctx, models.KindPayment, personID, amount, isoDate, description)
}

func (s *Store) addTransaction(_ context.Context, kind models.Kind, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error) {
	if err := store.ValidateTransaction(amount, isoDate); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[personID]; !ok {
		return models.Transaction{}, store.ErrNotFound
	}

	s.seq++
	tx := models.Transaction{
		ID:          uuid.NewString(),
		PersonID:    personID,
		Kind:        kind,
		Amount:      amount,
		Date:        isoDate,
		Description: description,
		Seq:         s.seq,
		CreatedAt:   time.Now().UTC(),
	}
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

func (s *Store) GetTransactions(_ context.Context, personID string) ([]models.Transaction, []models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[personID]; !ok {
		return nil, nil, store.ErrNotFound
	}

	var loans, payments []models.Transaction
	for _, tx := range s.transactions {
		if tx.PersonID != personID {
			continue
		}
		switch tx.Kind {
		case models.KindLoan:
			loans = append(loans, tx)
		case models.KindPayment:
			payments = append(payments, tx)
		}
	}
	return loans, payments, nil
}

func sortPeopleByName(people []models.Person) {
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })
}

var _ store.LedgerStore = (*Store)(nil)
