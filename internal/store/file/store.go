// Package file provides the default LedgerStore: a single YAML ledger file
// loaded at startup and rewritten atomically on every mutation.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"fiado/internal/models"
	"fiado/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ledgerFile is the on-disk document shape.
type ledgerFile struct {
	People       []models.Person      `yaml:"people"`
	Transactions []models.Transaction `yaml:"transactions"`
	Seq          int64                `yaml:"seq"`
}

// Store persists the ledger in one YAML file. Mutations rewrite the file
// through a temp-file rename so a crash never leaves a half-written ledger.
type Store struct {
	mu   sync.Mutex
	path string
	data ledgerFile
}

// Open loads the ledger at path, creating an empty one if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("file", path).Info("Ledger file not found, starting empty")
			return s, nil
		}
		return nil, fmt.Errorf("error reading ledger file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("error parsing ledger file: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":         path,
		"people":       len(s.data.People),
		"transactions": len(s.data.Transactions),
	}).Debug("Loaded ledger file")

	return s, nil
}

// save writes the whole ledger back to disk. Caller must hold the lock.
func (s *Store) save() error {
	raw, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("error marshaling ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error replacing ledger file: %w", err)
	}
	return nil
}

func (s *Store) AddPerson(_ context.Context, name string) (models.Person, error) {
	name, err := store.ValidateName(name)
	if err != nil {
		return models.Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.data.People {
		if p.Name == name {
			return models.Person{}, store.ErrDuplicateName
		}
	}

	p := models.Person{ID: uuid.NewString(), Name: name}
	s.data.People = append(s.data.People, p)
	if err := s.save(); err != nil {
		s.data.People = s.data.People[:len(s.data.People)-1]
		return models.Person{}, err
	}
	return p, nil
}

func (s *Store) ListPeople(_ context.Context) ([]models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	people := make([]models.Person, len(s.data.People))
	copy(people, s.data.People)
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })
	return people, nil
}

func (s *Store) GetPerson(_ context.Context, id string) (models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.data.People[i], nil
	}
	return models.Person{}, store.ErrNotFound
}

func (s *Store) RenamePerson(_ context.Context, id, newName string) (models.Person, error) {
	newName, err := store.ValidateName(newName)
	if err != nil {
		return models.Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Person{}, store.ErrNotFound
	}
	for j, other := range s.data.People {
		if j != i && other.Name == newName {
			return models.Person{}, store.ErrDuplicateName
		}
	}

	old := s.data.People[i].Name
	s.data.People[i].Name = newName
	if err := s.save(); err != nil {
		s.data.People[i].Name = old
		return models.Person{}, err
	}
	return s.data.People[i], nil
}

func (s *Store) RemovePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return store.ErrNotFound
	}

	prev := s.data
	s.data.People = append(append([]models.Person{}, s.data.People[:i]...), s.data.People[i+1:]...)
	kept := make([]models.Transaction, 0, len(s.data.Transactions))
	for _, tx := range s.data.Transactions {
		if tx.PersonID != id {
			kept = append(kept, tx)
		}
	}
	s.data.Transactions = kept

	if err := s.save(); err != nil {
		s.data = prev
		return err
	}
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

	if s.indexOf(personID) < 0 {
		return models.Transaction{}, store.ErrNotFound
	}

	s.data.Seq++
	tx := models.Transaction{
		ID:          uuid.NewString(),
		PersonID:    personID,
		Kind:        kind,
		Amount:      amount,
		Date:        isoDate,
		Description: description,
		Seq:         s.data.Seq,
		CreatedAt:   time.Now().UTC(),
	}
	s.data.Transactions = append(s.data.Transactions, tx)

	if err := s.save(); err != nil {
		s.data.Transactions = s.data.Transactions[:len(s.data.Transactions)-1]
		s.data.Seq--
		return models.Transaction{}, err
	}
	return tx, nil
}

func (s *Store) GetTransactions(_ context.Context, personID string) ([]models.Transaction, []models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(personID) < 0 {
		return nil, nil, store.ErrNotFound
	}

	var loans, payments []models.Transaction
	for _, tx := range s.data.Transactions {
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

// indexOf returns the position of a person id, or -1. Caller must hold the
// lock.
func (s *Store) indexOf(id string) int {
	for i, p := range s.data.People {
		if p.ID == id {
			return i
		}
	}
	return -1
}

var _ store.LedgerStore = (*Store)(nil)
