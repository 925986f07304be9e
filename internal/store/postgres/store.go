// Package postgres provides a PostgreSQL-backed LedgerStore for
// installations that outgrow the YAML file.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fiado/internal/models"
	"fiado/internal/store"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the Postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

// Store implements store.LedgerStore on top of database/sql with lib/pq.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error reaching postgres: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS people (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS transactions (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	person_id   TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
	kind        TEXT NOT NULL,
	amount      NUMERIC(14,2) NOT NULL CHECK (amount > 0),
	date        DATE NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

func (s *Store) AddPerson(ctx context.Context, name string) (models.Person, error) {
	name, err := store.ValidateName(name)
	if err != nil {
		return models.Person{}, err
	}

	p := models.Person{ID: uuid.NewString(), Name: name}
	_, err = s.db.ExecContext(ctx, `INSERT INTO people (id, name) VALUES ($1, $2)`, p.ID, p.Name)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return models.Person{}, store.ErrDuplicateName
		}
		return models.Person{}, fmt.Errorf("error inserting person: %w", err)
	}
	return p, nil
}

func (s *Store) ListPeople(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM people ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("error scanning person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Store) GetPerson(ctx context.Context, id string) (models.Person, error) {
	var p models.Person
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM people WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, store.ErrNotFound
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("error fetching person: %w", err)
	}
	return p, nil
}

func (s *Store) RenamePerson(ctx context.Context, id, newName string) (models.Person, error) {
	newName, err := store.ValidateName(newName)
	if err != nil {
		return models.Person{}, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE people SET name = $1 WHERE id = $2`, newName, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return models.Person{}, store.ErrDuplicateName
		}
		return models.Person{}, fmt.Errorf("error renaming person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Person{}, store.ErrNotFound
	}
	return models.Person{ID: id, Name: newName}, nil
}

func (s *Store) RemovePerson(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error removing person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AddLoan(ctx context.Context, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error) {
	return s.addTransaction(ctx, models.KindLoan, personID, amount, isoDate, description)
}

func (s *Store) AddPayment(ctx context.Context, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error) {
	return s.addTransaction(ctx, models.KindPayment, personID, amount, isoDate, description)
}

// addTransaction relies on the single INSERT being atomic; there is no
// partially-written row to observe.
func (s *Store) addTransaction(ctx context.Context, kind models.Kind, personID string, amount decimal.Decimal, isoDate, description string) (models.Transaction, error) {
	if err := store.ValidateTransaction(amount, isoDate); err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		ID:          uuid.NewString(),
		PersonID:    personID,
		Kind:        kind,
		Amount:      amount,
		Date:        isoDate,
		Description: description,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO transactions (id, person_id, kind, amount, date, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING seq, created_at`,
		tx.ID, tx.PersonID, string(tx.Kind), tx.Amount.String(), tx.Date, tx.Description,
	).Scan(&tx.Seq, &tx.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
			// foreign key: the person does not exist
			return models.Transaction{}, store.ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("error inserting transaction: %w", err)
	}
	return tx, nil
}

func (s *Store) GetTransactions(ctx context.Context, personID string) ([]models.Transaction, []models.Transaction, error) {
	if _, err := s.GetPerson(ctx, personID); err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, person_id, kind, amount, to_char(date, 'YYYY-MM-DD'), description, created_at
		 FROM transactions WHERE person_id = $1 ORDER BY seq ASC`, personID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var loans, payments []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var kind, amount string
		if err := rows.Scan(&tx.Seq, &tx.ID, &tx.PersonID, &kind, &amount, &tx.Date, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		tx.Kind = models.Kind(kind)
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing stored amount %q: %w", amount, err)
		}
		switch tx.Kind {
		case models.KindLoan:
			loans = append(loans, tx)
		case models.KindPayment:
			payments = append(payments, tx)
		}
	}
	return loans, payments, rows.Err()
}

var _ store.LedgerStore = (*Store)(nil)
