package contact

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/rocketpool/rocketpool-web/internal/database"
)

// ErrEnquiryNotFound is returned when an enquiry id is unknown.
var ErrEnquiryNotFound = errors.New("contact: enquiry not found")

// Store persists enquiries.
type Store interface {
	Save(ctx context.Context, e Enquiry) error
	MarkDelivered(ctx context.Context, id string) error
	List(ctx context.Context) ([]Enquiry, error)
}

// MemoryStore keeps enquiries in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	enquiries map[string]Enquiry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{enquiries: make(map[string]Enquiry)}
}

func (s *MemoryStore) Save(_ context.Context, e Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enquiries[e.ID] = e
	return nil
}

func (s *MemoryStore) MarkDelivered(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enquiries[id]
	if !ok {
		return ErrEnquiryNotFound
	}
	e.Delivered = true
	s.enquiries[id] = e
	return nil
}

// List returns enquiries oldest first.
func (s *MemoryStore) List(_ context.Context) ([]Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Enquiry, 0, len(s.enquiries))
	for _, e := range s.enquiries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

const enquiryTable = "enquiry"

// SurrealStore persists enquiries in SurrealDB.
type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore wraps an open SurrealDB connection.
func NewSurrealStore(db *surrealdb.DB) *SurrealStore {
	return &SurrealStore{db: db}
}

type enquiryRecord struct {
	Ref       string `json:"ref"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Account   string `json:"account,omitempty"`
	CreatedAt string `json:"created_at"`
	Delivered bool   `json:"delivered"`
}

func (s *SurrealStore) Save(ctx context.Context, e Enquiry) error {
	query := "CREATE type::table($tb) CONTENT $data"
	err := database.Execute(ctx, s.db, query, map[string]any{
		"tb": enquiryTable,
		"data": enquiryRecord{
			Ref:       e.ID,
			Name:      e.Name,
			Email:     e.Email,
			Message:   e.Message,
			Account:   e.Account,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
			Delivered: e.Delivered,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to save enquiry: %w", err)
	}
	return nil
}

func (s *SurrealStore) MarkDelivered(ctx context.Context, id string) error {
	query := "UPDATE type::table($tb) SET delivered = true WHERE ref = $ref RETURN AFTER"
	updated, err := database.QueryOne[enquiryRecord](ctx, s.db, query, map[string]any{
		"tb":  enquiryTable,
		"ref": id,
	})
	if err != nil {
		return fmt.Errorf("failed to mark enquiry delivered: %w", err)
	}
	if updated == nil {
		return ErrEnquiryNotFound
	}
	return nil
}

func (s *SurrealStore) List(ctx context.Context) ([]Enquiry, error) {
	records, err := database.Query[enquiryRecord](ctx, s.db,
		"SELECT * FROM type::table($tb) ORDER BY created_at ASC",
		map[string]any{"tb": enquiryTable})
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	out := make([]Enquiry, 0, len(records))
	for _, r := range records {
		out = append(out, r.enquiry())
	}
	return out, nil
}

func (r enquiryRecord) enquiry() Enquiry {
	created, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return Enquiry{
		ID:        r.Ref,
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		Account:   r.Account,
		CreatedAt: created,
		Delivered: r.Delivered,
	}
}

// Shutdown closes the underlying connection.
func (s *SurrealStore) Shutdown(ctx context.Context) error {
	return s.db.Close(ctx)
}
