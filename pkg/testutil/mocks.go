package testutil

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/retailku/order-admin/pkg/storage"
)

// MockDB wraps sqlmock for easier testing
type MockDB struct {
	DB   *sqlx.DB
	Mock sqlmock.Sqlmock
}

// NewMockDB creates a new mock database for unit testing.
//
// Usage:
//
//	mockDB := testutil.NewMockDB(t)
//	defer mockDB.Close()
//
//	mockDB.ExpectQuery("SELECT id, data").WillReturnRows(...)
//	store := postgres.New(database.NewFromSQLX(mockDB.DB, logger.Nop()))
func NewMockDB(t *testing.T) *MockDB {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	return &MockDB{
		DB:   sqlx.NewDb(db, "postgres"),
		Mock: mock,
	}
}

// Close closes the mock database connection
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectQuery sets up an expected query
func (m *MockDB) ExpectQuery(query string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(query))
}

// ExpectExec sets up an expected exec
func (m *MockDB) ExpectExec(query string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(query))
}

// ExpectBegin sets up an expected transaction begin
func (m *MockDB) ExpectBegin() *sqlmock.ExpectedBegin {
	return m.Mock.ExpectBegin()
}

// ExpectCommit sets up an expected commit
func (m *MockDB) ExpectCommit() *sqlmock.ExpectedCommit {
	return m.Mock.ExpectCommit()
}

// ExpectRollback sets up an expected rollback
func (m *MockDB) ExpectRollback() *sqlmock.ExpectedRollback {
	return m.Mock.ExpectRollback()
}

// ExpectationsWereMet verifies all expectations were met
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// MockRows creates a new mock rows object
func MockRows(columns ...string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

// MockPublisher is a mock event publisher for testing
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	// Err, when set, is returned from every Publish call after recording.
	Err error
}

// PublishedEvent represents an event that was published
type PublishedEvent struct {
	Type    string
	Payload interface{}
}

// NewMockPublisher creates a new mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

// Publish records an event for later verification
func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{
		Type:    eventType,
		Payload: payload,
	})
	return m.Err
}

// Events returns a snapshot of the published events
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.PublishedEvents...)
}

// AssertEventPublished checks if an event of the given type was published
func (m *MockPublisher) AssertEventPublished(t *testing.T, eventType string) {
	t.Helper()
	for _, e := range m.Events() {
		if e.Type == eventType {
			return
		}
	}
	t.Errorf("expected event %q to be published, but it wasn't", eventType)
}

// AssertNoEventsPublished checks that no events were published
func (m *MockPublisher) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	if events := m.Events(); len(events) > 0 {
		t.Errorf("expected no events, but got %d: %+v", len(events), events)
	}
}

// FaultyGateway wraps a storage.Gateway, counting calls and returning
// injected errors per operation. A Gate channel, when set, blocks ListAll
// until it is closed or the context ends.
type FaultyGateway struct {
	storage.Gateway

	mu        sync.Mutex
	ListErr   map[string]error
	UpdateErr error
	DeleteErr error
	Gate      chan struct{}

	Lists   int
	Updates int
	Deletes int
}

// NewFaultyGateway wraps inner with no faults configured.
func NewFaultyGateway(inner storage.Gateway) *FaultyGateway {
	return &FaultyGateway{Gateway: inner, ListErr: make(map[string]error)}
}

func (g *FaultyGateway) ListAll(ctx context.Context, collection string) ([]storage.Record, error) {
	g.mu.Lock()
	g.Lists++
	err := g.ListErr[collection]
	gate := g.Gate
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return g.Gateway.ListAll(ctx, collection)
}

func (g *FaultyGateway) UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error {
	g.mu.Lock()
	g.Updates++
	err := g.UpdateErr
	g.mu.Unlock()

	if err != nil {
		return err
	}
	return g.Gateway.UpdatePartial(ctx, collection, id, fields)
}

func (g *FaultyGateway) DeleteByID(ctx context.Context, collection, id string) error {
	g.mu.Lock()
	g.Deletes++
	err := g.DeleteErr
	g.mu.Unlock()

	if err != nil {
		return err
	}
	return g.Gateway.DeleteByID(ctx, collection, id)
}

// SetUpdateErr changes the injected update error.
func (g *FaultyGateway) SetUpdateErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.UpdateErr = err
}

// SetDeleteErr changes the injected delete error.
func (g *FaultyGateway) SetDeleteErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.DeleteErr = err
}

// SetListErr injects an error for ListAll on one collection.
func (g *FaultyGateway) SetListErr(collection string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ListErr[collection] = err
}

// Calls returns the list, update and delete counts.
func (g *FaultyGateway) Calls() (lists, updates, deletes int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Lists, g.Updates, g.Deletes
}
