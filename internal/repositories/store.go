package repositories

import (
	"context"
	"sync"
	"time"

	"repairshop_backend/internal/models"
)

// Executor is satisfied by *Store and *Tx. Repository methods accept it so the same
// code runs either as a standalone operation or inside a workflow transaction.
type Executor interface {
	// Now returns the clock reading for the operation.
	Now() time.Time
	// NewID returns a fresh record id.
	NewID() string

	read(ctx context.Context, fn func(*storeState) error) error
	write(ctx context.Context, fn func(*storeState) error) error
}

type storeState struct {
	products     []models.Product
	invoices     []models.Invoice
	repairOrders []models.RepairOrder
	technicians  []models.Technician
	predictions  []models.RestockPrediction
	movements    []models.StockMovement
	settings     models.Settings
}

func (st storeState) clone() storeState {
	cp := storeState{
		products:     append([]models.Product(nil), st.products...),
		invoices:     make([]models.Invoice, len(st.invoices)),
		repairOrders: make([]models.RepairOrder, len(st.repairOrders)),
		technicians:  make([]models.Technician, len(st.technicians)),
		predictions:  append([]models.RestockPrediction(nil), st.predictions...),
		movements:    append([]models.StockMovement(nil), st.movements...),
		settings:     st.settings.Clone(),
	}
	for i, inv := range st.invoices {
		cp.invoices[i] = inv.Clone()
	}
	for i, o := range st.repairOrders {
		cp.repairOrders[i] = o.Clone()
	}
	for i, t := range st.technicians {
		cp.technicians[i] = t.Clone()
	}
	return cp
}

// Snapshot is a point-in-time copy of every collection, used for seeding and backups.
type Snapshot struct {
	Products           []models.Product           `json:"products"`
	Invoices           []models.Invoice           `json:"invoices"`
	RepairOrders       []models.RepairOrder       `json:"repairOrders"`
	Technicians        []models.Technician        `json:"technicians"`
	RestockPredictions []models.RestockPrediction `json:"restockPredictions"`
	StockMovements     []models.StockMovement     `json:"stockMovements"`
	Settings           *models.Settings           `json:"settings,omitempty"`
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithIDGenerator overrides the record id source.
func WithIDGenerator(gen IDGenerator) StoreOption {
	return func(s *Store) { s.ids = gen }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.nowFn = now }
}

// WithLatency makes every store call wait for d before running, mimicking a remote backend.
func WithLatency(d time.Duration) StoreOption {
	return func(s *Store) { s.latency = d }
}

// Store owns every record collection of one shop session.
type Store struct {
	mu      sync.RWMutex
	state   storeState
	ids     IDGenerator
	nowFn   func() time.Time
	latency time.Duration
}

// NewStore constructs an empty store with default settings.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state: storeState{settings: models.DefaultSettings()},
		ids:   NewUUIDGenerator(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock reading.
func (s *Store) Now() time.Time {
	return s.nowFn()
}

// NewID returns a fresh record id.
func (s *Store) NewID() string {
	return s.ids.NewID()
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) read(ctx context.Context, fn func(*storeState) error) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

func (s *Store) write(ctx context.Context, fn func(*storeState) error) error {
	return s.RunInTransaction(ctx, func(tx *Tx) error {
		return fn(&tx.state)
	})
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy replaces the live state only when fn returns nil and ctx is still live;
// otherwise every change made through tx is discarded.
// fn must use tx, never the store itself, as its Executor.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *Tx) error) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// ExportSnapshot clones the current store state.
func (s *Store) ExportSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.clone()
	settings := st.settings
	return Snapshot{
		Products:           st.products,
		Invoices:           st.invoices,
		RepairOrders:       st.repairOrders,
		Technicians:        st.technicians,
		RestockPredictions: st.predictions,
		StockMovements:     st.movements,
		Settings:           &settings,
	}
}

// ImportSnapshot replaces the store state with the provided snapshot.
// Settings are kept when the snapshot carries none.
func (s *Store) ImportSnapshot(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := storeState{
		products:     snapshot.Products,
		invoices:     snapshot.Invoices,
		repairOrders: snapshot.RepairOrders,
		technicians:  snapshot.Technicians,
		predictions:  snapshot.RestockPredictions,
		movements:    snapshot.StockMovements,
		settings:     s.state.settings,
	}
	if snapshot.Settings != nil {
		next.settings = *snapshot.Settings
	}
	s.state = next.clone()
}

// Tx is a mutable unit of work over a private copy of the store state.
type Tx struct {
	store *Store
	state storeState
	now   time.Time
}

// Now returns the transaction timestamp; every change in one transaction shares it.
func (tx *Tx) Now() time.Time {
	return tx.now
}

// NewID returns a fresh record id.
func (tx *Tx) NewID() string {
	return tx.store.ids.NewID()
}

func (tx *Tx) read(ctx context.Context, fn func(*storeState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&tx.state)
}

func (tx *Tx) write(ctx context.Context, fn func(*storeState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&tx.state)
}
