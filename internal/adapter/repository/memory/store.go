// Package memory is an in-process document store with the same semantics as the Firestore
// repositories: store-assigned ids, equality filters, merge-writes, live watches and an
// atomic trade start. It backs STORE_DRIVER=memory and the test suites.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"trifoody/internal/domain/repository"
)

// Op names a store operation that a fault can be injected into.
type Op string

const (
	OpCreateProduct Op = "products.create"
	OpGetProduct    Op = "products.get"
	OpSetTrading    Op = "products.setTrading"
	OpWatchProducts Op = "products.watch"
	OpCreateTxn     Op = "transactions.create"
	OpStartTrade    Op = "transactions.startTrade"
	OpWatchTxns     Op = "transactions.watch"
	OpCreateUser    Op = "users.create"
	OpGetUser       Op = "users.get"
	OpMergeUser     Op = "users.merge"
)

type collection string

const (
	colProducts     collection = "products"
	colTransactions collection = "transactions"
	colUsers        collection = "users"
)

type Store struct {
	mu           sync.RWMutex
	products     map[string]productDoc
	transactions map[string]transactionDoc
	users        map[string]map[string]interface{}

	watchMu  sync.Mutex
	watchers map[collection]map[chan struct{}]struct{}

	faultMu sync.Mutex
	faults  map[Op][]error
}

func NewStore() *Store {
	return &Store{
		products:     make(map[string]productDoc),
		transactions: make(map[string]transactionDoc),
		users:        make(map[string]map[string]interface{}),
		watchers:     make(map[collection]map[chan struct{}]struct{}),
		faults:       make(map[Op][]error),
	}
}

func (s *Store) Products() repository.ProductRepository {
	return &productRepository{store: s}
}

func (s *Store) Transactions() repository.TransactionRepository {
	return &transactionRepository{store: s}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

// InjectFault makes the next call of op fail with err. Faults queue up per op.
func (s *Store) InjectFault(op Op, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = append(s.faults[op], err)
}

func (s *Store) takeFault(op Op) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()

	queue := s.faults[op]
	if len(queue) == 0 {
		return nil
	}
	s.faults[op] = queue[1:]
	return queue[0]
}

func newID() string {
	return uuid.NewString()
}

// subscribe registers a change signal for col. The returned func unregisters it.
func (s *Store) subscribe(col collection) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.watchMu.Lock()
	if s.watchers[col] == nil {
		s.watchers[col] = make(map[chan struct{}]struct{})
	}
	s.watchers[col][ch] = struct{}{}
	s.watchMu.Unlock()

	return ch, func() {
		s.watchMu.Lock()
		delete(s.watchers[col], ch)
		s.watchMu.Unlock()
	}
}

// changed wakes every watcher of col. Signals coalesce: a watcher that has not yet
// re-read the collection gets one pending wake-up, not one per write.
func (s *Store) changed(col collection) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	for ch := range s.watchers[col] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// watch drives a live query: emit once, then again after every change of col, until ctx ends.
func watch[T any](ctx context.Context, s *Store, col collection, out chan<- T, snapshot func() (T, bool)) {
	defer close(out)

	signal, unsubscribe := s.subscribe(col)
	defer unsubscribe()

	for {
		snap, keepGoing := snapshot()
		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
		if !keepGoing {
			return
		}

		select {
		case <-signal:
		case <-ctx.Done():
			return
		}
	}
}
