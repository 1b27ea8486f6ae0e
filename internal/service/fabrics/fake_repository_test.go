package fabrics

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/fabric-ledger/internal/domain/models"
	"github.com/mamadbah2/fabric-ledger/internal/repository/mongodb"
)

// memoryRepository mimics the MongoDB repository semantics in memory.
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]models.Fabric
	clock   time.Time
	failErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		records: make(map[string]models.Fabric),
		clock:   time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryRepository) Create(_ context.Context, fabric *models.Fabric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	now := m.tick()
	fabric.ID = primitive.NewObjectID()
	fabric.CreatedAt = now
	fabric.UpdatedAt = now
	m.records[fabric.ID.Hex()] = *fabric
	return nil
}

func (m *memoryRepository) Find(_ context.Context, filter mongodb.FabricFilter, page, limit int) ([]models.Fabric, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, 0, m.failErr
	}

	var matched []models.Fabric
	for _, f := range m.records {
		if f.Deleted && !filter.IncludeDeleted {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(f.FabricName), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, f)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*models.Fabric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.records[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	return &f, nil
}

func (m *memoryRepository) live(id string) (models.Fabric, error) {
	f, ok := m.records[id]
	if !ok || f.Deleted {
		return models.Fabric{}, mongodb.ErrNotFound
	}
	return f, nil
}

func (m *memoryRepository) Update(_ context.Context, id string, fabric *models.Fabric, withActual bool) (*models.Fabric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, err := m.live(id)
	if err != nil {
		return nil, err
	}

	next := *fabric
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = m.tick()
	if !withActual {
		next.ActualProducedItems = current.ActualProducedItems
	}
	m.records[id] = next
	return &next, nil
}

func (m *memoryRepository) SetActualProduced(_ context.Context, id string, actual float64) (*models.Fabric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, err := m.live(id)
	if err != nil {
		return nil, err
	}
	current.ActualProducedItems = actual
	current.UpdatedAt = m.tick()
	m.records[id] = current
	return &current, nil
}

func (m *memoryRepository) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, err := m.live(id)
	if err != nil {
		return err
	}
	current.Deleted = true
	m.records[id] = current
	return nil
}

type recordedEvent struct {
	event  string
	fabric models.Fabric
}

type fakeLedger struct {
	events []recordedEvent
	err    error
}

func (l *fakeLedger) Record(_ context.Context, event string, fabric models.Fabric) error {
	if l.err != nil {
		return l.err
	}
	l.events = append(l.events, recordedEvent{event: event, fabric: fabric})
	return nil
}

var errStoreDown = errors.New("store down")
