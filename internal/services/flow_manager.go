package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/govgr-digital/profile-api/internal/logging"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/observability"
	"go.uber.org/zap"
)

// FlowManager owns the in-memory registry of acquisition flows, keyed by an
// opaque flow ID handed to the client at creation. Flows that go untouched
// for the configured TTL are evicted; submitted flows are kept around the
// same way so a client can still read its final snapshot for a while.
type FlowManager struct {
	mu    sync.RWMutex
	flows map[string]*flowEntry

	retriever RetrievalClient
	store     ProfileStore
	ttl       time.Duration
	logger    *logging.SafeLogger
}

type flowEntry struct {
	controller *AcquisitionController
	lastAccess time.Time
}

// NewFlowManager creates an empty flow registry
func NewFlowManager(retriever RetrievalClient, store ProfileStore, ttl time.Duration, logger *logging.SafeLogger) *FlowManager {
	return &FlowManager{
		flows:     make(map[string]*flowEntry),
		retriever: retriever,
		store:     store,
		ttl:       ttl,
		logger:    logger,
	}
}

// CreateFlow registers a fresh idle flow and returns its ID
func (m *FlowManager) CreateFlow() (string, *AcquisitionController) {
	id := uuid.NewString()
	controller := NewAcquisitionController(m.retriever, m.store, m.logger)

	m.mu.Lock()
	m.flows[id] = &flowEntry{controller: controller, lastAccess: time.Now()}
	count := len(m.flows)
	m.mu.Unlock()

	observability.ActiveFlows.Set(float64(count))

	m.logger.Info("acquisition flow created",
		zap.String("flow_id", id),
		zap.Int("active_flows", count))

	return id, controller
}

// GetFlow looks up a flow by ID and refreshes its idle clock
func (m *FlowManager) GetFlow(id string) (*AcquisitionController, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.flows[id]
	if !ok {
		return nil, models.ErrFlowNotFound
	}

	entry.lastAccess = time.Now()
	return entry.controller, nil
}

// DeleteFlow removes a flow from the registry. Unknown IDs are a no-op.
func (m *FlowManager) DeleteFlow(id string) {
	m.mu.Lock()
	delete(m.flows, id)
	count := len(m.flows)
	m.mu.Unlock()

	observability.ActiveFlows.Set(float64(count))
}

// StartEviction runs the idle-flow sweeper until the context is cancelled
func (m *FlowManager) StartEviction(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.evictIdle()
			}
		}
	}()
}

func (m *FlowManager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var evicted int
	for id, entry := range m.flows {
		if entry.lastAccess.Before(cutoff) {
			delete(m.flows, id)
			evicted++
		}
	}
	count := len(m.flows)
	m.mu.Unlock()

	observability.ActiveFlows.Set(float64(count))

	if evicted > 0 {
		m.logger.Info("evicted idle acquisition flows",
			zap.Int("evicted", evicted),
			zap.Int("remaining", count))
	}
}
