package rules

import (
	"github.com/google/uuid"

	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
)

// mockShipmentRepo is a hand-written mock of ports.ShipmentRepository.
type mockShipmentRepo struct {
	shipments map[uuid.UUID]*domain.Shipment
	byTerm    map[string][]domain.Shipment
	saved     []*domain.Shipment
	err       error
}

func newMockShipmentRepo() *mockShipmentRepo {
	return &mockShipmentRepo{
		shipments: make(map[uuid.UUID]*domain.Shipment),
		byTerm:    make(map[string][]domain.Shipment),
	}
}

func (m *mockShipmentRepo) Save(s *domain.Shipment) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	m.shipments[s.ShipmentID] = s
	return nil
}

func (m *mockShipmentRepo) SaveOrUpdate(s *domain.Shipment) error {
	return m.Save(s)
}

func (m *mockShipmentRepo) GetByID(id uuid.UUID) (*domain.Shipment, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.shipments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return s, nil
}

func (m *mockShipmentRepo) ListByTerminal(terminalID string) ([]domain.Shipment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byTerm[terminalID], nil
}

// mockContainerRepo is a hand-written mock of ports.ContainerRepository.
type mockContainerRepo struct {
	records map[string]*domain.ContainerAvailability
	saved   []*domain.ContainerAvailability
	err     error
}

func newMockContainerRepo() *mockContainerRepo {
	return &mockContainerRepo{records: make(map[string]*domain.ContainerAvailability)}
}

func containerKey(containerNumber string, shipmentID uuid.UUID) string {
	return containerNumber + "/" + shipmentID.String()
}

func (m *mockContainerRepo) SaveOrUpdate(c *domain.ContainerAvailability) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, c)
	m.records[containerKey(c.ContainerNumber, c.ShipmentID)] = c
	return nil
}

func (m *mockContainerRepo) GetByContainerNumberAndShipmentID(containerNumber string, shipmentID uuid.UUID) (*domain.ContainerAvailability, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.records[containerKey(containerNumber, shipmentID)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return c, nil
}
