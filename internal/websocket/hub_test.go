package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id             string
	organizationID uuid.UUID
	messages       [][]byte
	mu             sync.Mutex
	closed         bool
}

func newMockClient(id string, organizationID uuid.UUID) *mockClient {
	return &mockClient{
		id:             id,
		organizationID: organizationID,
		messages:       make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) OrganizationID() uuid.UUID {
	return m.organizationID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	org1 := uuid.New()
	org2 := uuid.New()

	client1 := newMockClient("client-1", org1)
	client2 := newMockClient("client-2", org1)
	client3 := newMockClient("client-3", org2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(org1))
	assert.Equal(t, 1, hub.ClientCount(org2))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(org1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_UnregisterUnknownClientIsNoOp(t *testing.T) {
	hub := NewHub()
	client := newMockClient("ghost", uuid.New())

	// Never registered; must not panic or affect counts
	hub.Unregister(client)
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_BroadcastReachesOnlyTargetOrganization(t *testing.T) {
	hub := NewHub()

	org1 := uuid.New()
	org2 := uuid.New()

	client1 := newMockClient("client-1", org1)
	client2 := newMockClient("client-2", org1)
	other := newMockClient("client-3", org2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(other)

	event := EntityCreated(EntityTypeTransaction, map[string]string{"id": "t-1"})
	hub.Broadcast(org1, event)

	// Sends are async
	require.Eventually(t, func() bool {
		return len(client1.GetMessages()) == 1 && len(client2.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Empty(t, other.GetMessages())
}

func TestHub_BroadcastToEmptyOrganization(t *testing.T) {
	hub := NewHub()
	// Must not panic
	hub.Broadcast(uuid.New(), FilterChanged(map[string]string{"visibility": "personal"}))
}

func TestHub_BroadcastSkipsClosedClientGracefully(t *testing.T) {
	hub := NewHub()

	org := uuid.New()
	open := newMockClient("open", org)
	closed := newMockClient("closed", org)
	closed.Close()

	hub.Register(open)
	hub.Register(closed)

	hub.Broadcast(org, EntityDeleted(EntityTypeNote, map[string]string{"id": "n-1"}))

	require.Eventually(t, func() bool {
		return len(open.GetMessages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, closed.GetMessages())
}
