package kafka

import (
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

type mockConn struct {
	created  []kafka.TopicConfig
	existing map[string]bool
	err      error
}

func (m *mockConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.err != nil {
		return m.err
	}
	for _, tc := range topics {
		if m.existing[tc.Topic] {
			return kafka.TopicAlreadyExists
		}
		m.created = append(m.created, tc)
	}
	return nil
}

func (m *mockConn) Close() error { return nil }

func TestWorkerTopics(t *testing.T) {
	specs := WorkerTopics("req", "res", true, 3, 1)
	require.Len(t, specs, 3)
	assert.Equal(t, "req.dlq", specs[2].Name)
	assert.Equal(t, 3, specs[0].NumPartitions)

	assert.Len(t, WorkerTopics("req", "res", false, 1, 1), 2)
}

func TestTopicManager_EnsureTopics(t *testing.T) {
	conn := &mockConn{existing: map[string]bool{"res": true}}
	m := newTopicManagerWithConn(conn, nil)

	require.NoError(t, m.EnsureTopics(WorkerTopics("req", "res", true, 0, 0)...))
	require.Len(t, conn.created, 2)
	assert.Equal(t, "req", conn.created[0].Topic)
	assert.Equal(t, 1, conn.created[0].NumPartitions)
	assert.Equal(t, 1, conn.created[0].ReplicationFactor)
	assert.Equal(t, "req.dlq", conn.created[1].Topic)
}

func TestTopicManager_Errors(t *testing.T) {
	m := newTopicManagerWithConn(&mockConn{}, nil)
	assert.True(t, errors.IsCode(m.EnsureTopics(TopicSpec{}), errors.ErrCodeValidation))

	m = newTopicManagerWithConn(&mockConn{err: fmt.Errorf("not controller")}, nil)
	assert.True(t, errors.IsCode(m.EnsureTopics(TopicSpec{Name: "x"}), errors.ErrCodeMessagingError))
}

//Personal.AI order the ending
