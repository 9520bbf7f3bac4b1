package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type modelTrained struct {
	BaseEvent
	ValidationAUC float64 `json:"validation_auc"`
}

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("lending.model.trained", "run-1", "TrainingRun")
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "lending.model.trained", event.EventType())
	assert.Equal(t, "run-1", event.AggregateID())
	assert.Equal(t, "TrainingRun", event.AggregateType())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestBaseEvent_EmbeddedJSONIsFlat(t *testing.T) {
	evt := modelTrained{
		BaseEvent:     NewBaseEvent("lending.model.trained", "run-1", "TrainingRun"),
		ValidationAUC: 0.79,
	}

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "lending.model.trained", decoded["event_type"])
	assert.Equal(t, "run-1", decoded["aggregate_id"])
	assert.InDelta(t, 0.79, decoded["validation_auc"], 1e-9)
}

func TestEventCollector(t *testing.T) {
	collector := &EventCollector{}
	collector.Record(NewBaseEvent("first", "agg", "Aggregate"))
	collector.Record(NewBaseEvent("second", "agg", "Aggregate"))

	require.Len(t, collector.Events(), 2)
	assert.Len(t, collector.Events(), 2, "Events must not clear")
	assert.Equal(t, "first", collector.Events()[0].EventType())

	cleared := collector.ClearEvents()
	assert.Len(t, cleared, 2)
	assert.Empty(t, collector.Events())
	assert.Nil(t, collector.ClearEvents())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewBaseEvent("x", "y", "z")))
}
