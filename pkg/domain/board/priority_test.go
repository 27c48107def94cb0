package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPriority_Max(t *testing.T) {
	tests := []struct {
		a, b Priority
		want Priority
	}{
		{PriorityLow, PriorityHigh, PriorityHigh},
		{PriorityHigh, PriorityLow, PriorityHigh},
		{PriorityMedium, PriorityMedium, PriorityMedium},
		{PriorityMedium, Priority("bogus"), PriorityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Max(tt.b), "%s.Max(%s)", tt.a, tt.b)
	}
}

func TestHighestPriority(t *testing.T) {
	assert.Equal(t, PriorityMedium, HighestPriority(nil))
	assert.Equal(t, PriorityHigh, HighestPriority([]Priority{PriorityLow, PriorityHigh, PriorityMedium}))
	assert.Equal(t, PriorityLow, HighestPriority([]Priority{PriorityLow}))
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPriority_JSON(t *testing.T) {
	var p Priority
	require.NoError(t, json.Unmarshal([]byte(`""`), &p))
	assert.Equal(t, PriorityMedium, p)

	require.NoError(t, json.Unmarshal([]byte(`"Low"`), &p))
	assert.Equal(t, PriorityLow, p)

	assert.Error(t, json.Unmarshal([]byte(`"urgent"`), &p))
}

func TestPriority_YAML(t *testing.T) {
	var m map[string]Priority
	require.NoError(t, yaml.Unmarshal([]byte("Backlog: MEDIUM\n"), &m))
	assert.Equal(t, PriorityMedium, m["Backlog"])

	assert.Error(t, yaml.Unmarshal([]byte("Backlog: urgent\n"), &m))
}

func TestPriority_DisplayName(t *testing.T) {
	assert.Equal(t, "Alta", PriorityHigh.DisplayName())
	assert.Equal(t, "Média", PriorityMedium.DisplayName())
	assert.Equal(t, "Baixa", PriorityLow.DisplayName())
}
