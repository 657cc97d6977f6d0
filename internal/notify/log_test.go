package notify

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNotifierEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(&buf, 10)

	n.Success("Success", "Document uploaded successfully!")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "success", line["level"])
	assert.Equal(t, "Success", line["title"])
	assert.Equal(t, "Document uploaded successfully!", line["message"])
	assert.NotEmpty(t, line["ts"])
}

func TestLogNotifierRecentIsBounded(t *testing.T) {
	n := NewLogNotifier(&bytes.Buffer{}, 2)

	n.Warning("Attention", "one")
	n.Failure("Error", "two")
	n.Success("Success", "three")

	recent := n.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Message)
	assert.Equal(t, "three", recent[1].Message)
	assert.Equal(t, LevelSuccess, recent[1].Level)
}
