package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spigell/talentscout/internal/conversation"
	"github.com/spigell/talentscout/internal/submission"
)

func sampleRecords() []*submission.Record {
	return []*submission.Record{{
		ID:        "rec-1",
		Timestamp: 1700000000,
		Collected: map[string]string{"full_name": "Jane Doe"},
		GeneratedQuestions: conversation.GeneratedQuestions{
			ByTech: []string{"Go"},
			Raw:    "**Go Questions**",
		},
	}}
}

func TestWriteRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, sampleRecords(), "json"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "rec-1", decoded[0]["id"])
	assert.Nil(t, decoded[0]["answers"])
}

func TestWriteRecordsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, sampleRecords(), "YAML"))

	var decoded []submission.Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Jane Doe", decoded[0].Collected["full_name"])
	assert.Equal(t, []string{"Go"}, decoded[0].GeneratedQuestions.ByTech)
}

func TestWriteRecordsUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeRecords(&buf, sampleRecords(), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: csv")
}
