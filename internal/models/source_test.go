package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceSerializesLink(t *testing.T) {
	data, err := json.Marshal(NewSource("AI Fundamentals - Lesson 2", "https://example.com/ai/l2"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"AI Fundamentals - Lesson 2","link":"https://example.com/ai/l2"}`, string(data))
}

func TestSourceSerializesMissingLinkAsNull(t *testing.T) {
	data, err := json.Marshal(NewSource("AI Fundamentals", ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"AI Fundamentals","link":null}`, string(data))
}
