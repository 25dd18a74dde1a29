package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableIDDistinguishesMissingNullAndValue(t *testing.T) {
	var missing, null, value UpdateNoteRequest

	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &missing))
	require.NoError(t, json.Unmarshal([]byte(`{"category":null}`), &null))
	require.NoError(t, json.Unmarshal([]byte(`{"category":42}`), &value))

	assert.False(t, missing.Category.Set)

	assert.True(t, null.Category.Set)
	assert.Nil(t, null.Category.Value)

	assert.True(t, value.Category.Set)
	require.NotNil(t, value.Category.Value)
	assert.Equal(t, int64(42), *value.Category.Value)
}

func TestSharedWithDistinguishesMissingAndEmpty(t *testing.T) {
	var missing, empty UpdateTaskRequest

	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	require.NoError(t, json.Unmarshal([]byte(`{"shared_with":[]}`), &empty))

	assert.Nil(t, missing.SharedWith)
	assert.NotNil(t, empty.SharedWith)
	assert.Empty(t, empty.SharedWith)
}
