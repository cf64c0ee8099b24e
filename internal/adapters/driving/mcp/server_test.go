package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil retriever returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetriever)
	})

	t.Run("retriever only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("retriever and answerer creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Retriever: &mockRetriever{},
			Answerer:  &mockAnswerer{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil retriever returns error", func(t *testing.T) {
		err := (&Ports{}).Validate()
		assert.ErrorIs(t, err, ErrMissingRetriever)
	})

	t.Run("answerer is optional", func(t *testing.T) {
		err := (&Ports{Retriever: &mockRetriever{}}).Validate()
		assert.NoError(t, err)
	})
}
