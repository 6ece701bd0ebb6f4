package mongodb

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions("mongodb://db-1:27017,db-2:27017/?replicaSet=rs0")
	require.NoError(t, opts.Validate())

	assert.Equal(t, []string{"db-1:27017", "db-2:27017"}, opts.Hosts)
	require.NotNil(t, opts.ReplicaSet)
	assert.Equal(t, "rs0", *opts.ReplicaSet)
	require.NotNil(t, opts.AppName)
	assert.Equal(t, "daimapay", *opts.AppName)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, serverSelectionTimeout, *opts.ServerSelectionTimeout)
}
