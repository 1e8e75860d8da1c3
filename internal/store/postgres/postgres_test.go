package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
