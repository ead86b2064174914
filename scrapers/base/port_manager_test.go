package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortManager_AllocatesAndReleases(t *testing.T) {
	pm := NewPortManager(5000, 2)
	pm.probe = func(int) bool { return true }

	p1, err := pm.GetPort()
	require.NoError(t, err)
	p2, err := pm.GetPort()
	require.NoError(t, err)
	assert.Equal(t, 5000, p1)
	assert.Equal(t, 5001, p2)

	_, err = pm.GetPort()
	assert.Error(t, err)

	pm.ReleasePort(p1)
	p3, err := pm.GetPort()
	require.NoError(t, err)
	assert.Equal(t, 5000, p3)
}

func TestPortManager_SkipsBoundPorts(t *testing.T) {
	pm := NewPortManager(6000, 3)
	pm.probe = func(port int) bool { return port != 6000 }

	p, err := pm.GetPort()
	require.NoError(t, err)
	assert.Equal(t, 6001, p)
}

func TestNewPortManager_Defaults(t *testing.T) {
	pm := NewPortManager(0, 0)
	assert.Equal(t, 4444, pm.basePort)
	assert.Equal(t, 1, pm.portRange)
}
