package base

import (
	"fmt"
	"net"
	"strconv"
	"sync"
)

// PortManager hands out local ports for WebDriver services
type PortManager struct {
	basePort  int
	portRange int
	inUse     map[int]bool
	mutex     sync.Mutex

	// probe reports whether a port can be bound; replaced in tests
	probe func(port int) bool
}

var (
	globalPortManager *PortManager
	once              sync.Once
)

// DriverPorts returns the process-wide port manager, created on first use
func DriverPorts(basePort, portRange int) *PortManager {
	once.Do(func() {
		globalPortManager = NewPortManager(basePort, portRange)
	})
	return globalPortManager
}

// NewPortManager creates a port manager covering [basePort, basePort+portRange)
func NewPortManager(basePort, portRange int) *PortManager {
	if basePort <= 0 {
		basePort = 4444
	}
	if portRange <= 0 {
		portRange = 1
	}
	return &PortManager{
		basePort:  basePort,
		portRange: portRange,
		inUse:     make(map[int]bool, portRange),
		probe:     portFree,
	}
}

// GetPort reserves the first port that is neither handed out nor bound by another process
func (pm *PortManager) GetPort() (int, error) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for i := 0; i < pm.portRange; i++ {
		port := pm.basePort + i
		if pm.inUse[port] || !pm.probe(port) {
			continue
		}
		pm.inUse[port] = true
		return port, nil
	}

	return 0, fmt.Errorf("no available ports in range %d-%d", pm.basePort, pm.basePort+pm.portRange-1)
}

// ReleasePort returns a port to the pool
func (pm *PortManager) ReleasePort(port int) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	delete(pm.inUse, port)
}

func portFree(port int) bool {
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
