package ingestion

import (
	"sync"
	"time"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

// AutomationController is the in-process concurrency guard for poll cycles.
// The running flag lives only here, never in the database, so a crashed
// process can never leave a stuck lock behind.
type AutomationController struct {
	mu      sync.Mutex
	running bool

	lastRunAt       *time.Time
	lastRunDuration time.Duration
}

func NewAutomationController() *AutomationController {
	return &AutomationController{}
}

// TryBegin claims the running flag. Returns false when a cycle is already in
// progress; the caller must treat that as a no-op, not an error to retry.
func (c *AutomationController) TryBegin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	return true
}

// End releases the running flag and records the run that just finished.
func (c *AutomationController) End(startedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.lastRunAt = utils.Ptr(startedAt)
	c.lastRunDuration = time.Since(startedAt)
}

func (c *AutomationController) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *AutomationController) LastRun() (*time.Time, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRunAt, c.lastRunDuration
}
