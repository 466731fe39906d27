package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Checkout holds the process-wide checkout counters. Read by the health
// endpoint, bumped by the order and payment services.
type Checkout struct {
	OrdersCreated        Counter
	TotalMismatches      Counter
	ItemsUnavailable     Counter
	PaymentCallbacks     Counter
	PaymentsSucceeded    Counter
	NotificationFailures Counter
}

func NewCheckout() *Checkout {
	return &Checkout{}
}

// Snapshot returns a plain map for JSON rendering.
func (c *Checkout) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":        c.OrdersCreated.Load(),
		"total_mismatches":      c.TotalMismatches.Load(),
		"items_unavailable":     c.ItemsUnavailable.Load(),
		"payment_callbacks":     c.PaymentCallbacks.Load(),
		"payments_succeeded":    c.PaymentsSucceeded.Load(),
		"notification_failures": c.NotificationFailures.Load(),
	}
}
