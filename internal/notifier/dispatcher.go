package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ChannelResult reports one channel's delivery attempt.
type ChannelResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	// Skipped marks channels that had no route to the user; skips count
	// neither as deliveries nor as failures worth retrying.
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DispatchResult aggregates per-channel outcomes for one fire point.
type DispatchResult struct {
	Type    string          `json:"type"`
	Results []ChannelResult `json:"results"`
}

// Delivered reports whether at least one channel succeeded. The fire point is
// marked sent only when this is true.
func (d DispatchResult) Delivered() bool {
	for _, r := range d.Results {
		if r.Success {
			return true
		}
	}
	return false
}

// Dispatcher fans a message out to every configured channel. Channel failures
// are isolated: one channel failing does not block the others.
type Dispatcher struct {
	senders []Sender
	timeout time.Duration
}

func NewDispatcher(timeout time.Duration, senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders, timeout: timeout}
}

// Dispatch attempts delivery on all channels concurrently. Every attempt is
// bounded by the dispatcher timeout; a timed-out channel counts as failed and
// will be retried on the next worker cycle.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) DispatchResult {
	results := make([]ChannelResult, len(d.senders))

	var wg sync.WaitGroup
	for i, sender := range d.senders {
		wg.Add(1)
		go func(i int, sender Sender) {
			defer wg.Done()
			results[i] = d.trySend(ctx, sender, msg)
		}(i, sender)
	}
	wg.Wait()

	return DispatchResult{Type: msg.Type, Results: results}
}

func (d *Dispatcher) trySend(ctx context.Context, sender Sender, msg *Message) ChannelResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	// Senders without native context support (SMTP) keep running past the
	// deadline; the attempt is still reported as failed and retried later.
	done := make(chan error, 1)
	go func() {
		done <- sender.Send(sendCtx, msg)
	}()

	select {
	case err := <-done:
		if errors.Is(err, ErrSkipped) {
			return ChannelResult{Channel: sender.Name(), Skipped: true}
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"channel":    sender.Name(),
				"reminderID": msg.ReminderID.Hex(),
			}).WithError(err).Warn("Channel delivery failed")
			return ChannelResult{Channel: sender.Name(), Error: err.Error()}
		}
		return ChannelResult{Channel: sender.Name(), Success: true}
	case <-sendCtx.Done():
		err := fmt.Errorf("channel timed out: %v", sendCtx.Err())
		logrus.WithFields(logrus.Fields{
			"channel":    sender.Name(),
			"reminderID": msg.ReminderID.Hex(),
		}).Warn("Channel delivery timed out")
		return ChannelResult{Channel: sender.Name(), Error: err.Error()}
	}
}
