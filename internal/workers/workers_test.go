// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-user-accounts/internal/logger"
	"github.com/MKhiriev/go-user-accounts/internal/mailer"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run() {
	m.runCount++
}

// orderWorker records its id into a shared slice to verify run order.
type orderWorker struct {
	id    int
	order *[]int
}

func (o *orderWorker) Run() {
	*o.order = append(*o.order, o.id)
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run()

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run()
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run()
}

func TestWorkers_Run_Order(t *testing.T) {
	order := []int{}

	ws := NewWorkers(
		&orderWorker{id: 1, order: &order},
		&orderWorker{id: 2, order: &order},
		&orderWorker{id: 3, order: &order},
	)
	ws.Run()

	expected := []int{1, 2, 3}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%d, got %d", i, v, order[i])
		}
	}
}

// recordingSender collects delivered messages and signals each delivery.
type recordingSender struct {
	mu        sync.Mutex
	messages  []mailer.Message
	delivered chan struct{}
	fail      bool
}

func newRecordingSender(capacity int) *recordingSender {
	return &recordingSender{delivered: make(chan struct{}, capacity)}
}

func (s *recordingSender) Send(msg mailer.Message) error {
	defer func() { s.delivered <- struct{}{} }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("smtp unavailable")
	}

	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.messages...)
}

func waitDelivered(t *testing.T, s *recordingSender, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.delivered:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestMailDispatcher_DeliversEnqueuedMessage(t *testing.T) {
	sender := newRecordingSender(1)
	d := NewMailDispatcher(sender, 4, logger.Nop())
	d.Run()
	defer d.Close()

	msg := mailer.Message{To: "user@example.com", Subject: "Confirm your email", HTMLBody: "<p>hi</p>"}
	d.Enqueue(msg)

	waitDelivered(t, sender, 1)

	sent := sender.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 delivered message, got %d", len(sent))
	}
	if sent[0].To != msg.To || sent[0].Subject != msg.Subject {
		t.Errorf("delivered message mismatch: got %+v", sent[0])
	}
}

func TestMailDispatcher_DrainsQueueAfterClose(t *testing.T) {
	sender := newRecordingSender(3)
	d := NewMailDispatcher(sender, 8, logger.Nop())

	for i := 0; i < 3; i++ {
		d.Enqueue(mailer.Message{To: "user@example.com", Subject: "Reset Password"})
	}

	d.Run()
	d.Close()

	waitDelivered(t, sender, 3)

	if got := len(sender.sent()); got != 3 {
		t.Errorf("expected 3 delivered messages, got %d", got)
	}
}

func TestMailDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	sender := newRecordingSender(1)
	// worker is not started, so the queue can only hold one message
	d := NewMailDispatcher(sender, 1, logger.Nop())

	d.Enqueue(mailer.Message{To: "first@example.com"})
	d.Enqueue(mailer.Message{To: "second@example.com"})

	if got := len(d.queue); got != 1 {
		t.Fatalf("expected queue length 1 after overflow, got %d", got)
	}

	queued := <-d.queue
	if queued.To != "first@example.com" {
		t.Errorf("expected first message to survive, got %q", queued.To)
	}
}

func TestMailDispatcher_ContinuesAfterSendFailure(t *testing.T) {
	sender := newRecordingSender(2)
	sender.fail = true

	d := NewMailDispatcher(sender, 4, logger.Nop())
	d.Run()
	defer d.Close()

	d.Enqueue(mailer.Message{To: "user@example.com"})
	waitDelivered(t, sender, 1)

	sender.mu.Lock()
	sender.fail = false
	sender.mu.Unlock()

	d.Enqueue(mailer.Message{To: "other@example.com"})
	waitDelivered(t, sender, 1)

	sent := sender.sent()
	if len(sent) != 1 || sent[0].To != "other@example.com" {
		t.Errorf("expected only the second message delivered, got %+v", sent)
	}
}

func TestMailDispatcher_NonPositiveQueueSize(t *testing.T) {
	d := NewMailDispatcher(newRecordingSender(1), 0, logger.Nop())

	if cap(d.queue) != 1 {
		t.Errorf("expected queue capacity 1, got %d", cap(d.queue))
	}
}
