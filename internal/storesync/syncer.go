package storesync

import (
	"context"
	"log"
	"sync"
	"time"
)

// Options tunes the write coordinator. Zero values fall back to defaults.
type Options struct {
	Debounce      time.Duration // window for coalescing high-churn keys
	BulkBytes     int           // payloads at or above this size skip the debounce
	MaxBackoff    time.Duration // outbox retry ceiling
	SweepEvery    time.Duration // outbox sweep interval
	BatchPerSweep int           // max retries attempted per sweep
	Clock         func() time.Time
}

func (o *Options) fill() {
	if o.Debounce == 0 {
		o.Debounce = 250 * time.Millisecond
	}
	if o.BulkBytes == 0 {
		o.BulkBytes = 32 * 1024
	}
	if o.MaxBackoff == 0 {
		o.MaxBackoff = 60 * time.Second
	}
	if o.SweepEvery == 0 {
		o.SweepEvery = 5 * time.Second
	}
	if o.BatchPerSweep == 0 {
		o.BatchPerSweep = 8
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// OutboxEntry is a failed write waiting for retry
type OutboxEntry struct {
	Key           string    `json:"key"`
	Value         []byte    `json:"value"`
	Attempts      int       `json:"attempts"`
	NextAttemptAt time.Time `json:"next_attempt_at"`
	LastError     string    `json:"last_error"`
}

// keyState tracks the in-memory write coordinator for one storage key
type keyState struct {
	pending  []byte
	timer    *time.Timer
	inFlight bool
	settled  chan struct{} // closed when the in-flight write completes
}

// Syncer serializes every write to the backing store. Writes to the same key
// coalesce to the latest pending value; writes to different keys share one
// outbound lane so bursts cannot storm the backend. One Syncer is constructed
// at startup and handed to each room store.
type Syncer struct {
	kv   KV
	opts Options

	mu     sync.Mutex
	keys   map[string]*keyState
	outbox map[string]*OutboxEntry

	// ioMu is the global outbound lane: at most one network write at a time
	ioMu sync.Mutex

	stopOnce sync.Once
	stop     chan struct{}
}

func New(kv KV, opts Options) *Syncer {
	opts.fill()
	return &Syncer{
		kv:     kv,
		opts:   opts,
		keys:   make(map[string]*keyState),
		outbox: make(map[string]*OutboxEntry),
		stop:   make(chan struct{}),
	}
}

// Start launches the periodic outbox sweep
func (s *Syncer) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.opts.SweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepOutbox(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops background work
func (s *Syncer) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Get reads straight through to the backing store
func (s *Syncer) Get(ctx context.Context, key string) ([]byte, error) {
	return s.kv.Get(ctx, key)
}

// Put records value as the latest local state for key and schedules the
// network write. Small writes wait out the debounce window so rapid bursts
// collapse into one request; bulk or oversized payloads go out immediately,
// trading latency for durability.
func (s *Syncer) Put(key string, value []byte, bulk bool) {
	s.mu.Lock()
	ks, ok := s.keys[key]
	if !ok {
		ks = &keyState{}
		s.keys[key] = ks
	}
	ks.pending = value

	immediate := bulk || len(value) >= s.opts.BulkBytes
	if immediate {
		if ks.timer != nil {
			ks.timer.Stop()
			ks.timer = nil
		}
		s.mu.Unlock()
		go s.flushKey(context.Background(), key)
		return
	}

	// Keep the first timer of a burst so the window bounds latency
	if ks.timer == nil {
		ks.timer = time.AfterFunc(s.opts.Debounce, func() {
			s.mu.Lock()
			if st, ok := s.keys[key]; ok {
				st.timer = nil
			}
			s.mu.Unlock()
			s.flushKey(context.Background(), key)
		})
	}
	s.mu.Unlock()
}

// Flush synchronously writes out everything pending, waiting for any write
// already in flight so its key's latest value is not left behind. Used at
// shutdown and by tests.
func (s *Syncer) Flush(ctx context.Context) {
	for {
		s.mu.Lock()
		var keys []string
		var wait chan struct{}
		for key, ks := range s.keys {
			if ks.pending == nil && !ks.inFlight {
				continue
			}
			if ks.timer != nil {
				ks.timer.Stop()
				ks.timer = nil
			}
			if ks.inFlight {
				wait = ks.settled
			} else {
				keys = append(keys, key)
			}
		}
		s.mu.Unlock()

		if len(keys) == 0 && wait == nil {
			return
		}
		for _, key := range keys {
			s.flushKey(ctx, key)
		}
		if wait != nil {
			select {
			case <-wait:
			case <-ctx.Done():
				return
			}
		}
	}
}

// flushKey sends the latest pending value for key through the shared lane.
// A value arriving while the write is in flight triggers one more pass.
func (s *Syncer) flushKey(ctx context.Context, key string) {
	for {
		s.mu.Lock()
		ks, ok := s.keys[key]
		if !ok || ks.pending == nil || ks.inFlight {
			s.mu.Unlock()
			return
		}
		value := ks.pending
		ks.pending = nil
		ks.inFlight = true
		ks.settled = make(chan struct{})
		s.mu.Unlock()

		s.ioMu.Lock()
		err := s.kv.Set(ctx, key, value)
		s.ioMu.Unlock()

		s.mu.Lock()
		ks.inFlight = false
		close(ks.settled)
		ks.settled = nil
		if err != nil {
			s.queueRetryLocked(key, value, err)
		} else {
			delete(s.outbox, key)
		}
		again := ks.pending != nil
		s.mu.Unlock()

		if !again {
			return
		}
	}
}

// queueRetryLocked records a failed write in the outbox. A newer failure for
// the same key replaces the queued payload and keeps counting attempts.
// Callers hold s.mu.
func (s *Syncer) queueRetryLocked(key string, value []byte, cause error) {
	entry, ok := s.outbox[key]
	if !ok {
		entry = &OutboxEntry{Key: key}
		s.outbox[key] = entry
	}
	entry.Value = value
	entry.Attempts++
	entry.LastError = cause.Error()
	entry.NextAttemptAt = s.opts.Clock().Add(backoff(entry.Attempts, s.opts.MaxBackoff))
	log.Printf("[SYNC] write failed for %s (attempt %d, retry at %s): %v",
		key, entry.Attempts, entry.NextAttemptAt.Format(time.RFC3339), cause)
}

// backoff is min(maxBackoff, max(2s, 1s * 2^attempts))
func backoff(attempts int, maxBackoff time.Duration) time.Duration {
	if attempts > 20 {
		attempts = 20 // avoid shift overflow; cap applies anyway
	}
	d := time.Second << uint(attempts)
	if d < 2*time.Second {
		d = 2 * time.Second
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// SweepOutbox retries queued writes whose backoff has elapsed, at most
// BatchPerSweep per call so a recovering backend is not stormed.
func (s *Syncer) SweepOutbox(ctx context.Context) {
	now := s.opts.Clock()

	s.mu.Lock()
	due := make([]*OutboxEntry, 0, s.opts.BatchPerSweep)
	for _, entry := range s.outbox {
		if !entry.NextAttemptAt.After(now) {
			due = append(due, &OutboxEntry{
				Key:      entry.Key,
				Value:    entry.Value,
				Attempts: entry.Attempts,
			})
			if len(due) >= s.opts.BatchPerSweep {
				break
			}
		}
	}
	s.mu.Unlock()

	for _, entry := range due {
		s.ioMu.Lock()
		err := s.kv.Set(ctx, entry.Key, entry.Value)
		s.ioMu.Unlock()

		s.mu.Lock()
		current, ok := s.outbox[entry.Key]
		if ok {
			if err != nil {
				current.Attempts++
				current.LastError = err.Error()
				current.NextAttemptAt = s.opts.Clock().Add(backoff(current.Attempts, s.opts.MaxBackoff))
			} else {
				delete(s.outbox, entry.Key)
				log.Printf("[SYNC] outbox retry succeeded for %s after %d attempts", entry.Key, entry.Attempts)
			}
		}
		s.mu.Unlock()
	}
}

// OutboxEntries returns a snapshot of the retry queue
func (s *Syncer) OutboxEntries() []OutboxEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OutboxEntry, 0, len(s.outbox))
	for _, e := range s.outbox {
		out = append(out, *e)
	}
	return out
}
