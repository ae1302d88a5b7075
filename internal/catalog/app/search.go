package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shanedle/cipher-cart/internal/catalog/domain"
)

const DefaultDebounce = 300 * time.Millisecond

type SearchFunc func(ctx context.Context, term string) ([]domain.Product, error)

type Result struct {
	Seq      uint64
	Term     string
	Products []domain.Product
	Err      error
}

// Searcher debounces search input and applies only the response to the
// latest input. Every Input bumps the sequence number; a query whose number
// is no longer current when it fires or returns is dropped.
type Searcher struct {
	search   SearchFunc
	delay    time.Duration
	onResult func(Result)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// publishMu orders onResult calls by sequence.
	publishMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	latest  Result
	loading bool
	closed  bool
}

func NewSearcher(search SearchFunc, delay time.Duration, onResult func(Result)) *Searcher {
	if delay < 0 {
		delay = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Searcher{
		search:   search,
		delay:    delay,
		onResult: onResult,
		ctx:      ctx,
		cancel:   cancel,
		latest:   Result{Products: []domain.Product{}},
	}
}

// Input records the new search text. A blank text clears the results at once.
func (s *Searcher) Input(term string) {
	term = strings.TrimSpace(term)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.stopTimerLocked()

	if term == "" {
		s.loading = false
		s.mu.Unlock()
		s.publish(Result{Seq: seq, Products: []domain.Product{}})
		return
	}

	s.loading = true
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.run(seq, term)
	})
	s.mu.Unlock()
}

func (s *Searcher) Latest() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Loading is true between an Input and the result for it.
func (s *Searcher) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Close cancels in-flight queries and waits for them to return.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Searcher) run(seq uint64, term string) {
	if !s.current(seq) {
		return
	}

	products, err := s.search(s.ctx, term)
	if err != nil || products == nil {
		products = []domain.Product{}
	}
	s.publish(Result{Seq: seq, Term: term, Products: products, Err: err})
}

func (s *Searcher) publish(res Result) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if s.closed || res.Seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.latest = res
	s.loading = false
	s.mu.Unlock()

	if s.onResult != nil {
		s.onResult(res)
	}
}

func (s *Searcher) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && seq == s.seq
}

// stopTimerLocked must be called with mu held.
func (s *Searcher) stopTimerLocked() {
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
}
