package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"nutrition-bot/internal/domain/entity"
)

// stubBackend управляемый тестовый бэкенд.
type stubBackend struct {
	scores  entity.ScoreVector
	err     error
	panicV  any
	classes int
	delay   time.Duration

	entered chan struct{} // сигнал о входе в Classify
	release chan struct{} // если не nil, Classify ждёт его

	calls      atomic.Int32
	closeCalls atomic.Int32
	inFlight   atomic.Int32
	maxFlight  atomic.Int32

	mu         sync.Mutex
	lastTensor entity.ImageTensor
}

func (s *stubBackend) Classify(ctx context.Context, tensor entity.ImageTensor) (entity.ScoreVector, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxFlight.Load()
		if n <= cur || s.maxFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	s.mu.Lock()
	s.lastTensor = tensor
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panicV != nil {
		panic(s.panicV)
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make(entity.ScoreVector, len(s.scores))
	copy(out, s.scores)
	return out, nil
}

func (s *stubBackend) Close() error {
	s.closeCalls.Add(1)
	return nil
}

// countingBackend дополнительно сообщает размер выхода.
type countingBackend struct {
	stubBackend
}

func (c *countingBackend) NumClasses() int {
	return c.classes
}

type stubHistory struct {
	mu      sync.Mutex
	records []entity.AssessmentRecord
	err     error
}

func (s *stubHistory) Append(ctx context.Context, record entity.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *stubHistory) Recent(ctx context.Context, userID int64, limit int) ([]entity.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []entity.AssessmentRecord
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].UserID == userID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

type stubCache struct {
	values  map[string]entity.AnalysisResult
	getErr  error
	setErr  error
	getKeys []string
	setKeys []string
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]entity.AnalysisResult)}
}

func (s *stubCache) Get(ctx context.Context, key string) (entity.AnalysisResult, bool, error) {
	s.getKeys = append(s.getKeys, key)
	if s.getErr != nil {
		return entity.AnalysisResult{}, false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubCache) Set(ctx context.Context, key string, result entity.AnalysisResult) error {
	s.setKeys = append(s.setKeys, key)
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = result
	return nil
}
