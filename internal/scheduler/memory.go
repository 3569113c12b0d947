package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryScheduler — реализация в памяти для тестов и локального запуска
// без Redis.
type MemoryScheduler struct {
	mu    sync.Mutex
	tasks map[string]Task
}

func NewMemoryScheduler() *MemoryScheduler {
	return &MemoryScheduler{tasks: make(map[string]Task)}
}

func (s *MemoryScheduler) Schedule(_ context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.Key] = task
	return nil
}

func (s *MemoryScheduler) Cancel(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, key)
	return nil
}

func (s *MemoryScheduler) Due(_ context.Context, now time.Time) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Task
	for _, task := range s.tasks {
		if !task.FireAt.After(now) {
			due = append(due, task)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	return due, nil
}

// Len — количество запланированных задач (для тестов).
func (s *MemoryScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get возвращает задачу по ключу (для тестов).
func (s *MemoryScheduler) Get(key string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[key]
	return task, ok
}
