package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"taskmaster-server/models"
)

// MemoryTaskStore guarda as tarefas em memória, na ordem de inserção.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]models.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{docs: make(map[string]models.Task)}
}

func (s *MemoryTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	return s.find(func(models.Task) bool { return true }), nil
}

func (s *MemoryTaskStore) FindByStatus(ctx context.Context, status string) ([]models.Task, error) {
	return s.find(func(t models.Task) bool {
		v, ok := t[models.StatusField].(string)
		return ok && v == status
	}), nil
}

func (s *MemoryTaskStore) FindByID(ctx context.Context, id string) (models.Task, error) {
	if err := parseUUID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return withID(copyTask(doc), id), nil
}

func (s *MemoryTaskStore) Insert(ctx context.Context, task models.Task) (models.InsertResult, error) {
	id := uuid.NewString()

	s.mu.Lock()
	s.docs[id] = copyTask(task)
	s.order = append(s.order, id)
	s.mu.Unlock()

	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *MemoryTaskStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	if err := parseUUID(id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return 0, nil
	}
	delete(s.docs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (s *MemoryTaskStore) UpdateFields(ctx context.Context, id string, fields models.Task) (int64, error) {
	if err := parseUUID(id); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		doc[k] = v
	}
	return 1, nil
}

func (s *MemoryTaskStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryTaskStore) find(match func(models.Task) bool) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		if match(doc) {
			tasks = append(tasks, withID(copyTask(doc), id))
		}
	}
	return tasks
}

var errNotCanonical = errors.New("uuid fora da forma canônica")

// parseUUID aceita só a forma canônica (minúscula, com hífens), que é a
// usada como chave no armazenamento.
func parseUUID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, err)
	}
	if u.String() != id {
		return fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, errNotCanonical)
	}
	return nil
}

// copyTask faz uma cópia rasa; valores aninhados continuam compartilhados.
func copyTask(t models.Task) models.Task {
	c := make(models.Task, len(t)+1)
	for k, v := range t {
		c[k] = v
	}
	return c
}

func withID(t models.Task, id string) models.Task {
	t[models.IDField] = id
	return t
}
