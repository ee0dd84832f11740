package database

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"taskmaster-server/models"
	"taskmaster-server/utilities"
)

const createTasksTable = `
	CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT PRIMARY KEY,
		doc        JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresTaskStore guarda cada tarefa como um documento JSONB.
type PostgresTaskStore struct {
	db *sql.DB
}

// ConnectPostgres abre a conexão, testa com ping e garante que a tabela existe.
func ConnectPostgres(ctx context.Context, connStr string) (*PostgresTaskStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com o banco de dados: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar ao banco de dados: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTasksTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao criar tabela de tarefas: %w", err)
	}

	utilities.LogInfo("Conectado ao PostgreSQL com sucesso!")
	return NewPostgresTaskStore(db), nil
}

func NewPostgresTaskStore(db *sql.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

func (s *PostgresTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	return s.query(ctx, `SELECT id, doc FROM tasks ORDER BY created_at, id`)
}

func (s *PostgresTaskStore) FindByStatus(ctx context.Context, status string) ([]models.Task, error) {
	filter, err := json.Marshal(map[string]string{models.StatusField: status})
	if err != nil {
		return nil, err
	}
	return s.query(ctx, `SELECT id, doc FROM tasks WHERE doc @> $1::jsonb ORDER BY created_at, id`, string(filter))
}

func (s *PostgresTaskStore) FindByID(ctx context.Context, id string) (models.Task, error) {
	if err := parseUUID(id); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM tasks WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefa %s: %w", id, err)
	}
	return decodeDoc(id, raw)
}

func (s *PostgresTaskStore) Insert(ctx context.Context, task models.Task) (models.InsertResult, error) {
	doc, err := json.Marshal(task)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("erro ao serializar tarefa: %w", err)
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO tasks (id, doc) VALUES ($1, $2::jsonb)`, id, string(doc)); err != nil {
		return models.InsertResult{}, fmt.Errorf("erro ao inserir tarefa: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *PostgresTaskStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	if err := parseUUID(id); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar tarefa %s: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *PostgresTaskStore) UpdateFields(ctx context.Context, id string, fields models.Task) (int64, error) {
	if err := parseUUID(id); err != nil {
		return 0, err
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("erro ao serializar campos: %w", err)
	}
	// jsonb || jsonb substitui apenas as chaves de primeiro nível presentes em $2
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET doc = doc || $2::jsonb WHERE id = $1`, id, string(patch))
	if err != nil {
		return 0, fmt.Errorf("erro ao atualizar tarefa %s: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *PostgresTaskStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *PostgresTaskStore) query(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefas: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("erro ao ler resultado da query de tarefas: %w", err)
		}
		task, err := decodeDoc(id, raw)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar tarefas: %w", err)
	}
	return tasks, nil
}

func decodeDoc(id string, raw []byte) (models.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	task := models.Task{}
	if err := dec.Decode(&task); err != nil {
		return nil, fmt.Errorf("documento inválido para tarefa %s: %w", id, err)
	}
	models.NormalizeNumbers(task)
	return withID(task, id), nil
}
