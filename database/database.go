package database

import (
	"context"
	"fmt"

	"taskmaster-server/config"
	"taskmaster-server/firebase"
	"taskmaster-server/models"
	"taskmaster-server/utilities"
)

// TaskStore é o acesso único à coleção de tarefas. Uma instância é compartilhada
// por todas as requisições e deve ser segura para uso concorrente.
type TaskStore interface {
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByStatus(ctx context.Context, status string) ([]models.Task, error)
	// FindByID retorna nil, nil quando não existe documento com o id.
	FindByID(ctx context.Context, id string) (models.Task, error)
	Insert(ctx context.Context, task models.Task) (models.InsertResult, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	// UpdateFields sobrescreve apenas os campos informados e retorna quantos
	// documentos casaram com o id.
	UpdateFields(ctx context.Context, id string, fields models.Task) (int64, error)
	Close(ctx context.Context) error
}

// Connect abre a conexão com o backend configurado. Só retorna depois que a
// conexão foi verificada, para que nenhuma rota seja servida antes disso.
func Connect(ctx context.Context, cfg *config.Config) (TaskStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	utilities.LogInfo("Conectando ao armazenamento (backend: %s)", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.BackendMongo:
		store, err := ConnectMongo(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendPostgres:
		store, err := ConnectPostgres(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendFirestore:
		store, err := firebase.ConnectFirestore(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return NewMemoryTaskStore(), nil
	default:
		return nil, fmt.Errorf("backend de armazenamento desconhecido: %q", cfg.StoreBackend)
	}
}
