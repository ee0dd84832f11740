package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskmaster-server/models"
	"taskmaster-server/utilities"
)

// FirestoreTaskStore guarda as tarefas na coleção "tasks" do Firestore.
// O id do documento é o identificador da tarefa.
type FirestoreTaskStore struct {
	client *firestore.Client
	coll   *firestore.CollectionRef
}

// ConnectFirestore cria o cliente e faz uma leitura mínima para validar as credenciais.
// O ctx limita apenas essa leitura.
func ConnectFirestore(ctx context.Context, credentialsPath string) (*FirestoreTaskStore, error) {
	return connectFirestore(ctx, func() (*firestore.Client, error) {
		return GetFirestoreClient(credentialsPath)
	})
}

func connectFirestore(ctx context.Context, newClient func() (*firestore.Client, error)) (*FirestoreTaskStore, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	store := NewFirestoreTaskStore(client)
	if err := store.ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("erro ao conectar ao Firestore: %w", err)
	}

	utilities.LogInfo("Conectado ao Firestore com sucesso!")
	return store, nil
}

func (s *FirestoreTaskStore) ping(ctx context.Context) error {
	iter := s.coll.Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func NewFirestoreTaskStore(client *firestore.Client) *FirestoreTaskStore {
	return &FirestoreTaskStore{
		client: client,
		coll:   client.Collection(models.CollectionName),
	}
}

func (s *FirestoreTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	return collect(s.coll.Documents(ctx))
}

func (s *FirestoreTaskStore) FindByStatus(ctx context.Context, st string) ([]models.Task, error) {
	return collect(s.coll.Where(models.StatusField, "==", st).Documents(ctx))
}

func (s *FirestoreTaskStore) FindByID(ctx context.Context, id string) (models.Task, error) {
	ref, err := s.doc(id)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefa %s: %w", id, err)
	}
	return toTask(snap), nil
}

func (s *FirestoreTaskStore) Insert(ctx context.Context, task models.Task) (models.InsertResult, error) {
	ref, _, err := s.coll.Add(ctx, map[string]interface{}(task))
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("erro ao inserir tarefa: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: ref.ID}, nil
}

func (s *FirestoreTaskStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	ref, err := s.doc(id)
	if err != nil {
		return 0, err
	}

	// Delete no Firestore não falha para documento inexistente; a transação
	// confirma a existência antes de remover.
	var deleted int64
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = 0
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		deleted = 1
		return tx.Delete(ref)
	})
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar tarefa %s: %w", id, err)
	}
	return deleted, nil
}

func (s *FirestoreTaskStore) UpdateFields(ctx context.Context, id string, fields models.Task) (int64, error) {
	ref, err := s.doc(id)
	if err != nil {
		return 0, err
	}

	// FieldPath evita que chaves com ponto sejam tratadas como caminhos aninhados,
	// e cada campo é substituído por inteiro.
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}

	var matched int64
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		matched = 0
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		matched = 1
		return tx.Update(ref, updates)
	})
	if err != nil {
		return 0, fmt.Errorf("erro ao atualizar tarefa %s: %w", id, err)
	}
	return matched, nil
}

func (s *FirestoreTaskStore) Close(ctx context.Context) error {
	return s.client.Close()
}

var errBadDocID = errors.New("id de documento do Firestore inválido")

func (s *FirestoreTaskStore) doc(id string) (*firestore.DocumentRef, error) {
	if id == "" || id == "." || id == ".." || strings.Contains(id, "/") ||
		(strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__")) {
		return nil, fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, errBadDocID)
	}
	ref := s.coll.Doc(id)
	if ref == nil {
		return nil, fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, errBadDocID)
	}
	return ref, nil
}

func collect(iter *firestore.DocumentIterator) ([]models.Task, error) {
	defer iter.Stop()

	tasks := []models.Task{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao iterar tarefas: %w", err)
		}
		tasks = append(tasks, toTask(doc))
	}
	return tasks, nil
}

func toTask(snap *firestore.DocumentSnapshot) models.Task {
	task := models.Task(snap.Data())
	if task == nil {
		task = models.Task{}
	}
	task[models.IDField] = snap.Ref.ID
	return task
}
