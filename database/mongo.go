package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"taskmaster-server/models"
	"taskmaster-server/utilities"
)

// MongoTaskStore implementa TaskStore sobre uma coleção do MongoDB.
type MongoTaskStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo conecta ao MongoDB usando a Stable API v1 e verifica a conexão com ping.
func ConnectMongo(ctx context.Context, uri string) (*MongoTaskStore, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com o MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("erro ao conectar ao MongoDB: %w", err)
	}

	utilities.LogInfo("Conectado ao MongoDB com sucesso!")
	store := NewMongoTaskStore(client.Database(models.DatabaseName).Collection(models.CollectionName))
	store.client = client
	return store, nil
}

// NewMongoTaskStore usa uma coleção já aberta. Close não desconecta o cliente nesse caso.
func NewMongoTaskStore(coll *mongo.Collection) *MongoTaskStore {
	return &MongoTaskStore{coll: coll}
}

func (s *MongoTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	return s.find(ctx, bson.D{})
}

func (s *MongoTaskStore) FindByStatus(ctx context.Context, status string) ([]models.Task, error) {
	return s.find(ctx, bson.D{{Key: models.StatusField, Value: status}})
}

func (s *MongoTaskStore) FindByID(ctx context.Context, id string) (models.Task, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = s.coll.FindOne(ctx, bson.D{{Key: models.IDField, Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefa %s: %w", id, err)
	}
	return toTask(doc), nil
}

func (s *MongoTaskStore) Insert(ctx context.Context, task models.Task) (models.InsertResult, error) {
	res, err := s.coll.InsertOne(ctx, bson.M(task))
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("erro ao inserir tarefa: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

func (s *MongoTaskStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: models.IDField, Value: oid}})
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar tarefa %s: %w", id, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoTaskStore) UpdateFields(ctx context.Context, id string, fields models.Task) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}
	update := bson.D{{Key: "$set", Value: bson.M(fields)}}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: models.IDField, Value: oid}}, update)
	if err != nil {
		return 0, fmt.Errorf("erro ao atualizar tarefa %s: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (s *MongoTaskStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoTaskStore) find(ctx context.Context, filter bson.D) ([]models.Task, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar tarefas: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("erro ao ler tarefas: %w", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, toTask(doc))
	}
	return tasks, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", models.ErrInvalidID, id, err)
	}
	return oid, nil
}

func idString(v interface{}) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(v)
}

func toTask(doc bson.M) models.Task {
	task := make(models.Task, len(doc))
	for k, v := range doc {
		task[k] = plain(v)
	}
	if id, ok := doc[models.IDField]; ok {
		task[models.IDField] = idString(id)
	}
	return task
}

// plain converte documentos e arrays BSON aninhados em tipos que o
// encoding/json serializa como objetos e arrays.
func plain(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = plain(item)
		}
		return m
	case bson.A:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = plain(item)
		}
		return s
	default:
		return v
	}
}
