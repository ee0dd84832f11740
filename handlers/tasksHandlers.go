package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"taskmaster-server/models"
	"taskmaster-server/utilities"
)

// TaskStore é o que os handlers precisam do armazenamento.
type TaskStore interface {
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByStatus(ctx context.Context, status string) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (models.Task, error)
	Insert(ctx context.Context, task models.Task) (models.InsertResult, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	UpdateFields(ctx context.Context, id string, fields models.Task) (int64, error)
}

// TaskHandler traduz cada rota em uma única chamada ao armazenamento.
type TaskHandler struct {
	store TaskStore
}

func NewTaskHandler(store TaskStore) *TaskHandler {
	return &TaskHandler{store: store}
}

// HomeHandler responde com a saudação em texto puro.
func (h *TaskHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "Task Master Server")
}

// ListTasksHandler lista todas as tarefas
func (h *TaskHandler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas")

	tasks, err := h.store.FindAll(r.Context())
	if err != nil {
		internalError(w, err, "Erro ao buscar tarefas")
		return
	}

	utilities.LogDebug("Tarefas listadas com sucesso - total: %d", len(tasks))
	writeJSON(w, http.StatusOK, tasks)
}

// ListArchivedTasksHandler lista as tarefas com status "archive"
func (h *TaskHandler) ListArchivedTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas arquivadas")

	tasks, err := h.store.FindByStatus(r.Context(), models.StatusArchive)
	if err != nil {
		internalError(w, err, "Erro ao buscar tarefas arquivadas")
		return
	}

	utilities.LogDebug("Tarefas arquivadas listadas com sucesso - total: %d", len(tasks))
	writeJSON(w, http.StatusOK, tasks)
}

// GetTaskHandler busca uma tarefa pelo id. Tarefa inexistente responde 200 com null.
func (h *TaskHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	utilities.LogDebug("Buscando tarefa %s", taskID)

	task, err := h.store.FindByID(r.Context(), taskID)
	if err != nil {
		internalError(w, err, "Erro ao buscar tarefa")
		return
	}
	if task == nil {
		utilities.LogDebug("Tarefa %s não encontrada", taskID)
	} else {
		utilities.LogDebug("Tarefa encontrada: %s", task.ID())
	}

	writeJSON(w, http.StatusOK, task)
}

// CreateTaskHandler insere o corpo da requisição como nova tarefa
func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")

	task, err := decodeTask(r)
	if err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da tarefa")
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	result, err := h.store.Insert(r.Context(), task)
	if err != nil {
		internalError(w, err, "Erro ao criar tarefa")
		return
	}

	utilities.LogInfo("Tarefa criada com sucesso (ID: %s)", result.InsertedID)
	writeJSON(w, http.StatusCreated, result)
}

// DeleteTaskHandler remove uma tarefa
func (h *TaskHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	utilities.LogDebug("Iniciando exclusão da tarefa %s", taskID)

	deleted, err := h.store.DeleteByID(r.Context(), taskID)
	if err != nil {
		internalError(w, err, "Erro ao deletar tarefa")
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	utilities.LogInfo("Tarefa excluída com sucesso: %s", taskID)
	writeJSON(w, http.StatusOK, models.Message{Message: msgTaskDeleted})
}

// UpdateTaskHandler sobrescreve apenas os campos enviados no corpo
func (h *TaskHandler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]
	utilities.LogDebug("Iniciando atualização da tarefa %s", taskID)

	fields, err := decodeTask(r)
	if err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON de atualização")
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	matched, err := h.store.UpdateFields(r.Context(), taskID, fields)
	if err != nil {
		internalError(w, err, "Erro ao atualizar tarefa")
		return
	}
	if matched == 0 {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	utilities.LogInfo("Tarefa atualizada com sucesso: %s", taskID)
	writeJSON(w, http.StatusOK, models.Message{Message: msgTaskUpdated})
}

// decodeTask lê o corpo como objeto JSON. Corpo vazio ou null vira documento vazio.
func decodeTask(r *http.Request) (models.Task, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var task models.Task
	if err := dec.Decode(&task); err != nil {
		if errors.Is(err, io.EOF) {
			return models.Task{}, nil
		}
		return nil, err
	}
	if task == nil {
		task = models.Task{}
	}
	models.NormalizeNumbers(task)
	return task, nil
}
