package models

import (
	"encoding/json"
	"errors"
	"math"
)

const (
	DatabaseName   = "taskmaster"
	CollectionName = "tasks"

	IDField     = "_id"
	StatusField = "status"

	// StatusArchive marca uma tarefa arquivada. É apenas uma convenção de filtro.
	StatusArchive = "archive"
)

// ErrInvalidID indica um identificador que o backend de armazenamento não aceita.
var ErrInvalidID = errors.New("invalid task id")

// Task é o documento enviado pelo cliente, armazenado sem esquema.
// O identificador gerado pelo armazenamento aparece na chave "_id".
type Task map[string]interface{}

// ID retorna o identificador do documento, ou "" se não houver.
func (t Task) ID() string {
	id, _ := t[IDField].(string)
	return id
}

// InsertResult segue o formato devolvido por um banco de documentos numa inserção simples.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type Message struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NormalizeNumbers converte recursivamente os json.Number produzidos por um
// decoder com UseNumber: inteiros viram int32 ou int64, o resto float64.
func NormalizeNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return int32(i)
			}
			return i
		}
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return f
	case map[string]interface{}:
		for k, item := range val {
			val[k] = NormalizeNumbers(item)
		}
		return val
	case Task:
		for k, item := range val {
			val[k] = NormalizeNumbers(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = NormalizeNumbers(item)
		}
		return val
	default:
		return v
	}
}
