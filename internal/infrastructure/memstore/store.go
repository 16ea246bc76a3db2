// Package memstore implementa repository.DocumentStore en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo local) y en los tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*Store)(nil)

// uniqueFields campos únicos por colección, además del id. Replica los índices únicos
// del esquema de PostgreSQL.
var uniqueFields = map[string][]string{
	repository.CollectionUsers: {"emailNormalized"},
}

type document struct {
	id     string
	raw    json.RawMessage
	fields map[string]any
}

// Store colecciones de documentos JSON en orden de inserción.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]*document
}

// New crea un store vacío.
func New() *Store {
	return &Store{collections: make(map[string][]*document)}
}

// Execute ejecuta la operación sobre la colección. Cada llamada es atómica.
func (s *Store) Execute(ctx context.Context, collection string, op repository.Operation) (*repository.OperationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter, err := normalize(op.Filter)
	if err != nil {
		return nil, fmt.Errorf("memstore: filtro: %w", err)
	}

	switch op.Verb {
	case repository.VerbFindOne, repository.VerbFindAll, repository.VerbFind:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.find(collection, op, filter), nil
	case repository.VerbInsertOne:
		doc, err := parse(op.Document)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.indexByID(collection, doc.id) >= 0 {
			return nil, fmt.Errorf("memstore: %s/%s: %w", collection, doc.id, domain.ErrDuplicate)
		}
		if err := s.checkUnique(collection, doc); err != nil {
			return nil, err
		}
		s.collections[collection] = append(s.collections[collection], doc)
		return &repository.OperationResult{Matched: 1}, nil
	case repository.VerbUpsert:
		doc, err := parse(op.Document)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.checkUnique(collection, doc); err != nil {
			return nil, err
		}
		if i := s.indexByID(collection, doc.id); i >= 0 {
			s.collections[collection][i] = doc
		} else {
			s.collections[collection] = append(s.collections[collection], doc)
		}
		return &repository.OperationResult{Matched: 1}, nil
	case repository.VerbUpdateOne:
		doc, err := parse(op.Document)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		i := s.firstMatch(collection, filter)
		if i < 0 {
			return &repository.OperationResult{}, nil
		}
		if current := s.collections[collection][i]; current.id != doc.id {
			return nil, fmt.Errorf("memstore: updateOne no puede cambiar el id %s -> %s", current.id, doc.id)
		}
		if err := s.checkUnique(collection, doc); err != nil {
			return nil, err
		}
		s.collections[collection][i] = doc
		return &repository.OperationResult{Matched: 1}, nil
	case repository.VerbDeleteOne:
		s.mu.Lock()
		defer s.mu.Unlock()
		i := s.firstMatch(collection, filter)
		if i < 0 {
			return &repository.OperationResult{}, nil
		}
		docs := s.collections[collection]
		s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
		return &repository.OperationResult{Matched: 1}, nil
	default:
		return nil, fmt.Errorf("memstore: verbo no soportado %q", op.Verb)
	}
}

func (s *Store) find(collection string, op repository.Operation, filter map[string]any) *repository.OperationResult {
	res := &repository.OperationResult{}
	skipped := 0
	for _, doc := range s.collections[collection] {
		if op.Verb != repository.VerbFindAll && !matches(doc, filter) {
			continue
		}
		if op.Verb == repository.VerbFind && skipped < op.Offset {
			skipped++
			continue
		}
		res.Documents = append(res.Documents, append(json.RawMessage(nil), doc.raw...))
		res.Matched++
		if op.Verb == repository.VerbFindOne || (op.Verb == repository.VerbFind && op.Limit > 0 && len(res.Documents) >= op.Limit) {
			break
		}
	}
	return res
}

func (s *Store) firstMatch(collection string, filter map[string]any) int {
	for i, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

func (s *Store) indexByID(collection, id string) int {
	for i, doc := range s.collections[collection] {
		if doc.id == id {
			return i
		}
	}
	return -1
}

// checkUnique falla con domain.ErrDuplicate si otro documento (id distinto) ya tiene
// el mismo valor en un campo único. Requiere s.mu tomado.
func (s *Store) checkUnique(collection string, doc *document) error {
	for _, field := range uniqueFields[collection] {
		v, ok := doc.fields[field]
		if !ok || v == nil || v == "" {
			continue
		}
		for _, other := range s.collections[collection] {
			if other.id != doc.id && reflect.DeepEqual(other.fields[field], v) {
				return fmt.Errorf("memstore: %s.%s repetido: %w", collection, field, domain.ErrDuplicate)
			}
		}
	}
	return nil
}

func matches(doc *document, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := doc.fields[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func parse(raw json.RawMessage) (*document, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("memstore: documento vacío: %w", domain.ErrInvalidInput)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("memstore: documento inválido: %w", err)
	}
	id, _ := fields["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("memstore: documento sin id: %w", domain.ErrInvalidInput)
	}
	return &document{id: id, raw: append(json.RawMessage(nil), raw...), fields: fields}, nil
}

// normalize pasa el filtro por JSON para que los tipos coincidan con los del documento
// (números como float64, strings como string).
func normalize(filter repository.Filter) (map[string]any, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(filter)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
