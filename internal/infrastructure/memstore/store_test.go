package memstore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/repository"
	"github.com/jhoicas/Retail-api/internal/infrastructure/memstore"
)

type doc struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Version  int64  `json:"version"`
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func exec(t *testing.T, s *memstore.Store, op repository.Operation) *repository.OperationResult {
	t.Helper()
	res, err := s.Execute(context.Background(), "invoices", op)
	require.NoError(t, err)
	return res
}

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	for _, d := range []doc{{"a", "T1", 1}, {"b", "T2", 1}, {"c", "T1", 3}} {
		exec(t, s, repository.Operation{Verb: repository.VerbInsertOne, Document: raw(t, d)})
	}
	return s
}

func decode(t *testing.T, res *repository.OperationResult) []doc {
	t.Helper()
	var out []doc
	for _, r := range res.Documents {
		var d doc
		require.NoError(t, json.Unmarshal(r, &d))
		out = append(out, d)
	}
	return out
}

func TestStore_FindFiltraEnOrden(t *testing.T) {
	s := seed(t)

	res := exec(t, s, repository.Operation{Verb: repository.VerbFind, Filter: repository.Filter{"clientId": "T1"}})
	assert.Equal(t, []doc{{"a", "T1", 1}, {"c", "T1", 3}}, decode(t, res))

	res = exec(t, s, repository.Operation{Verb: repository.VerbFind, Filter: repository.Filter{"clientId": "T1"}, Limit: 1, Offset: 1})
	assert.Equal(t, []doc{{"c", "T1", 3}}, decode(t, res))

	res = exec(t, s, repository.Operation{Verb: repository.VerbFindAll, Filter: repository.Filter{"clientId": "T1"}})
	assert.Len(t, res.Documents, 3, "findAll ignora el filtro")
}

func TestStore_FindOneConNumero(t *testing.T) {
	s := seed(t)
	res := exec(t, s, repository.Operation{Verb: repository.VerbFindOne, Filter: repository.Filter{"id": "c", "version": int64(3)}})
	assert.Equal(t, []doc{{"c", "T1", 3}}, decode(t, res))

	res = exec(t, s, repository.Operation{Verb: repository.VerbFindOne, Filter: repository.Filter{"id": "c", "version": 2}})
	assert.Empty(t, res.Documents)
}

func TestStore_InsertDuplicado(t *testing.T) {
	s := seed(t)
	_, err := s.Execute(context.Background(), "invoices", repository.Operation{Verb: repository.VerbInsertOne, Document: raw(t, doc{ID: "a"})})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStore_UpdateOneCondicional(t *testing.T) {
	s := seed(t)

	res := exec(t, s, repository.Operation{
		Verb:     repository.VerbUpdateOne,
		Filter:   repository.Filter{"id": "a", "version": 1},
		Document: raw(t, doc{"a", "T1", 2}),
	})
	assert.EqualValues(t, 1, res.Matched)

	// Segundo escritor con la versión vieja: no coincide nada.
	res = exec(t, s, repository.Operation{
		Verb:     repository.VerbUpdateOne,
		Filter:   repository.Filter{"id": "a", "version": 1},
		Document: raw(t, doc{"a", "T9", 2}),
	})
	assert.EqualValues(t, 0, res.Matched)

	got := decode(t, exec(t, s, repository.Operation{Verb: repository.VerbFindOne, Filter: repository.Filter{"id": "a"}}))
	assert.Equal(t, []doc{{"a", "T1", 2}}, got)
}

func TestStore_UpdateOneNoCambiaID(t *testing.T) {
	s := seed(t)
	_, err := s.Execute(context.Background(), "invoices", repository.Operation{
		Verb:     repository.VerbUpdateOne,
		Filter:   repository.Filter{"id": "a"},
		Document: raw(t, doc{ID: "z"}),
	})
	assert.Error(t, err)
}

func TestStore_UpsertYDelete(t *testing.T) {
	s := seed(t)
	exec(t, s, repository.Operation{Verb: repository.VerbUpsert, Document: raw(t, doc{"b", "T2", 5})})
	exec(t, s, repository.Operation{Verb: repository.VerbUpsert, Document: raw(t, doc{"d", "T3", 1})})

	all := decode(t, exec(t, s, repository.Operation{Verb: repository.VerbFindAll}))
	assert.Equal(t, []doc{{"a", "T1", 1}, {"b", "T2", 5}, {"c", "T1", 3}, {"d", "T3", 1}}, all)

	res := exec(t, s, repository.Operation{Verb: repository.VerbDeleteOne, Filter: repository.Filter{"clientId": "T1"}})
	assert.EqualValues(t, 1, res.Matched)
	all = decode(t, exec(t, s, repository.Operation{Verb: repository.VerbFindAll}))
	assert.Equal(t, "b", all[0].ID, "deleteOne elimina solo el primero que coincide")
}

func TestStore_DocumentoSinID(t *testing.T) {
	s := memstore.New()
	_, err := s.Execute(context.Background(), "x", repository.Operation{Verb: repository.VerbInsertOne, Document: json.RawMessage(`{"a":1}`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := memstore.New().Execute(ctx, "x", repository.Operation{Verb: repository.VerbFindAll})
	assert.ErrorIs(t, err, context.Canceled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Campos únicos
// ──────────────────────────────────────────────────────────────────────────────

type userDoc struct {
	ID              string `json:"id"`
	EmailNormalized string `json:"emailNormalized"`
}

func TestExecute_EmailUnicoEnUsuarios(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	insert := func(d userDoc) error {
		_, err := s.Execute(ctx, repository.CollectionUsers, repository.Operation{Verb: repository.VerbInsertOne, Document: raw(t, d)})
		return err
	}

	require.NoError(t, insert(userDoc{"u1", "a@x.co"}))
	assert.ErrorIs(t, insert(userDoc{"u2", "a@x.co"}), domain.ErrDuplicate)
	require.NoError(t, insert(userDoc{"u3", "b@x.co"}))

	_, err := s.Execute(ctx, repository.CollectionUsers, repository.Operation{
		Verb: repository.VerbUpdateOne, Filter: repository.Filter{"id": "u3"}, Document: raw(t, userDoc{"u3", "a@x.co"}),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "un update no puede duplicar el email")

	_, err = s.Execute(ctx, repository.CollectionUsers, repository.Operation{
		Verb: repository.VerbUpdateOne, Filter: repository.Filter{"id": "u1"}, Document: raw(t, userDoc{"u1", "a@x.co"}),
	})
	assert.NoError(t, err, "reescribir el propio documento no es conflicto")
}

func TestExecute_EmailUnicoConcurrente(t *testing.T) {
	s := memstore.New()
	const workers = 20

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := userDoc{ID: fmt.Sprintf("u%d", i), EmailNormalized: "mismo@x.co"}
			_, err := s.Execute(context.Background(), repository.CollectionUsers,
				repository.Operation{Verb: repository.VerbInsertOne, Document: raw(t, d)})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, ok)

	res, err := s.Execute(context.Background(), repository.CollectionUsers, repository.Operation{Verb: repository.VerbFindAll})
	require.NoError(t, err)
	assert.Len(t, res.Documents, 1)
}
