package repository

import (
	"context"
	"encoding/json"
)

// Verb operación soportada por el document store.
type Verb string

// Verbos del document store.
const (
	VerbFindOne   Verb = "findOne"   // primer documento que cumple Filter
	VerbFindAll   Verb = "findAll"   // todos los documentos de la colección
	VerbFind      Verb = "find"      // documentos que cumplen Filter, con Limit/Offset
	VerbInsertOne Verb = "insertOne" // inserta Document; ErrDuplicate si el id existe
	VerbUpdateOne Verb = "updateOne" // reemplaza el primer documento que cumple Filter
	VerbUpsert    Verb = "upsert"    // reemplaza por id o inserta
	VerbDeleteOne Verb = "deleteOne" // elimina el primer documento que cumple Filter
)

// Filter igualdad sobre campos de primer nivel del documento.
type Filter map[string]any

// Operation payload de una operación. Document debe incluir un campo "id" en inserciones.
type Operation struct {
	Verb     Verb
	Filter   Filter
	Document json.RawMessage
	Limit    int // 0 = sin límite
	Offset   int
}

// OperationResult resultado genérico. Matched cuenta los documentos afectados o encontrados.
type OperationResult struct {
	Documents []json.RawMessage
	Matched   int64
}

// DocumentStore puerto genérico de persistencia documental. Los repositorios del dominio
// se construyen encima; ningún caso de uso depende de la implementación concreta.
type DocumentStore interface {
	Execute(ctx context.Context, collection string, op Operation) (*OperationResult, error)
}

// Colecciones conocidas.
const (
	CollectionUsers    = "users"
	CollectionClients  = "clients"
	CollectionInvoices = "invoices"
)
