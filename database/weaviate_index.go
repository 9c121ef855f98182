package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/arthamitra/finassist-be/config"
	"github.com/arthamitra/finassist-be/types"
)

// WeaviateIndex is the server-backed VectorIndex implementation. Each
// collection maps to one Weaviate class holding the document text plus
// the flat metadata fields; vectors are supplied by the caller, the
// class carries no vectorizer.
type WeaviateIndex struct {
	client    *weaviate.Client
	className string
}

func NewWeaviateIndex(cfg config.WeaviateStoreConfig, collection string) (*WeaviateIndex, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create weaviate client: %v", types.ErrIndexUnavailable, err)
	}

	ix := &WeaviateIndex{
		client:    client,
		className: classNameFor(collection),
	}
	if err := ix.ensureClass(context.Background()); err != nil {
		return nil, err
	}
	return ix, nil
}

// classNameFor turns a snake_case collection name into the CamelCase
// class name Weaviate requires.
func classNameFor(collection string) string {
	parts := strings.Split(collection, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

func (ix *WeaviateIndex) classObject() *models.Class {
	return &models.Class{
		Class: ix.className,
		Properties: []*models.Property{
			{Name: "docId", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "userId", DataType: []string{"text"}},
			{Name: "kind", DataType: []string{"text"}},
			{Name: "timestamp", DataType: []string{"text"}},
			{Name: "amount", DataType: []string{"number"}},
			{Name: "category", DataType: []string{"text"}},
			{Name: "description", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
}

func (ix *WeaviateIndex) ensureClass(ctx context.Context) error {
	schema, err := ix.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: get schema: %v", types.ErrIndexUnavailable, err)
	}
	for _, class := range schema.Classes {
		if class.Class == ix.className {
			return nil
		}
	}
	if err := ix.client.Schema().ClassCreator().WithClass(ix.classObject()).Do(ctx); err != nil {
		return fmt.Errorf("%w: create class %s: %v", types.ErrIndexUnavailable, ix.className, err)
	}
	return nil
}

func (ix *WeaviateIndex) Add(ctx context.Context, doc *types.IndexedDocument) error {
	properties := map[string]interface{}{
		"docId":       doc.ID,
		"content":     doc.Content,
		"userId":      doc.Metadata.UserID,
		"kind":        string(doc.Metadata.Kind),
		"timestamp":   doc.Metadata.Timestamp,
		"amount":      doc.Metadata.Amount,
		"category":    doc.Metadata.Category,
		"description": doc.Metadata.Description,
		"title":       doc.Metadata.Title,
		"source":      doc.Metadata.Source,
	}

	// Weaviate object ids must be UUIDs; deriving one from the document
	// id keeps inserts of the same id colliding, which is how duplicate
	// detection surfaces here.
	objectID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(doc.ID)).String()

	_, err := ix.client.Data().Creator().
		WithClassName(ix.className).
		WithID(objectID).
		WithProperties(properties).
		WithVector(doc.Embedding).
		Do(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("%w: %s", types.ErrDuplicateID, doc.ID)
		}
		return fmt.Errorf("%w: insert %s: %v", types.ErrIndexUnavailable, doc.ID, err)
	}
	return nil
}

func (ix *WeaviateIndex) Query(ctx context.Context, vector []float32, k int, filter *types.MetadataFilter) ([]types.QueryResult, error) {
	if k <= 0 {
		k = 5
	}
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "userId"},
		{Name: "kind"},
		{Name: "timestamp"},
		{Name: "amount"},
		{Name: "category"},
		{Name: "description"},
		{Name: "title"},
		{Name: "source"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}

	getBuilder := ix.client.GraphQL().Get().
		WithClassName(ix.className).
		WithFields(fields...).
		WithNearVector(ix.client.GraphQL().NearVectorArgBuilder().WithVector(vector)).
		WithLimit(k)
	if where := buildWhere(filter); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", types.ErrIndexUnavailable, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: query: %v", types.ErrIndexUnavailable, result.Errors[0].Message)
	}

	var results []types.QueryResult
	data, ok := result.Data["Get"].(map[string]interface{})[ix.className].([]interface{})
	if !ok {
		return results, nil
	}
	for _, item := range data {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		qr := types.QueryResult{
			Content: asString(obj["content"]),
			Metadata: types.DocumentMetadata{
				UserID:      asString(obj["userId"]),
				Kind:        types.RecordKind(asString(obj["kind"])),
				Timestamp:   asString(obj["timestamp"]),
				Amount:      asFloat(obj["amount"]),
				Category:    asString(obj["category"]),
				Description: asString(obj["description"]),
				Title:       asString(obj["title"]),
				Source:      asString(obj["source"]),
			},
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			qr.Distance = float32(asFloat(additional["distance"]))
		}
		results = append(results, qr)
	}
	return results, nil
}

func (ix *WeaviateIndex) DeleteWhere(ctx context.Context, filter types.MetadataFilter) (int, error) {
	if filter.IsZero() {
		return 0, fmt.Errorf("%w: refusing to delete with an empty filter", types.ErrIndexUnavailable)
	}
	resp, err := ix.client.Batch().ObjectsBatchDeleter().
		WithClassName(ix.className).
		WithWhere(buildWhere(&filter)).
		WithOutput("minimal").
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: batch delete: %v", types.ErrIndexUnavailable, err)
	}
	if resp == nil || resp.Results == nil {
		return 0, nil
	}
	return int(resp.Results.Successful), nil
}

func (ix *WeaviateIndex) Count(ctx context.Context) (int, error) {
	result, err := ix.client.GraphQL().Aggregate().
		WithClassName(ix.className).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: aggregate: %v", types.ErrIndexUnavailable, err)
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("%w: aggregate: %v", types.ErrIndexUnavailable, result.Errors[0].Message)
	}
	data, ok := result.Data["Aggregate"].(map[string]interface{})[ix.className].([]interface{})
	if !ok || len(data) == 0 {
		return 0, nil
	}
	meta, ok := data[0].(map[string]interface{})["meta"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	return int(asFloat(meta["count"])), nil
}

func (ix *WeaviateIndex) Close() error { return nil }

func buildWhere(filter *types.MetadataFilter) *filters.WhereBuilder {
	if filter == nil {
		return nil
	}
	var where *filters.WhereBuilder
	and := func(clause *filters.WhereBuilder) {
		if where == nil {
			where = clause
			return
		}
		where = filters.Where().WithOperator(filters.And).
			WithOperands([]*filters.WhereBuilder{where, clause})
	}
	if filter.UserID != "" {
		and(filters.Where().WithPath([]string{"userId"}).
			WithOperator(filters.Equal).WithValueText(filter.UserID))
	}
	if filter.Kind != "" {
		and(filters.Where().WithPath([]string{"kind"}).
			WithOperator(filters.Equal).WithValueText(string(filter.Kind)))
	}
	if filter.Category != "" {
		and(filters.Where().WithPath([]string{"category"}).
			WithOperator(filters.Equal).WithValueText(filter.Category))
	}
	return where
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}
