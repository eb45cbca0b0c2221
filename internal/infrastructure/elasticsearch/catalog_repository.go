package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
	"github.com/oksasatya/pokedex-api/pkg/helpers"
)

// lightFields is the projection served by catalog listings.
var lightFields = []string{"id", "name", "types", "sprites.front_default"}

const requestTimeout = 3 * time.Second

// CatalogRepository reads catalog documents from one index. Document ids
// are the decimal catalog ids.
type CatalogRepository struct {
	client *es.Client
	index  string
}

func NewCatalogRepository(client *es.Client, index string) *CatalogRepository {
	return &CatalogRepository{client: client, index: index}
}

type hit struct {
	ID     string          `json:"_id"`
	Found  *bool           `json:"found,omitempty"`
	Source json.RawMessage `json:"_source"`
}

func (h hit) entry() (entity.CatalogEntry, error) {
	var head struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(h.Source, &head); err != nil {
		return entity.CatalogEntry{}, fmt.Errorf("decode catalog doc %s: %w", h.ID, err)
	}
	if head.ID == 0 {
		head.ID, _ = strconv.Atoi(h.ID)
	}
	return entity.CatalogEntry{ID: head.ID, Name: head.Name, Source: h.Source}, nil
}

func (r *CatalogRepository) List(ctx context.Context, offset, limit int) ([]entity.CatalogEntry, int64, error) {
	query := map[string]any{
		"query":            map[string]any{"match_all": map[string]any{}},
		"sort":             []any{map[string]any{"id": "asc"}},
		"from":             offset,
		"size":             limit,
		"track_total_hits": true,
		"_source":          lightFields,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, 0, fmt.Errorf("encode catalog query: %w", err)
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := r.client.Search(
		r.client.Search.WithContext(c),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, fmt.Errorf("catalog search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}
	out := make([]entity.CatalogEntry, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		e, err := h.entry()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, parsed.Hits.Total.Value, nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, id int) (*entity.CatalogEntry, error) {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := r.client.Get(r.index, strconv.Itoa(id), r.client.Get.WithContext(c))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode == http.StatusNotFound {
		return nil, repository.ErrNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("catalog get %d: %s", id, res.Status())
	}

	var h hit
	if err := json.NewDecoder(res.Body).Decode(&h); err != nil {
		return nil, err
	}
	e, err := h.entry()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []int) ([]entity.CatalogEntry, error) {
	if len(ids) == 0 {
		return []entity.CatalogEntry{}, nil
	}
	docIDs := make([]string, len(ids))
	for i, id := range ids {
		docIDs[i] = strconv.Itoa(id)
	}
	b, err := json.Marshal(map[string]any{"ids": docIDs})
	if err != nil {
		return nil, fmt.Errorf("encode catalog mget: %w", err)
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := r.client.Mget(bytes.NewReader(b), r.client.Mget.WithContext(c), r.client.Mget.WithIndex(r.index))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("catalog mget: %s", res.Status())
	}

	var parsed struct {
		Docs []hit `json:"docs"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.CatalogEntry, 0, len(parsed.Docs))
	for _, h := range parsed.Docs {
		if h.Found != nil && !*h.Found {
			continue
		}
		e, err := h.entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// catalogMapping keeps id sortable and name searchable; everything else
// is stored as-is.
const catalogMapping = `{
  "mappings": {
    "dynamic": false,
    "properties": {
      "id":    {"type": "integer"},
      "name":  {"type": "keyword"},
      "types": {"type": "object", "enabled": false}
    }
  }
}`

// EnsureIndex creates the catalog index when it is missing.
func (r *CatalogRepository) EnsureIndex(ctx context.Context) (bool, error) {
	return helpers.EnsureIndex(ctx, r.client, r.index, catalogMapping)
}

// IndexAll writes the raw catalog documents in one bulk request. Each
// document must carry a numeric "id" field.
func (r *CatalogRepository) IndexAll(ctx context.Context, docs []json.RawMessage) (int, error) {
	var buf bytes.Buffer
	for _, d := range docs {
		var head struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(d, &head); err != nil || head.ID == 0 {
			return 0, fmt.Errorf("catalog doc without numeric id: %.60s", string(d))
		}
		meta, err := json.Marshal(map[string]any{"index": map[string]any{"_index": r.index, "_id": strconv.Itoa(head.ID)}})
		if err != nil {
			return 0, fmt.Errorf("encode bulk meta: %w", err)
		}
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(bytes.TrimSpace(d))
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{Body: strings.NewReader(buf.String()), Refresh: "true"}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return 0, fmt.Errorf("catalog bulk: %s", res.Status())
	}
	var parsed struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, err
	}
	if parsed.Errors {
		return 0, fmt.Errorf("catalog bulk: some documents were rejected")
	}
	return len(docs), nil
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)
