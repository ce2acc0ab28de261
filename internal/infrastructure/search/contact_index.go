package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/agenda-api/internal/domain/entity"
)

const (
	DefaultSize = 10
	MaxSize     = 50
)

// ContactIndex keeps contacts searchable in Elasticsearch.
type ContactIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewContactIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ContactIndex {
	return &ContactIndex{ES: es, Index: index, Logger: logger}
}

type contactDoc struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Observations string `json:"observations"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toDoc(c *entity.Contact) contactDoc {
	return contactDoc{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		Observations: c.Observations,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (d contactDoc) entity() *entity.Contact {
	c := &entity.Contact{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		Observations: d.Observations,
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.UpdatedAt)
	return c
}

const contactMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "long"},
      "name":         {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "email":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "phone_number": {"type": "text"},
      "observations": {"type": "text"},
      "created_at":   {"type": "date"},
      "updated_at":   {"type": "date"}
    }
  }
}`

// EnsureIndex creates the contacts index with its mapping unless it already exists.
func (x *ContactIndex) EnsureIndex(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(contactMapping)}.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index %s: %s", x.Index, res.Status())
	}
	if x.Logger != nil {
		x.Logger.WithField("index", x.Index).Info("contacts index created")
	}
	return nil
}

// Put indexes the latest version of c under its id.
func (x *ContactIndex) Put(ctx context.Context, c *entity.Contact) error {
	b, err := json.Marshal(toDoc(c))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(c.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index contact %d: %s", c.ID, res.Status())
	}
	return nil
}

// Remove deletes the document for id; a missing document is not an error.
func (x *ContactIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: strconv.FormatInt(id, 10)}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete contact %d: %s", id, res.Status())
	}
	return nil
}

// Search performs a multi_match query on name, email, phone number and observations.
func (x *ContactIndex) Search(ctx context.Context, q string, size int) ([]*entity.Contact, error) {
	if size <= 0 || size > MaxSize {
		size = DefaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^3", "email^2", "phone_number", "observations"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(cctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		// an index that was never written to is just an empty result
		if res.StatusCode == http.StatusNotFound {
			return []*entity.Contact{}, nil
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	return decodeHits(res.Body)
}

func decodeHits(body io.Reader) ([]*entity.Contact, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Source contactDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.Contact, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.entity())
	}
	return out, nil
}
