package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/taskapi/internal/config"
	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/pkg/errors"
)

// RESTTaskRepository inserts tasks through a PostgREST-compatible API such as
// the one fronting a Supabase project.
type RESTTaskRepository struct {
	client   *http.Client
	endpoint string
	apiKey   string
	schema   string
	table    string
}

// maxErrorBody caps how much of an error answer is read.
const maxErrorBody = 64 << 10

// NewRESTTaskRepository targets {store.url}/rest/v1/{store.table}.
func NewRESTTaskRepository(store config.StoreConfig, client *http.Client) *RESTTaskRepository {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(store.RequestTimeout) * time.Second}
	}

	return &RESTTaskRepository{
		client:   client,
		endpoint: strings.TrimRight(store.URL, "/") + "/rest/v1/" + url.PathEscape(store.Table),
		apiKey:   store.ServiceKey,
		schema:   store.Schema,
		table:    store.Table,
	}
}

func (r *RESTTaskRepository) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "building store request")
	}

	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	if r.schema != "" && r.schema != "public" {
		req.Header.Set("Accept-Profile", r.schema)
		req.Header.Set("Content-Profile", r.schema)
	}

	return req, nil
}

// insertedRow is the part of the returned row that is read. The other columns
// belong to the table's own schema and are not decoded.
type insertedRow struct {
	ID any `json:"id"`
}

// InsertTask posts record and reads the id of the single row returned. The
// remaining Task fields are taken from record.
func (r *RESTTaskRepository) InsertTask(ctx context.Context, record TaskRecord) (*Task, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "encoding task record")
	}

	req, err := r.newRequest(ctx, http.MethodPost, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(sqlerr.HandleError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.WithStack(r.statusError(resp))
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var row insertedRow
	if err := decoder.Decode(&row); err != nil {
		return nil, errors.Wrapf(ErrMalformedReply, "decoding inserted row: %v", err)
	}

	task := Task{
		ApplicationID: record.ApplicationID,
		Type:          record.Type,
		Title:         record.Title,
		Status:        record.Status,
	}
	if dueAt, err := time.Parse(time.RFC3339Nano, record.DueAt); err == nil {
		task.DueAt = dueAt
	}

	switch id := row.ID.(type) {
	case string:
		task.ID = id
	case json.Number:
		task.ID = id.String()
	default:
		return nil, errors.Wrap(ErrMalformedReply, "inserted row has no id")
	}

	return &task, nil
}

// Ping sends a HEAD request for the table endpoint.
func (r *RESTTaskRepository) Ping(ctx context.Context) error {
	req, err := r.newRequest(ctx, http.MethodHead, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.WithStack(sqlerr.HandleError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WithStack(r.statusError(resp))
	}
	return nil
}

func (r *RESTTaskRepository) statusError(resp *http.Response) *sqlerr.Error {
	var body sqlerr.PostgRESTError
	if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		// Non-JSON error pages leave body empty.
		_ = json.Unmarshal(data, &body)
	}
	return sqlerr.ConvertPostgRESTError(resp.StatusCode, r.table, body)
}
