package warehouse

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/agentstation/farol/internal/retry"
	"github.com/agentstation/farol/pkg/errors"
	"github.com/agentstation/farol/pkg/roster"
)

// Querier runs a query and materializes the rows as a table.
type Querier interface {
	Query(ctx context.Context, sql string) (*roster.Table, error)
	Close() error
}

// bigQuerier is the BigQuery-backed Querier.
type bigQuerier struct {
	client *bigquery.Client
}

// newBigQuerier opens a BigQuery client. Missing credentials are terminal.
func newBigQuerier(ctx context.Context, cfg Config) (*bigQuerier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("creating bigquery client: %w", err))
	}
	return &bigQuerier{client: client}, nil
}

// Query implements Querier.
func (q *bigQuerier) Query(ctx context.Context, sql string) (*roster.Table, error) {
	it, err := q.client.Query(sql).Read(ctx)
	if err != nil {
		return nil, classify(err)
	}

	table := &roster.Table{}
	for {
		var values []bigquery.Value
		err := it.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		if table.Header == nil {
			table.Header = header(it.Schema)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Header == nil {
		table.Header = header(it.Schema)
	}
	return table, nil
}

// Close implements Querier.
func (q *bigQuerier) Close() error {
	return q.client.Close()
}

func header(schema bigquery.Schema) []string {
	names := make([]string, len(schema))
	for i, field := range schema {
		names[i] = field.Name
	}
	return names
}

// classify marks errors no retry can fix as permanent. Rate limits stay
// retryable even though BigQuery reports them as 403.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "quotaExceeded" || item.Reason == "backendError" {
				return err
			}
		}
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return retry.Permanent(err)
		}
		return err
	}
	if strings.Contains(err.Error(), "could not find default credentials") {
		return retry.Permanent(err)
	}
	return err
}
