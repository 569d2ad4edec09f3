package ats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/fieldpath"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	// OperationName is the hosted job board operation every query must declare.
	OperationName = "ApiJobBoardWithTeams"
	// OrganizationVariable carries the company slug.
	OrganizationVariable = "organizationHostedJobsPageName"

	listingPath = "data.jobBoard.jobPostings"
)

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// ValidateQuery parses query and checks that it declares OperationName.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("graphql query is empty")
	}
	doc, err := parser.ParseQuery(&ast.Source{Name: "graphql_query", Input: query})
	if err != nil {
		return fmt.Errorf("invalid graphql query: %w", err)
	}
	for _, op := range doc.Operations {
		if op.Name == OperationName {
			return nil
		}
	}
	return fmt.Errorf("graphql query does not declare operation %q", OperationName)
}

// GraphQLAdapter posts a hosted job board query per company.
type GraphQLAdapter struct {
	deps Deps
}

// NewGraphQLAdapter creates a GraphQL adapter.
func NewGraphQLAdapter(deps Deps) *GraphQLAdapter {
	return &GraphQLAdapter{deps: deps.withDefaults()}
}

// Strategy implements Adapter.
func (a *GraphQLAdapter) Strategy() types.FetchStrategy {
	return types.StrategyGraphQL
}

// Fetch implements Adapter.
func (a *GraphQLAdapter) Fetch(ctx context.Context, source types.SourceDescriptor, company types.CompanySelector, filters types.FilterConfig) (res Result) {
	start := time.Now()
	res = newResult(source, company)
	defer func() { res.Duration = time.Since(start) }()

	endpoint := strings.ReplaceAll(source.BaseURL, "{company}", company.Slug)

	if err := ValidateQuery(source.GraphQLQuery); err != nil {
		res.fail(&fetch.Error{URL: endpoint, Message: "query rejected before sending", Cause: err})
		return res
	}

	payload := graphQLRequest{
		OperationName: OperationName,
		Query:         source.GraphQLQuery,
		Variables:     map[string]any{OrganizationVariable: company.Slug},
	}

	res.Requests++
	var data map[string]any
	if err := a.deps.Client.PostJSON(ctx, endpoint, payload, &data); err != nil {
		a.deps.Logger.Warn("graphql fetch failed",
			slog.String("source", source.Name),
			slog.String("company", res.Company),
			slog.Any("error", err))
		res.fail(err)
		return res
	}

	listings, err := graphQLListings(data)
	if err != nil {
		res.fail(&fetch.Error{URL: endpoint, Message: "unexpected response shape", Cause: err})
		return res
	}

	n := a.deps.normalizer(filters)
	res.Jobs, res.Stats = n.NormalizeAll(listings, source, res.Company)
	return res
}

// graphQLListings reads the posting array, surfacing GraphQL errors when the
// path is missing.
func graphQLListings(data map[string]any) ([]any, error) {
	v, ok := fieldpath.Get(data, listingPath)
	if !ok || v == nil {
		if msg := firstGraphQLError(data); msg != "" {
			return nil, fmt.Errorf("graphql error: %s", msg)
		}
		return nil, fmt.Errorf("%s not found", listingPath)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not an array", listingPath)
	}
	return arr, nil
}

func firstGraphQLError(data map[string]any) string {
	errs, ok := data["errors"].([]any)
	if !ok || len(errs) == 0 {
		return ""
	}
	if msg := fieldpath.String(errs[0], "message"); msg != "" {
		return msg
	}
	return "unknown error"
}
