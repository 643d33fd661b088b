package database

import (
	"context"
	"fmt"

	"github.com/Gravitalia/nido/model"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Graph mirrors follows and blocks into Memgraph, where suggestions
// and ranking are computed. A nil Graph does nothing
type Graph struct {
	driver neo4j.DriverWithContext
}

// InitGraph connects to the graph database. An empty url disables it
func InitGraph(ctx context.Context, url, username, password string) (*Graph, error) {
	if url == "" {
		return nil, nil
	}

	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create graph driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect graph: %w", err)
	}

	return &Graph{driver: driver}, nil
}

// Close ends the driver
func (g *Graph) Close(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.driver.Close(ctx)
}

// makeRequest runs a write query and returns the first value
// of the first record
func (g *Graph) makeRequest(ctx context.Context, query string, params map[string]any) (any, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, func(transaction neo4j.ManagedTransaction) (any, error) {
		result, err := transaction.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		if result.Next(ctx) {
			return result.Record().Values[0], nil
		}

		return nil, result.Err()
	})
}

// edge checks the relation name before it is put in a query
func edge(relationType string) (string, error) {
	switch relationType {
	case model.RelationFollow, model.RelationBlock:
		return relationType, nil
	}
	return "", fmt.Errorf("%w: graph relation %q", ErrInvalid, relationType)
}

// CreateUser allows to create a new user into the graph database
func (g *Graph) CreateUser(ctx context.Context, id string) error {
	if g == nil {
		return nil
	}

	_, err := g.makeRequest(ctx, "MERGE (:User {name: $id});", map[string]any{"id": id})
	return err
}

// DeleteUser removes the node and every edge of a user
func (g *Graph) DeleteUser(ctx context.Context, id string) error {
	if g == nil {
		return nil
	}

	_, err := g.makeRequest(ctx, "MATCH (u:User {name: $id}) DETACH DELETE u;", map[string]any{"id": id})
	return err
}

// Relate creates an edge between two users. A block also
// removes subscriptions in both directions
func (g *Graph) Relate(ctx context.Context, id, to, relationType string) error {
	if g == nil {
		return nil
	}

	relation, err := edge(relationType)
	if err != nil {
		return err
	}

	_, err = g.makeRequest(ctx,
		"MERGE (a:User {name: $id}) MERGE (b:User {name: $to}) MERGE (a)-[r:"+relation+"]->(b) RETURN type(r);",
		map[string]any{"id": id, "to": to})
	if err != nil {
		return err
	}

	if relation == model.RelationBlock {
		_, err = g.makeRequest(ctx,
			"MATCH (a:User {name: $id})-[r:Subscriber]-(b:User {name: $to}) DELETE r;",
			map[string]any{"id": id, "to": to})
	}

	return err
}

// Unrelate delete a relation (edge) between two nodes
func (g *Graph) Unrelate(ctx context.Context, id, to, relationType string) error {
	if g == nil {
		return nil
	}

	relation, err := edge(relationType)
	if err != nil {
		return err
	}

	_, err = g.makeRequest(ctx,
		"MATCH (:User {name: $id})-[r:"+relation+"]->(:User {name: $to}) DELETE r;",
		map[string]any{"id": id, "to": to})
	return err
}

// Suggestions returns users followed by the accounts id follows,
// that id does not follow yet and has no block with. Most
// shared subscriptions first, then by rank
func (g *Graph) Suggestions(ctx context.Context, id string, limit int) ([]string, error) {
	if g == nil {
		return []string{}, nil
	}

	res, err := g.makeRequest(ctx,
		`MATCH (me:User {name: $id})-[:Subscriber]->(:User)-[:Subscriber]->(s:User)
		WHERE s <> me
			AND NOT exists((me)-[:Subscriber]->(s))
			AND NOT exists((me)-[:Block]-(s))
		WITH s, count(*) AS mutual
		ORDER BY mutual DESC, coalesce(s.rank, 0) DESC
		LIMIT $limit
		RETURN collect(s.name);`,
		map[string]any{"id": id, "limit": limit})
	if err != nil {
		return nil, err
	}

	list := make([]string, 0)
	if values, ok := res.([]any); ok {
		for _, v := range values {
			if name, ok := v.(string); ok {
				list = append(list, name)
			}
		}
	}

	return list, nil
}

// PageRank starts a new calculation of PageRank
func (g *Graph) PageRank(ctx context.Context) error {
	if g == nil {
		return nil
	}

	_, err := g.makeRequest(ctx,
		"MATCH p=(n:User)-[r]->(m:User) WHERE type(r) <> 'Block' WITH project(p) as graph CALL pagerank_online.update(graph) YIELD node, rank SET node.rank = rank;",
		map[string]any{})
	return err
}
