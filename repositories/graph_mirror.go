package repositories

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// GraphMirror receives validated project graphs for external visualization.
// Delivery is best-effort; the authoritative graph lives in the item store.
type GraphMirror interface {
	SyncProjectGraph(ctx context.Context, projectID string, graph *models.DependencyGraph) error
}

// Neo4jGraphMirror mirrors the accepted dependency graph into Neo4j so the
// workflow visualizer can query it natively.
type Neo4jGraphMirror struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraphMirror(driver neo4j.DriverWithContext) *Neo4jGraphMirror {
	return &Neo4jGraphMirror{driver: driver}
}

func (m *Neo4jGraphMirror) SyncProjectGraph(ctx context.Context, projectID string, graph *models.DependencyGraph) error {
	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Drop stale edges first; the incoming graph is the full truth for
		// this project.
		if _, err := tx.Run(ctx, `
			MATCH (:Item {projectId: $projectId})-[r:DEPENDS_ON]->(:Item)
			DELETE r
		`, map[string]any{"projectId": projectID}); err != nil {
			return nil, err
		}

		for _, node := range graph.Nodes {
			if _, err := tx.Run(ctx, `
				MERGE (i:Item {id: $id})
				SET i.projectId = $projectId,
				    i.name = $name,
				    i.estimatedHours = $estimatedHours
			`, map[string]any{
				"id":             node.ID,
				"projectId":      projectID,
				"name":           node.Name,
				"estimatedHours": node.EstimatedHours,
			}); err != nil {
				return nil, err
			}
		}

		for _, edge := range graph.Edges {
			if _, err := tx.Run(ctx, `
				MATCH (from:Item {id: $fromId}), (to:Item {id: $toId})
				MERGE (to)-[:DEPENDS_ON]->(from)
			`, map[string]any{
				"fromId": edge.From,
				"toId":   edge.To,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to mirror graph for project %s: %w", projectID, err)
	}
	return nil
}

// NopGraphMirror is used when no Neo4j instance is configured.
type NopGraphMirror struct{}

func (NopGraphMirror) SyncProjectGraph(context.Context, string, *models.DependencyGraph) error {
	return nil
}
