package content

import (
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// nodeNamespace seeds deterministic record keys derived from node ids.
var nodeNamespace = uuid.MustParse("6f1c8f9e-4c1b-4f8e-9a55-3f3a9a0f2d11")

// NodeRecord is the persisted form of a Node.
type NodeRecord struct {
	bun.BaseModel `bun:"table:content_nodes,alias:cn"`

	ID        uuid.UUID      `bun:",pk,type:uuid"                                 json:"id"`
	NodeID    string         `bun:"node_id,notnull,unique"                        json:"node_id"`
	GroupKey  string         `bun:"group_key,notnull"                             json:"group_key"`
	Type      string         `bun:"type,notnull"                                  json:"type"`
	Locale    string         `bun:"locale,notnull"                                json:"locale"`
	Slug      string         `bun:"slug"                                          json:"slug,omitempty"`
	Parent    string         `bun:"parent"                                        json:"parent,omitempty"`
	Tags      []string       `bun:"tags,type:jsonb"                               json:"tags,omitempty"`
	Payload   map[string]any `bun:"payload,type:jsonb"                            json:"payload,omitempty"`
	Position  int            `bun:"position,notnull,default:0"                    json:"position"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

func newNodeRecord(node *Node, position int) *NodeRecord {
	return &NodeRecord{
		ID:       uuid.NewSHA1(nodeNamespace, []byte(node.ID)),
		NodeID:   node.ID,
		GroupKey: node.GroupKey,
		Type:     node.Type,
		Locale:   node.Locale,
		Slug:     node.Slug,
		Parent:   node.Parent,
		Tags:     append([]string(nil), node.Tags...),
		Payload:  node.Payload,
		Position: position,
	}
}

// Node converts the record back into a content node.
func (r *NodeRecord) Node() *Node {
	if r == nil {
		return nil
	}
	return cloneNode(&Node{
		ID:       r.NodeID,
		GroupKey: r.GroupKey,
		Type:     r.Type,
		Locale:   r.Locale,
		Slug:     r.Slug,
		Parent:   r.Parent,
		Tags:     r.Tags,
		Payload:  r.Payload,
	})
}

// NewNodeRepository builds the go-repository-bun repository for node records.
func NewNodeRepository(db *bun.DB) repository.Repository[*NodeRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*NodeRecord]{
		NewRecord: func() *NodeRecord { return &NodeRecord{} },
		GetID: func(r *NodeRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *NodeRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "node_id"
		},
		GetIdentifierValue: func(r *NodeRecord) string {
			return r.NodeID
		},
	})
}
