package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylark-social/skylark/pkg/graph"
	"github.com/skylark-social/skylark/pkg/logger"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
)

// maxBlockExistencePairs bounds one request's pair list.
const maxBlockExistencePairs = 100

type BlockPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

type GetBlockExistenceRequest struct {
	Pairs []BlockPair
}

type BlockExistence struct {
	BlockPair
	Blocked bool `json:"blocked"`
}

type GetBlockExistenceResponse struct {
	Blocks []BlockExistence `json:"blocks"`
}

// GetBlockExistenceQuery answers, for each unordered pair of DIDs,
// whether any block exists between the two.
type GetBlockExistenceQuery struct {
	deps   deps
	logger logger.Logger
}

type GetBlockExistenceQueryOption func(*GetBlockExistenceQuery)

func WithGetBlockExistenceQueryLogger(l logger.Logger) GetBlockExistenceQueryOption {
	return func(q *GetBlockExistenceQuery) {
		q.logger = l
	}
}

func NewGetBlockExistenceQuery(datastore storage.DataStore, opts ...GetBlockExistenceQueryOption) *GetBlockExistenceQuery {
	q := &GetBlockExistenceQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *GetBlockExistenceQuery) Execute(ctx context.Context, req GetBlockExistenceRequest) (*GetBlockExistenceResponse, error) {
	if len(req.Pairs) > maxBlockExistencePairs {
		return nil, serverErrors.InvalidRequest("too many pairs: %d > %d", len(req.Pairs), maxBlockExistencePairs)
	}
	pairs := make([]graph.Pair, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		if err := requireDIDs([]string{p.A, p.B}); err != nil {
			return nil, err
		}
		pairs = append(pairs, graph.Pair{A: p.A, B: p.B})
	}

	q.logger.Debug("checking block existence", zap.Int("pairs", len(pairs)))
	blocked, err := q.deps.resolver.GetBlockExistence(ctx, pairs)
	if err != nil {
		return nil, serverErrors.Classify(err)
	}

	resp := &GetBlockExistenceResponse{Blocks: make([]BlockExistence, 0, len(req.Pairs))}
	for i, p := range req.Pairs {
		resp.Blocks = append(resp.Blocks, BlockExistence{BlockPair: p, Blocked: blocked[i]})
	}
	return resp, nil
}
