package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylark-social/skylark/pkg/logger"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/views"
)

// maxRelationshipBatch bounds the others list of one request.
const maxRelationshipBatch = 30

type GetRelationshipsRequest struct {
	Actor  string
	Others []string
}

type GetRelationshipsResponse struct {
	Actor         string                   `json:"actor"`
	Relationships []views.RelationshipView `json:"relationships"`
}

// GetRelationshipsQuery reports the pairwise follow state between one
// actor and a batch of others, in input order.
type GetRelationshipsQuery struct {
	deps   deps
	logger logger.Logger
}

type GetRelationshipsQueryOption func(*GetRelationshipsQuery)

func WithGetRelationshipsQueryLogger(l logger.Logger) GetRelationshipsQueryOption {
	return func(q *GetRelationshipsQuery) {
		q.logger = l
	}
}

func NewGetRelationshipsQuery(datastore storage.DataStore, opts ...GetRelationshipsQueryOption) *GetRelationshipsQuery {
	q := &GetRelationshipsQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *GetRelationshipsQuery) Execute(ctx context.Context, req GetRelationshipsRequest) (*GetRelationshipsResponse, error) {
	if err := requireDIDs(append([]string{req.Actor}, req.Others...)); err != nil {
		return nil, err
	}
	if len(req.Others) > maxRelationshipBatch {
		return nil, serverErrors.InvalidRequest("too many others: %d > %d", len(req.Others), maxRelationshipBatch)
	}

	q.logger.Debug("resolving relationships", zap.Int("others", len(req.Others)))
	rels, err := q.deps.resolver.GetRelationships(ctx, req.Actor, req.Others)
	if err != nil {
		return nil, serverErrors.Classify(err)
	}

	resp := &GetRelationshipsResponse{
		Actor:         req.Actor,
		Relationships: make([]views.RelationshipView, 0, len(rels)),
	}
	for _, rel := range rels {
		resp.Relationships = append(resp.Relationships, views.NewRelationshipView(rel))
	}
	return resp, nil
}
