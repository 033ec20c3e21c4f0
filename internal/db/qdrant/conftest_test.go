package qdrant

import (
	"context"

	"github.com/qdrant/go-client/qdrant"
)

// fakeClient records requests and returns canned replies.
type fakeClient struct {
	healthErr error

	exists    bool
	existsErr error

	createReq *qdrant.CreateCollection
	createErr error

	deleted   string
	deleteErr error

	upsertReq *qdrant.UpsertPoints
	upsertErr error

	queryReq    *qdrant.QueryPoints
	queryPoints []*qdrant.ScoredPoint
	queryErr    error

	closed bool
}

func (f *fakeClient) HealthCheck(_ context.Context) (*qdrant.HealthCheckReply, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &qdrant.HealthCheckReply{Title: "qdrant", Version: "1.14.0"}, nil
}

func (f *fakeClient) CollectionExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeClient) CreateCollection(_ context.Context, req *qdrant.CreateCollection) error {
	f.createReq = req
	return f.createErr
}

func (f *fakeClient) DeleteCollection(_ context.Context, name string) error {
	f.deleted = name
	return f.deleteErr
}

func (f *fakeClient) Upsert(_ context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.upsertReq = req
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return &qdrant.UpdateResult{Status: qdrant.UpdateStatus_Completed}, nil
}

func (f *fakeClient) Query(_ context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.queryReq = req
	return f.queryPoints, f.queryErr
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}
