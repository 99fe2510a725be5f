package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context, _ *readpref.ReadPref) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	return p.err
}

func TestHealthService_Check(t *testing.T) {
	up := NewHealthService(stubPinger{}).Check(context.Background())
	assert.True(t, up.Up())
	assert.Equal(t, StatusUp, up.Mongo)

	down := NewHealthService(stubPinger{err: errors.New("no reachable servers")}).Check(context.Background())
	assert.False(t, down.Up())
	assert.Equal(t, StatusDown, down.Mongo)
}
