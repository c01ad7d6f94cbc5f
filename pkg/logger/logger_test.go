package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "ledgerbook/internal/core/context"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestWithContextEnrichment(t *testing.T) {
	log, logs := observed()

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext())
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u-1", Role: "staff"})
	ctx = WithLogger(ctx, log)

	Info(ctx, "sale recorded", "total", "100")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["trace_id"])
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, "staff", fields["role"])
	assert.Equal(t, "100", fields["total"])
}

func TestWithContextWithoutTrace(t *testing.T) {
	log, logs := observed()

	Info(WithLogger(context.Background(), log), "store opened")

	entries := logs.All()
	require.Len(t, entries, 1)
	_, ok := entries[0].ContextMap()["trace_id"]
	assert.False(t, ok, "no trace installed, no trace fields")
}

func TestWithComponent(t *testing.T) {
	log, logs := observed()

	log.WithComponent("seed").Infow("store opened")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "seed", entries[0].ContextMap()["component"])
}
