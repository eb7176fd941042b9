// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCtxCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := contextHandler{slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := AppendCtx(context.Background(), slog.String("group_uid", "abc-123"))
	ctx = AppendCtx(ctx, slog.String("backend", "file"))

	logger.InfoContext(ctx, "group updated")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc-123", record["group_uid"])
	assert.Equal(t, "file", record["backend"])
	assert.Equal(t, "group updated", record["msg"])
}

func TestAppendCtxNilParent(t *testing.T) {
	ctx := AppendCtx(nil, slog.String("key", "value"))
	assert.NotNil(t, ctx)

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	require.True(t, ok)
	assert.Len(t, attrs, 1)
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	assert.Equal(t, "priority", attr.Key)
	assert.Equal(t, priorityCritical, attr.Value.String())
}
