// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quill/internal/platform/scheduler"
)

/*
TestScheduler_RunsJob verifies a registered job fires and sees a live context.
*/
func TestScheduler_RunsJob(t *testing.T) {
	runner := scheduler.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	fired := make(chan error, 1)
	require.NoError(t, runner.Add("probe", "@every 1s", func(ctx context.Context) error {
		select {
		case fired <- ctx.Err():
		default:
		}
		return nil
	}))

	runner.Start()
	defer runner.Stop(context.Background())

	select {
	case err := <-fired:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

/*
TestScheduler_RejectsBadSpec verifies malformed schedules fail at registration.
*/
func TestScheduler_RejectsBadSpec(t *testing.T) {
	runner := scheduler.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := runner.Add("broken", "every now and then", func(context.Context) error { return nil })
	assert.Error(t, err)
}
