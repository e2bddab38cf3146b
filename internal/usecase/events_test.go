package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/test"
)

func TestStatusEventsFollowHistory(t *testing.T) {
	ledger := test.NewMemoryLedger()
	publisher := &test.PublisherStub{}
	u := newRequestUseCase(ledger, &test.OracleStub{})
	events := NewStatusEventUseCase(ledger, publisher)
	ctx := context.Background()

	res, err := u.Submit(ctx, submittedInput())
	require.NoError(t, err)
	_, _, err = u.Transition(ctx, res.ID, model.ProcessStatusClosed, "")
	require.NoError(t, err)

	pending, err := events.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Nil(t, pending[0].OldStatus)
	require.Equal(t, model.ProcessStatusClosed, pending[1].NewStatus)

	again, err := events.Pending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, again)

	for _, ev := range pending {
		require.NoError(t, events.Dispatch(ctx, ev))
	}
	require.Len(t, publisher.Published(), 2)
	require.Zero(t, ledger.Undispatched())
}

func TestDispatchReleasesOnPublishFailure(t *testing.T) {
	ledger := test.NewMemoryLedger()
	publisher := &test.PublisherStub{Err: errors.New("broker down")}
	u := newRequestUseCase(ledger, &test.OracleStub{})
	events := NewStatusEventUseCase(ledger, publisher)
	ctx := context.Background()

	_, err := u.Submit(ctx, submittedInput())
	require.NoError(t, err)

	pending, err := events.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	err = events.Dispatch(ctx, pending[0])
	require.ErrorContains(t, err, "broker down")
	require.Equal(t, 1, ledger.Undispatched())

	retry, err := events.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, retry, 1)
	require.Equal(t, pending[0].ID, retry[0].ID)
}
