package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/prodoc/internal/usecase"
)

func TestTransactionRunsStepsInOrder(t *testing.T) {
	var calls []string
	txn := usecase.NewTransaction()
	txn.AddOperation("first", func(context.Context) error {
		calls = append(calls, "first")
		return nil
	})
	txn.AddOperation("second", func(context.Context) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, txn.Execute(context.Background()))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestTransactionStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	thirdRan := false
	txn := usecase.NewTransaction()
	txn.AddOperation("first", func(context.Context) error { return nil })
	txn.AddOperation("second", func(context.Context) error { return boom })
	txn.AddOperation("third", func(context.Context) error {
		thirdRan = true
		return nil
	})

	err := txn.Execute(context.Background())

	var step *usecase.StepError
	require.ErrorAs(t, err, &step)
	assert.Equal(t, "second", step.Step)
	assert.Equal(t, []string{"first"}, step.Completed)
	assert.ErrorIs(t, err, boom)
	assert.False(t, thirdRan)
}
