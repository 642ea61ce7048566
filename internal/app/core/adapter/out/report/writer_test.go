package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-payments-engine/internal/app/core/domain"
)

func TestWriter_WriteSnapshot(t *testing.T) {
	var buf bytes.Buffer
	accounts := []domain.Account{
		{ClientID: 2, Available: 15000, Held: 0},
		{ClientID: 1, Available: 5555, Held: 10000, Locked: true},
		{ClientID: 3, Available: -1, Held: 0},
	}

	require.NoError(t, NewWriter(&buf).WriteSnapshot(context.Background(), accounts, nil))

	assert.Equal(t, "client, available, held, total, locked\n"+
		"2, 1.5000, 0.0000, 1.5000, false\n"+
		"1, 0.5555, 1.0000, 1.5555, true\n"+
		"3, -0.0001, 0.0000, -0.0001, false\n", buf.String())
}

func TestWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteSnapshot(context.Background(), nil, nil))
	assert.Equal(t, Header+"\n", buf.String())
}
