package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/market-copilot/internal/llm"
	"github.com/jonathan/market-copilot/internal/snapshot"
	"github.com/jonathan/market-copilot/internal/types"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
	params   []llm.GenerationParams
}

func (f *fakeClient) Generate(_ context.Context, prompt string, params llm.GenerationParams) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.params = append(f.params, params)
	return f.response, f.err
}

func (f *fakeClient) Model() string { return "fake-model" }
func (f *fakeClient) Close() error  { return nil }

func newStore(t *testing.T, jobs []types.JobPosting, events []types.Event) *snapshot.Store {
	t.Helper()
	ctx := context.Background()
	store := snapshot.New(snapshot.NewMemoryBackend(), nil)
	if jobs != nil {
		_, err := store.Put(ctx, snapshot.DatasetJobs, types.AsRecords(jobs))
		require.NoError(t, err)
	}
	if events != nil {
		_, err := store.Put(ctx, snapshot.DatasetEvents, types.AsRecords(events))
		require.NoError(t, err)
	}
	return store
}
