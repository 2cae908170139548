package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rnacolumns/internal/cookie"
	"rnacolumns/pkg/domain"
)

func TestConfigurationsListing(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seed(t, store, "Default", "Ref,;A,B;C,baseline|2")
	seed(t, store, "Alpha", "|0")
	require.NoError(t, store.Put(ctx, cookie.JarName(ws, "web.rna.columns"), "Other.key", "ignored"))

	list, err := svc.Configurations(ctx, ws)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ConfigurationSummary{Name: "Alpha", Columns: []string{}, SortIndex: 0}, list[0])
	assert.Equal(t, ConfigurationSummary{Name: "Default", Columns: []string{"Ref", "A/B", "C/baseline"}, SortIndex: 2}, list[1])

	empty, err := svc.Configurations(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSaveAs(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seed(t, store, "Default", "Ref,;A,B|1")

	n, err := svc.SaveAs(ctx, ws, "", "my copy")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Ref,;A,B|1", stored(t, store, "my_copy"))

	_, err = svc.SaveAs(ctx, ws, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no save name specified")
	_, err = svc.SaveAs(ctx, ws, "", "bad/name")
	assert.True(t, domain.IsUserError(err))
	_, err = svc.SaveAs(ctx, ws, "Missing", "x")
	assert.True(t, domain.IsUserError(err))
}

func TestDeleteConfigurations(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seed(t, store, "Default", "Ref,|0")
	seed(t, store, "A", "Ref,|0")
	seed(t, store, "B", "Ref,|0")

	n, err := svc.DeleteConfigurations(ctx, ws, "A", "B", "Missing")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, err := svc.Configurations(ctx, ws)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Default", list[0].Name)

	_, err = svc.DeleteConfigurations(ctx, ws, "bad-name")
	assert.True(t, domain.IsUserError(err))
}

func TestRenameConfiguration(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seed(t, store, "Default", "Ref,|0")
	seed(t, store, "Taken", "A,|0")

	name, err := svc.RenameConfiguration(ctx, ws, "Default", "Renamed one")
	require.NoError(t, err)
	assert.Equal(t, "Renamed_one", name)
	assert.Equal(t, "Ref,|0", stored(t, store, "Renamed_one"))
	_, ok, err := store.Get(ctx, cookie.JarName(ws, "web.rna.columns"), "Columns.Default")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.RenameConfiguration(ctx, ws, "Renamed_one", "Taken")
	assert.True(t, domain.IsUserError(err))
	assert.Contains(t, err.Error(), "already exists")
	_, err = svc.RenameConfiguration(ctx, ws, "Missing", "Fresh")
	assert.True(t, domain.IsUserError(err))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestConfigurationOperationsAreObserved(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	svc, store := newTestService(t, WithMetrics(metrics))
	ctx := context.Background()
	seed(t, store, "Default", "Ref,|0")

	_, _ = svc.Configurations(ctx, ws)
	_, _ = svc.SaveAs(ctx, ws, "", "Copy")
	_, _ = svc.RenameConfiguration(ctx, ws, "Copy", "Moved")
	_, _ = svc.DeleteConfigurations(ctx, ws, "Moved")
	_, _ = svc.Configurations(ctx, "")

	assert.Equal(t, []metricsCall{
		{"configurations", true},
		{"save_as", true},
		{"rename_configuration", true},
		{"delete_configurations", true},
		{"configurations", false},
	}, metrics.calls)
}
