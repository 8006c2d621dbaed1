package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hederw/nfs-extrator/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- KV ---

func TestSQLite_KV_SetAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "daily_extraction_count", `{"date":"2025-09-01","count":3}`))

	value, ok, err := st.Get(ctx, "daily_extraction_count")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"date":"2025-09-01","count":3}`, value)
}

func TestSQLite_KV_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, ok, err := st.Get(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_KV_Overwrite(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "k", "v1"))
	require.NoError(t, st.Set(ctx, "k", "v2"))

	value, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", value)
}

// --- Layouts ---

func TestSQLite_DefaultLayoutSeeded(t *testing.T) {
	st := newTestSQLiteStore(t)

	layouts, err := st.ListLayouts(context.Background())
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, "Layout Padrão", layouts[0].Name)
}

func TestSQLite_Layout_SaveGetDelete(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	l := model.NewLayout("Prefeitura SP", "O número da nota está no canto superior direito.")
	require.NoError(t, st.SaveLayout(ctx, l))

	got, err := st.GetLayout(ctx, "Prefeitura SP")
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, l.Prompt, got.Prompt)

	require.NoError(t, st.DeleteLayout(ctx, l.ID))
	_, err = st.GetLayout(ctx, "Prefeitura SP")
	assert.Error(t, err)
}

func TestSQLite_Layout_DeleteMissing(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.Error(t, st.DeleteLayout(context.Background(), "no-such-layout"))
}

// --- Batches ---

func TestSQLite_Batch_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	b := model.NewBatch("setembro")
	rec := model.NewRecord(model.NewTask("/tmp/a.pdf", "a.pdf", 1, 1))
	rec.MarkProcessing()
	rec.MarkSuccess(&model.InvoiceData{Prestador: "ACME", ValorLiquido: 42.50})
	b.Records = []*model.ExtractionRecord{rec}

	require.NoError(t, st.SaveBatch(ctx, b))

	got, err := st.GetBatch(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, model.StatusSuccess, got.Records[0].Status)
	assert.InDelta(t, 42.50, got.Records[0].Data.ValorLiquido, 0.001)
}

func TestSQLite_Batch_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.GetBatch(context.Background(), "nope")
	assert.Error(t, err)
}

func TestSQLite_Batch_HistoryPruned(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < maxSavedBatches+5; i++ {
		b := model.NewBatch(fmt.Sprintf("lote-%02d", i))
		b.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, st.SaveBatch(ctx, b))
	}

	batches, err := st.ListBatches(ctx)
	require.NoError(t, err)
	assert.Len(t, batches, maxSavedBatches)
	// Most recent first.
	assert.Equal(t, "Extração: lote-24", batches[0].Name)
}
