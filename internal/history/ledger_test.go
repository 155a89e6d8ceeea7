package history

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/store"
)

func TestRecord_EvictionOrder(t *testing.T) {
	var ledger []string
	for i := 1; i <= 6; i++ {
		ledger = Record(fmt.Sprintf("k%d", i), ledger, MaxEntries)
	}
	assert.Equal(t, []string{"k6", "k5", "k4", "k3", "k2"}, ledger)
	assert.NotContains(t, ledger, "k1")
}

func TestRecord_ReuseRepositions(t *testing.T) {
	got := Record("a", []string{"b", "a"}, MaxEntries)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRecord_DoesNotMutateInput(t *testing.T) {
	current := []string{"b", "a", "c"}
	_ = Record("c", current, MaxEntries)
	assert.Equal(t, []string{"b", "a", "c"}, current)
}

func TestRecord_RandomSequences(t *testing.T) {
	alphabet := []string{"Tokyo", "Osaka", "Paris", "Lima", "Oslo", "Rome", "Cairo"}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		var ledger []string
		for step := 0; step < 30; step++ {
			key := alphabet[rng.Intn(len(alphabet))]
			ledger = Record(key, ledger, MaxEntries)

			require.LessOrEqual(t, len(ledger), MaxEntries)
			require.Equal(t, key, ledger[0], "most recent key must be first")

			seen := map[string]bool{}
			for _, k := range ledger {
				require.False(t, seen[k], "duplicate %q in %v", k, ledger)
				seen[k] = true
			}
		}
	}
}

func TestLedger_LoadMissingIsEmpty(t *testing.T) {
	l := New(store.NewMemoryStore())
	assert.Empty(t, l.Load(context.Background()))
	assert.Empty(t, l.Entries())
}

func TestLedger_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "not json", raw: "Tokyo,Osaka", want: []string{}},
		{name: "wrong shape", raw: `{"a":1}`, want: []string{}},
		{name: "duplicates and blanks", raw: `["Tokyo"," ","Osaka","Tokyo",""]`, want: []string{"Tokyo", "Osaka"}},
		{name: "over cap", raw: `["a","b","c","d","e","f","g"]`, want: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			require.NoError(t, kv.Set(context.Background(), StorageKey, tt.raw))

			l := New(kv)
			assert.Equal(t, tt.want, l.Load(context.Background()))
		})
	}
}

type failingKV struct {
	*store.MemoryStore
	getErr, setErr error
}

func (f failingKV) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f failingKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestLedger_LoadStorageErrorIsRecovered(t *testing.T) {
	l := New(failingKV{MemoryStore: store.NewMemoryStore(), getErr: errors.New("disk on fire")})
	assert.Empty(t, l.Load(context.Background()))
}

func TestLedger_AddPersists(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, StorageKey, `["Osaka"]`))

	l := New(kv)
	l.Load(ctx)

	got, err := l.Add(ctx, "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo", "Osaka"}, got)

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["Tokyo","Osaka"]`, raw)

	// A fresh ledger over the same store sees the same history.
	assert.Equal(t, []string{"Tokyo", "Osaka"}, New(kv).Load(ctx))
}

func TestLedger_AddKeepsMemoryWhenPersistFails(t *testing.T) {
	l := New(failingKV{MemoryStore: store.NewMemoryStore(), setErr: errors.New("read-only")})

	got, err := l.Add(context.Background(), "Tokyo")
	require.Error(t, err)
	assert.Equal(t, []string{"Tokyo"}, got)
	assert.Equal(t, []string{"Tokyo"}, l.Entries())
}

func TestLedger_PersistSkipsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, StorageKey, `["Lima"]`))

	l := New(kv)
	require.NoError(t, l.Persist(ctx, nil))

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `["Lima"]`, raw, "empty ledger must not overwrite a prior session")
}

func TestLedger_Options(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	l := New(kv, WithLimit(2), WithStorageKey("custom"))

	for _, k := range []string{"a", "b", "c"} {
		_, err := l.Add(ctx, k)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"c", "b"}, l.Entries())

	raw, err := kv.Get(ctx, "custom")
	require.NoError(t, err)
	assert.JSONEq(t, `["c","b"]`, raw)
}

func TestLedger_EntriesIsACopy(t *testing.T) {
	l := New(store.NewMemoryStore())
	_, _ = l.Add(context.Background(), "Tokyo")

	e := l.Entries()
	e[0] = "mutated"
	assert.Equal(t, []string{"Tokyo"}, l.Entries())
}
