// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/kv"
	"github.com/pdiddy/personas/pkg/types"
)

// --- test helpers ---

// countingKV records how many times Set is called.
type countingKV struct {
	kv.Store
	sets int
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.Store.Set(ctx, key, value)
}

// failingKV fails every Get with a backend error.
type failingKV struct{ kv.Store }

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, &kv.Error{Op: kv.OpGet, Err: errors.New("connection refused")}
}

func seqRefs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ref-%d", n)
	}
}

func newTestStore(t *testing.T, backend kv.Store) *Store {
	t.Helper()
	return NewStore(backend, "", zap.NewNop(), WithRefFunc(seqRefs()))
}

func stored(t *testing.T, backend kv.Store) string {
	t.Helper()
	data, err := backend.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	return string(data)
}

var (
	ana   = types.Person{ID: types.String("1"), Name: types.String("Ana"), Age: types.String("30"), Capacity: types.String("alta"), Email: types.String("a@x.com")}
	luis  = types.Person{ID: types.String("2"), Name: types.String("Luis"), Surname: types.String("Rey")}
	carla = types.Person{Name: types.String("Carla"), Surname: types.String("Ortiz"), Address: types.String("Calle 5"), Disability: types.String("visual")}
)

// --- Load ---

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadCorruptValueIsEmpty(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(context.Background(), DefaultKey, []byte("{broken")))

	s := newTestStore(t, backend)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadBackendErrorIsReturned(t *testing.T) {
	s := newTestStore(t, failingKV{kv.NewMemory()})
	_, err := s.Load(context.Background())
	require.Error(t, err)
}

func TestLoadAssignsAndPersistsMissingRefs(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(context.Background(), DefaultKey,
		[]byte(`[{"nombre":"Carla"},{"ref":"keep","id":"2","nombre":"Luis"}]`)))

	s := newTestStore(t, backend)
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ref-1", got[0].Ref)
	assert.Equal(t, "keep", got[1].Ref)

	assert.JSONEq(t, `[{"ref":"ref-1","nombre":"Carla"},{"ref":"keep","id":"2","nombre":"Luis"}]`, stored(t, backend))
}

// --- Append ---

func TestAppendAccumulatesWithDuplicates(t *testing.T) {
	backend := kv.NewMemory()
	s := newTestStore(t, backend)
	ctx := context.Background()

	first, err := s.Append(ctx, []types.Person{ana, luis})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := s.Append(ctx, []types.Person{ana})
	require.NoError(t, err)
	require.Len(t, second, 3)

	assert.Equal(t, []types.Person{ana, luis, ana},
		[]types.Person{second[0].Person, second[1].Person, second[2].Person})
	assert.Equal(t, first, second[:2], "prior contents must be preserved")
	assert.Equal(t, []string{"ref-1", "ref-2", "ref-3"}, []string{second[0].Ref, second[1].Ref, second[2].Ref})

	// A fresh store over the same backend sees the same sequence.
	reloaded, err := newTestStore(t, backend).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, reloaded)
}

func TestAppendEmptyMatchesStillPersists(t *testing.T) {
	backend := kv.NewMemory()
	s := newTestStore(t, backend)

	got, err := s.Append(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "[]", stored(t, backend))
}

func TestAppendOverCorruptValueStartsFresh(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(context.Background(), DefaultKey, []byte("nope")))

	s := newTestStore(t, backend)
	got, err := s.Append(context.Background(), []types.Person{ana})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ana, got[0].Person)
}

func TestAppendDoesNotOverwriteUnreadableBackend(t *testing.T) {
	counting := &countingKV{Store: failingKV{kv.NewMemory()}}
	s := newTestStore(t, counting)

	_, err := s.Append(context.Background(), []types.Person{ana})
	require.Error(t, err)
	assert.Zero(t, counting.sets)
}

func TestAppendUpdatesMirror(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	_, err := s.Append(context.Background(), []types.Person{ana})
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 1)
	*all[0].Name = "changed"
	all[0].Surname = types.String("X")
	assert.Equal(t, ana, s.All()[0].Person, "All must return a copy")
}

func TestWorkedExample(t *testing.T) {
	backend := kv.NewMemory()
	s := NewStore(backend, "", zap.NewNop())

	got, err := s.Append(context.Background(), []types.Person{ana})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ana, got[0].Person)
	assert.NotEmpty(t, got[0].Ref)
}

// --- Round trip ---

func TestRoundTripSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "personas.db")

	backend, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	written, err := newTestStore(t, backend).Append(ctx, []types.Person{ana, luis, carla})
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	reopened, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := newTestStore(t, reopened).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, written, got)
}

func TestRoundTripKeepsEmptyFields(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	raw := `[{"ref":"r1","id":"1","nombre":"","apellido":""},{"ref":"r2","nombre":"Eva"}]`
	require.NoError(t, backend.Set(ctx, DefaultKey, []byte(raw)))

	s := newTestStore(t, backend)
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Name)
	assert.Empty(t, *got[0].Name)
	assert.Nil(t, got[1].ID)
	assert.Nil(t, got[1].Surname)

	_, err = s.Append(ctx, nil)
	require.NoError(t, err)
	assert.JSONEq(t, raw, stored(t, backend))
}

// --- Delete ---

func TestDeleteRemovesEveryMatch(t *testing.T) {
	backend := kv.NewMemory()
	s := newTestStore(t, backend)
	ctx := context.Background()
	_, err := s.Append(ctx, []types.Person{ana, luis, ana})
	require.NoError(t, err)

	removed, err := s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, luis, got[0].Person)
}

func TestDeleteUnknownIDLeavesStorageUntouched(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"unknown id", "99"},
		{"empty id does not match entries without an id", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counting := &countingKV{Store: kv.NewMemory()}
			s := newTestStore(t, counting)
			ctx := context.Background()
			_, err := s.Append(ctx, []types.Person{ana, carla})
			require.NoError(t, err)
			before := stored(t, counting)
			sets := counting.sets

			removed, err := s.Delete(ctx, tt.id)
			require.NoError(t, err)
			assert.Zero(t, removed)
			assert.Equal(t, sets, counting.sets, "no write expected")
			assert.Equal(t, before, stored(t, counting))
		})
	}
}

func TestDeleteMatchesPresentEmptyID(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	ctx := context.Background()
	blank := types.Person{ID: types.String(""), Name: types.String("Sin id")}
	_, err := s.Append(ctx, []types.Person{blank, carla, ana})
	require.NoError(t, err)

	removed, err := s.Delete(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "only the entry carrying an empty id matches")

	got := s.All()
	require.Len(t, got, 2)
	assert.Equal(t, carla, got[0].Person)
	assert.Equal(t, ana, got[1].Person)
}

func TestDeleteRefRemovesIDLessEntry(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	ctx := context.Background()
	appended, err := s.Append(ctx, []types.Person{carla, ana})
	require.NoError(t, err)

	removed, err := s.DeleteRef(ctx, appended[0].Ref)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got := s.All()
	require.Len(t, got, 1)
	assert.Equal(t, ana, got[0].Person)
}

// --- Edit ---

func TestEdit(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		prompter    Prompter
		wantChanged bool
		wantFirst   types.Person
	}{
		{
			name:        "both values overwrite name and surname",
			id:          "1",
			prompter:    StaticPrompter{Name: "Ana María", Surname: "López"},
			wantChanged: true,
			wantFirst:   types.Person{ID: types.String("1"), Name: types.String("Ana María"), Surname: types.String("López"), Age: types.String("30"), Capacity: types.String("alta"), Email: types.String("a@x.com")},
		},
		{
			name:      "empty surname leaves entry unchanged",
			id:        "1",
			prompter:  StaticPrompter{Name: "Ana María"},
			wantFirst: ana,
		},
		{
			name:      "empty name leaves entry unchanged",
			id:        "1",
			prompter:  StaticPrompter{Surname: "López"},
			wantFirst: ana,
		},
		{
			name:      "cancelled prompt",
			id:        "1",
			prompter:  PromptFunc(func(types.Person) (types.Edit, bool) { return types.Edit{}, false }),
			wantFirst: ana,
		},
		{
			name:      "unknown id",
			id:        "42",
			prompter:  StaticPrompter{Name: "X", Surname: "Y"},
			wantFirst: ana,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counting := &countingKV{Store: kv.NewMemory()}
			s := newTestStore(t, counting)
			ctx := context.Background()
			_, err := s.Append(ctx, []types.Person{ana, luis, ana})
			require.NoError(t, err)
			before := stored(t, counting)
			sets := counting.sets

			changed, err := s.Edit(ctx, tt.id, tt.prompter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, got[0].Person)
			assert.Equal(t, luis, got[1].Person)
			assert.Equal(t, ana, got[2].Person, "only the first match is edited")
			assert.Len(t, got, 3)

			if !tt.wantChanged {
				assert.Equal(t, sets, counting.sets)
				assert.Equal(t, before, stored(t, counting))
			}
		})
	}
}

func TestEditPromptSeesCurrentValues(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	ctx := context.Background()
	_, err := s.Append(ctx, []types.Person{luis})
	require.NoError(t, err)

	var seen types.Person
	_, err = s.Edit(ctx, "2", PromptFunc(func(cur types.Person) (types.Edit, bool) {
		seen = cur
		return types.Edit{}, false
	}))
	require.NoError(t, err)
	assert.Equal(t, luis, seen)
}

func TestEditRefReachesIDLessEntry(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	ctx := context.Background()
	appended, err := s.Append(ctx, []types.Person{carla})
	require.NoError(t, err)

	changed, err := s.Edit(ctx, "", StaticPrompter{Name: "A", Surname: "B"})
	require.NoError(t, err)
	assert.False(t, changed, "id-based edit cannot address an id-less entry")

	changed, err = s.EditRef(ctx, appended[0].Ref, StaticPrompter{Name: "Carlota", Surname: "Ortiz Ruiz"})
	require.NoError(t, err)
	assert.True(t, changed)

	got := s.All()
	assert.Equal(t, "Carlota", types.ToString(got[0].Name))
	assert.Equal(t, "Ortiz Ruiz", types.ToString(got[0].Surname))
	assert.Equal(t, "Calle 5", types.ToString(got[0].Address))
	assert.Equal(t, appended[0].Ref, got[0].Ref)
}

// --- Observer ---

type recordingObserver struct {
	mutations []string
	size      int
}

func (r *recordingObserver) Mutation(op string, changed bool) {
	r.mutations = append(r.mutations, fmt.Sprintf("%s:%v", op, changed))
}

func (r *recordingObserver) ResultsSize(n int) { r.size = n }

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(kv.NewMemory(), "", zap.NewNop(), WithObserver(obs))
	ctx := context.Background()

	_, err := s.Append(ctx, []types.Person{ana, luis})
	require.NoError(t, err)
	_, err = s.Delete(ctx, "nope")
	require.NoError(t, err)
	_, err = s.Delete(ctx, "1")
	require.NoError(t, err)

	assert.Equal(t, []string{"append:true", "delete:false", "delete:true"}, obs.mutations)
	assert.Equal(t, 1, obs.size)
}
