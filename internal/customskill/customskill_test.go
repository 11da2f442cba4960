package customskill

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_MissingFile(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Get(context.Background(), "Asertividad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	put, err := s.Put(ctx, Skill{
		Name:        "Asertividad",
		Description: "Expresar opiniones con respeto",
		KeyPoints:   []string{"claridad"},
	})
	require.NoError(t, err)
	assert.False(t, put.CreatedAt.IsZero())
	assert.Equal(t, []string{}, put.Examples)

	got, err := s.Get(ctx, "Asertividad")
	require.NoError(t, err)
	assert.Equal(t, "Expresar opiniones con respeto", got.Description)
	assert.Equal(t, []string{"claridad"}, got.KeyPoints)
}

func TestPut_FileFormat(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Put(context.Background(), Skill{Name: "Negociación", Description: "d"})
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var raw map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "custom-skills")
	require.Contains(t, raw["custom-skills"], "Negociación")
	assert.Equal(t, "d", raw["custom-skills"]["Negociación"]["description"])
}

func TestPut_Validation(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	_, err := s.Put(ctx, Skill{Name: "  ", Description: "d"})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.Put(ctx, Skill{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPut_Upsert(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	_, err := s.Put(ctx, Skill{Name: "x", Description: "v1"})
	require.NoError(t, err)
	_, err = s.Put(ctx, Skill{Name: "x", Description: "v2"})
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "v2", all[0].Description)
}

func TestList_SortedAndCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(s.Path(), []byte("garbage"), 0o644))
	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, n := range []string{"b", "c", "a"} {
		_, err := s.Put(ctx, Skill{Name: n, Description: "d"})
		require.NoError(t, err)
	}
	all, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "c", all[2].Name)
}

func TestPut_Concurrent(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Put(ctx, Skill{Name: fmt.Sprintf("s%d", i), Description: "d"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
