package id_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/pkg/id"
)

func TestNewRequestID(t *testing.T) {
	rid := id.NewRequestID()
	assert.Len(t, rid, 26)
	assert.True(t, id.IsValidRequestID(rid))
}

func TestRequestIDMonotonic(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = id.NewRequestID()
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, ids, "ids generated in sequence must sort lexicographically")

	seen := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		_, dup := seen[v]
		require.False(t, dup, "duplicate id %s", v)
		seen[v] = struct{}{}
	}
}

func TestNewDocumentID(t *testing.T) {
	did := id.NewDocumentID()
	assert.Len(t, did, 36)
	assert.True(t, id.IsValidDocumentID(did))
	assert.False(t, id.IsValidDocumentID("not-a-uuid"))
}

func TestIsValidRequestIDRejectsGarbage(t *testing.T) {
	assert.False(t, id.IsValidRequestID(""))
	assert.False(t, id.IsValidRequestID("zzzz"))
	assert.False(t, id.IsValidRequestID(id.NewDocumentID()))
}
