package json_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/pkg/utils/json"
)

type payload struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := payload{Name: "report", Count: 3, Tags: []string{"a", "b"}}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalInvalidInput(t *testing.T) {
	var out payload
	assert.Error(t, json.Unmarshal([]byte("{not json"), &out))
}

func TestUnmarshalKeepsPresetFields(t *testing.T) {
	// 预填字段在输入缺省时保持不变, 解析链依赖这一行为设置默认值。
	out := payload{Count: 7}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &out))
	assert.Equal(t, "x", out.Name)
	assert.Equal(t, 7, out.Count)
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(payload{Name: "enc"}))
	assert.True(t, strings.Contains(buf.String(), `"enc"`))

	var out payload
	require.NoError(t, json.NewDecoder(&buf).Decode(&out))
	assert.Equal(t, "enc", out.Name)
}
