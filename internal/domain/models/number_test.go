package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumberDecoding(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Number
	}{
		{"json number", `{"n": 12.5}`, Number{Value: 12.5, Set: true, Valid: true}},
		{"numeric string", `{"n": " 7 "}`, Number{Value: 7, Set: true, Valid: true}},
		{"absent", `{}`, Number{}},
		{"null", `{"n": null}`, Number{}},
		{"empty string", `{"n": ""}`, Number{}},
		{"word", `{"n": "ten"}`, Number{Set: true}},
		{"bool", `{"n": true}`, Number{Set: true}},
		{"nan string", `{"n": "NaN"}`, Number{Set: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got struct {
				N Number `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.body), &got))
			require.Equal(t, tc.want, got.N)
		})
	}
}

func TestNumberAccessors(t *testing.T) {
	require.Nil(t, Number{}.Ptr())
	require.Equal(t, 0.0, *Number{Set: true}.Ptr())
	require.Equal(t, 3.0, *NewNumber(3).Ptr())
	require.Equal(t, 0.0, Number{Value: 9, Set: true}.Float())
}

func TestFlagDecoding(t *testing.T) {
	cases := []struct {
		body string
		want Flag
	}{
		{`{"f": true}`, Flag{Value: true, Set: true, Valid: true}},
		{`{"f": "1"}`, Flag{Value: true, Set: true, Valid: true}},
		{`{"f": "False"}`, Flag{Set: true, Valid: true}},
		{`{"f": "yes"}`, Flag{Set: true}},
		{`{"f": 1}`, Flag{Value: true, Set: true, Valid: true}},
		{`{"f": 0}`, Flag{Set: true, Valid: true}},
		{`{"f": 2}`, Flag{Set: true}},
		{`{}`, Flag{}},
	}

	for _, tc := range cases {
		var got struct {
			F Flag `json:"f"`
		}
		require.NoError(t, json.Unmarshal([]byte(tc.body), &got), tc.body)
		require.Equal(t, tc.want, got.F, tc.body)
	}
	require.False(t, Flag{Value: true, Set: true}.Bool())
}
