package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplementalRecordDecode(t *testing.T) {
	tests := []struct {
		name     string
		record   SupplementalQuestionRecord
		wantOK   bool
		wantKind SupplementalKind
		wantErr  bool
	}{
		{
			name: "selection",
			record: SupplementalQuestionRecord{QuestionNumber: 9, Kind: KindSelection, CorrectOptionID: "B",
				Options: json.RawMessage(`[{"optionId":"A","label":"A","value":0},{"optionId":"B","label":"B","value":2}]`)},
			wantOK:   true,
			wantKind: KindSelection,
		},
		{
			name:     "boost",
			record:   SupplementalQuestionRecord{QuestionNumber: 10, Kind: KindBoost, Options: json.RawMessage(`[{"optionId":"A","label":"A","boost":0.1}]`)},
			wantOK:   true,
			wantKind: KindBoost,
		},
		{
			name:   "unknown kind",
			record: SupplementalQuestionRecord{QuestionNumber: 11, Kind: "essay", Options: json.RawMessage(`[]`)},
		},
		{
			name:    "corrupt options",
			record:  SupplementalQuestionRecord{QuestionNumber: 9, Kind: KindSelection, Options: json.RawMessage(`{`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok, err := tt.record.Decode()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, q)
				return
			}
			assert.Equal(t, tt.wantKind, q.Kind())
			assert.Equal(t, tt.record.QuestionNumber, q.Number())
		})
	}
}

func TestNewSupplementalRecordRoundTrip(t *testing.T) {
	original := &SelectionQuestion{
		QuestionNumber:  9,
		Prompt:          "Pick one",
		CorrectOptionID: "B",
		Options:         []SelectionOption{{OptionID: "A", Label: "A", Value: 0}, {OptionID: "B", Label: "B", Value: 2}},
	}
	rec, err := NewSupplementalRecord(original)
	require.NoError(t, err)
	assert.Equal(t, KindSelection, rec.Kind)

	decoded, ok, err := rec.Decode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, original, decoded)

	opt, found := decoded.(*SelectionQuestion).Option("B")
	require.True(t, found)
	assert.Equal(t, 2, opt.Value)
	_, found = decoded.(*SelectionQuestion).Option("Z")
	assert.False(t, found)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM\t"))
	assert.Equal(t, "", NormalizeEmail("   "))
}
